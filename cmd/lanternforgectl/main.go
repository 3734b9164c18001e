// Command lanternforgectl designs photonic lanterns and drives fiber
// assignment optimization runs from the terminal.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lanternforge/internal/config"
	"lanternforge/pkg/lanternforge"
)

type rootOptions struct {
	configPath string
	storeKind  string
	dbPath     string
	logLevel   string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "lanternforgectl",
		Short:         "Design and optimize mode-selective photonic lanterns",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "config file path (YAML); LANTERNFORGE_* env vars override")
	pf.StringVar(&opts.storeKind, "store", "", "run store backend (memory, sqlite)")
	pf.StringVar(&opts.dbPath, "db", "", "sqlite database path")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(newDesignCommand(opts))
	cmd.AddCommand(newOptimizeCommand(opts))
	cmd.AddCommand(newRunsCommand(opts))
	return cmd
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if o.configPath != "" {
		cfg, err = config.Load(o.configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return nil, err
	}
	if o.storeKind != "" {
		cfg.Storage.Kind = o.storeKind
	}
	if o.dbPath != "" {
		cfg.Storage.SQLitePath = o.dbPath
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	return cfg, nil
}

func (o *rootOptions) newClient(cfg *config.Config) (*lanternforge.Client, error) {
	return lanternforge.New(lanternforge.Options{
		StoreKind: cfg.Storage.Kind,
		DBPath:    cfg.Storage.SQLitePath,
		LogLevel:  cfg.Log.Level,
	})
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "lanternforgectl: %v\n", err)
		os.Exit(1)
	}
}
