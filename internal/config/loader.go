package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "LANTERNFORGE"

// newViper builds a pre-configured viper instance: YAML file type,
// LANTERNFORGE_ env prefix, automatic env binding, and a "." to "_" key
// replacer so "optimizer.population_size" resolves to
// LANTERNFORGE_OPTIMIZER_POPULATION_SIZE.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Registering every key makes env-only overrides visible to Unmarshal.
	v.SetDefault("optimizer.population_size", DefaultPopulationSize)
	v.SetDefault("optimizer.num_parents", 0)
	v.SetDefault("optimizer.generations", DefaultGenerations)
	v.SetDefault("optimizer.mutation_rate", DefaultMutationRate)
	v.SetDefault("optimizer.crossover_rate", DefaultCrossoverRate)
	v.SetDefault("optimizer.seed", 0)
	v.SetDefault("optimizer.workers", DefaultWorkers)
	v.SetDefault("lantern.highest_mode", DefaultHighestMode)
	v.SetDefault("lantern.cladding_dia", DefaultCladdingDia)
	v.SetDefault("lantern.taper_length", DefaultTaperLength)
	v.SetDefault("lantern.capillary_od", DefaultCapillaryOD)
	v.SetDefault("lantern.final_capillary_id", DefaultFinalCapillaryID)
	v.SetDefault("lantern.samples", DefaultSamples)
	v.SetDefault("simulator.binary", DefaultSimulatorBinary)
	v.SetDefault("simulator.overlap_binary", DefaultOverlapBinary)
	v.SetDefault("simulator.hide", false)
	v.SetDefault("simulator.data_dir", DefaultDataDir)
	v.SetDefault("simulator.mode_field_dia", DefaultModeFieldDia)
	v.SetDefault("simulator.grid_points", DefaultGridPoints)
	v.SetDefault("fibers.types", []string{})
	v.SetDefault("storage.kind", DefaultStoreKind)
	v.SetDefault("storage.sqlite_path", "")
	v.SetDefault("log.level", DefaultLogLevel)
	return v
}

// Load reads the YAML file at configPath, merges LANTERNFORGE_* environment
// overrides, applies defaults for unset fields, and validates the result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read config file %q: %w", configPath, err)
	}
	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config from LANTERNFORGE_* environment variables and
// defaults alone, no config file required.
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}
	return cfg, nil
}

func newFieldError(field, reason string) error {
	return fmt.Errorf("config: %s %s", field, reason)
}
