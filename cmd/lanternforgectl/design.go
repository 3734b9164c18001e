package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lanternforge/pkg/lanternforge"
)

func newDesignCommand(opts *rootOptions) *cobra.Command {
	var (
		name         string
		mode         string
		claddingDia  float64
		taperLength  float64
		outDir       string
		fiberIndices []int
		fiberTypes   []string
	)

	cmd := &cobra.Command{
		Use:   "design",
		Short: "Build one lantern geometry and write its design file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			client, err := opts.newClient(cfg)
			if err != nil {
				return err
			}
			defer client.Close()

			if mode == "" {
				mode = cfg.Lantern.HighestMode
			}
			if claddingDia == 0 {
				claddingDia = cfg.Lantern.CladdingDia
			}
			if taperLength == 0 {
				taperLength = cfg.Lantern.TaperLength
			}
			if len(fiberTypes) == 0 {
				fiberTypes = cfg.Fibers.Types
			}

			summary, err := client.Design(cmd.Context(), lanternforge.DesignRequest{
				Name:             name,
				HighestMode:      mode,
				CladdingDia:      claddingDia,
				TaperLength:      taperLength,
				CapillaryOD:      cfg.Lantern.CapillaryOD,
				FinalCapillaryID: cfg.Lantern.FinalCapillaryID,
				Samples:          cfg.Lantern.Samples,
				FiberIndices:     fiberIndices,
				OutDir:           outDir,
				FiberTypes:       fiberTypes,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "design:        %s\n", summary.DesignFile)
			fmt.Fprintf(out, "cores:         %d (%v)\n", summary.CoreCount, summary.CoreIDs)
			fmt.Fprintf(out, "capillary dia: %.2f um\n", summary.CapillaryDia)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "design name (default derived from the highest mode)")
	cmd.Flags().StringVar(&mode, "mode", "", "highest supported LP mode, e.g. LP11")
	cmd.Flags().Float64Var(&claddingDia, "cladding", 0, "untapered cladding diameter in microns")
	cmd.Flags().Float64Var(&taperLength, "taper-length", 0, "taper length in microns")
	cmd.Flags().StringVar(&outDir, "out", ".", "output directory")
	cmd.Flags().IntSliceVar(&fiberIndices, "fibers", nil, "per-core fiber catalog indices (default all zero)")
	cmd.Flags().StringSliceVar(&fiberTypes, "fiber-types", nil, "restrict the fiber catalog to these types")
	return cmd
}
