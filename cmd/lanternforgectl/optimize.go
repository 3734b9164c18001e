package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lanternforge/pkg/lanternforge"
)

func newOptimizeCommand(opts *rootOptions) *cobra.Command {
	var (
		name        string
		mode        string
		population  int
		generations int
		seed        int64
		workers     int
	)

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Run a genetic search over fiber assignments",
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

			req := lanternforge.OptimizeRequest{
				Name:             name,
				HighestMode:      cfg.Lantern.HighestMode,
				CladdingDia:      cfg.Lantern.CladdingDia,
				TaperLength:      cfg.Lantern.TaperLength,
				CapillaryOD:      cfg.Lantern.CapillaryOD,
				FinalCapillaryID: cfg.Lantern.FinalCapillaryID,
				Samples:          cfg.Lantern.Samples,
				PopulationSize:   cfg.Optimizer.PopulationSize,
				NumParents:       cfg.Optimizer.NumParents,
				Generations:      cfg.Optimizer.Generations,
				Workers:          cfg.Optimizer.Workers,
				MutationRate:     cfg.Optimizer.MutationRate,
				CrossoverRate:    cfg.Optimizer.CrossoverRate,
				Seed:             cfg.Optimizer.Seed,
				SimulatorBinary:  cfg.Simulator.Binary,
				OverlapBinary:    cfg.Simulator.OverlapBinary,
				Hide:             cfg.Simulator.Hide,
				DataDir:          cfg.Simulator.DataDir,
				ModeFieldDia:     cfg.Simulator.ModeFieldDia,
				GridPoints:       cfg.Simulator.GridPoints,
				FiberTypes:       cfg.Fibers.Types,
			}
			if mode != "" {
				req.HighestMode = mode
			}
			if population > 0 {
				req.PopulationSize = population
			}
			if generations > 0 {
				req.Generations = generations
			}
			if seed != 0 {
				req.Seed = seed
			}
			if workers > 0 {
				req.Workers = workers
			}

			summary, err := client.Optimize(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "run:             %s\n", summary.RunID)
			fmt.Fprintf(out, "best fitness:    %.6f (generation %d)\n", summary.BestFitness, summary.BestGeneration)
			fmt.Fprintf(out, "best assignment: %v\n", summary.BestIndividual)
			for i, fiberType := range summary.BestFibers {
				fmt.Fprintf(out, "  core %d: %s\n", i, fiberType)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "run name prefix for the run id")
	cmd.Flags().StringVar(&mode, "mode", "", "highest supported LP mode, e.g. LP11")
	cmd.Flags().IntVar(&population, "population", 0, "population size")
	cmd.Flags().IntVar(&generations, "generations", 0, "generation budget")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (default time-based)")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel evaluation workers")
	return cmd
}
