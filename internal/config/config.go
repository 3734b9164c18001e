// Package config defines the configuration surface of a lantern
// optimization run. Only plain data types and validation live here; loading
// is in loader.go.
package config

// OptimizerConfig holds the genetic-search tunables.
type OptimizerConfig struct {
	PopulationSize int     `mapstructure:"population_size"`
	NumParents     int     `mapstructure:"num_parents"` // 0 means population_size
	Generations    int     `mapstructure:"generations"`
	MutationRate   float64 `mapstructure:"mutation_rate"`
	CrossoverRate  float64 `mapstructure:"crossover_rate"`
	Seed           int64   `mapstructure:"seed"`
	Workers        int     `mapstructure:"workers"`
}

// LanternConfig holds the lantern geometry parameters, lengths in microns.
type LanternConfig struct {
	HighestMode      string  `mapstructure:"highest_mode"`
	CladdingDia      float64 `mapstructure:"cladding_dia"`
	TaperLength      float64 `mapstructure:"taper_length"`
	CapillaryOD      float64 `mapstructure:"capillary_od"`
	FinalCapillaryID float64 `mapstructure:"final_capillary_id"`
	Samples          int     `mapstructure:"samples"`
}

// SimulatorConfig points at the external simulation toolchain.
type SimulatorConfig struct {
	Binary        string  `mapstructure:"binary"`
	OverlapBinary string  `mapstructure:"overlap_binary"`
	Hide          bool    `mapstructure:"hide"`
	DataDir       string  `mapstructure:"data_dir"`
	ModeFieldDia  float64 `mapstructure:"mode_field_dia"`
	GridPoints    int     `mapstructure:"grid_points"`
}

// FiberConfig restricts the fiber catalog; empty means the full default
// catalog.
type FiberConfig struct {
	Types []string `mapstructure:"types"`
}

// StorageConfig selects the run-record backend.
type StorageConfig struct {
	Kind       string `mapstructure:"kind"` // "memory" | "sqlite"
	SQLitePath string `mapstructure:"sqlite_path"`
}

// LogConfig holds logging tunables.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Config is the root configuration.
type Config struct {
	Optimizer OptimizerConfig `mapstructure:"optimizer"`
	Lantern   LanternConfig   `mapstructure:"lantern"`
	Simulator SimulatorConfig `mapstructure:"simulator"`
	Fibers    FiberConfig     `mapstructure:"fibers"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Log       LogConfig       `mapstructure:"log"`
}

// Validate checks the fields a run cannot start without. Geometry values
// are validated again, in depth, by the packages that consume them.
func (c *Config) Validate() error {
	if c.Optimizer.PopulationSize <= 0 {
		return newFieldError("optimizer.population_size", "must be > 0")
	}
	if c.Optimizer.Generations <= 0 {
		return newFieldError("optimizer.generations", "must be > 0")
	}
	if c.Optimizer.MutationRate < 0 || c.Optimizer.MutationRate > 1 {
		return newFieldError("optimizer.mutation_rate", "must be in [0, 1]")
	}
	if c.Optimizer.CrossoverRate < 0 || c.Optimizer.CrossoverRate > 1 {
		return newFieldError("optimizer.crossover_rate", "must be in [0, 1]")
	}
	if c.Optimizer.Workers < 0 {
		return newFieldError("optimizer.workers", "must be >= 0")
	}
	if c.Lantern.HighestMode == "" {
		return newFieldError("lantern.highest_mode", "is required")
	}
	if c.Lantern.CladdingDia <= 0 {
		return newFieldError("lantern.cladding_dia", "must be > 0")
	}
	if c.Lantern.TaperLength <= 0 {
		return newFieldError("lantern.taper_length", "must be > 0")
	}
	if c.Lantern.CapillaryOD <= 0 {
		return newFieldError("lantern.capillary_od", "must be > 0")
	}
	if c.Lantern.FinalCapillaryID <= 0 {
		return newFieldError("lantern.final_capillary_id", "must be > 0")
	}
	if c.Lantern.Samples < 2 {
		return newFieldError("lantern.samples", "must be >= 2")
	}
	if c.Storage.Kind == "sqlite" && c.Storage.SQLitePath == "" {
		return newFieldError("storage.sqlite_path", "is required for the sqlite backend")
	}
	return nil
}
