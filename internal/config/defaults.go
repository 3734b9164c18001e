package config

const (
	DefaultPopulationSize = 20
	DefaultGenerations    = 10
	DefaultMutationRate   = 0.1
	DefaultCrossoverRate  = 0.7
	DefaultWorkers        = 1

	DefaultHighestMode      = "LP11"
	DefaultCladdingDia      = 125.0
	DefaultTaperLength      = 40000.0
	DefaultCapillaryOD      = 900.0
	DefaultFinalCapillaryID = 40.0
	DefaultSamples          = 100

	DefaultSimulatorBinary = "fibersim"
	DefaultOverlapBinary   = "fiberoverlap"
	DefaultDataDir         = "data"
	DefaultModeFieldDia    = 10.4
	DefaultGridPoints      = 200

	DefaultStoreKind = "memory"
	DefaultLogLevel  = "info"
)

// ApplyDefaults fills zero-value fields with well-known defaults. Explicit
// configuration always wins; call after unmarshalling and before Validate.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Optimizer.PopulationSize == 0 {
		cfg.Optimizer.PopulationSize = DefaultPopulationSize
	}
	if cfg.Optimizer.Generations == 0 {
		cfg.Optimizer.Generations = DefaultGenerations
	}
	if cfg.Optimizer.MutationRate == 0 {
		cfg.Optimizer.MutationRate = DefaultMutationRate
	}
	if cfg.Optimizer.CrossoverRate == 0 {
		cfg.Optimizer.CrossoverRate = DefaultCrossoverRate
	}
	if cfg.Optimizer.Workers == 0 {
		cfg.Optimizer.Workers = DefaultWorkers
	}

	if cfg.Lantern.HighestMode == "" {
		cfg.Lantern.HighestMode = DefaultHighestMode
	}
	if cfg.Lantern.CladdingDia == 0 {
		cfg.Lantern.CladdingDia = DefaultCladdingDia
	}
	if cfg.Lantern.TaperLength == 0 {
		cfg.Lantern.TaperLength = DefaultTaperLength
	}
	if cfg.Lantern.CapillaryOD == 0 {
		cfg.Lantern.CapillaryOD = DefaultCapillaryOD
	}
	if cfg.Lantern.FinalCapillaryID == 0 {
		cfg.Lantern.FinalCapillaryID = DefaultFinalCapillaryID
	}
	if cfg.Lantern.Samples == 0 {
		cfg.Lantern.Samples = DefaultSamples
	}

	if cfg.Simulator.Binary == "" {
		cfg.Simulator.Binary = DefaultSimulatorBinary
	}
	if cfg.Simulator.OverlapBinary == "" {
		cfg.Simulator.OverlapBinary = DefaultOverlapBinary
	}
	if cfg.Simulator.DataDir == "" {
		cfg.Simulator.DataDir = DefaultDataDir
	}
	if cfg.Simulator.ModeFieldDia == 0 {
		cfg.Simulator.ModeFieldDia = DefaultModeFieldDia
	}
	if cfg.Simulator.GridPoints == 0 {
		cfg.Simulator.GridPoints = DefaultGridPoints
	}

	if cfg.Storage.Kind == "" {
		cfg.Storage.Kind = DefaultStoreKind
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
}
