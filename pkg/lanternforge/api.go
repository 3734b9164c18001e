// Package lanternforge is the embedding API: design a photonic lantern
// geometry, optimize fiber assignments against an external simulator, and
// inspect persisted runs. cmd/lanternforgectl is a thin shell over this
// package.
package lanternforge

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"lanternforge/internal/config"
	"lanternforge/internal/evo"
	"lanternforge/internal/fiber"
	"lanternforge/internal/layout"
	"lanternforge/internal/model"
	"lanternforge/internal/sim"
	"lanternforge/internal/storage"
	"lanternforge/internal/telemetry"
)

const defaultDBPath = "lanternforge.db"

type Options struct {
	StoreKind string
	DBPath    string
	LogLevel  string

	// Sink overrides the zap-backed telemetry sink; used by tests and
	// embedders with their own logging.
	Sink telemetry.Sink
}

type Client struct {
	store   storage.Store
	sink    telemetry.Sink
	catalog fiber.Catalog

	initialized bool
}

// DesignRequest describes a one-off lantern design with an explicit fiber
// assignment, no optimization.
type DesignRequest struct {
	Name             string
	HighestMode      string
	CladdingDia      float64
	TaperLength      float64
	CapillaryOD      float64
	FinalCapillaryID float64
	Samples          int
	FiberIndices     []int
	OutDir           string
	FiberTypes       []string // restrict the catalog; empty means all
}

type DesignSummary struct {
	Name         string
	DesignFile   string
	CapillaryDia float64
	CoreCount    int
	CoreIDs      []string
}

// OptimizeRequest configures a full optimization run.
type OptimizeRequest struct {
	Name             string
	HighestMode      string
	CladdingDia      float64
	TaperLength      float64
	CapillaryOD      float64
	FinalCapillaryID float64
	Samples          int

	PopulationSize int
	NumParents     int
	Generations    int
	Workers        int
	MutationRate   float64
	CrossoverRate  float64
	Seed           int64

	SimulatorBinary string
	OverlapBinary   string
	Hide            bool
	DataDir         string
	ModeFieldDia    float64
	GridPoints      int
	FiberTypes      []string

	// Evaluator overrides the simulator-backed evaluator; used by tests
	// and embedders with their own fitness function. When set, the
	// simulator fields above are ignored.
	Evaluator sim.Evaluator
}

type OptimizeSummary struct {
	RunID          string
	BestIndividual model.Individual
	BestFibers     []string
	BestFitness    float64
	BestGeneration int
	Generations    []model.GenerationDiagnostics
}

type RunsRequest struct {
	Limit int
}

type RunItem struct {
	RunID          string
	CreatedAtUTC   string
	HighestMode    string
	Seed           int64
	Population     int
	Generations    int
	BestFitness    float64
	BestIndividual model.Individual
}

func New(opts Options) (*Client, error) {
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	store, err := storage.NewStore(opts.StoreKind, dbPath)
	if err != nil {
		return nil, err
	}

	sink := opts.Sink
	if sink == nil {
		logger, err := telemetry.NewLogger(opts.LogLevel)
		if err != nil {
			return nil, err
		}
		sink = telemetry.NewZapSink(logger)
	}

	return &Client{
		store:   store,
		sink:    sink,
		catalog: fiber.Default(),
	}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) ensureInit(ctx context.Context) error {
	if c.initialized {
		return nil
	}
	if err := c.store.Init(ctx); err != nil {
		return err
	}
	c.initialized = true
	return nil
}

func (c *Client) catalogFor(types []string) (fiber.Catalog, error) {
	if len(types) == 0 {
		return c.catalog, nil
	}
	specs := make([]model.FiberSpec, len(types))
	for i, name := range types {
		spec, err := c.catalog.ByType(name)
		if err != nil {
			return fiber.Catalog{}, err
		}
		specs[i] = spec
	}
	return fiber.New(specs), nil
}

// Design builds the lantern geometry for an explicit fiber assignment and
// writes a design file. Geometry errors propagate; there is no fitness
// boundary to absorb them here.
func (c *Client) Design(ctx context.Context, req DesignRequest) (DesignSummary, error) {
	applyGeometryDefaults(&req.CladdingDia, &req.TaperLength, &req.CapillaryOD, &req.FinalCapillaryID, &req.Samples)
	if req.HighestMode == "" {
		req.HighestMode = config.DefaultHighestMode
	}
	if req.OutDir == "" {
		req.OutDir = "."
	}
	if req.Name == "" {
		req.Name = "lantern_" + req.HighestMode
	}

	catalog, err := c.catalogFor(req.FiberTypes)
	if err != nil {
		return DesignSummary{}, err
	}

	coreMap, capDia, err := layout.BuildCoreMap(req.HighestMode, req.CladdingDia)
	if err != nil {
		return DesignSummary{}, err
	}
	indices := req.FiberIndices
	if len(indices) == 0 {
		indices = make(model.Individual, coreMap.Len())
	}
	m, assignments, err := sim.BuildLantern(sim.LanternSpec{
		Catalog:          catalog,
		CoreMap:          coreMap,
		CapillaryID:      capDia,
		CapillaryOD:      req.CapillaryOD,
		FinalCapillaryID: req.FinalCapillaryID,
		CladdingDia:      req.CladdingDia,
		TaperLength:      req.TaperLength,
		Samples:          req.Samples,
	}, indices)
	if err != nil {
		return DesignSummary{}, err
	}

	if err := os.MkdirAll(req.OutDir, 0o755); err != nil {
		return DesignSummary{}, fmt.Errorf("create output dir: %w", err)
	}
	designFile, err := sim.WriteLanternDesign(ctx, sim.TextDesignSink{}, req.OutDir, req.Name,
		req.HighestMode, assignments, m, req.TaperLength, req.CladdingDia, capDia)
	if err != nil {
		return DesignSummary{}, err
	}

	return DesignSummary{
		Name:         req.Name,
		DesignFile:   filepath.Join(req.OutDir, designFile),
		CapillaryDia: capDia,
		CoreCount:    coreMap.Len(),
		CoreIDs:      coreMap.IDs(),
	}, nil
}

// Optimize runs the genetic search and persists the run record, diagnostics
// and fitness history.
func (c *Client) Optimize(ctx context.Context, req OptimizeRequest) (OptimizeSummary, error) {
	if err := c.ensureInit(ctx); err != nil {
		return OptimizeSummary{}, err
	}

	applyGeometryDefaults(&req.CladdingDia, &req.TaperLength, &req.CapillaryOD, &req.FinalCapillaryID, &req.Samples)
	if req.HighestMode == "" {
		req.HighestMode = config.DefaultHighestMode
	}
	if req.PopulationSize <= 0 {
		req.PopulationSize = config.DefaultPopulationSize
	}
	if req.Generations <= 0 {
		req.Generations = config.DefaultGenerations
	}
	if req.Workers <= 0 {
		req.Workers = config.DefaultWorkers
	}
	if req.MutationRate == 0 {
		req.MutationRate = config.DefaultMutationRate
	}
	if req.CrossoverRate == 0 {
		req.CrossoverRate = config.DefaultCrossoverRate
	}
	if req.DataDir == "" {
		req.DataDir = config.DefaultDataDir
	}
	if req.ModeFieldDia == 0 {
		req.ModeFieldDia = config.DefaultModeFieldDia
	}
	if req.GridPoints == 0 {
		req.GridPoints = config.DefaultGridPoints
	}
	if req.Seed == 0 {
		req.Seed = time.Now().UnixNano()
	}

	catalog, err := c.catalogFor(req.FiberTypes)
	if err != nil {
		return OptimizeSummary{}, err
	}

	runID := uuid.NewString()
	if req.Name != "" {
		runID = req.Name + "-" + runID[:8]
	}

	coreMap, _, err := layout.BuildCoreMap(req.HighestMode, req.CladdingDia)
	if err != nil {
		return OptimizeSummary{}, err
	}

	evaluator := req.Evaluator
	if evaluator == nil {
		runDir := filepath.Join(req.DataDir, runID)
		refDir := filepath.Join(runDir, "refmodes")
		ids, err := sim.GenerateReferenceModes(ctx, refDir, req.HighestMode, "ref", req.ModeFieldDia, req.GridPoints)
		if err != nil {
			return OptimizeSummary{}, err
		}
		evaluator, err = sim.NewSimEvaluator(sim.SimConfig{
			RunID:            runID,
			DataDir:          runDir,
			RefDir:           refDir,
			RefPrefix:        "ref",
			HighestMode:      req.HighestMode,
			NumModes:         len(ids),
			TaperLength:      req.TaperLength,
			CladdingDia:      req.CladdingDia,
			CapillaryOD:      req.CapillaryOD,
			FinalCapillaryID: req.FinalCapillaryID,
			Samples:          req.Samples,
			Catalog:          catalog,
			Design:           sim.TextDesignSink{},
			Runner: sim.Runner{
				Binary: req.SimulatorBinary,
				Hide:   req.Hide,
				Retry:  sim.DefaultRetryPolicy(),
			},
			Overlap: sim.OverlapTool{Binary: req.OverlapBinary},
			Sink:    c.sink,
		})
		if err != nil {
			return OptimizeSummary{}, err
		}
	}

	optimizer, err := evo.NewPopulationOptimizer(evo.OptimizerConfig{
		Evaluator:      evaluator,
		Sink:           c.sink,
		RunID:          runID,
		GeneValues:     catalog.Len(),
		PopulationSize: req.PopulationSize,
		NumParents:     req.NumParents,
		Generations:    req.Generations,
		Workers:        req.Workers,
		MutationRate:   req.MutationRate,
		CrossoverRate:  req.CrossoverRate,
		Seed:           req.Seed,
	})
	if err != nil {
		return OptimizeSummary{}, err
	}

	initial := evo.SeedPopulation(rand.New(rand.NewSource(req.Seed)), req.PopulationSize, coreMap.Len(), catalog.Len())
	result, err := optimizer.Run(ctx, initial)
	if err != nil {
		return OptimizeSummary{}, err
	}

	record := model.RunRecord{
		VersionedRecord: model.VersionedRecord{
			SchemaVersion: storage.CurrentSchemaVersion,
			CodecVersion:  storage.CurrentCodecVersion,
		},
		ID:             runID,
		CreatedAtUTC:   time.Now().UTC().Format(time.RFC3339),
		HighestMode:    req.HighestMode,
		Seed:           req.Seed,
		Population:     req.PopulationSize,
		Generations:    req.Generations,
		BestFitness:    result.BestFitness,
		BestIndividual: result.Best,
	}
	if err := c.store.SaveRun(ctx, record); err != nil {
		return OptimizeSummary{}, fmt.Errorf("persist run %s: %w", runID, err)
	}
	if err := c.store.SaveGenerationDiagnostics(ctx, runID, result.Diagnostics); err != nil {
		return OptimizeSummary{}, fmt.Errorf("persist diagnostics %s: %w", runID, err)
	}
	history := make([]float64, len(result.Diagnostics))
	for i, diag := range result.Diagnostics {
		history[i] = diag.BestFitness
	}
	if err := c.store.SaveFitnessHistory(ctx, runID, history); err != nil {
		return OptimizeSummary{}, fmt.Errorf("persist fitness history %s: %w", runID, err)
	}

	bestFibers := make([]string, len(result.Best))
	for i, idx := range result.Best {
		spec, err := catalog.ByIndex(idx)
		if err != nil {
			return OptimizeSummary{}, err
		}
		bestFibers[i] = spec.Type
	}

	return OptimizeSummary{
		RunID:          runID,
		BestIndividual: result.Best,
		BestFibers:     bestFibers,
		BestFitness:    result.BestFitness,
		BestGeneration: result.BestGeneration,
		Generations:    result.Diagnostics,
	}, nil
}

// Runs lists persisted runs, newest last.
func (c *Client) Runs(ctx context.Context, req RunsRequest) ([]RunItem, error) {
	if err := c.ensureInit(ctx); err != nil {
		return nil, err
	}

	records, err := c.store.ListRuns(ctx)
	if err != nil {
		return nil, err
	}
	if req.Limit > 0 && len(records) > req.Limit {
		records = records[len(records)-req.Limit:]
	}

	items := make([]RunItem, len(records))
	for i, record := range records {
		items[i] = RunItem{
			RunID:          record.ID,
			CreatedAtUTC:   record.CreatedAtUTC,
			HighestMode:    record.HighestMode,
			Seed:           record.Seed,
			Population:     record.Population,
			Generations:    record.Generations,
			BestFitness:    record.BestFitness,
			BestIndividual: record.BestIndividual,
		}
	}
	return items, nil
}

// Diagnostics returns the per-generation statistics of a persisted run.
func (c *Client) Diagnostics(ctx context.Context, runID string) ([]model.GenerationDiagnostics, error) {
	if err := c.ensureInit(ctx); err != nil {
		return nil, err
	}
	diagnostics, ok, err := c.store.GetGenerationDiagnostics(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no diagnostics for run %s", runID)
	}
	return diagnostics, nil
}

func applyGeometryDefaults(claddingDia, taperLength, capillaryOD, finalCapillaryID *float64, samples *int) {
	if *claddingDia == 0 {
		*claddingDia = config.DefaultCladdingDia
	}
	if *taperLength == 0 {
		*taperLength = config.DefaultTaperLength
	}
	if *capillaryOD == 0 {
		*capillaryOD = config.DefaultCapillaryOD
	}
	if *finalCapillaryID == 0 {
		*finalCapillaryID = config.DefaultFinalCapillaryID
	}
	if *samples == 0 {
		*samples = config.DefaultSamples
	}
}
