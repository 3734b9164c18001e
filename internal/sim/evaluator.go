package sim

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"lanternforge/internal/fiber"
	"lanternforge/internal/layout"
	"lanternforge/internal/model"
	"lanternforge/internal/telemetry"
)

// Failure kinds reported through telemetry when an evaluation degrades to
// zero fitness.
const (
	FailureGeometry   = "geometry"
	FailureAssignment = "assignment"
	FailureDesign     = "design"
	FailureSimulation = "simulation"
	FailureOverlap    = "overlap"
	FailureWorkspace  = "workspace"
)

// Result is one individual's evaluation outcome. Failure is empty on
// success; on failure Fitness is 0 and Err carries the cause.
type Result struct {
	Fitness float64
	Failure string
	Err     error
}

// Evaluator scores a fiber-index assignment. Implementations never return
// an error: any failure degrades to a zero-fitness Result so the optimizer
// keeps running.
type Evaluator interface {
	Evaluate(ctx context.Context, ind model.Individual) Result
}

// SimConfig parameterizes a SimEvaluator.
type SimConfig struct {
	RunID       string
	DataDir     string // per-individual workdirs are created under here
	RefDir      string // precomputed reference mode fields
	RefPrefix   string
	HighestMode string
	NumModes    int // mode files per simulation run

	TaperLength      float64
	CladdingDia      float64
	CapillaryOD      float64
	FinalCapillaryID float64
	Samples          int

	Catalog fiber.Catalog
	Design  DesignSink
	Runner  Runner
	Overlap OverlapTool
	Sink    telemetry.Sink

	// KeepFiles lists filepath.Match patterns preserved when a workdir is
	// cleaned after evaluation. Empty means keep only the design file.
	KeepFiles []string
}

// SimEvaluator evaluates individuals by building the lantern geometry,
// writing a design, running the simulator, and scoring the simulated
// output against the reference modes with the overlap utility.
type SimEvaluator struct {
	cfg     SimConfig
	coreMap model.CoreMap
	capDia  float64
}

// NewSimEvaluator validates the config and precomputes the core map, which
// depends only on the highest mode and cladding diameter, not on the
// individual under evaluation.
func NewSimEvaluator(cfg SimConfig) (*SimEvaluator, error) {
	switch {
	case cfg.RunID == "":
		return nil, fmt.Errorf("sim: run id must be set")
	case cfg.DataDir == "":
		return nil, fmt.Errorf("sim: data dir must be set")
	case cfg.NumModes <= 0:
		return nil, fmt.Errorf("sim: num modes %d must be > 0", cfg.NumModes)
	case cfg.Samples < 2:
		return nil, fmt.Errorf("sim: samples %d must be >= 2", cfg.Samples)
	case cfg.Design == nil:
		return nil, fmt.Errorf("sim: design sink must be set")
	}
	if cfg.Sink == nil {
		cfg.Sink = telemetry.NopSink{}
	}
	coreMap, capDia, err := layout.BuildCoreMap(cfg.HighestMode, cfg.CladdingDia)
	if err != nil {
		return nil, err
	}
	return &SimEvaluator{cfg: cfg, coreMap: coreMap, capDia: capDia}, nil
}

// CoreMap exposes the core layout the evaluator scores against. The
// ordered core IDs define the meaning of each gene in an individual.
func (e *SimEvaluator) CoreMap() model.CoreMap { return e.coreMap }

// Evaluate runs the full pipeline for one individual. The workdir name
// encodes the individual's genes so failed runs can be inspected after the
// fact.
func (e *SimEvaluator) Evaluate(ctx context.Context, ind model.Individual) Result {
	label := "eval_" + geneLabel(ind)
	workDir := filepath.Join(e.cfg.DataDir, WorkdirName(label))
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return e.fail(label, FailureWorkspace, fmt.Errorf("sim: create workdir: %w", err))
	}

	m, assignments, err := BuildLantern(LanternSpec{
		Catalog:          e.cfg.Catalog,
		CoreMap:          e.coreMap,
		CapillaryID:      e.capDia,
		CapillaryOD:      e.cfg.CapillaryOD,
		FinalCapillaryID: e.cfg.FinalCapillaryID,
		CladdingDia:      e.cfg.CladdingDia,
		TaperLength:      e.cfg.TaperLength,
		Samples:          e.cfg.Samples,
	}, ind)
	if err != nil {
		if errors.Is(err, layout.ErrInvalidGeometry) {
			return e.fail(label, FailureGeometry, err)
		}
		return e.fail(label, FailureAssignment, err)
	}

	designFile, err := WriteLanternDesign(ctx, e.cfg.Design, workDir, label,
		e.cfg.HighestMode, assignments, m, e.cfg.TaperLength, e.cfg.CladdingDia, e.capDia)
	if err != nil {
		return e.fail(label, FailureDesign, err)
	}

	if err := e.cfg.Runner.Run(ctx, workDir, designFile, label); err != nil {
		if ctx.Err() != nil {
			return Result{Failure: FailureSimulation, Err: ctx.Err()}
		}
		return e.fail(label, FailureSimulation, err)
	}

	total, err := e.cfg.Overlap.TotalSquared(ctx, workDir, label,
		e.cfg.RefDir, e.cfg.RefPrefix, e.cfg.NumModes)
	if err != nil {
		if ctx.Err() != nil {
			return Result{Failure: FailureOverlap, Err: ctx.Err()}
		}
		return e.fail(label, FailureOverlap, err)
	}
	if total < 0 {
		total = 0
	}

	keep := e.cfg.KeepFiles
	if len(keep) == 0 {
		keep = []string{designFile}
	}
	if err := CleanDir(workDir, keep...); err != nil {
		// Scoring already succeeded; a cleanup failure only leaks disk.
		e.cfg.Sink.EvaluationFailed(e.cfg.RunID, label, FailureWorkspace, err)
	}
	return Result{Fitness: total}
}

func (e *SimEvaluator) fail(label, kind string, err error) Result {
	e.cfg.Sink.EvaluationFailed(e.cfg.RunID, label, kind, err)
	return Result{Failure: kind, Err: err}
}

func geneLabel(ind model.Individual) string {
	parts := make([]string, len(ind))
	for i, g := range ind {
		parts[i] = fmt.Sprintf("%d", g)
	}
	return strings.Join(parts, "_")
}
