// Package telemetry is the event sink threaded through the optimizer and
// the fitness evaluator. Components receive a Sink via constructor
// injection; there is no package-level logger.
package telemetry

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"lanternforge/internal/model"
)

// Sink receives optimization-run events.
type Sink interface {
	RunStarted(runID string, population, generations int)
	GenerationEvaluated(runID string, diag model.GenerationDiagnostics)
	NewBest(runID string, generation int, individual model.Individual, fitness float64)
	EvaluationFailed(runID, coreID string, kind string, err error)
	DegenerateSelection(runID string, generation int)
	RunFinished(runID string, best model.Individual, fitness float64)
}

// NopSink discards every event. Used in tests and as the default when no
// sink is configured.
type NopSink struct{}

func (NopSink) RunStarted(string, int, int)                             {}
func (NopSink) GenerationEvaluated(string, model.GenerationDiagnostics) {}
func (NopSink) NewBest(string, int, model.Individual, float64)          {}
func (NopSink) EvaluationFailed(string, string, string, error)          {}
func (NopSink) DegenerateSelection(string, int)                         {}
func (NopSink) RunFinished(string, model.Individual, float64)           {}

// ZapSink writes events to a zap logger.
type ZapSink struct {
	log *zap.Logger
}

// NewZapSink wraps a zap logger as a Sink.
func NewZapSink(log *zap.Logger) *ZapSink {
	return &ZapSink{log: log}
}

func (s *ZapSink) RunStarted(runID string, population, generations int) {
	s.log.Info("run started",
		zap.String("run_id", runID),
		zap.Int("population", population),
		zap.Int("generations", generations))
}

func (s *ZapSink) GenerationEvaluated(runID string, diag model.GenerationDiagnostics) {
	s.log.Info("generation evaluated",
		zap.String("run_id", runID),
		zap.Int("generation", diag.Generation),
		zap.Float64("best", diag.BestFitness),
		zap.Float64("mean", diag.MeanFitness),
		zap.Float64("min", diag.MinFitness),
		zap.Float64("stddev", diag.StdDev),
		zap.Int("failures", diag.Failures))
}

func (s *ZapSink) NewBest(runID string, generation int, individual model.Individual, fitness float64) {
	s.log.Info("new best individual",
		zap.String("run_id", runID),
		zap.Int("generation", generation),
		zap.Ints("individual", individual),
		zap.Float64("fitness", fitness))
}

func (s *ZapSink) EvaluationFailed(runID, coreID string, kind string, err error) {
	s.log.Warn("evaluation failed, fitness degraded to 0",
		zap.String("run_id", runID),
		zap.String("individual", coreID),
		zap.String("kind", kind),
		zap.Error(err))
}

func (s *ZapSink) DegenerateSelection(runID string, generation int) {
	s.log.Warn("all-zero fitness generation, falling back to uniform selection",
		zap.String("run_id", runID),
		zap.Int("generation", generation))
}

func (s *ZapSink) RunFinished(runID string, best model.Individual, fitness float64) {
	s.log.Info("run finished",
		zap.String("run_id", runID),
		zap.Ints("best_individual", best),
		zap.Float64("best_fitness", fitness))
}

// NewLogger builds a production zap logger at the given level ("debug",
// "info", "warn", "error"; empty means "info").
func NewLogger(level string) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("telemetry: parse log level %q: %w", level, err)
		}
		lvl = parsed
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
