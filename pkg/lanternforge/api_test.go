package lanternforge

import (
	"context"
	"os"
	"strings"
	"testing"

	"lanternforge/internal/model"
	"lanternforge/internal/sim"
	"lanternforge/internal/telemetry"
)

type stubEvaluator struct{}

func (stubEvaluator) Evaluate(_ context.Context, ind model.Individual) sim.Result {
	total := 0.0
	for _, g := range ind {
		total += float64(g)
	}
	return sim.Result{Fitness: total}
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := New(Options{StoreKind: "memory", Sink: telemetry.NopSink{}})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client
}

func TestClientDesign(t *testing.T) {
	client := newTestClient(t)

	summary, err := client.Design(context.Background(), DesignRequest{
		Name:         "lp11_test",
		HighestMode:  "LP11",
		FiberIndices: []int{0, 1, 2},
		OutDir:       t.TempDir(),
	})
	if err != nil {
		t.Fatalf("design: %v", err)
	}
	if summary.CoreCount != 3 {
		t.Fatalf("unexpected core count: %d", summary.CoreCount)
	}
	if summary.CapillaryDia <= 125 {
		t.Fatalf("capillary must exceed a single cladding: %v", summary.CapillaryDia)
	}

	data, err := os.ReadFile(summary.DesignFile)
	if err != nil {
		t.Fatalf("read design: %v", err)
	}
	if !strings.Contains(string(data), "highest_mode LP11") {
		t.Fatalf("design file missing mode header:\n%s", data)
	}
	for _, id := range []string{"LP01", "LP11a", "LP11b"} {
		if !strings.Contains(string(data), "core "+id) {
			t.Fatalf("design file missing core %s:\n%s", id, data)
		}
	}
}

func TestClientDesignRejectsBadAssignment(t *testing.T) {
	client := newTestClient(t)

	_, err := client.Design(context.Background(), DesignRequest{
		HighestMode:  "LP11",
		FiberIndices: []int{0},
		OutDir:       t.TempDir(),
	})
	if err == nil {
		t.Fatal("expected assignment length error")
	}
}

func TestClientOptimizeAndRuns(t *testing.T) {
	client := newTestClient(t)

	summary, err := client.Optimize(context.Background(), OptimizeRequest{
		HighestMode:    "LP11",
		PopulationSize: 8,
		Generations:    3,
		Seed:           42,
		Workers:        2,
		Evaluator:      stubEvaluator{},
	})
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	if summary.RunID == "" {
		t.Fatal("expected run id")
	}
	if len(summary.Generations) != 3 {
		t.Fatalf("unexpected diagnostics length: %d", len(summary.Generations))
	}
	if len(summary.BestIndividual) != 3 || len(summary.BestFibers) != 3 {
		t.Fatalf("unexpected best shape: %+v", summary)
	}

	runs, err := client.Runs(context.Background(), RunsRequest{Limit: 5})
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	if len(runs) != 1 || runs[0].RunID != summary.RunID {
		t.Fatalf("expected run %s in list: %+v", summary.RunID, runs)
	}
	if runs[0].BestFitness != summary.BestFitness {
		t.Fatalf("persisted fitness mismatch: %+v", runs[0])
	}

	diagnostics, err := client.Diagnostics(context.Background(), summary.RunID)
	if err != nil {
		t.Fatalf("diagnostics: %v", err)
	}
	if len(diagnostics) != 3 {
		t.Fatalf("unexpected diagnostics: %+v", diagnostics)
	}
}

func TestClientOptimizeDeterministicWithSeed(t *testing.T) {
	first, err := newTestClient(t).Optimize(context.Background(), OptimizeRequest{
		HighestMode:    "LP11",
		PopulationSize: 8,
		Generations:    3,
		Seed:           7,
		Evaluator:      stubEvaluator{},
	})
	if err != nil {
		t.Fatalf("first optimize: %v", err)
	}
	second, err := newTestClient(t).Optimize(context.Background(), OptimizeRequest{
		HighestMode:    "LP11",
		PopulationSize: 8,
		Generations:    3,
		Seed:           7,
		Evaluator:      stubEvaluator{},
	})
	if err != nil {
		t.Fatalf("second optimize: %v", err)
	}
	if !first.BestIndividual.Equal(second.BestIndividual) || first.BestFitness != second.BestFitness {
		t.Fatalf("same seed produced different results: %+v vs %+v", first, second)
	}
}

func TestClientOptimizeRestrictedCatalog(t *testing.T) {
	client := newTestClient(t)

	summary, err := client.Optimize(context.Background(), OptimizeRequest{
		HighestMode:    "LP11",
		PopulationSize: 6,
		Generations:    2,
		Seed:           3,
		FiberTypes:     []string{"SMF-28e", "HI1060"},
		Evaluator:      stubEvaluator{},
	})
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	for _, name := range summary.BestFibers {
		if name != "SMF-28e" && name != "HI1060" {
			t.Fatalf("fiber outside restricted catalog: %s", name)
		}
	}
}

func TestClientDiagnosticsMissingRun(t *testing.T) {
	client := newTestClient(t)
	if _, err := client.Diagnostics(context.Background(), "missing"); err == nil {
		t.Fatal("expected error for unknown run")
	}
}
