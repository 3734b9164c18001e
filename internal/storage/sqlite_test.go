package storage

import (
	"context"
	"path/filepath"
	"testing"

	"lanternforge/internal/model"
)

func TestSQLiteStoreRunRoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "lanternforge.db")

	store := NewSQLiteStore(dbPath)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	run := model.RunRecord{
		VersionedRecord: model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion},
		ID:              "run-1",
		CreatedAtUTC:    "2026-08-30T12:00:00Z",
		HighestMode:     "LP21",
		Seed:            7,
		Population:      16,
		Generations:     8,
		BestFitness:     3.75,
		BestIndividual:  model.Individual{2, 0, 1, 1, 0, 2},
	}
	if err := store.SaveRun(ctx, run); err != nil {
		t.Fatalf("save run: %v", err)
	}

	loaded, ok, err := store.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if !ok {
		t.Fatalf("expected run %s", run.ID)
	}
	if loaded.HighestMode != run.HighestMode || !loaded.BestIndividual.Equal(run.BestIndividual) {
		t.Fatalf("unexpected run loaded: %+v", loaded)
	}

	// Upsert overwrites in place.
	run.BestFitness = 4.0
	if err := store.SaveRun(ctx, run); err != nil {
		t.Fatalf("resave run: %v", err)
	}
	loaded, _, err = store.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("get run after upsert: %v", err)
	}
	if loaded.BestFitness != 4.0 {
		t.Fatalf("upsert did not overwrite: %+v", loaded)
	}
}

func TestSQLiteStoreListRuns(t *testing.T) {
	ctx := context.Background()
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "lanternforge.db"))
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	for _, run := range []model.RunRecord{
		{
			VersionedRecord: model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion},
			ID:              "later", CreatedAtUTC: "2026-08-30T12:00:00Z",
		},
		{
			VersionedRecord: model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion},
			ID:              "earlier", CreatedAtUTC: "2026-08-29T12:00:00Z",
		},
	} {
		if err := store.SaveRun(ctx, run); err != nil {
			t.Fatalf("save run %s: %v", run.ID, err)
		}
	}

	runs, err := store.ListRuns(ctx)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "earlier" || runs[1].ID != "later" {
		t.Fatalf("unexpected run order: %+v", runs)
	}
}

func TestSQLiteStoreDiagnosticsAndHistory(t *testing.T) {
	ctx := context.Background()
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "lanternforge.db"))
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	diagnostics := []model.GenerationDiagnostics{
		{Generation: 1, BestFitness: 1.5, MeanFitness: 0.9, MinFitness: 0.1, StdDev: 0.4, Failures: 2},
	}
	if err := store.SaveGenerationDiagnostics(ctx, "run-1", diagnostics); err != nil {
		t.Fatalf("save diagnostics: %v", err)
	}
	loadedDiagnostics, ok, err := store.GetGenerationDiagnostics(ctx, "run-1")
	if err != nil {
		t.Fatalf("get diagnostics: %v", err)
	}
	if !ok || len(loadedDiagnostics) != 1 || loadedDiagnostics[0].Failures != 2 {
		t.Fatalf("unexpected diagnostics: %+v", loadedDiagnostics)
	}

	history := []float64{1.5, 1.8, 2.1}
	if err := store.SaveFitnessHistory(ctx, "run-1", history); err != nil {
		t.Fatalf("save history: %v", err)
	}
	loadedHistory, ok, err := store.GetFitnessHistory(ctx, "run-1")
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	if !ok || len(loadedHistory) != 3 || loadedHistory[2] != 2.1 {
		t.Fatalf("unexpected history: %+v", loadedHistory)
	}
}

func TestSQLiteStoreRequiresInit(t *testing.T) {
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "lanternforge.db"))
	if _, _, err := store.GetRun(context.Background(), "run-1"); err == nil {
		t.Fatal("expected error before Init")
	}
}

func TestSQLiteStoreVersionMismatch(t *testing.T) {
	ctx := context.Background()
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "lanternforge.db"))
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	run := model.RunRecord{
		VersionedRecord: model.VersionedRecord{SchemaVersion: 99, CodecVersion: CurrentCodecVersion},
		ID:              "run-1",
	}
	if err := store.SaveRun(ctx, run); err != nil {
		t.Fatalf("save run: %v", err)
	}
	if _, _, err := store.GetRun(ctx, "run-1"); err == nil {
		t.Fatal("expected version mismatch on load")
	}
}
