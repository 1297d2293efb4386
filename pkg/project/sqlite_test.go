package project

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "projects.db"))
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	p := sampleProject()
	if err := store.Save(ctx, p); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != p.Name || len(got.Charts) != 1 || len(got.Datasets) != 1 {
		t.Errorf("loaded project differs: %+v", got)
	}
	if got.Report.Config.Title == "" {
		t.Error("report config lost in round trip")
	}
}

func TestSQLiteStoreGetMissing(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Get(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestSQLiteStoreSaveUpdates(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	p := sampleProject()
	if err := store.Save(ctx, p); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	p.Name = "Renamed"
	p.Charts = append(p.Charts, Chart{
		ID: "c2", Name: "Extra", Type: ChartTypeLine, Dataset: "sales",
		XField: "region", Aggregation: AggregationCount,
	})
	if err := store.Save(ctx, p); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	got, err := store.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "Renamed" || len(got.Charts) != 2 {
		t.Errorf("update not persisted: %+v", got)
	}

	summaries, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected a single summary, got %d", len(summaries))
	}
	if summaries[0].Charts != 2 || summaries[0].Name != "Renamed" {
		t.Errorf("summary = %+v", summaries[0])
	}
}

func TestSQLiteStoreDelete(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	p := sampleProject()
	if err := store.Save(ctx, p); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting again is not an error.
	if err := store.Delete(ctx, p.ID); err != nil {
		t.Errorf("repeat Delete failed: %v", err)
	}
}

func TestSQLiteStoreSaveWithoutID(t *testing.T) {
	store := openTestStore(t)
	p := &Project{Name: "anonymous"}
	if err := store.Save(context.Background(), p); err == nil {
		t.Error("expected error saving project without id")
	}
}
