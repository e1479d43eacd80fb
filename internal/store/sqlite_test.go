package store

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/me/gowe/pkg/model"
)

func testStore(t *testing.T) *SQLiteStore {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))
	st, err := NewSQLiteStore(":memory:", logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func sampleRun(id, sprintID string) *model.Run {
	return &model.Run{
		ID:       id,
		SprintID: sprintID,
		Status:   model.RunSucceeded,
		Report: &model.Report{
			Sprint: model.Sprint{ID: sprintID, Name: "Sprint 9"},
		},
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
}

func TestSQLiteStore_SaveAndGetRun(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	run := sampleRun("run-1", "sprint-9")
	if err := st.SaveRun(ctx, run); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, err := st.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.SprintID != "sprint-9" || got.Status != model.RunSucceeded {
		t.Errorf("GetRun = %+v, want sprint-9/succeeded", got)
	}
	if got.Report.Sprint.Name != "Sprint 9" {
		t.Errorf("Report.Sprint.Name = %q, want Sprint 9", got.Report.Sprint.Name)
	}
}

func TestSQLiteStore_SaveRunIsIdempotentPerID(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	run := sampleRun("run-1", "sprint-9")
	if err := st.SaveRun(ctx, run); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	run.Status = model.RunFailed
	run.Error = "upstream unreachable"
	if err := st.SaveRun(ctx, run); err != nil {
		t.Fatalf("SaveRun (replace): %v", err)
	}

	got, err := st.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.Status != model.RunFailed || got.Error != "upstream unreachable" {
		t.Errorf("GetRun = %+v, want failed/upstream unreachable", got)
	}
}

func TestSQLiteStore_GetLatestRun(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	older := sampleRun("run-1", "sprint-9")
	older.CreatedAt = time.Now().UTC().Add(-time.Hour).Truncate(time.Millisecond)
	newer := sampleRun("run-2", "sprint-9")
	newer.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	if err := st.SaveRun(ctx, older); err != nil {
		t.Fatalf("SaveRun(older): %v", err)
	}
	if err := st.SaveRun(ctx, newer); err != nil {
		t.Fatalf("SaveRun(newer): %v", err)
	}

	got, err := st.GetLatestRun(ctx, "sprint-9")
	if err != nil {
		t.Fatalf("GetLatestRun: %v", err)
	}
	if got.ID != "run-2" {
		t.Errorf("GetLatestRun.ID = %q, want run-2", got.ID)
	}
}

func TestSQLiteStore_ListRuns(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	for i, id := range []string{"run-1", "run-2", "run-3"} {
		r := sampleRun(id, "sprint-9")
		r.CreatedAt = time.Now().UTC().Add(time.Duration(i) * time.Minute).Truncate(time.Millisecond)
		if err := st.SaveRun(ctx, r); err != nil {
			t.Fatalf("SaveRun(%s): %v", id, err)
		}
	}

	runs, total, err := st.ListRuns(ctx, ListOptions{Limit: 2})
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(runs) != 2 {
		t.Fatalf("len(runs) = %d, want 2", len(runs))
	}
	if runs[0].ID != "run-3" {
		t.Errorf("runs[0].ID = %q, want run-3 (most recent first)", runs[0].ID)
	}
}

func TestSQLiteStore_GetRunNotFound(t *testing.T) {
	st := testStore(t)
	if _, err := st.GetRun(context.Background(), "missing"); err == nil {
		t.Fatal("GetRun: want error for missing run, got nil")
	}
}
