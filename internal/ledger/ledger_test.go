package ledger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/me/soaplab/pkg/analysis"
)

func testLedger(t *testing.T) *Ledger {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))
	l, err := Open(":memory:", logger)
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	if err := l.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

func TestPutGet(t *testing.T) {
	l := testLedger(t)
	ctx := context.Background()

	rec := &Record{
		JobID:    "edit::seqret/a1:b2:c3",
		Analysis: "edit::seqret",
		Access:   "soap",
		Location: "http://localhost:8080",
		State:    analysis.StateCreated,
	}
	if err := l.Put(ctx, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := l.Get(ctx, rec.JobID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("Get returned nil for stored job")
	}
	if got.Analysis != rec.Analysis || got.State != analysis.StateCreated {
		t.Errorf("got %+v", got)
	}
	if got.Created.IsZero() || got.Updated.IsZero() {
		t.Errorf("timestamps not set: %+v", got)
	}
}

func TestGetUnknownReturnsNil(t *testing.T) {
	l := testLedger(t)

	got, err := l.Get(context.Background(), "nope/0:0:0")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Errorf("got %+v, want nil", got)
	}
}

func TestPutUpdatesState(t *testing.T) {
	l := testLedger(t)
	ctx := context.Background()

	rec := &Record{
		JobID:    "edit::seqret/a1:b2:c3",
		Analysis: "edit::seqret",
		Access:   "soap",
		Location: "http://localhost:8080",
		State:    analysis.StateRunning,
	}
	if err := l.Put(ctx, rec); err != nil {
		t.Fatalf("first Put: %v", err)
	}
	rec.State = analysis.StateCompleted
	if err := l.Put(ctx, rec); err != nil {
		t.Fatalf("second Put: %v", err)
	}

	got, err := l.Get(ctx, rec.JobID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.State != analysis.StateCompleted {
		t.Errorf("state = %q, want %q", got.State, analysis.StateCompleted)
	}

	all, err := l.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("upsert created %d rows, want 1", len(all))
	}
}

func TestListAndDelete(t *testing.T) {
	l := testLedger(t)
	ctx := context.Background()

	for _, id := range []string{"edit::seqret/1:1:1", "edit::seqret/2:2:2"} {
		if err := l.Put(ctx, &Record{
			JobID:    id,
			Analysis: "edit::seqret",
			Access:   "soap",
			Location: "http://localhost:8080",
			State:    analysis.StateCreated,
		}); err != nil {
			t.Fatalf("Put %s: %v", id, err)
		}
	}

	all, err := l.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d records, want 2", len(all))
	}

	if err := l.Delete(ctx, "edit::seqret/1:1:1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := l.Delete(ctx, "edit::seqret/1:1:1"); err != nil {
		t.Fatalf("Delete again: %v", err)
	}

	all, err = l.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 1 || all[0].JobID != "edit::seqret/2:2:2" {
		t.Errorf("after delete: %+v", all)
	}
}

func TestMigrateIdempotent(t *testing.T) {
	l := testLedger(t)
	if err := l.Migrate(context.Background()); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}
