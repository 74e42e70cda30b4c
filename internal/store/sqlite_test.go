package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rcliao/move-nudge/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSQLiteStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func mustAppend(t *testing.T, s *SQLiteStore, kind model.ActivityKind, at model.Timestamp) *model.Event {
	t.Helper()
	e, _, err := s.Append(context.Background(), AppendParams{Kind: kind, At: at})
	if err != nil {
		t.Fatalf("append %s@%d: %v", kind, at, err)
	}
	return e
}

func TestAppendAndLatest(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	e, written, err := s.Append(ctx, AppendParams{Kind: model.Walking, At: 100})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if !written {
		t.Error("expected first event to be written")
	}
	if e.ID == 0 {
		t.Error("expected non-zero ID")
	}
	if e.Status != model.StatusNew {
		t.Errorf("expected status NEW, got %v", e.Status)
	}

	mustAppend(t, s, model.Still, 200)

	latest, err := s.Latest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.Kind != model.Still || latest.OccurredAt != 200 {
		t.Errorf("expected STILL@200, got %s@%d", latest.Kind, latest.OccurredAt)
	}
}

func TestLatestEmpty(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Latest(context.Background())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAppendSuppressesRepeatedKind(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	first := mustAppend(t, s, model.Still, 100)
	got, written, err := s.Append(ctx, AppendParams{Kind: model.Still, At: 150})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if written {
		t.Error("expected repeated kind to be suppressed")
	}
	if got.ID != first.ID {
		t.Errorf("expected existing event %d, got %d", first.ID, got.ID)
	}

	events, _ := s.Range(ctx, 0, 1000)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
}

func TestAppendRejectsDuplicateOfSuccessor(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	mustAppend(t, s, model.Walking, 100)
	mustAppend(t, s, model.Still, 200)

	_, _, err := s.Append(ctx, AppendParams{Kind: model.Still, At: 150})
	if !errors.Is(err, model.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestAppendRejectsTerminator(t *testing.T) {
	s := newTestStore(t)
	_, _, err := s.Append(context.Background(), AppendParams{Kind: model.ActivityEnd, At: 10})
	if !errors.Is(err, model.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestAppendBatchSortsAndDedups(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	n, err := s.AppendBatch(ctx, []AppendParams{
		{Kind: model.Walking, At: 30},
		{Kind: model.Still, At: 10},
		{Kind: model.Still, At: 20},
		{Kind: model.Walking, At: 40},
		{Kind: model.Running, At: 50},
	})
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 written, got %d", n)
	}

	events, _ := s.Range(ctx, 0, 100)
	var kinds []model.ActivityKind
	for _, e := range events {
		kinds = append(kinds, e.Kind)
	}
	want := []model.ActivityKind{model.Still, model.Walking, model.Running}
	if len(kinds) != len(want) {
		t.Fatalf("expected %v, got %v", want, kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("position %d: expected %v, got %v", i, want[i], kinds[i])
		}
	}
}

func TestRangeIsHalfOpen(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	mustAppend(t, s, model.Walking, 10)
	mustAppend(t, s, model.Still, 20)
	mustAppend(t, s, model.Running, 30)

	events, err := s.Range(ctx, 10, 30)
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events in [10,30), got %d", len(events))
	}
	if events[0].OccurredAt != 10 || events[1].OccurredAt != 20 {
		t.Errorf("unexpected order: %+v", events)
	}

	empty, err := s.Range(ctx, 100, 200)
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected no events, got %d", len(empty))
	}
}

func TestRangeOrdersOutOfOrderInserts(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	mustAppend(t, s, model.Walking, 10)
	mustAppend(t, s, model.Running, 30)
	mustAppend(t, s, model.Still, 20)

	events, _ := s.Range(ctx, 0, 100)
	for i := 1; i < len(events); i++ {
		if events[i].OccurredAt < events[i-1].OccurredAt {
			t.Fatalf("events out of order: %+v", events)
		}
	}
}

func TestLatestBefore(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	mustAppend(t, s, model.Walking, 10)
	mustAppend(t, s, model.Still, 20)

	e, err := s.LatestBefore(ctx, 20)
	if err != nil {
		t.Fatalf("latest before: %v", err)
	}
	if e.Kind != model.Walking {
		t.Errorf("expected WALKING, got %v", e.Kind)
	}

	if _, err := s.LatestBefore(ctx, 10); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMarkUploaded(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	a := mustAppend(t, s, model.Walking, 10)
	mustAppend(t, s, model.Still, 20)

	if err := s.MarkUploaded(ctx, []int64{a.ID}); err != nil {
		t.Fatalf("mark: %v", err)
	}
	pending, err := s.ListByStatus(ctx, model.StatusNew, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(pending) != 1 || pending[0].Kind != model.Still {
		t.Errorf("expected only STILL pending, got %+v", pending)
	}
	uploaded, _ := s.ListByStatus(ctx, model.StatusUploaded, 0)
	if len(uploaded) != 1 || uploaded[0].ID != a.ID {
		t.Errorf("expected event %d uploaded, got %+v", a.ID, uploaded)
	}

	if err := s.MarkUploaded(ctx, nil); err != nil {
		t.Errorf("empty mark should be a no-op, got %v", err)
	}
}

func TestRemindersNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	r1, err := s.RecordReminder(ctx, model.Reminder{StillSince: 100, StillSecs: 1900, CreatedAt: base})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if r1.ID == "" {
		t.Error("expected reminder ID")
	}
	s.RecordReminder(ctx, model.Reminder{StillSince: 5000, StillSecs: 2000, CreatedAt: base.Add(time.Hour)})

	list, err := s.ListReminders(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 reminders, got %d", len(list))
	}
	if list[0].StillSince != 5000 {
		t.Errorf("expected newest first, got %+v", list[0])
	}
	if !list[1].CreatedAt.Equal(base) {
		t.Errorf("expected created_at %v, got %v", base, list[1].CreatedAt)
	}
}

func TestSnooze(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	until, err := s.SnoozedUntil(ctx)
	if err != nil {
		t.Fatalf("snoozed until: %v", err)
	}
	if !until.IsZero() {
		t.Errorf("expected no snooze, got %v", until)
	}

	deadline := time.Unix(1_700_000_000, 0)
	if err := s.SetSnooze(ctx, deadline); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.SetSnooze(ctx, deadline.Add(time.Minute)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	until, _ = s.SnoozedUntil(ctx)
	if !until.Equal(deadline.Add(time.Minute)) {
		t.Errorf("expected %v, got %v", deadline.Add(time.Minute), until)
	}

	if err := s.ClearSnooze(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	until, _ = s.SnoozedUntil(ctx)
	if !until.IsZero() {
		t.Errorf("expected snooze cleared, got %v", until)
	}
}

func TestCorruptRowsAreReported(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)`, snoozeKey, "soon"); err != nil {
		t.Fatalf("seed setting: %v", err)
	}
	if _, err := s.SnoozedUntil(ctx); err == nil {
		t.Error("expected error for unparsable snooze deadline")
	}

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO reminders (id, still_since, still_secs, created_at) VALUES ('r1', 0, 60, 'yesterday')`); err != nil {
		t.Fatalf("seed reminder: %v", err)
	}
	if _, err := s.ListReminders(ctx, 10); err == nil {
		t.Error("expected error for unparsable reminder timestamp")
	}
}

func TestExportImport(t *testing.T) {
	ctx := context.Background()
	src := newTestStore(t)

	a := mustAppend(t, src, model.Walking, 10)
	mustAppend(t, src, model.Still, 20)
	src.MarkUploaded(ctx, []int64{a.ID})

	exported, err := src.ExportAll(ctx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	dst := newTestStore(t)
	n, err := dst.Import(ctx, exported)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 imported, got %d", n)
	}
	again, _ := dst.Import(ctx, exported)
	if again != 0 {
		t.Errorf("expected re-import to be deduplicated, got %d", again)
	}

	got, _ := dst.ExportAll(ctx)
	if len(got) != 2 || got[0].Status != model.StatusUploaded || got[1].Status != model.StatusNew {
		t.Errorf("statuses not preserved: %+v", got)
	}
}

func TestImportRejectsDummy(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Import(context.Background(), []model.Event{{Kind: model.Still, OccurredAt: 5, Status: model.StatusDummy}})
	if !errors.Is(err, model.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "stats.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	defer s.Close()

	mustAppend(t, s, model.Walking, 10)
	mustAppend(t, s, model.Still, 20)
	mustAppend(t, s, model.Walking, 30)

	st, err := s.Stats(ctx, dbPath)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.TotalEvents != 3 || st.PendingUpload != 3 {
		t.Errorf("unexpected counts: %+v", st)
	}
	if st.FirstEventAt != 10 || st.LastEventAt != 30 {
		t.Errorf("unexpected bounds: %d..%d", st.FirstEventAt, st.LastEventAt)
	}
	if len(st.Kinds) != 2 || st.Kinds[0].Kind != "WALKING" || st.Kinds[0].Count != 2 {
		t.Errorf("unexpected kind stats: %+v", st.Kinds)
	}
}

func TestDBPathCreation(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "sub", "dir", "test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	s.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("expected db file to be created")
	}
}
