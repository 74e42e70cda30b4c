package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/move-nudge/internal/model"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	entropy *rand.Rand
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(10000)&_pragma=synchronous(NORMAL)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID(t time.Time) string {
	return ulid.MustNew(ulid.Timestamp(t), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		kind        TEXT NOT NULL,
		occurred_at INTEGER NOT NULL,
		status      TEXT NOT NULL DEFAULT 'NEW',
		recorded_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_events_occurred ON events(occurred_at, id);
	CREATE INDEX IF NOT EXISTS idx_events_status ON events(status);

	CREATE TABLE IF NOT EXISTS reminders (
		id          TEXT PRIMARY KEY,
		still_since INTEGER NOT NULL,
		still_secs  INTEGER NOT NULL,
		created_at  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_reminders_created ON reminders(created_at DESC);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

const eventColumns = `id, kind, occurred_at, status`

func (s *SQLiteStore) Append(ctx context.Context, p AppendParams) (*model.Event, bool, error) {
	var (
		ev      *model.Event
		written bool
	)
	err := retryOnContention(ctx, func() error {
		var err error
		ev, written, err = s.appendOnce(ctx, p.Kind, p.At, model.StatusNew)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return ev, written, nil
}

// appendOnce runs the dedup check and insert in one transaction.
func (s *SQLiteStore) appendOnce(ctx context.Context, kind model.ActivityKind, at model.Timestamp, status model.UploadStatus) (*model.Event, bool, error) {
	if !kind.Persistable() {
		return nil, false, fmt.Errorf("%w: %s is not a loggable kind", model.ErrInvalidArgument, kind)
	}
	if status == model.StatusDummy {
		return nil, false, fmt.Errorf("%w: synthetic events are not persisted", model.ErrInvalidArgument)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback()

	prev, err := scanEvent(tx.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events
		 WHERE occurred_at <= ?
		 ORDER BY occurred_at DESC, id DESC LIMIT 1`, int64(at)))
	switch {
	case err == nil:
		if prev.Kind == kind {
			return &prev, false, nil
		}
	case !errors.Is(err, sql.ErrNoRows):
		return nil, false, fmt.Errorf("read previous event: %w", err)
	}

	next, err := scanEvent(tx.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events
		 WHERE occurred_at > ?
		 ORDER BY occurred_at ASC, id ASC LIMIT 1`, int64(at)))
	switch {
	case err == nil:
		if next.Kind == kind {
			return nil, false, fmt.Errorf("%w: %s at %d would duplicate event %d at %d",
				model.ErrInvalidArgument, kind, at, next.ID, next.OccurredAt)
		}
	case !errors.Is(err, sql.ErrNoRows):
		return nil, false, fmt.Errorf("read next event: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO events (kind, occurred_at, status, recorded_at) VALUES (?, ?, ?, ?)`,
		kind.String(), int64(at), status.String(), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return nil, false, fmt.Errorf("insert event: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, false, err
	}

	if err := tx.Commit(); err != nil {
		return nil, false, err
	}
	return &model.Event{ID: id, Kind: kind, OccurredAt: at, Status: status}, true, nil
}

func (s *SQLiteStore) AppendBatch(ctx context.Context, ps []AppendParams) (int, error) {
	sorted := append([]AppendParams(nil), ps...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].At < sorted[j].At })

	written := 0
	for _, p := range sorted {
		_, ok, err := s.Append(ctx, p)
		if err != nil {
			return written, err
		}
		if ok {
			written++
		}
	}
	return written, nil
}

func (s *SQLiteStore) Range(ctx context.Context, start, end model.Timestamp) ([]model.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events
		 WHERE occurred_at >= ? AND occurred_at < ?
		 ORDER BY occurred_at ASC, id ASC`, int64(start), int64(end))
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

func (s *SQLiteStore) Latest(ctx context.Context) (*model.Event, error) {
	e, err := scanEvent(s.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events ORDER BY occurred_at DESC, id DESC LIMIT 1`))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("latest event: %w", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *SQLiteStore) LatestBefore(ctx context.Context, t model.Timestamp) (*model.Event, error) {
	e, err := scanEvent(s.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE occurred_at < ?
		 ORDER BY occurred_at DESC, id DESC LIMIT 1`, int64(t)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("event before %d: %w", t, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *SQLiteStore) ListByStatus(ctx context.Context, status model.UploadStatus, limit int) ([]model.Event, error) {
	if limit <= 0 {
		limit = 1000
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE status = ?
		 ORDER BY occurred_at ASC, id ASC LIMIT ?`, status.String(), limit)
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

func (s *SQLiteStore) MarkUploaded(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, 0, len(ids)+1)
	args = append(args, model.StatusUploaded.String())
	for _, id := range ids {
		args = append(args, id)
	}
	return retryOnContention(ctx, func() error {
		_, err := s.db.ExecContext(ctx,
			`UPDATE events SET status = ? WHERE id IN (`+placeholders+`)`, args...)
		return err
	})
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEvent(row scanner) (model.Event, error) {
	var e model.Event
	var kind, status string
	var at int64

	if err := row.Scan(&e.ID, &kind, &at, &status); err != nil {
		return e, err
	}

	k, err := model.ParseActivityKind(kind)
	if err != nil {
		return e, fmt.Errorf("event %d: %w", e.ID, err)
	}
	st, err := model.ParseUploadStatus(status)
	if err != nil {
		return e, fmt.Errorf("event %d: %w", e.ID, err)
	}
	e.Kind = k
	e.Status = st
	e.OccurredAt = model.Timestamp(at)
	return e, nil
}

func collectEvents(rows *sql.Rows) ([]model.Event, error) {
	defer rows.Close()

	events := []model.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
