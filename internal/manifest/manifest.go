package manifest

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"trainprep/internal/logging"
	"trainprep/internal/metrics"
)

// Default timeout for database operations
const defaultTimeout = 5 * time.Second

// Store persists dataset snapshots so that training runs can be audited
// against the exact class index and file counts they were built from.
type Store struct {
	db     *sql.DB
	dbPath string
}

// New opens (or creates) the manifest database at dbPath. The parent
// directory must already exist and be writable.
func New(ctx context.Context, dbPath string) (*Store, error) {
	logging.Info("Manifest database path: %s", dbPath)

	// WAL mode and a busy timeout to avoid "database is locked" errors
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to connect to manifest database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{db: db, dbPath: dbPath}

	if err := s.initialize(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after initialization failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize manifest schema: %w", err)
	}

	logging.Info("Manifest database initialized at %s", dbPath)
	return s, nil
}

func (s *Store) initialize(ctx context.Context) error {
	start := time.Now()

	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		root TEXT NOT NULL,
		taken_at INTEGER NOT NULL,
		class_count INTEGER NOT NULL,
		file_count INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_root ON snapshots(root, taken_at);

	CREATE TABLE IF NOT EXISTS snapshot_classes (
		snapshot_id INTEGER NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
		class_index INTEGER NOT NULL,
		name TEXT NOT NULL,
		file_count INTEGER NOT NULL,
		PRIMARY KEY (snapshot_id, class_index)
	);
	`

	opCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := s.db.ExecContext(opCtx, schema)
	recordQuery("initialize_schema", start, err)
	return err
}

// RecordSnapshot stores a snapshot and returns its ID.
func (s *Store) RecordSnapshot(ctx context.Context, snap *Snapshot) (int64, error) {
	start := time.Now()

	opCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(opCtx, nil)
	if err != nil {
		recordQuery("record_snapshot", start, err)
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
				logging.Error("failed to roll back snapshot transaction: %v", rbErr)
			}
		}
	}()

	res, err := tx.ExecContext(opCtx,
		`INSERT INTO snapshots (root, taken_at, class_count, file_count) VALUES (?, ?, ?, ?)`,
		snap.Root, snap.TakenAt.Unix(), len(snap.Classes), snap.FileCount())
	if err != nil {
		recordQuery("record_snapshot", start, err)
		return 0, fmt.Errorf("failed to insert snapshot: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		recordQuery("record_snapshot", start, err)
		return 0, err
	}

	for i, class := range snap.Classes {
		if _, err = tx.ExecContext(opCtx,
			`INSERT INTO snapshot_classes (snapshot_id, class_index, name, file_count) VALUES (?, ?, ?, ?)`,
			id, i, class.Name, class.FileCount); err != nil {
			recordQuery("record_snapshot", start, err)
			return 0, fmt.Errorf("failed to insert class row: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		recordQuery("record_snapshot", start, err)
		return 0, fmt.Errorf("failed to commit snapshot: %w", err)
	}

	recordQuery("record_snapshot", start, nil)
	return id, nil
}

// LatestSnapshot returns the most recent snapshot for root, or nil if
// none has been recorded yet.
func (s *Store) LatestSnapshot(ctx context.Context, root string) (*Snapshot, error) {
	start := time.Now()

	opCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var (
		id      int64
		takenAt int64
	)
	err := s.db.QueryRowContext(opCtx,
		`SELECT id, taken_at FROM snapshots WHERE root = ? ORDER BY taken_at DESC, id DESC LIMIT 1`,
		root).Scan(&id, &takenAt)
	if err == sql.ErrNoRows {
		recordQuery("latest_snapshot", start, nil)
		return nil, nil
	}
	if err != nil {
		recordQuery("latest_snapshot", start, err)
		return nil, fmt.Errorf("failed to query latest snapshot: %w", err)
	}

	rows, err := s.db.QueryContext(opCtx,
		`SELECT name, file_count FROM snapshot_classes WHERE snapshot_id = ? ORDER BY class_index`,
		id)
	if err != nil {
		recordQuery("latest_snapshot", start, err)
		return nil, fmt.Errorf("failed to query snapshot classes: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			logging.Warn("failed to close snapshot class rows: %v", closeErr)
		}
	}()

	snap := &Snapshot{
		Root:    root,
		TakenAt: time.Unix(takenAt, 0),
	}
	for rows.Next() {
		var class ClassCount
		if err := rows.Scan(&class.Name, &class.FileCount); err != nil {
			recordQuery("latest_snapshot", start, err)
			return nil, err
		}
		snap.Classes = append(snap.Classes, class)
	}
	if err := rows.Err(); err != nil {
		recordQuery("latest_snapshot", start, err)
		return nil, err
	}

	recordQuery("latest_snapshot", start, nil)
	return snap, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func recordQuery(operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.ManifestQueriesTotal.WithLabelValues(operation, status).Inc()
	metrics.ManifestQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
