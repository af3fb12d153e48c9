package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/leandrojofre/prosepolisher/pkg/polisher/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS records (
	key TEXT PRIMARY KEY,
	original TEXT NOT NULL,
	context TEXT,
	count INTEGER NOT NULL,
	score REAL NOT NULL,
	last_seen INTEGER NOT NULL,
	decayed_cycles INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS candidates (
	key TEXT PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS engine_state (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	message_count INTEGER NOT NULL,
	last_mined INTEGER NOT NULL,
	mined INTEGER NOT NULL,
	snapshot_id TEXT NOT NULL DEFAULT '',
	saved_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS snapshots (
	id TEXT PRIMARY KEY,
	message_count INTEGER NOT NULL,
	created_at TEXT NOT NULL,
	candidates INTEGER NOT NULL,
	merged TEXT NOT NULL,
	remaining TEXT NOT NULL
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// Save replaces records, candidates and state in one transaction.
func (s *sqliteStore) Save(ctx context.Context, cp store.Checkpoint) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := replaceRecords(ctx, tx, cp.Records); err != nil {
		return fmt.Errorf("save records: %w", err)
	}
	if err := replaceCandidates(ctx, tx, cp.Candidates); err != nil {
		return fmt.Errorf("save candidates: %w", err)
	}

	const stateStmt = `
INSERT INTO engine_state (id, message_count, last_mined, mined, snapshot_id, saved_at)
VALUES (1, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	message_count=excluded.message_count,
	last_mined=excluded.last_mined,
	mined=excluded.mined,
	snapshot_id=excluded.snapshot_id,
	saved_at=excluded.saved_at;
`
	savedAt := cp.State.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now()
	}
	if _, err := tx.ExecContext(ctx, stateStmt,
		cp.State.MessageCount,
		cp.State.LastMined,
		boolToInt(cp.State.Mined),
		cp.State.SnapshotID,
		savedAt.UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("save state: %w", err)
	}

	if cp.Snapshot != nil {
		if err := insertSnapshot(ctx, tx, *cp.Snapshot); err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
	}

	return tx.Commit()
}

func replaceRecords(ctx context.Context, tx *sql.Tx, records []store.Record) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO records (key, original, context, count, score, last_seen, decayed_cycles)
VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.Key, r.Original, r.Context, r.Count, r.Score, r.LastSeen, r.DecayedCycles); err != nil {
			return err
		}
	}
	return nil
}

func replaceCandidates(ctx context.Context, tx *sql.Tx, keys []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM candidates`); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO candidates (key) VALUES (?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, k := range keys {
		if k == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, k); err != nil {
			return err
		}
	}
	return nil
}

func insertSnapshot(ctx context.Context, tx *sql.Tx, snap store.Snapshot) error {
	merged, err := json.Marshal(nonNilPatterns(snap.Merged))
	if err != nil {
		return err
	}
	remaining, err := json.Marshal(nonNilPhrases(snap.Remaining))
	if err != nil {
		return err
	}

	const stmt = `
INSERT INTO snapshots (id, message_count, created_at, candidates, merged, remaining)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO NOTHING;
`
	_, err = tx.ExecContext(ctx, stmt,
		snap.ID,
		snap.MessageCount,
		snap.CreatedAt.UTC().Format(time.RFC3339Nano),
		snap.Candidates,
		string(merged),
		string(remaining),
	)
	return err
}

// Load reads the checkpoint and the snapshot its state names.
func (s *sqliteStore) Load(ctx context.Context) (store.Checkpoint, bool, error) {
	var cp store.Checkpoint

	var mined int
	var savedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT message_count, last_mined, mined, snapshot_id, saved_at FROM engine_state WHERE id = 1`,
	).Scan(&cp.State.MessageCount, &cp.State.LastMined, &mined, &cp.State.SnapshotID, &savedAt)
	if err == sql.ErrNoRows {
		return store.Checkpoint{}, false, nil
	}
	if err != nil {
		return store.Checkpoint{}, false, fmt.Errorf("load state: %w", err)
	}
	cp.State.Mined = mined != 0
	cp.State.SavedAt, _ = time.Parse(time.RFC3339Nano, savedAt)

	rows, err := s.db.QueryContext(ctx,
		`SELECT key, original, context, count, score, last_seen, decayed_cycles FROM records ORDER BY key`)
	if err != nil {
		return store.Checkpoint{}, false, fmt.Errorf("load records: %w", err)
	}
	for rows.Next() {
		var r store.Record
		var sentence sql.NullString
		if err := rows.Scan(&r.Key, &r.Original, &sentence, &r.Count, &r.Score, &r.LastSeen, &r.DecayedCycles); err != nil {
			rows.Close()
			return store.Checkpoint{}, false, err
		}
		r.Context = sentence.String
		cp.Records = append(cp.Records, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return store.Checkpoint{}, false, err
	}

	keys, err := s.db.QueryContext(ctx, `SELECT key FROM candidates ORDER BY key`)
	if err != nil {
		return store.Checkpoint{}, false, fmt.Errorf("load candidates: %w", err)
	}
	for keys.Next() {
		var k string
		if err := keys.Scan(&k); err != nil {
			keys.Close()
			return store.Checkpoint{}, false, err
		}
		cp.Candidates = append(cp.Candidates, k)
	}
	keys.Close()
	if err := keys.Err(); err != nil {
		return store.Checkpoint{}, false, err
	}

	if cp.State.SnapshotID == "" {
		return cp, true, nil
	}
	snap, ok, err := s.snapshot(ctx, cp.State.SnapshotID)
	if err != nil {
		return store.Checkpoint{}, false, fmt.Errorf("load snapshot %s: %w", cp.State.SnapshotID, err)
	}
	if ok {
		cp.Snapshot = &snap
	}
	return cp, true, nil
}

func (s *sqliteStore) snapshot(ctx context.Context, id string) (store.Snapshot, bool, error) {
	var snap store.Snapshot
	var createdAt, merged, remaining string
	err := s.db.QueryRowContext(ctx, `
SELECT id, message_count, created_at, candidates, merged, remaining
FROM snapshots WHERE id = ?`, id,
	).Scan(&snap.ID, &snap.MessageCount, &createdAt, &snap.Candidates, &merged, &remaining)
	if err == sql.ErrNoRows {
		return store.Snapshot{}, false, nil
	}
	if err != nil {
		return store.Snapshot{}, false, err
	}

	snap.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	if err := json.Unmarshal([]byte(merged), &snap.Merged); err != nil {
		return store.Snapshot{}, false, fmt.Errorf("decode patterns: %w", err)
	}
	if err := json.Unmarshal([]byte(remaining), &snap.Remaining); err != nil {
		return store.Snapshot{}, false, fmt.Errorf("decode phrases: %w", err)
	}
	return snap, true, nil
}

// History lists snapshots newest first.
func (s *sqliteStore) History(ctx context.Context, limit int) ([]store.SnapshotInfo, error) {
	query := `
SELECT id, message_count, created_at, json_array_length(merged), json_array_length(remaining)
FROM snapshots ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.SnapshotInfo
	for rows.Next() {
		var info store.SnapshotInfo
		var createdAt string
		if err := rows.Scan(&info.ID, &info.MessageCount, &createdAt, &info.Patterns, &info.Phrases); err != nil {
			return nil, err
		}
		info.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, info)
	}
	return out, rows.Err()
}

// Clear deletes all rows.
func (s *sqliteStore) Clear(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"records", "candidates", "engine_state", "snapshots"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return tx.Commit()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nonNilPatterns(p []store.Pattern) []store.Pattern {
	if p == nil {
		return []store.Pattern{}
	}
	return p
}

func nonNilPhrases(p []store.Phrase) []store.Phrase {
	if p == nil {
		return []store.Phrase{}
	}
	return p
}
