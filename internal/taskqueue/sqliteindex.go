package taskqueue

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure Go driver, no CGO, matching the internal/store/sqlite_bm25.go
)

// SQLiteIndex is a queryable mirror of tasks.jsonl, rebuilt wholesale from
// the in-memory queue on every refresh. tasks.jsonl remains the source of
// truth; this index exists only so a CLI or
// dashboard can filter/sort tasks with SQL instead of scanning the log.
// Follows the pattern of internal/store/sqlite_bm25.go: same driver, same
// WAL pragmas, same "single writer" connection-pool shape.
type SQLiteIndex struct {
	db *sql.DB
}

// OpenSQLiteIndex opens (creating if absent) the mirror database at path.
func OpenSQLiteIndex(path string) (*SQLiteIndex, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
 return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
 return nil, fmt.Errorf("failed to open task index: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
 "PRAGMA journal_mode = WAL",
 "PRAGMA busy_timeout = 5000",
 "PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
 if _, err := db.Exec(p); err != nil {
 _ = db.Close()
 return nil, fmt.Errorf("failed to set pragma: %w", err)
 }
	}

	schema := `CREATE TABLE IF NOT EXISTS tasks (
 task_id TEXT PRIMARY KEY,
 parent_id TEXT,
 objective TEXT,
 status TEXT,
 created_at TEXT,
 updated_at TEXT
	)`
	if _, err := db.Exec(schema); err != nil {
 _ = db.Close()
 return nil, fmt.Errorf("failed to create tasks table: %w", err)
	}

	return &SQLiteIndex{db: db}, nil
}

// Refresh replaces the mirror's contents with the given tasks, inside one
// transaction.
func (si *SQLiteIndex) Refresh(tasks []Task) error {
	tx, err := si.db.Begin()
	if err != nil {
 return err
	}
	if _, err := tx.Exec("DELETE FROM tasks"); err != nil {
 tx.Rollback()
 return err
	}
	stmt, err := tx.Prepare(`INSERT INTO tasks (task_id, parent_id, objective, status, created_at, updated_at)
 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
 tx.Rollback()
 return err
	}
	defer stmt.Close()

	for _, t := range tasks {
 if _, err := stmt.Exec(t.ID, t.ParentID, t.Objective, string(t.Status), t.CreatedAt.Format("2006-01-02T15:04:05Z07:00"), t.UpdatedAt.Format("2006-01-02T15:04:05Z07:00")); err != nil {
 tx.Rollback()
 return err
 }
	}
	return tx.Commit()
}

// ByStatus returns task IDs in a given status, ordered by task_id ascending.
func (si *SQLiteIndex) ByStatus(status Status) ([]string, error) {
	rows, err := si.db.Query("SELECT task_id FROM tasks WHERE status = ? ORDER BY task_id ASC", string(status))
	if err != nil {
 return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
 var id string
 if err := rows.Scan(&id); err != nil {
 return nil, err
 }
 ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close releases the underlying database handle.
func (si *SQLiteIndex) Close() error {
	return si.db.Close()
}
