package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/clinic-scheduler/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	start_date  DATETIME NOT NULL,
	end_date    DATETIME NOT NULL,
	departments TEXT NOT NULL,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS run_departments (
	run_id     TEXT NOT NULL REFERENCES runs(id),
	department TEXT NOT NULL,
	status     TEXT NOT NULL,
	floor      INTEGER NOT NULL,
	PRIMARY KEY (run_id, department)
);

CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
CREATE INDEX IF NOT EXISTS idx_run_departments_department ON run_departments(department);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRun persists a completed run: the full document as JSON plus one
// summary row per department for filtered listing.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *model.Run) error {
	doc, err := json.Marshal(run.Departments)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal departments")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin save run")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, start_date, end_date, departments, created_at) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Start, run.End, string(doc), run.CreatedAt,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: insert run %s", run.ID)
	}
	for _, dept := range run.Departments {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO run_departments (run_id, department, status, floor) VALUES (?, ?, ?, ?)`,
			run.ID, dept.Department, string(dept.Record.Status), dept.Record.StaffingFloor,
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: insert run department %s", dept.Department)
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit save run")
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, start_date, end_date, departments, created_at FROM runs WHERE id = ?`,
		runID,
	)
	return scanRun(row)
}

func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT r.id, r.start_date, r.end_date, r.departments, r.created_at FROM runs r WHERE 1=1`
	var args []any

	if filter.Department != "" {
		query += ` AND EXISTS (SELECT 1 FROM run_departments rd WHERE rd.run_id = r.id AND rd.department = ?)`
		args = append(args, filter.Department)
	}
	query += ` ORDER BY r.created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list runs iterate")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*model.Run, error) {
	var r model.Run
	var doc string
	var start, end, created time.Time

	err := row.Scan(&r.ID, &start, &end, &doc, &created)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan run")
	}
	r.Start, r.End, r.CreatedAt = start, end, created
	if err := json.Unmarshal([]byte(doc), &r.Departments); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal departments")
	}
	return &r, nil
}
