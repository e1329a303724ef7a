package storage

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"reflectdoc/internal/models"
)

// ErrRunNotFound is returned when a run ID is unknown.
var ErrRunNotFound = errors.New("run not found")

type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

var _ ProjectStore = (*SQLiteStore)(nil)

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &SQLiteStore{db: db, now: time.Now}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to init schema")
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			project TEXT,
			created_at TIMESTAMP,
			reflections INTEGER,
			dangling INTEGER,
			document JSON
		);`,
		`CREATE TABLE IF NOT EXISTS reflections (
			run_id TEXT,
			id INTEGER,
			parent_id INTEGER,
			name TEXT,
			kind TEXT,
			full_name TEXT,
			comment TEXT,
			type TEXT,
			file TEXT,
			line INTEGER,
			flags JSON,
			PRIMARY KEY (run_id, id)
		);`,
		`CREATE TABLE IF NOT EXISTS dangling_references (
			run_id TEXT,
			name TEXT,
			PRIMARY KEY (run_id, name)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_reflections_kind ON reflections(run_id, kind);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) SaveProject(ctx context.Context, p *models.Project) (string, error) {
	var doc bytes.Buffer
	if err := models.WriteJSON(&doc, p); err != nil {
		return "", errors.Wrap(err, "failed to encode project")
	}

	runID := uuid.NewString()
	dangling := p.DanglingReferences()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, project, created_at, reflections, dangling, document)
		VALUES (?, ?, ?, ?, ?, ?)
	`, runID, p.Root.Name, s.now().UTC(), p.Len(), len(dangling), doc.Bytes()); err != nil {
		return "", errors.Wrap(err, "failed to save run")
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO reflections (run_id, id, parent_id, name, kind, full_name, comment, type, file, line, flags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for _, r := range p.Ordered() {
		var parent sql.NullInt64
		if r.Parent != nil {
			parent = sql.NullInt64{Int64: int64(r.Parent.ID), Valid: true}
		}
		var typ, file string
		var line int
		if r.Type != nil {
			typ = r.Type.String()
		}
		if len(r.Sources) > 0 {
			file, line = r.Sources[0].File, r.Sources[0].Line
		}
		flags, _ := json.Marshal(r.Flags)
		if _, err := stmt.ExecContext(ctx, runID, r.ID, parent, r.Name, string(r.Kind), r.FullName(), r.Comment, typ, file, line, flags); err != nil {
			return "", errors.Wrapf(err, "failed to save reflection %d", r.ID)
		}
	}

	danglingStmt, err := tx.PrepareContext(ctx, `INSERT INTO dangling_references (run_id, name) VALUES (?, ?)`)
	if err != nil {
		return "", err
	}
	defer danglingStmt.Close()

	for _, name := range dangling {
		if _, err := danglingStmt.ExecContext(ctx, runID, name); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return runID, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, project, created_at, reflections, dangling FROM runs ORDER BY created_at DESC, id")
	if err != nil {
		return nil, errors.Wrap(err, "failed to query runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Project, &r.CreatedAt, &r.Reflections, &r.Dangling); err != nil {
			return nil, errors.Wrap(err, "failed to scan run")
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func (s *SQLiteStore) LoadReflections(ctx context.Context, runID string) ([]StoredReflection, error) {
	if err := s.requireRun(ctx, runID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, parent_id, name, kind, full_name, comment, type, file, line, flags
		FROM reflections WHERE run_id = ? ORDER BY id
	`, runID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query reflections")
	}
	defer rows.Close()

	var out []StoredReflection
	for rows.Next() {
		var r StoredReflection
		var parent sql.NullInt64
		var kind string
		var flags []byte
		if err := rows.Scan(&r.ID, &parent, &r.Name, &kind, &r.FullName, &r.Comment, &r.Type, &r.File, &r.Line, &flags); err != nil {
			return nil, errors.Wrap(err, "failed to scan reflection")
		}
		r.Kind = models.ReflectionKind(kind)
		r.ParentID = -1
		if parent.Valid {
			r.ParentID = int(parent.Int64)
		}
		if len(flags) > 0 {
			_ = json.Unmarshal(flags, &r.Flags)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) LoadDanglingReferences(ctx context.Context, runID string) ([]string, error) {
	if err := s.requireRun(ctx, runID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM dangling_references WHERE run_id = ? ORDER BY name", runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *SQLiteStore) LoadDocument(ctx context.Context, runID string) ([]byte, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx, "SELECT document FROM runs WHERE id = ?", runID).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(ErrRunNotFound, "run %s", runID)
	}
	return doc, err
}

func (s *SQLiteStore) requireRun(ctx context.Context, runID string) error {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM runs WHERE id = ?", runID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return errors.Wrapf(ErrRunNotFound, "run %s", runID)
	}
	return err
}
