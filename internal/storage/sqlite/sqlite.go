// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// Two drivers are registered by the blank imports below and either can
// back the store, picked by cfg.StorageDriver:
//
//   - "sqlite3" — github.com/mattn/go-sqlite3 (cgo, the default)
//   - "sqlite"  — modernc.org/sqlite (pure Go, used by the tests)
//
// Both speak the same SQL dialect, so every query below is shared.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aanand-mishra/school-records-api/internal/config"
	"github.com/aanand-mishra/school-records-api/internal/storage"
	"github.com/aanand-mishra/school-records-api/internal/types"

	// Blank imports: side-effect only (driver registration).
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

const memoryPath = ":memory:"

// SQLite is the concrete implementation of storage.Storage.
// It holds a *sql.DB which is a connection pool managed by database/sql.
// A single *sql.DB is safe for concurrent use by multiple goroutines.
type SQLite struct {
	Db *sql.DB
}

var _ storage.Storage = (*SQLite)(nil)

// New opens the SQLite database at cfg.StoragePath with the driver named
// by cfg.StorageDriver, creates the Parent and Student tables if they do
// not already exist, and returns a ready-to-use *SQLite.
func New(cfg *config.Config) (*SQLite, error) {
	if cfg.StoragePath != memoryPath {
		if err := os.MkdirAll(filepath.Dir(cfg.StoragePath), 0o755); err != nil {
			return nil, fmt.Errorf("sqlite.New: create directory: %w", err)
		}
	}

	db, err := sql.Open(cfg.StorageDriver, cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// Every connection to ":memory:" is a separate empty database.
	if cfg.StoragePath == memoryPath {
		db.SetMaxOpenConns(1)
	}

	// CREATE TABLE IF NOT EXISTS runs on every startup. Student.parent_id
	// is not a foreign key: the row stores whatever id the client sent.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS Parent (
			parent_id   INTEGER PRIMARY KEY AUTOINCREMENT,
			parent_name TEXT    NOT NULL
		);

		CREATE TABLE IF NOT EXISTS Student (
			student_id      INTEGER PRIMARY KEY AUTOINCREMENT,
			student_name    TEXT    NOT NULL,
			student_age     INTEGER NOT NULL,
			parent_id       INTEGER NOT NULL,
			student_address TEXT    NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create tables: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Parent
// ─────────────────────────────────────────────────────────────────────────────

func (s *SQLite) CreateParent(ctx context.Context, parent types.Parent) (int64, error) {
	stmt, err := s.Db.PrepareContext(ctx,
		"INSERT INTO Parent (parent_name) VALUES (?)",
	)
	if err != nil {
		return 0, fmt.Errorf("CreateParent: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, parent.Name)
	if err != nil {
		return 0, fmt.Errorf("CreateParent: exec: %w", err)
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("CreateParent: last insert id: %w", err)
	}

	return lastID, nil
}

// ListParents reads one page of parents. COUNT(*) OVER () is evaluated
// before LIMIT/OFFSET, so every returned row carries the size of the whole
// table and a single query answers both questions.
func (s *SQLite) ListParents(ctx context.Context, limit, offset int) ([]types.Parent, int64, error) {
	rows, err := s.Db.QueryContext(ctx, `
		SELECT parent_id, parent_name, COUNT(*) OVER () AS total
		FROM Parent
		ORDER BY parent_id
		LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("ListParents: query: %w", err)
	}
	defer rows.Close()

	parents := make([]types.Parent, 0)
	var total int64

	for rows.Next() {
		var parent types.Parent
		if err := rows.Scan(&parent.ID, &parent.Name, &total); err != nil {
			return nil, 0, fmt.Errorf("ListParents: scan row: %w", err)
		}
		parents = append(parents, parent)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ListParents: rows iteration: %w", err)
	}

	// An empty page says nothing about the table size.
	if len(parents) == 0 {
		total, err = s.count(ctx, "Parent")
		if err != nil {
			return nil, 0, fmt.Errorf("ListParents: %w", err)
		}
	}

	return parents, total, nil
}

func (s *SQLite) UpdateParentByID(ctx context.Context, id int64, parent types.Parent) error {
	return s.execByID(ctx, "UpdateParentByID",
		"UPDATE Parent SET parent_name = ? WHERE parent_id = ?",
		parent.Name, id,
	)
}

func (s *SQLite) DeleteParentByID(ctx context.Context, id int64) error {
	return s.execByID(ctx, "DeleteParentByID",
		"DELETE FROM Parent WHERE parent_id = ?",
		id,
	)
}

// ─────────────────────────────────────────────────────────────────────────────
// Student
// ─────────────────────────────────────────────────────────────────────────────

func (s *SQLite) CreateStudent(ctx context.Context, student types.Student) (int64, error) {
	stmt, err := s.Db.PrepareContext(ctx, `
		INSERT INTO Student (student_name, student_age, parent_id, student_address)
		VALUES (?, ?, ?, ?)`,
	)
	if err != nil {
		return 0, fmt.Errorf("CreateStudent: prepare: %w", err)
	}
	defer stmt.Close()

	// Argument order matches the ? order in the SQL.
	result, err := stmt.ExecContext(ctx,
		student.Name, student.Age, student.ParentID, student.Address,
	)
	if err != nil {
		return 0, fmt.Errorf("CreateStudent: exec: %w", err)
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("CreateStudent: last insert id: %w", err)
	}

	return lastID, nil
}

func (s *SQLite) ListStudents(ctx context.Context, limit, offset int) ([]types.Student, int64, error) {
	rows, err := s.Db.QueryContext(ctx, `
		SELECT student_id, student_name, student_age, parent_id, student_address,
		       COUNT(*) OVER () AS total
		FROM Student
		ORDER BY student_id
		LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("ListStudents: query: %w", err)
	}
	defer rows.Close()

	students := make([]types.Student, 0)
	var total int64

	for rows.Next() {
		var student types.Student
		if err := rows.Scan(
			&student.ID,
			&student.Name,
			&student.Age,
			&student.ParentID,
			&student.Address,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("ListStudents: scan row: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ListStudents: rows iteration: %w", err)
	}

	if len(students) == 0 {
		total, err = s.count(ctx, "Student")
		if err != nil {
			return nil, 0, fmt.Errorf("ListStudents: %w", err)
		}
	}

	return students, total, nil
}

func (s *SQLite) UpdateStudentByID(ctx context.Context, id int64, student types.Student) error {
	return s.execByID(ctx, "UpdateStudentByID", `
		UPDATE Student
		SET student_name = ?, student_age = ?, parent_id = ?, student_address = ?
		WHERE student_id = ?`,
		student.Name, student.Age, student.ParentID, student.Address, id,
	)
}

func (s *SQLite) DeleteStudentByID(ctx context.Context, id int64) error {
	return s.execByID(ctx, "DeleteStudentByID",
		"DELETE FROM Student WHERE student_id = ?",
		id,
	)
}

// ─────────────────────────────────────────────────────────────────────────────
// Lifecycle
// ─────────────────────────────────────────────────────────────────────────────

func (s *SQLite) Ping(ctx context.Context) error {
	return s.Db.PingContext(ctx)
}

func (s *SQLite) Close() error {
	return s.Db.Close()
}

// execByID runs a single-row UPDATE or DELETE keyed by primary key and
// turns "zero rows affected" into storage.ErrNotFound.
func (s *SQLite) execByID(ctx context.Context, op, query string, args ...any) error {
	stmt, err := s.Db.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("%s: prepare: %w", op, err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, args...)
	if err != nil {
		return fmt.Errorf("%s: exec: %w", op, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// count returns the number of rows in table. table is always one of the
// constants above, never user input.
func (s *SQLite) count(ctx context.Context, table string) (int64, error) {
	var total int64
	if err := s.Db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&total); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return total, nil
}
