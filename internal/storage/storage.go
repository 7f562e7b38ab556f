// Package storage defines the Storage interface, the contract that any
// database backend must satisfy to work with this application.
//
// Two backends live below this package:
//
//   - storage/sqlite   — a single file on disk (default)
//   - storage/postgres — a pgx connection pool
//
// Handlers depend only on this interface, so the backend is picked once
// in main.go from configuration and tests can run against a temp file.
package storage

import (
	"context"
	"errors"

	"github.com/aanand-mishra/school-records-api/internal/types"
)

// ErrNotFound is returned by update and delete methods when no row has
// the requested id (the statement affected zero rows).
var ErrNotFound = errors.New("record not found")

// Storage is the database contract.
//
// Every method performs at most one round trip in the common case and
// never retries. List methods return the requested page together with the
// row count of the whole table.
type Storage interface {
	// CreateParent inserts a parent and returns the store-assigned id.
	CreateParent(ctx context.Context, parent types.Parent) (int64, error)

	// ListParents returns up to limit parents starting at offset, ordered
	// by id, plus the total number of parents.
	ListParents(ctx context.Context, limit, offset int) ([]types.Parent, int64, error)

	// UpdateParentByID replaces the mutable fields of a parent.
	// Returns ErrNotFound if no parent has that id.
	UpdateParentByID(ctx context.Context, id int64, parent types.Parent) error

	// DeleteParentByID removes a parent permanently.
	// Returns ErrNotFound if no parent has that id.
	DeleteParentByID(ctx context.Context, id int64) error

	// CreateStudent inserts a student and returns the store-assigned id.
	CreateStudent(ctx context.Context, student types.Student) (int64, error)

	// ListStudents returns up to limit students starting at offset,
	// ordered by id, plus the total number of students.
	ListStudents(ctx context.Context, limit, offset int) ([]types.Student, int64, error)

	// UpdateStudentByID replaces the mutable fields of a student.
	// Returns ErrNotFound if no student has that id.
	UpdateStudentByID(ctx context.Context, id int64, student types.Student) error

	// DeleteStudentByID removes a student permanently.
	// Returns ErrNotFound if no student has that id.
	DeleteStudentByID(ctx context.Context, id int64) error

	// Ping checks that the database is reachable.
	Ping(ctx context.Context) error

	// Close releases the connection pool.
	Close() error
}
