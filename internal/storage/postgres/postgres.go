// Package postgres implements storage.Storage on PostgreSQL through a
// pgx connection pool.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aanand-mishra/school-records-api/internal/storage"
	"github.com/aanand-mishra/school-records-api/internal/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS parent (
	parent_id   BIGSERIAL PRIMARY KEY,
	parent_name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS student (
	student_id      BIGSERIAL PRIMARY KEY,
	student_name    TEXT    NOT NULL,
	student_age     INTEGER NOT NULL,
	parent_id       BIGINT  NOT NULL,
	student_address TEXT    NOT NULL
);
`

type Postgres struct {
	Pool *pgxpool.Pool
}

var _ storage.Storage = (*Postgres)(nil)

// New connects to databaseURL, checks the connection and creates the
// tables if they are missing.
func New(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: create tables: %w", err)
	}

	return &Postgres{Pool: pool}, nil
}

func (p *Postgres) CreateParent(ctx context.Context, parent types.Parent) (int64, error) {
	var id int64
	err := p.Pool.QueryRow(ctx,
		"INSERT INTO parent (parent_name) VALUES ($1) RETURNING parent_id",
		parent.Name,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("CreateParent: %w", err)
	}
	return id, nil
}

func (p *Postgres) ListParents(ctx context.Context, limit, offset int) ([]types.Parent, int64, error) {
	rows, err := p.Pool.Query(ctx, `
		SELECT parent_id, parent_name, COUNT(*) OVER () AS total
		FROM parent
		ORDER BY parent_id
		LIMIT $1 OFFSET $2`,
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

	if len(parents) == 0 {
		if total, err = p.count(ctx, "parent"); err != nil {
			return nil, 0, fmt.Errorf("ListParents: %w", err)
		}
	}

	return parents, total, nil
}

func (p *Postgres) UpdateParentByID(ctx context.Context, id int64, parent types.Parent) error {
	return p.execByID(ctx, "UpdateParentByID",
		"UPDATE parent SET parent_name = $1 WHERE parent_id = $2",
		parent.Name, id,
	)
}

func (p *Postgres) DeleteParentByID(ctx context.Context, id int64) error {
	return p.execByID(ctx, "DeleteParentByID",
		"DELETE FROM parent WHERE parent_id = $1",
		id,
	)
}

func (p *Postgres) CreateStudent(ctx context.Context, student types.Student) (int64, error) {
	var id int64
	err := p.Pool.QueryRow(ctx, `
		INSERT INTO student (student_name, student_age, parent_id, student_address)
		VALUES ($1, $2, $3, $4)
		RETURNING student_id`,
		student.Name, student.Age, student.ParentID, student.Address,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("CreateStudent: %w", err)
	}
	return id, nil
}

func (p *Postgres) ListStudents(ctx context.Context, limit, offset int) ([]types.Student, int64, error) {
	rows, err := p.Pool.Query(ctx, `
		SELECT student_id, student_name, student_age, parent_id, student_address,
		       COUNT(*) OVER () AS total
		FROM student
		ORDER BY student_id
		LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("ListStudents: query: %w", err)
	}

	defer rows.Close()

	students := make([]types.Student, 0)
	var total int64

	for rows.Next() {
		var s types.Student
		if err := rows.Scan(&s.ID, &s.Name, &s.Age, &s.ParentID, &s.Address, &total); err != nil {
			return nil, 0, fmt.Errorf("ListStudents: scan row: %w", err)
		}
		students = append(students, s)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ListStudents: rows iteration: %w", err)
	}

	if len(students) == 0 {
		if total, err = p.count(ctx, "student"); err != nil {
			return nil, 0, fmt.Errorf("ListStudents: %w", err)
		}
	}

	return students, total, nil
}

func (p *Postgres) UpdateStudentByID(ctx context.Context, id int64, student types.Student) error {
	return p.execByID(ctx, "UpdateStudentByID", `
		UPDATE student
		SET student_name = $1, student_age = $2, parent_id = $3, student_address = $4
		WHERE student_id = $5`,
		student.Name, student.Age, student.ParentID, student.Address, id,
	)
}

func (p *Postgres) DeleteStudentByID(ctx context.Context, id int64) error {
	return p.execByID(ctx, "DeleteStudentByID",
		"DELETE FROM student WHERE student_id = $1",
		id,
	)
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.Pool.Ping(ctx)
}

func (p *Postgres) Close() error {
	p.Pool.Close()
	return nil
}

func (p *Postgres) execByID(ctx context.Context, op, query string, args ...any) error {
	tag, err := p.Pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// count returns the number of rows in table; table is never user input.
func (p *Postgres) count(ctx context.Context, table string) (int64, error) {
	var total int64
	if err := p.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&total); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return total, nil
}
