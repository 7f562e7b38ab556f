package postgres

import (
	"context"
	"math"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/school-records-api/internal/storage"
	"github.com/aanand-mishra/school-records-api/internal/types"
)

// newTestStore connects to RECORDS_TEST_DATABASE_URL and empties both
// tables. The tests are skipped when the variable is not set.
func newTestStore(t *testing.T) *Postgres {
	t.Helper()

	url := os.Getenv("RECORDS_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("RECORDS_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	store, err := New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	_, err = store.Pool.Exec(ctx, "TRUNCATE parent, student RESTART IDENTITY")
	require.NoError(t, err)

	return store
}

func TestParentLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.CreateParent(ctx, types.Parent{Name: "Maria"})
	require.NoError(t, err)

	require.NoError(t, store.UpdateParentByID(ctx, id, types.Parent{Name: "Maria Lopez"}))

	parents, total, err := store.ListParents(ctx, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, []types.Parent{{ID: id, Name: "Maria Lopez"}}, parents)

	require.NoError(t, store.DeleteParentByID(ctx, id))
	assert.ErrorIs(t, store.DeleteParentByID(ctx, id), storage.ErrNotFound)
}

func TestListStudents_Pagination(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := store.CreateStudent(ctx, types.Student{Name: "s", Age: 7, ParentID: 1, Address: "Oak St"})
		require.NoError(t, err)
	}

	page, total, err := store.ListStudents(ctx, 2, 0)
	require.NoError(t, err)
	assert.Len(t, page, 2)
	assert.Equal(t, int64(5), total)

	page, total, err = store.ListStudents(ctx, 2, 10)
	require.NoError(t, err)
	assert.NotNil(t, page)
	assert.Empty(t, page)
	assert.Equal(t, int64(5), total)

	page, total, err = store.ListStudents(ctx, 4, math.MaxInt)
	require.NoError(t, err)
	assert.Empty(t, page)
	assert.Equal(t, int64(5), total)
}

func TestUpdateStudent_NotFound(t *testing.T) {
	store := newTestStore(t)

	err := store.UpdateStudentByID(context.Background(), 404, types.Student{Name: "x", Age: 1, ParentID: 1, Address: "y"})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
