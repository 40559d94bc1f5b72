package todo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/go-todo-api/internal/database"
)

var todoColumns = []string{"id", "title", "completed", "sort_order", "created_at", "updated_at"}

func newRepoWithMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	return NewRepository(database.NewBunDB(sqlDB)), mock
}

func TestRepository_Create(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO "todos" .*'buy milk'.*RETURNING`).
		WillReturnRows(sqlmock.NewRows(todoColumns).AddRow(int64(1), "buy milk", false, 1, now, now))

	got, err := repo.Create(context.Background(), "buy milk", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, "buy milk", got.Title)
	assert.False(t, got.Completed)
	assert.Equal(t, 1, got.Order)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_List(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT .* FROM "todos" AS "t" ORDER BY .*sort_order.* ASC, .*id.* ASC`).
		WillReturnRows(sqlmock.NewRows(todoColumns).
			AddRow(int64(2), "first", false, 0, now, now).
			AddRow(int64(1), "second", true, 5, now, now))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].ID)
	assert.True(t, got[1].Completed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Get(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT .* FROM "todos" AS "t" WHERE \(id = 3\)`).
		WillReturnRows(sqlmock.NewRows(todoColumns).AddRow(int64(3), "x", false, 0, now, now))

	got, err := repo.Get(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.ID)
}

func TestRepository_Get_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT .* FROM "todos" AS "t" WHERE \(id = 9\)`).
		WillReturnRows(sqlmock.NewRows(todoColumns))

	_, err := repo.Get(context.Background(), 9)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_Update_SetsOnlyGivenFields(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()
	done := true

	mock.ExpectQuery(`UPDATE "todos".* SET completed = (?i:true), updated_at = current_timestamp WHERE \(id = 3\) RETURNING`).
		WillReturnRows(sqlmock.NewRows(todoColumns).AddRow(int64(3), "keep", true, 4, now, now))

	got, err := repo.Update(context.Background(), 3, Patch{Completed: &done})
	require.NoError(t, err)
	assert.True(t, got.Completed)
	assert.Equal(t, "keep", got.Title)
	assert.Equal(t, 4, got.Order)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Update_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	title := "x"

	mock.ExpectQuery(`UPDATE "todos".* SET title = 'x'.*WHERE \(id = 9\) RETURNING`).
		WillReturnRows(sqlmock.NewRows(todoColumns))

	_, err := repo.Update(context.Background(), 9, Patch{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_Update_EmptyPatchReads(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT .* FROM "todos" AS "t" WHERE \(id = 3\)`).
		WillReturnRows(sqlmock.NewRows(todoColumns).AddRow(int64(3), "x", false, 0, now, now))

	got, err := repo.Update(context.Background(), 3, Patch{})
	require.NoError(t, err)
	assert.Equal(t, "x", got.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Delete(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`DELETE FROM "todos".*WHERE \(id = 3\) RETURNING`).
		WillReturnRows(sqlmock.NewRows(todoColumns).AddRow(int64(3), "gone", false, 0, now, now))

	got, err := repo.Delete(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "gone", got.Title)

	mock.ExpectQuery(`DELETE FROM "todos".*WHERE \(id = 3\) RETURNING`).
		WillReturnRows(sqlmock.NewRows(todoColumns))

	_, err = repo.Delete(context.Background(), 3)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_DeleteAll_ReturnsRowsInListOrder(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`DELETE FROM "todos".*WHERE \(TRUE\) RETURNING`).
		WillReturnRows(sqlmock.NewRows(todoColumns).
			AddRow(int64(2), "b", false, 5, now, now).
			AddRow(int64(3), "c", false, 1, now, now).
			AddRow(int64(1), "a", false, 1, now, now))

	got, err := repo.DeleteAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []int64{1, 3, 2}, []int64{got[0].ID, got[1].ID, got[2].ID})
}

func TestRepository_DBErrorIsWrapped(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	boom := errors.New("connection reset")

	mock.ExpectQuery(`SELECT`).WillReturnError(boom)

	_, err := repo.List(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNotFound)
}
