// AngelaMos | 2026
// repository_test.go

package breakdown

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kenfackariol/ITCare/internal/core"
)

var breakdownRowColumns = []string{
	"id", "name_requester", "direction_requester", "door_requester",
	"name_responsable", "serial_number", "model", "os", "observation",
	"start_date_intervention", "end_date_intervention", "type_intervention",
	"designation_cr", "user_id", "material_id", "created_at", "updated_at",
}

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func breakdownRow(id int64, requester string, start *time.Time, userID any) []driver.Value {
	now := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	var startVal driver.Value
	if start != nil {
		startVal = *start
	}
	return []driver.Value{
		id, requester, "IT", "B12", nil, "SN-1", "T480", "Windows 11", nil,
		startVal, nil, "repair", nil, userID, int64(3), now, now,
	}
}

func TestRepository_Create(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()
	start := time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC)
	userID := int64(2)

	mock.ExpectQuery(`INSERT INTO breakdowns`).
		WithArgs("Accounting", nil, nil, nil, nil, nil, nil, nil,
			start, nil, nil, nil, userID, int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(15), now, now))

	b := &Breakdown{
		NameRequester:         "Accounting",
		StartDateIntervention: &start,
		UserID:                &userID,
		MaterialID:            3,
	}
	require.NoError(t, repo.Create(context.Background(), b))
	assert.Equal(t, int64(15), b.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_MissingMaterial(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`INSERT INTO breakdowns`).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	err := repo.Create(context.Background(), &Breakdown{NameRequester: "x", MaterialID: 9})
	assert.ErrorIs(t, err, core.ErrForeignKey)
}

func TestRepository_GetByID(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`FROM breakdowns WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(breakdownRowColumns).
			AddRow(breakdownRow(1, "HR", nil, nil)...))

	b, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "HR", b.NameRequester)
	assert.Nil(t, b.UserID)
	assert.Nil(t, b.StartDateIntervention)
	require.NotNil(t, b.OS)
	assert.Equal(t, "Windows 11", *b.OS)

	mock.ExpectQuery(`FROM breakdowns WHERE id = \$1`).
		WithArgs(int64(2)).
		WillReturnError(sql.ErrNoRows)

	_, err = repo.GetByID(context.Background(), 2)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRepository_ListByDateRange(t *testing.T) {
	repo, mock := newMockRepo(t)
	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 7, 31, 23, 59, 59, 0, time.UTC)
	inside := time.Date(2024, 7, 10, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`WHERE start_date_intervention BETWEEN \$1 AND \$2`).
		WithArgs(start, end).
		WillReturnRows(sqlmock.NewRows(breakdownRowColumns).
			AddRow(breakdownRow(4, "Finance", &inside, int64(2))...))

	items, err := repo.ListByDateRange(context.Background(), start, end)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, inside, *items[0].StartDateIntervention)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListByRequesterAndUser(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`WHERE name_requester = \$1`).
		WithArgs("Jane Doe").
		WillReturnRows(sqlmock.NewRows(breakdownRowColumns))

	items, err := repo.ListByRequester(context.Background(), "Jane Doe")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	mock.ExpectQuery(`WHERE user_id = \$1`).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(breakdownRowColumns).
			AddRow(breakdownRow(5, "IT", nil, int64(2))...).
			AddRow(breakdownRow(6, "IT", nil, int64(2))...))

	items, err = repo.ListByUser(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Update(t *testing.T) {
	repo, mock := newMockRepo(t)
	updated := time.Now()

	mock.ExpectQuery(`UPDATE breakdowns\s+SET name_requester = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(updated))

	b := &Breakdown{ID: 3, NameRequester: "Legal", MaterialID: 1}
	require.NoError(t, repo.Update(context.Background(), b))
	assert.Equal(t, updated, b.UpdatedAt)
}

func TestRepository_Delete_Missing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`DELETE FROM breakdowns WHERE id = \$1`).
		WithArgs(int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 8), core.ErrNotFound)
}
