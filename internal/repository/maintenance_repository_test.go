package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skylineapts/strata-portal/internal/model"
)

func newMaintenanceRepoWithMock(t *testing.T) (*MaintenanceRepo, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewMaintenanceRepo(db), mock, db
}

func TestUpdateStatus(t *testing.T) {
	repo, mock, db := newMaintenanceRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM maintenance_requests`).
		WithArgs(uint64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec("UPDATE maintenance_requests SET status").
		WithArgs("in_progress", uint64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), 4, model.RequestInProgress))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusUnchangedValueIsNotAnError(t *testing.T) {
	repo, mock, db := newMaintenanceRepoWithMock(t)
	defer db.Close()

	// Re-submitting the current status touches zero rows; still success.
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM maintenance_requests`).
		WithArgs(uint64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec("UPDATE maintenance_requests SET status").
		WithArgs("pending", uint64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.UpdateStatus(context.Background(), 4, model.RequestPending))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusMissingRequest(t *testing.T) {
	repo, mock, db := newMaintenanceRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM maintenance_requests`).
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	err := repo.UpdateStatus(context.Background(), 99, model.RequestCompleted)
	assert.ErrorIs(t, err, ErrRequestNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
