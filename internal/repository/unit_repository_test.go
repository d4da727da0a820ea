package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skylineapts/strata-portal/internal/model"
)

func newUnitRepoWithMock(t *testing.T) (*UnitRepo, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewUnitRepo(db), mock, db
}

func TestUnitInsert(t *testing.T) {
	repo, mock, db := newUnitRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO units").
		WithArgs("101", 1, 2, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	id, err := repo.Insert(context.Background(), &model.Unit{
		UnitNumber:   "101",
		FloorNumber:  1,
		Entitlements: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitInsertDuplicateNumber(t *testing.T) {
	repo, mock, db := newUnitRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO units").
		WillReturnError(errors.New("Error 1062: Duplicate entry '101' for key 'unit_number'"))

	_, err := repo.Insert(context.Background(), &model.Unit{
		UnitNumber:   "101",
		FloorNumber:  1,
		Entitlements: 2,
	})
	assert.ErrorIs(t, err, ErrUnitNumberExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func unitRow(id int64, number string, ownerID interface{}) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "unit_number", "floor_number", "unit_entitlements", "owner_id"}).
		AddRow(id, number, 1, 2, ownerID)
}

func TestAssignOwner(t *testing.T) {
	repo, mock, db := newUnitRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery("SELECT id, unit_number, floor_number, unit_entitlements, owner_id FROM units").
		WithArgs(uint64(3)).
		WillReturnRows(unitRow(3, "103", nil))
	mock.ExpectExec("UPDATE units SET owner_id").
		WithArgs(uint64(9), uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	owner := uint64(9)
	require.NoError(t, repo.AssignOwner(context.Background(), 3, &owner))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignOwnerUnchangedValueIsNotAnError(t *testing.T) {
	repo, mock, db := newUnitRepoWithMock(t)
	defer db.Close()

	// Reassigning the same owner touches zero rows; that is still success.
	mock.ExpectQuery("SELECT id, unit_number, floor_number, unit_entitlements, owner_id FROM units").
		WithArgs(uint64(3)).
		WillReturnRows(unitRow(3, "103", 9))
	mock.ExpectExec("UPDATE units SET owner_id").
		WithArgs(uint64(9), uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	owner := uint64(9)
	require.NoError(t, repo.AssignOwner(context.Background(), 3, &owner))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignOwnerMissingUnit(t *testing.T) {
	repo, mock, db := newUnitRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery("SELECT id, unit_number, floor_number, unit_entitlements, owner_id FROM units").
		WithArgs(uint64(99)).
		WillReturnError(sql.ErrNoRows)

	owner := uint64(9)
	err := repo.AssignOwner(context.Background(), 99, &owner)
	assert.ErrorIs(t, err, ErrUnitNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
