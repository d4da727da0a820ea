package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skylineapts/strata-portal/internal/repository"
)

func newUnitHandlerWithMock(t *testing.T) (*UnitHandler, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewUnitHandler(repository.NewUnitRepo(db), repository.NewUserRepo(db)), mock, db
}

func TestCreateUnit(t *testing.T) {
	e := echo.New()
	h, mock, db := newUnitHandlerWithMock(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO units").
		WithArgs("101", 1, 2, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	c, rec := postJSON(e, "/v1/units",
		`{"unit_number":"101","floor_number":1,"entitlements":2}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"unit_number":"101"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUnitWithOwner(t *testing.T) {
	e := echo.New()
	h, mock, db := newUnitHandlerWithMock(t)
	defer db.Close()

	mock.ExpectQuery("SELECT id,username,email,password_hash,role,created_at FROM users").
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "role", "created_at"}).
			AddRow(9, "alice", "alice@example.com", "x", "owner", time.Now()))
	mock.ExpectExec("INSERT INTO units").
		WithArgs("102", 1, 3, uint64(9)).
		WillReturnResult(sqlmock.NewResult(2, 1))

	c, rec := postJSON(e, "/v1/units",
		`{"unit_number":"102","floor_number":1,"entitlements":3,"owner_id":9}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUnitUnknownOwner(t *testing.T) {
	e := echo.New()
	h, mock, db := newUnitHandlerWithMock(t)
	defer db.Close()

	mock.ExpectQuery("SELECT id,username,email,password_hash,role,created_at FROM users").
		WithArgs(uint64(99)).
		WillReturnError(sql.ErrNoRows)

	c, rec := postJSON(e, "/v1/units",
		`{"unit_number":"103","floor_number":1,"entitlements":1,"owner_id":99}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUnitDuplicateNumber(t *testing.T) {
	e := echo.New()
	h, mock, db := newUnitHandlerWithMock(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO units").
		WillReturnError(errors.New("Error 1062: Duplicate entry '101' for key 'unit_number'"))

	c, rec := postJSON(e, "/v1/units",
		`{"unit_number":"101","floor_number":1,"entitlements":2}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUnitValidation(t *testing.T) {
	e := echo.New()
	h, mock, db := newUnitHandlerWithMock(t)
	defer db.Close()

	for name, body := range map[string]string{
		"blank number":      `{"unit_number":"  ","floor_number":1,"entitlements":2}`,
		"zero entitlements": `{"unit_number":"101","floor_number":1,"entitlements":0}`,
	} {
		c, rec := postJSON(e, "/v1/units", body)
		require.NoError(t, h.Create(c), name)
		assert.Equal(t, http.StatusBadRequest, rec.Code, name)
	}
	// Rejected before any query runs.
	assert.NoError(t, mock.ExpectationsWereMet())
}
