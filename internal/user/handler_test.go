package user

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/SolterraRealty/api-backoffice/internal/auth"
	"github.com/SolterraRealty/api-backoffice/internal/config"
	"github.com/SolterraRealty/api-backoffice/internal/notification"
)

func newTestHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	log := logrus.New()
	log.SetOutput(io.Discard)

	return NewHandler(gdb, notification.NewMailer(&config.Config{}, log), log), mock
}

func TestUpdate_OmittedFieldsKeepStoredValues(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "phone", "role", "active"}).
			AddRow(5, "Ana", "Cruz", "ana@example.com", "0917", RoleClient, true))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Only the first name is sent; last name and phone must survive.
	body, err := json.Marshal(UpdateRequest{FirstName: "Anna"})
	require.NoError(t, err)

	req := mux.SetURLVars(
		httptest.NewRequest(http.MethodPut, "/users/5", bytes.NewReader(body)),
		map[string]string{"id": "5"},
	)
	ctx := context.WithValue(req.Context(), auth.CtxUserID, uint(5))
	ctx = context.WithValue(ctx, auth.CtxRole, RoleClient)

	rec := httptest.NewRecorder()
	h.Update(rec, req.WithContext(ctx))

	assert.Equal(t, http.StatusOK, rec.Code)

	var out User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "Anna", out.FirstName)
	assert.Equal(t, "Cruz", out.LastName)
	assert.Equal(t, "0917", out.Phone)
	assert.NoError(t, mock.ExpectationsWereMet())
}
