package reservation

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/SolterraRealty/api-backoffice/internal/auth"
	"github.com/SolterraRealty/api-backoffice/internal/notification"
	"github.com/SolterraRealty/api-backoffice/internal/property"
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

	h := NewHandler(gdb, property.NewRepository(gdb), notification.NewWebhook("", log), log)
	return h, mock
}

func propertyRows(status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "code", "name", "type", "status"}).
		AddRow(2, "LOT-001", "Lot 1 Block 1", property.TypeLot, status)
}

func postCreate(t *testing.T, h *Handler, clientID uint) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(createReservationRequest{
		PropertyID:     2,
		ReservationFee: decimal.NewFromInt(5000),
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/reservations", bytes.NewReader(body))
	ctx := context.WithValue(req.Context(), auth.CtxUserID, clientID)
	ctx = context.WithValue(ctx, auth.CtxRole, auth.RoleClient)

	rec := httptest.NewRecorder()
	h.Create(rec, req.WithContext(ctx))
	return rec
}

func TestCreate_HoldsAvailableProperty(t *testing.T) {
	h, mock := newTestHandler(t)

	// The availability check runs under a row lock inside the transaction.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "properties"(.+)FOR UPDATE`).
		WillReturnRows(propertyRows(property.StatusAvailable))
	mock.ExpectQuery(`INSERT INTO "reservations"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec(`UPDATE "properties"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rec := postCreate(t, h, 9)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var out Reservation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, StatusPending, out.Status)
	assert.Equal(t, uint(9), out.ClientID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_PropertyAlreadyHeld(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "properties"(.+)FOR UPDATE`).
		WillReturnRows(propertyRows(property.StatusReserved))
	mock.ExpectRollback()
	// Active-hold lookup for the duplicate alert.
	mock.ExpectQuery(`SELECT (.+) FROM "reservations"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "property_id", "client_id", "status"}).
			AddRow(4, 2, 7, StatusPending))

	rec := postCreate(t, h, 9)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "not available")
	assert.NoError(t, mock.ExpectationsWereMet())
}
