package orders

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"repairdesk/internal/pkg/flexid"
	"repairdesk/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newMockService wires the service to a PostgreSQL-dialect gorm handle
// backed by sqlmock, so the generated statements can be asserted.
func newMockService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	svc := NewService(
		repository.NewTxManager(db),
		repository.NewOrderRepository(db),
		repository.NewOrderUserRepository(db),
		repository.NewStatusHistoryRepository(db),
		repository.NewUserRepository(db),
		nil,
	)
	return svc, mock
}

func TestUpdateStatus_LocksRowAndAppendsLedgerInOneTransaction(t *testing.T) {
	svc, mock := newMockService(t)

	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	created := now.Add(-3 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE order_id = \$1 .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "status", "history", "created_at", "status_changed_at"}).
			AddRow(int64(7), "ORD-7", "new", "[]", created, nil))
	mock.ExpectExec(`UPDATE "orders" SET .*"status"=.*WHERE id = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "order_status_history"`).
		WithArgs(int64(7), "new", "done", "Petr", 3.0, true, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectCommit()

	master := "Petr"
	deadline := now.Add(-time.Hour).Format(time.RFC3339)
	got, err := svc.UpdateStatus(context.Background(), 0, UpdateStatusRequest{
		ID:             flexid.Key("ORD-7"),
		Status:         "done",
		Master:         &master,
		History:        json.RawMessage(`["new","done"]`),
		StatusDeadline: &deadline,
	})
	require.NoError(t, err)
	assert.Equal(t, "done", got.Status)
	assert.True(t, got.IsOverdue)
	require.NotNil(t, got.StatusChangedAt)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_UnchangedStatusSkipsLedger(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "orders" .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "status", "created_at"}).
			AddRow(int64(3), "ORD-3", "done", time.Now().Add(-time.Hour)))
	mock.ExpectExec(`UPDATE "orders" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	got, err := svc.UpdateStatus(context.Background(), 0, UpdateStatusRequest{
		ID:      flexid.Key("ORD-3"),
		Status:  "done",
		History: json.RawMessage(`[]`),
	})
	require.NoError(t, err)
	assert.False(t, got.IsOverdue)
	assert.Nil(t, got.StatusChangedAt)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_UnknownOrderRollsBack(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "orders" .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := svc.UpdateStatus(context.Background(), 0, UpdateStatusRequest{
		ID:      flexid.Key("NOPE"),
		Status:  "done",
		History: json.RawMessage(`[]`),
	})
	assert.True(t, errors.Is(err, ErrOrderNotFound))

	require.NoError(t, mock.ExpectationsWereMet())
}
