package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestIsPostgresDSN(t *testing.T) {
	assert.True(t, IsPostgresDSN("postgres://u:p@localhost/db"))
	assert.True(t, IsPostgresDSN("postgresql://localhost/db"))
	assert.False(t, IsPostgresDSN("file:repair.db"))
	assert.False(t, IsPostgresDSN(":memory:"))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(errors.New("connection refused")))
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, IsUniqueViolation(fmt.Errorf("create order: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, IsUniqueViolation(errors.New("constraint failed: UNIQUE constraint failed: orders.order_id (2067)")))
}

func TestConnect_SQLiteMemory(t *testing.T) {
	db, err := Connect("file:connect_test?mode=memory&cache=shared", nil)
	require.NoError(t, err)
	defer Close(db, nil)

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}

func TestConnect_SQLiteLowerFoldsUnicode(t *testing.T) {
	db, err := Connect("file:lower_test?mode=memory&cache=shared", nil)
	require.NoError(t, err)
	defer Close(db, nil)

	var got string
	require.NoError(t, db.Raw("SELECT LOWER(?)", "ЗАМЕНА Экрана").Scan(&got).Error)
	assert.Equal(t, "замена экрана", got)
}

func TestSqliteDSN(t *testing.T) {
	assert.Equal(t, "repair.db?_time_format=sqlite", sqliteDSN("repair.db"))
	assert.Equal(t, "file:x?mode=memory&_time_format=sqlite", sqliteDSN("file:x?mode=memory"))
	assert.Equal(t, "file:x?_time_format=sqlite", sqliteDSN("file:x?_time_format=sqlite"))
}
