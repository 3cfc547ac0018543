package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"repairdesk/internal/domain"
	"repairdesk/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestOrderRepository_ListForUser(t *testing.T) {
	db := testutil.NewDB(t)
	orders := NewOrderRepository(db)
	participants := NewOrderUserRepository(db)
	ctx := context.Background()

	u := testutil.CreateUser(t, db, "master1", "Master One", domain.RoleMaster)
	o1 := testutil.CreateOrder(t, db, "ORD-1", "new")
	testutil.CreateOrder(t, db, "ORD-2", "new")

	created, err := participants.Add(ctx, o1.ID, u.ID, domain.OrderUserRoleAssigned)
	require.NoError(t, err)
	assert.True(t, created)

	mine, err := orders.ListForUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "ORD-1", mine[0].OrderID)

	all, err := orders.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestOrderRepository_InternalIDUnknown(t *testing.T) {
	db := testutil.NewDB(t)
	orders := NewOrderRepository(db)

	_, err := orders.InternalID(context.Background(), "missing")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestOrderRepository_ForUpdateInsideTransaction(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.CreateOrder(t, db, "ORD-9", "new")
	tm := NewTxManager(db)
	orders := NewOrderRepository(db)
	ctx := context.Background()

	err := tm.Do(ctx, func(tx *gorm.DB) error {
		o, err := orders.WithTx(tx).GetByOrderIDForUpdate(ctx, "ORD-9")
		if err != nil {
			return err
		}
		return orders.WithTx(tx).UpdateFields(ctx, o.ID, map[string]interface{}{"status": "done", "updated_at": time.Now()})
	})
	require.NoError(t, err)

	o, err := orders.GetByOrderID(ctx, "ORD-9")
	require.NoError(t, err)
	assert.Equal(t, "done", o.Status)
}

func TestOrderUserRepository_AddIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewOrderUserRepository(db)
	ctx := context.Background()

	u := testutil.CreateUser(t, db, "m", "Master", domain.RoleMaster)
	o := testutil.CreateOrder(t, db, "ORD-5", "new")

	created, err := repo.Add(ctx, o.ID, u.ID, domain.OrderUserRoleAssigned)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Add(ctx, o.ID, u.ID, domain.OrderUserRoleCreator)
	require.NoError(t, err)
	assert.False(t, created)

	n, err := repo.Count(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	rows, err := repo.ListByOrder(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Master", rows[0].FullName)
	assert.Equal(t, domain.OrderUserRoleAssigned, rows[0].AssignmentRole)

	require.NoError(t, repo.Remove(ctx, o.ID, u.ID))
	require.NoError(t, repo.Remove(ctx, o.ID, u.ID))
	n, err = repo.Count(ctx, o.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}
