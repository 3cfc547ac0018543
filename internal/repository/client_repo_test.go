package repository

import (
	"context"
	"testing"

	"repairdesk/internal/domain"
	"repairdesk/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestClientRepository_UpsertByPhoneOverwrites(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewClientRepository(db)
	ctx := context.Background()

	first := &domain.Client{FullName: "Ivan", Phone: "+7000", Address: strPtr("Old street")}
	require.NoError(t, repo.UpsertByPhone(ctx, first))
	require.NotZero(t, first.ID)

	second := &domain.Client{FullName: "Ivan Petrov", Phone: "+7000", Address: strPtr("New street")}
	require.NoError(t, repo.UpsertByPhone(ctx, second))

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Ivan Petrov", second.FullName)
	require.NotNil(t, second.Address)
	assert.Equal(t, "New street", *second.Address)

	n, err := repo.CountByPhone(ctx, "+7000")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestClientRepository_SearchBySerialOnlyMatchingDevices(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewClientRepository(db)
	ctx := context.Background()

	c := &domain.Client{FullName: "Anna", Phone: "+7111"}
	require.NoError(t, repo.UpsertByPhone(ctx, c))
	require.NoError(t, repo.AddDevice(ctx, &domain.ClientDevice{ClientID: c.ID, DeviceType: "Phone", SerialNumber: strPtr("ABC-123")}))
	require.NoError(t, repo.AddDevice(ctx, &domain.ClientDevice{ClientID: c.ID, DeviceType: "Laptop", SerialNumber: strPtr("ZZZ-999")}))

	other := &domain.Client{FullName: "Boris", Phone: "+7222"}
	require.NoError(t, repo.UpsertByPhone(ctx, other))

	found, err := repo.SearchBySerial(ctx, "abc", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, c.ID, found[0].ID)
	require.Len(t, found[0].Devices, 1)
	assert.Equal(t, "ABC-123", *found[0].Devices[0].SerialNumber)
}

func TestClientRepository_SearchTextOrdersByName(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewClientRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.UpsertByPhone(ctx, &domain.Client{FullName: "Zoya", Phone: "+7001", Address: strPtr("Mira 5")}))
	require.NoError(t, repo.UpsertByPhone(ctx, &domain.Client{FullName: "Alla", Phone: "+7002", Address: strPtr("Mira 7")}))
	require.NoError(t, repo.UpsertByPhone(ctx, &domain.Client{FullName: "Oleg", Phone: "+7003"}))

	found, err := repo.SearchText(ctx, "MIRA", 20)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Alla", found[0].FullName)
	assert.Equal(t, "Zoya", found[1].FullName)
}

func TestClientRepository_SearchTextFoldsCyrillic(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewClientRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.UpsertByPhone(ctx, &domain.Client{FullName: "Иван Петров", Phone: "+7010", Address: strPtr("ул. Ленина 3")}))
	require.NoError(t, repo.UpsertByPhone(ctx, &domain.Client{FullName: "Ольга Сидорова", Phone: "+7011"}))

	found, err := repo.SearchText(ctx, "иван", 20)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Иван Петров", found[0].FullName)

	found, err = repo.SearchText(ctx, "ЛЕНИНА", 20)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "+7010", found[0].Phone)
}

func TestClientRepository_LikeWildcardsAreLiteral(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewClientRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.UpsertByPhone(ctx, &domain.Client{FullName: "Ivan", Phone: "+7123"}))

	found, err := repo.SearchByPhone(ctx, "%", 10)
	require.NoError(t, err)
	assert.Empty(t, found)
}
