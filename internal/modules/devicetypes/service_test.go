package devicetypes

import (
	"context"
	"errors"
	"testing"

	"repairdesk/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) List(ctx context.Context, category string) ([]domain.DeviceType, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DeviceType), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, dt *domain.DeviceType) error {
	args := m.Called(ctx, dt)
	if dt != nil {
		dt.ID = 77 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestService_ListTrimsCategoryAndNeverReturnsNil(t *testing.T) {
	repo := new(MockRepository)
	repo.On("List", mock.Anything, "Phones").Return(nil, nil)

	items, err := NewService(repo).List(context.Background(), "  Phones ")

	assert.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
	repo.AssertExpectations(t)
}

func TestService_CreateRequiresNameAndCategory(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), CreateRequest{Name: "iPhone", Category: "  "})
	assert.ErrorIs(t, err, ErrNameAndCategoryRequired)

	_, err = svc.Create(context.Background(), CreateRequest{Category: "Phones"})
	assert.ErrorIs(t, err, ErrNameAndCategoryRequired)

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Create(t *testing.T) {
	repo := new(MockRepository)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(dt *domain.DeviceType) bool {
		return dt.Name == "iPhone" && dt.Category == "Phones"
	})).Return(nil)

	dt, err := NewService(repo).Create(context.Background(), CreateRequest{Name: " iPhone ", Category: "Phones"})

	assert.NoError(t, err)
	assert.Equal(t, int64(77), dt.ID)
	repo.AssertExpectations(t)
}

func TestService_DeleteWrapsRepositoryError(t *testing.T) {
	repo := new(MockRepository)
	dbErr := errors.New("db down")
	repo.On("Delete", mock.Anything, int64(3)).Return(dbErr)

	err := NewService(repo).Delete(context.Background(), 3)

	assert.ErrorIs(t, err, dbErr)
	assert.ErrorIs(t, NewService(repo).Delete(context.Background(), 0), ErrIDRequired)
}
