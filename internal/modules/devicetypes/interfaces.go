package devicetypes

import (
	"context"

	"repairdesk/internal/domain"
)

// Repository defines the catalog storage operations
type Repository interface {
	List(ctx context.Context, category string) ([]domain.DeviceType, error)
	Create(ctx context.Context, dt *domain.DeviceType) error
	Delete(ctx context.Context, id int64) error
}
