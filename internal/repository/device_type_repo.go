package repository

import (
	"context"

	"repairdesk/internal/domain"

	"gorm.io/gorm"
)

type DeviceTypeRepository struct {
	db *gorm.DB
}

func NewDeviceTypeRepository(db *gorm.DB) *DeviceTypeRepository {
	return &DeviceTypeRepository{db: db}
}

// List returns the catalog ordered by category and name, or by name only
// when a category filter is given.
func (r *DeviceTypeRepository) List(ctx context.Context, category string) ([]domain.DeviceType, error) {
	q := r.db.WithContext(ctx)
	if category != "" {
		q = q.Where("category = ?", category).Order("name")
	} else {
		q = q.Order("category").Order("name")
	}

	var items []domain.DeviceType
	err := q.Find(&items).Error
	return items, err
}

func (r *DeviceTypeRepository) Create(ctx context.Context, dt *domain.DeviceType) error {
	return r.db.WithContext(ctx).Create(dt).Error
}

// Delete removes the row if present. Devices referencing the name are left
// untouched.
func (r *DeviceTypeRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.DeviceType{}, id).Error
}

func (r *DeviceTypeRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.DeviceType{}).Count(&n).Error
	return n, err
}
