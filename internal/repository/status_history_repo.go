package repository

import (
	"context"

	"repairdesk/internal/domain"

	"gorm.io/gorm"
)

// StatusHistoryRepository only appends; rows are never updated.
type StatusHistoryRepository struct {
	db *gorm.DB
}

func NewStatusHistoryRepository(db *gorm.DB) *StatusHistoryRepository {
	return &StatusHistoryRepository{db: db}
}

func (r *StatusHistoryRepository) WithTx(tx *gorm.DB) *StatusHistoryRepository {
	return &StatusHistoryRepository{db: tx}
}

func (r *StatusHistoryRepository) Append(ctx context.Context, h *domain.StatusHistory) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *StatusHistoryRepository) ListByOrder(ctx context.Context, orderID int64) ([]domain.StatusHistory, error) {
	var rows []domain.StatusHistory
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("changed_at").
		Order("id").
		Find(&rows).Error
	return rows, err
}
