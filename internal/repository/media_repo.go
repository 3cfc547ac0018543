package repository

import (
	"context"
	"time"

	"repairdesk/internal/domain"

	"gorm.io/gorm"
)

type MediaRepository struct {
	db *gorm.DB
}

func NewMediaRepository(db *gorm.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

func (r *MediaRepository) CreatePending(ctx context.Context, m *domain.OrderMedia) error {
	m.State = domain.MediaStatePending
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *MediaRepository) MarkStored(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).
		Model(&domain.OrderMedia{}).
		Where("id = ? AND state = ?", id, domain.MediaStatePending).
		Update("state", domain.MediaStateStored)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// swept while the blob was being written
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *MediaRepository) GetByID(ctx context.Context, id int64) (*domain.OrderMedia, error) {
	var m domain.OrderMedia
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// ListByOrder returns stored attachments, newest upload first.
func (r *MediaRepository) ListByOrder(ctx context.Context, orderID string) ([]domain.OrderMedia, error) {
	var items []domain.OrderMedia
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND state = ?", orderID, domain.MediaStateStored).
		Order("uploaded_at DESC").
		Order("id DESC").
		Find(&items).Error
	return items, err
}

// Delete removes the row; RowsAffected tells whether it existed.
func (r *MediaRepository) Delete(ctx context.Context, id int64) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&domain.OrderMedia{}, id)
	return res.RowsAffected, res.Error
}

func (r *MediaRepository) ListPendingBefore(ctx context.Context, cutoff time.Time, limit int) ([]domain.OrderMedia, error) {
	var items []domain.OrderMedia
	err := r.db.WithContext(ctx).
		Where("state = ? AND uploaded_at < ?", domain.MediaStatePending, cutoff).
		Order("id").
		Limit(limit).
		Find(&items).Error
	return items, err
}

// DeletePending removes a row only while it is still pending.
func (r *MediaRepository) DeletePending(ctx context.Context, id int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND state = ?", id, domain.MediaStatePending).
		Delete(&domain.OrderMedia{})
	return res.RowsAffected, res.Error
}
