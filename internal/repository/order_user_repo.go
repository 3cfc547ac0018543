package repository

import (
	"context"
	"time"

	"repairdesk/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderUserRepository struct {
	db *gorm.DB
}

func NewOrderUserRepository(db *gorm.DB) *OrderUserRepository {
	return &OrderUserRepository{db: db}
}

func (r *OrderUserRepository) WithTx(tx *gorm.DB) *OrderUserRepository {
	return &OrderUserRepository{db: tx}
}

// ParticipantRow is an order_users row joined with its user.
type ParticipantRow struct {
	ID             int64
	UserID         int64
	Username       string
	FullName       string
	Role           string
	AssignmentRole string
	AddedAt        time.Time
}

// Add inserts the pair unless it already exists. created reports whether a
// row was written.
func (r *OrderUserRepository) Add(ctx context.Context, orderID, userID int64, role string) (bool, error) {
	ou := &domain.OrderUser{
		OrderID: orderID,
		UserID:  userID,
		Role:    role,
		AddedAt: time.Now(),
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(ou)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *OrderUserRepository) Remove(ctx context.Context, orderID, userID int64) error {
	return r.db.WithContext(ctx).
		Where("order_id = ? AND user_id = ?", orderID, userID).
		Delete(&domain.OrderUser{}).Error
}

func (r *OrderUserRepository) ListByOrder(ctx context.Context, orderID int64) ([]ParticipantRow, error) {
	var rows []ParticipantRow
	err := r.db.WithContext(ctx).
		Table("order_users AS ou").
		Select(`ou.id AS id, ou.user_id AS user_id, u.username AS username, u.full_name AS full_name,
			u.role AS role, ou.role AS assignment_role, ou.added_at AS added_at`).
		Joins("JOIN users u ON u.id = ou.user_id").
		Where("ou.order_id = ?", orderID).
		Order("ou.added_at DESC").
		Order("ou.id DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *OrderUserRepository) Count(ctx context.Context, orderID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.OrderUser{}).Where("order_id = ?", orderID).Count(&n).Error
	return n, err
}
