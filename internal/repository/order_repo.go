package repository

import (
	"context"

	"repairdesk/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) WithTx(tx *gorm.DB) *OrderRepository {
	return &OrderRepository{db: tx}
}

func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *OrderRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// GetByOrderIDForUpdate locks the row until the surrounding transaction
// ends. SQLite has no row locks; its writer lock serializes instead.
func (r *OrderRepository) GetByOrderIDForUpdate(ctx context.Context, orderID string) (*domain.Order, error) {
	var o domain.Order
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("order_id = ?", orderID).
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// InternalID resolves an external order id.
func (r *OrderRepository) InternalID(ctx context.Context, orderID string) (int64, error) {
	var o domain.Order
	err := r.db.WithContext(ctx).Select("id").Where("order_id = ?", orderID).First(&o).Error
	if err != nil {
		return 0, err
	}
	return o.ID, nil
}

func (r *OrderRepository) List(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&orders).Error
	return orders, err
}

// ListForUser returns orders the user participates in.
func (r *OrderRepository) ListForUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.db.WithContext(ctx).
		Joins("JOIN order_users ou ON ou.order_id = orders.id").
		Where("ou.user_id = ?", userID).
		Order("orders.created_at DESC").
		Order("orders.id DESC").
		Find(&orders).Error
	return orders, err
}

// UpdateFields writes the given columns of one order.
func (r *OrderRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&domain.Order{}).Where("id = ?", id).Updates(fields).Error
}
