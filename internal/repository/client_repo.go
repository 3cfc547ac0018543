package repository

import (
	"context"
	"time"

	"repairdesk/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) WithTx(tx *gorm.DB) *ClientRepository {
	return &ClientRepository{db: tx}
}

func (r *ClientRepository) SearchByPhone(ctx context.Context, phone string, limit int) ([]domain.Client, error) {
	var clients []domain.Client
	err := r.db.WithContext(ctx).
		Preload("Devices", orderDevices).
		Where(`LOWER(phone) LIKE ? ESCAPE '\'`, containsPattern(phone)).
		Order("id").
		Limit(limit).
		Find(&clients).Error
	return clients, err
}

// SearchBySerial returns owners of matching devices; only the matching
// devices are attached to each client.
func (r *ClientRepository) SearchBySerial(ctx context.Context, serial string, limit int) ([]domain.Client, error) {
	pattern := containsPattern(serial)

	var clients []domain.Client
	err := r.db.WithContext(ctx).
		Preload("Devices", func(db *gorm.DB) *gorm.DB {
			return orderDevices(db.Where(`LOWER(serial_number) LIKE ? ESCAPE '\'`, pattern))
		}).
		Where(`EXISTS (SELECT 1 FROM client_devices cd WHERE cd.client_id = clients.id AND LOWER(cd.serial_number) LIKE ? ESCAPE '\')`, pattern).
		Order("id").
		Limit(limit).
		Find(&clients).Error
	return clients, err
}

func (r *ClientRepository) SearchText(ctx context.Context, text string, limit int) ([]domain.Client, error) {
	pattern := containsPattern(text)

	var clients []domain.Client
	err := r.db.WithContext(ctx).
		Preload("Devices", orderDevices).
		Where(`LOWER(full_name) LIKE ? ESCAPE '\' OR LOWER(phone) LIKE ? ESCAPE '\' OR LOWER(COALESCE(address, '')) LIKE ? ESCAPE '\'`,
			pattern, pattern, pattern).
		Order("full_name").
		Limit(limit).
		Find(&clients).Error
	return clients, err
}

func (r *ClientRepository) ListRecent(ctx context.Context, limit int) ([]domain.Client, error) {
	var clients []domain.Client
	err := r.db.WithContext(ctx).
		Preload("Devices", orderDevices).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&clients).Error
	return clients, err
}

// UpsertByPhone inserts c or, when the phone is taken, overwrites name,
// address and email of the existing row. c is reloaded afterwards.
func (r *ClientRepository) UpsertByPhone(ctx context.Context, c *domain.Client) error {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	err := r.db.WithContext(ctx).
		Omit("Devices").
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "phone"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"full_name":  c.FullName,
				"address":    c.Address,
				"email":      c.Email,
				"updated_at": now,
			}),
		}).
		Create(c).Error
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Omit("Devices").Where("phone = ?", c.Phone).First(c).Error
}

func (r *ClientRepository) AddDevice(ctx context.Context, d *domain.ClientDevice) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *ClientRepository) CountByPhone(ctx context.Context, phone string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Client{}).Where("phone = ?", phone).Count(&n).Error
	return n, err
}

func orderDevices(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}
