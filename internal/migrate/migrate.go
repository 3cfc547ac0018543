package migrate

import (
	"context"

	"repairdesk/internal/domain"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Models lists every persistent entity in creation order.
func Models() []any {
	return []any{
		&domain.Client{},
		&domain.ClientDevice{},
		&domain.DeviceType{},
		&domain.User{},
		&domain.Order{},
		&domain.OrderUser{},
		&domain.StatusHistory{},
		&domain.OrderChatMessage{},
		&domain.OrderMedia{},
	}
}

// Run creates or updates the schema. On PostgreSQL it also adds the
// trigram index used by chat search.
func Run(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")

	if err := db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		log.Error("auto migrate failed", zap.Error(err))
		return err
	}

	if db.Dialector.Name() == "postgres" {
		stmts := []string{
			`CREATE EXTENSION IF NOT EXISTS pg_trgm`,
			`CREATE INDEX IF NOT EXISTS idx_order_chat_messages_message_trgm ON order_chat_messages USING gin (LOWER(message) gin_trgm_ops)`,
			`CREATE INDEX IF NOT EXISTS idx_order_media_pending ON order_media (uploaded_at) WHERE state = 'pending'`,
		}
		for _, stmt := range stmts {
			if err := db.WithContext(ctx).Exec(stmt).Error; err != nil {
				// extensions may be unavailable on managed instances
				log.Warn("optional migration statement failed", zap.String("sql", stmt), zap.Error(err))
			}
		}
	}

	log.Info("migrations completed")
	return nil
}
