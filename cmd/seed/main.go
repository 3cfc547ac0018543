package main

import (
	"context"
	stdlog "log"
	"time"

	"repairdesk/internal/config"
	"repairdesk/internal/database"
	"repairdesk/internal/domain"
	"repairdesk/internal/migrate"
	"repairdesk/internal/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type seedUser struct {
	username string
	password string
	fullName string
	role     string
}

// Демо-учётки для локального стенда
var users = []seedUser{
	{"director", "director123", "Алексей Директоров", domain.RoleDirector},
	{"manager", "manager123", "Мария Приёмкина", domain.RoleManager},
	{"master1", "master123", "Иван Паяльников", domain.RoleMaster},
	{"master2", "master123", "Сергей Отвёрткин", domain.RoleMaster},
}

var deviceTypes = []domain.DeviceType{
	{Name: "Смартфон", Category: "Мобильные устройства"},
	{Name: "Планшет", Category: "Мобильные устройства"},
	{Name: "Смарт-часы", Category: "Мобильные устройства"},
	{Name: "Ноутбук", Category: "Компьютеры"},
	{Name: "Системный блок", Category: "Компьютеры"},
	{Name: "Монитор", Category: "Компьютеры"},
	{Name: "Телевизор", Category: "Бытовая техника"},
	{Name: "Стиральная машина", Category: "Бытовая техника"},
	{Name: "Микроволновая печь", Category: "Бытовая техника"},
	{Name: "Игровая приставка", Category: "Прочее"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("config: %v", err)
	}
	if err := logger.Init(cfg.IsDev()); err != nil {
		stdlog.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	log := logger.L()

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal("db connect failed", zap.Error(err))
	}
	defer database.Close(db, log)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := migrate.Run(ctx, db, log); err != nil {
		log.Fatal("migrations failed", zap.Error(err))
	}

	createdUsers, err := seedUsers(ctx, db)
	if err != nil {
		log.Fatal("seed users failed", zap.Error(err))
	}
	createdTypes, err := seedDeviceTypes(ctx, db)
	if err != nil {
		log.Fatal("seed device types failed", zap.Error(err))
	}

	log.Info("seed completed", zap.Int("users_created", createdUsers), zap.Int("device_types_created", createdTypes))
	for _, u := range users {
		log.Info("demo login", zap.String("username", u.username), zap.String("password", u.password), zap.String("role", u.role))
	}
}

// seedUsers creates missing accounts; existing usernames are left as they are.
func seedUsers(ctx context.Context, db *gorm.DB) (int, error) {
	created := 0
	for _, su := range users {
		var n int64
		if err := db.WithContext(ctx).Model(&domain.User{}).Where("username = ?", su.username).Count(&n).Error; err != nil {
			return created, err
		}
		if n > 0 {
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(su.password), bcrypt.DefaultCost)
		if err != nil {
			return created, err
		}
		u := domain.User{
			Username:     su.username,
			PasswordHash: string(hash),
			FullName:     su.fullName,
			Role:         su.role,
		}
		if err := db.WithContext(ctx).Create(&u).Error; err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func seedDeviceTypes(ctx context.Context, db *gorm.DB) (int, error) {
	created := 0
	for _, dt := range deviceTypes {
		var n int64
		err := db.WithContext(ctx).Model(&domain.DeviceType{}).
			Where("name = ? AND category = ?", dt.Name, dt.Category).
			Count(&n).Error
		if err != nil {
			return created, err
		}
		if n > 0 {
			continue
		}
		row := dt
		if err := db.WithContext(ctx).Create(&row).Error; err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
