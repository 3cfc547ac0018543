package main

import (
	"context"
	stdlog "log"
	"time"

	"repairdesk/internal/config"
	"repairdesk/internal/database"
	"repairdesk/internal/modules/media"
	"repairdesk/internal/pkg/logger"
	"repairdesk/internal/pkg/storage"
	"repairdesk/internal/repository"

	"go.uber.org/zap"
)

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

	if !cfg.HasS3Credentials() {
		log.Fatal("S3_ACCESS_KEY and S3_SECRET_KEY are required")
	}
	store, err := storage.NewMinioStore(storage.S3Config{
		Endpoint:  cfg.S3.Endpoint,
		Bucket:    cfg.S3.Bucket,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		Region:    cfg.S3.Region,
	})
	if err != nil {
		log.Fatal("object store init failed", zap.Error(err))
	}

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal("db connect failed", zap.Error(err))
	}
	defer database.Close(db, log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	sweeper := media.NewSweeper(repository.NewMediaRepository(db), store, cfg.MediaPendingTTL, log)
	removed, err := sweeper.Run(ctx)
	if err != nil {
		log.Fatal("media cleanup failed", zap.Error(err), zap.Int("removed", removed))
	}
	log.Info("media cleanup completed", zap.Int("removed", removed), zap.Duration("ttl", cfg.MediaPendingTTL))
}
