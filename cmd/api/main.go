package main

import (
	"context"
	"errors"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"repairdesk/internal/app"
	"repairdesk/internal/config"
	"repairdesk/internal/database"
	"repairdesk/internal/middleware"
	"repairdesk/internal/migrate"
	jwtsvc "repairdesk/internal/pkg/jwt"
	"repairdesk/internal/pkg/logger"
	"repairdesk/internal/pkg/storage"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// логгер ещё не настроен
		stdlog.Fatalf("config: %v", err)
	}

	if err := logger.Init(cfg.IsDev()); err != nil {
		stdlog.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	log := logger.L()

	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal("database connect failed", zap.Error(err))
	}
	defer database.Close(db, log)

	if cfg.DBAutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		err := migrate.Run(ctx, db, log)
		cancel()
		if err != nil {
			log.Fatal("migrations failed", zap.Error(err))
		}
	}

	store := newObjectStore(cfg, log)

	var tokens *jwtsvc.Service
	if cfg.JWTSecret != "" {
		tokens = jwtsvc.New(cfg.JWTSecret, 24*time.Hour)
	}
	if tokens == nil && cfg.AuthTrustHeaders {
		log.Warn("identity is taken from X-User-Id/X-User-Role headers without verification")
	}

	middleware.PreflightMaxAge = cfg.CORSMaxAge

	a := app.New(app.Deps{
		DB:              db,
		Store:           store,
		Log:             log,
		Tokens:          tokens,
		TrustHeaders:    cfg.AuthTrustHeaders,
		MediaPendingTTL: cfg.MediaPendingTTL,
	})

	scheduler := cron.New()
	if err := a.Sweeper.Schedule(scheduler, cfg.MediaSweepSchedule); err != nil {
		log.Fatal("media sweep schedule", zap.Error(err))
	}
	scheduler.Start()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("http server starting", zap.String("addr", cfg.HTTPAddr), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	<-scheduler.Stop().Done()
	a.Hub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("http server shutdown", zap.Error(err))
	}
}

// newObjectStore falls back to process memory when no S3 credentials are
// configured; config validation forbids that outside dev.
func newObjectStore(cfg *config.Config, log *zap.Logger) storage.ObjectStore {
	if !cfg.HasS3Credentials() {
		log.Warn("S3 credentials not set, media is kept in memory")
		return storage.NewMemoryStore(cfg.S3.Endpoint, cfg.S3.Bucket)
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
	return store
}
