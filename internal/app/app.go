// Package app wires repositories, services and handlers into one gin
// engine.
package app

import (
	"net/http"
	"time"

	"repairdesk/internal/metrics"
	"repairdesk/internal/middleware"
	"repairdesk/internal/modules/clients"
	"repairdesk/internal/modules/devicetypes"
	"repairdesk/internal/modules/media"
	"repairdesk/internal/modules/orders"
	"repairdesk/internal/modules/participants"
	"repairdesk/internal/modules/users"
	"repairdesk/internal/pkg/jwt"
	"repairdesk/internal/pkg/response"
	"repairdesk/internal/pkg/storage"
	"repairdesk/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Deps struct {
	DB    *gorm.DB
	Store storage.ObjectStore
	Log   *zap.Logger

	// Tokens is nil when JWT_SECRET is unset.
	Tokens       *jwt.Service
	TrustHeaders bool

	MediaPendingTTL time.Duration
}

type App struct {
	Router  *gin.Engine
	Hub     *orders.Hub
	Sweeper *media.Sweeper
}

func New(d Deps) *App {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	txManager := repository.NewTxManager(d.DB)
	userRepo := repository.NewUserRepository(d.DB)
	orderRepo := repository.NewOrderRepository(d.DB)
	orderUserRepo := repository.NewOrderUserRepository(d.DB)
	mediaRepo := repository.NewMediaRepository(d.DB)

	usersService := users.NewService(userRepo)
	hub := orders.NewHub(log.Named("chat"))

	clientsHandler := clients.NewHandler(clients.NewService(repository.NewClientRepository(d.DB), txManager))
	deviceTypesHandler := devicetypes.NewHandler(devicetypes.NewService(repository.NewDeviceTypeRepository(d.DB)))
	usersHandler := users.NewHandler(usersService)
	ordersHandler := orders.NewHandler(
		orders.NewService(txManager, orderRepo, orderUserRepo, repository.NewStatusHistoryRepository(d.DB), userRepo, log.Named("orders")),
		orders.NewChatService(repository.NewChatRepository(d.DB), hub, log.Named("chat")),
		hub,
	)
	participantsHandler := participants.NewHandler(participants.NewService(orderRepo, orderUserRepo), usersService)
	mediaHandler := media.NewHandler(media.NewService(mediaRepo, userRepo, d.Store, log.Named("media")))

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.NoMethod(response.MethodNotAllowed)
	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "Not found")
	})
	r.Use(
		middleware.RequestLogger(log.Named("http")),
		middleware.Metrics(),
		middleware.CORS(),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := r.Group("/api/v1")
	v1.Use(middleware.Identity(d.Tokens, d.TrustHeaders))
	{
		clientsHandler.RegisterRoutes(v1)
		deviceTypesHandler.RegisterRoutes(v1)
		usersHandler.RegisterRoutes(v1)
		ordersHandler.RegisterRoutes(v1)
		participantsHandler.RegisterRoutes(v1)
		mediaHandler.RegisterRoutes(v1)
	}

	return &App{
		Router:  r,
		Hub:     hub,
		Sweeper: media.NewSweeper(mediaRepo, d.Store, d.MediaPendingTTL, log.Named("media")),
	}
}
