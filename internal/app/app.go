package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jobnest_backend/internal/auth"
	"jobnest_backend/internal/config"
	"jobnest_backend/internal/handlers"
	"jobnest_backend/internal/logger"
	"jobnest_backend/internal/middleware"
	"jobnest_backend/internal/repositories"
	"jobnest_backend/internal/routes"
	"jobnest_backend/internal/services"
	"jobnest_backend/internal/validator"
	"jobnest_backend/pkg/apperrors"
	"jobnest_backend/ws"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/cors"
)

const shutdownTimeout = 10 * time.Second

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)
	apperrors.SetDebug(!cfg.IsProduction())
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to open store", "error", err)
	}

	hub := ws.NewHub()
	go hub.Run(ctx)

	broker, err := newBroker(cfg, hub)
	if err != nil {
		logger.Fatal("Failed to start push broker", "error", err)
	}
	go func() {
		if err := broker.Run(ctx); err != nil {
			logger.Error("Push broker stopped", "error", err)
		}
	}()

	router := SetupRouter(ctx, cfg, store, hub, ws.NewEmitter(broker))

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           NewHTTPHandler(cfg, router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var result *multierror.Error
	if err := srv.Shutdown(shutdownCtx); err != nil {
		result = multierror.Append(result, err)
	}
	if err := broker.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := store.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := result.ErrorOrNil(); err != nil {
		logger.Error("Shutdown finished with errors", "error", err)
		return
	}
	logger.Info("Server stopped")
}

// SetupRouter собирает сервисы, хэндлеры и маршруты. ctx ограничивает фоновую чистку rate limiter
func SetupRouter(ctx context.Context, cfg *config.Config, store repositories.Store, hub *ws.Hub, emitter services.PushEmitter) *gin.Engine {
	tokens := auth.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.TTL)*time.Minute)

	// 1. Сервисы
	serviceContainer := services.NewServiceContainer(store, emitter, tokens)

	// 2. Хэндлеры
	appHandlers := initializeHandlers(serviceContainer, store)

	// 3. WebSocket
	dispatcher := ws.NewDispatcher(hub, serviceContainer.FollowService, serviceContainer.GroupService)
	wsHandler := ws.NewWebSocketHandler(hub, dispatcher, pushOptions(cfg), cfg.CORS.AllowedOrigins)

	// 4. Gin и middleware
	apiLimiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	authLimiter := middleware.NewRateLimiter(cfg.RateLimit.AuthRPS, cfg.RateLimit.AuthBurst)
	go apiLimiter.Run(ctx)
	go authLimiter.Run(ctx)

	ginRouter := initializeGinRouter(apiLimiter)
	guards := handlers.Guards{
		Auth:      middleware.AuthMiddleware(tokens),
		AuthLimit: authLimiter.Middleware(),
	}

	// 5. Маршруты
	routes.RegisterRoutes(ginRouter, appHandlers, guards, wsHandler)
	return ginRouter
}

// NewHTTPHandler оборачивает роутер в CORS
func NewHTTPHandler(cfg *config.Config, router http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
	}).Handler(router)
}

func newBroker(cfg *config.Config, hub *ws.Hub) (ws.Broker, error) {
	if cfg.Broker.Type == config.BrokerRabbitMQ {
		broker, err := ws.DialAMQP(cfg.Broker.URL, cfg.Broker.Exchange, hub)
		if err != nil {
			return nil, err
		}
		logger.Info("Push broker connected", "type", cfg.Broker.Type, "exchange", cfg.Broker.Exchange)
		return broker, nil
	}
	return ws.NewLocalBroker(hub), nil
}

func pushOptions(cfg *config.Config) ws.Options {
	return ws.Options{
		SendBuffer:     cfg.Push.SendBuffer,
		WriteWait:      cfg.Push.WriteWait,
		PongWait:       cfg.Push.PongWait,
		MaxMessageSize: cfg.Push.MaxMessageSize,
	}
}

func initializeHandlers(svc *services.ServiceContainer, store repositories.Store) *handlers.AppHandlers {
	baseHandler := handlers.NewBaseHandler(validator.New())

	return &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(baseHandler, svc.AuthService, svc.UserService),
		UserHandler:         handlers.NewUserHandler(baseHandler, svc.UserService, svc.NotificationService),
		FollowHandler:       handlers.NewFollowHandler(baseHandler, svc.FollowService),
		NotificationHandler: handlers.NewNotificationHandler(baseHandler, svc.NotificationService),
		JobHandler:          handlers.NewJobHandler(baseHandler, svc.JobService),
		ChatHandler:         handlers.NewChatHandler(baseHandler, svc.ChatService),
		GroupHandler:        handlers.NewGroupHandler(baseHandler, svc.GroupService),
		HealthHandler:       handlers.NewHealthHandler(store),
	}
}

func initializeGinRouter(limiter *middleware.RateLimiter) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(limiter.Middleware())
	return router
}
