package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/getmentor/mentor-match-client/config"
	"github.com/getmentor/mentor-match-client/internal/api"
	"github.com/getmentor/mentor-match-client/internal/avatar"
	"github.com/getmentor/mentor-match-client/internal/cache"
	"github.com/getmentor/mentor-match-client/internal/handlers"
	"github.com/getmentor/mentor-match-client/internal/middleware"
	"github.com/getmentor/mentor-match-client/internal/notify"
	"github.com/getmentor/mentor-match-client/internal/session"
	"github.com/getmentor/mentor-match-client/internal/tokenstore"
	"github.com/getmentor/mentor-match-client/internal/views"
	"github.com/getmentor/mentor-match-client/pkg/httpclient"
	"github.com/getmentor/mentor-match-client/pkg/logger"
	"github.com/getmentor/mentor-match-client/pkg/metrics"
	"github.com/getmentor/mentor-match-client/pkg/profiling"
	"github.com/getmentor/mentor-match-client/pkg/tracing"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting mentor match client",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
		zap.String("backend", cfg.Backend.APIBaseURL),
	)

	tracerShutdown, err := tracing.InitTracer(
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceNamespace,
		cfg.Observability.ServiceVersion,
		cfg.Observability.ServiceInstanceID,
		cfg.Server.AppEnv,
		cfg.Observability.ExporterEndpoint,
	)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	metrics.Init(cfg.Observability.ServiceName)
	metrics.RecordInfrastructureMetrics()

	stopProfiler, err := profiling.Start(cfg.Profiling, profiling.Target{
		Service:     cfg.Observability.ServiceName,
		Namespace:   cfg.Observability.ServiceNamespace,
		Version:     cfg.Observability.ServiceVersion,
		Instance:    cfg.Observability.ServiceInstanceID,
		Environment: cfg.Server.AppEnv,
	})
	if err != nil {
		logger.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer stopProfiler()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Session: token store, backend client and the manager that owns both
	store, err := tokenstore.New(ctx, cfg.Tokens)
	if err != nil {
		logger.Fatal("Failed to open token store", zap.Error(err))
	}

	client := api.New(api.Options{
		BaseURL:    cfg.Backend.APIBaseURL,
		HTTPClient: httpclient.NewStandardClient(cfg.HTTPTimeout()),
	})
	sessions := session.NewManager(client, store)
	client.SetTokenSource(sessions)
	client.SetUnauthorizedHandler(sessions.Invalidate)

	go sessions.Bootstrap(ctx)

	// Screens and their supporting services
	screens := views.NewScreens(client, sessions, views.WithServerFilter(cfg.Mentors.ServerSideFilter))
	avatars := cache.NewAvatarCache(client, time.Duration(cfg.Avatar.CacheTTLSeconds)*time.Second)

	poller := notify.NewPoller(client, sessions, cfg.Messages.UnreadPollInterval, screens.Messages)
	if err := poller.Start(); err != nil {
		logger.Fatal("Failed to start unread poller", zap.Error(err))
	}

	events, unsubscribe := sessions.Subscribe()
	defer unsubscribe()
	go watchSession(ctx, events, screens, avatars, poller)

	var objects avatar.ObjectClient
	if cfg.S3Enabled() {
		objects = avatar.NewS3Client(cfg.Avatar.S3)
	}

	h := frontHandlers{
		health: handlers.NewHealthHandler(func() bool {
			select {
			case <-sessions.Ready():
				return true
			default:
				return false
			}
		}),
		screens:  handlers.NewScreenHandler(screens, sessions, poller),
		auth:     handlers.NewAuthHandler(screens, sessions),
		profile:  handlers.NewProfileHandler(screens, sessions, avatars, objects),
		mentors:  handlers.NewMentorsHandler(screens),
		requests: handlers.NewRequestsHandler(screens),
		messages: handlers.NewMessagesHandler(screens),
		avatars:  handlers.NewAvatarHandler(avatars),
	}

	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader, "traceparent", "tracestate"},
		ExposeHeaders:    []string{"Content-Length", "Location", middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	limiter := middleware.NewRateLimiter(ctx, 50, 100) // 50 req/sec, burst of 100
	registerAPIRoutes(router, sessions, limiter.Middleware(), h)
	registerScreenRoutes(router, sessions, h)

	// Loopback only: the front acts with the user's backend credentials
	srv := &http.Server{
		Addr:              cfg.Server.BindAddr + ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      2 * cfg.HTTPTimeout(),
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info("Local front started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	poller.Stop(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Client exited")
}
