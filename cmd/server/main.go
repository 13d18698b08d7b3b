package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	"github.com/ratesense/ratesense/internal/adapter/cache"
	"github.com/ratesense/ratesense/internal/adapter/http/fiber/handlers"
	"github.com/ratesense/ratesense/internal/adapter/http/fiber/middleware"
	"github.com/ratesense/ratesense/internal/adapter/pms/eqc"
	"github.com/ratesense/ratesense/internal/adapter/pms/previo"
	"github.com/ratesense/ratesense/internal/adapter/queue"
	"github.com/ratesense/ratesense/internal/adapter/storage/postgres"
	"github.com/ratesense/ratesense/internal/adapter/vault"
	wsAdapter "github.com/ratesense/ratesense/internal/adapter/websocket"
	"github.com/ratesense/ratesense/internal/observability/telemetry"
	"github.com/ratesense/ratesense/internal/ports"
	"github.com/ratesense/ratesense/internal/service/analytics"
	"github.com/ratesense/ratesense/internal/service/auth"
	"github.com/ratesense/ratesense/internal/service/decision"
	"github.com/ratesense/ratesense/internal/service/email"
	"github.com/ratesense/ratesense/internal/service/export"
	"github.com/ratesense/ratesense/internal/service/health"
	"github.com/ratesense/ratesense/internal/service/history"
	"github.com/ratesense/ratesense/internal/service/holiday"
	"github.com/ratesense/ratesense/internal/service/precompute"
	"github.com/ratesense/ratesense/internal/service/prediction"
	"github.com/ratesense/ratesense/internal/service/rates"
	"github.com/ratesense/ratesense/internal/service/rooms"
	"github.com/ratesense/ratesense/internal/service/status"
	"github.com/ratesense/ratesense/pkg/config"
)

const serviceName = "ratesense"

func main() {
	// 1. Initialize Logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	// 2. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}
	if cfg.Hotel.ID == "" {
		logger.Fatal("hotel.id is required")
	}

	logger.Info("Starting RateSense",
		zap.String("service", serviceName),
		zap.String("version", cfg.App.Version),
		zap.String("hotel", cfg.Hotel.ID),
	)

	// 3. Resolve secrets from Vault when enabled
	if cfg.Vault.Enabled {
		resolveVaultSecrets(cfg, logger)
	}

	// 4. Initialize OpenTelemetry (Distributed Tracing)
	if cfg.OpenTelemetry.Enabled {
		tracerProvider, err := telemetry.InitTracer(serviceName)
		if err != nil {
			logger.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			if err := tracerProvider.Shutdown(context.Background()); err != nil {
				logger.Error("Error shutting down tracer provider", zap.Error(err))
			}
		}()
	}

	// 5. Initialize PostgreSQL
	db, err := postgres.NewConnection(cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer postgres.Close(db)

	if cfg.Database.AutoMigrate {
		if err := postgres.RunMigrations(db); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	// 6. Initialize Cache (Redis, local fallback)
	var engineCache ports.Cache
	if cfg.Redis.Enabled {
		engineCache, err = cache.NewRedisCache(cfg.Redis.URL, logger)
		if err != nil {
			logger.Warn("Redis unavailable, using in-process cache", zap.Error(err))
			engineCache = cache.NewLocalCache(time.Minute, logger)
		}
	} else {
		engineCache = cache.NewLocalCache(time.Minute, logger)
	}
	defer engineCache.Close()

	// 7. Initialize Message Queue
	messageQueue, err := newMessageQueue(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to message queue", zap.Error(err))
	}
	defer messageQueue.Close()

	// 8. Initialize PMS and channel-manager clients
	pmsClient := previo.NewClient(previo.Config{
		Login:       cfg.Previo.Login,
		Password:    cfg.Previo.Password,
		HotelID:     cfg.Hotel.ID,
		XMLBaseURL:  cfg.Previo.XMLBaseURL,
		RESTBaseURL: cfg.Previo.RESTBaseURL,
	}, nil, logger)

	var pushClient ports.RatePushClient
	if cfg.EQC.Enabled {
		pushClient = eqc.NewClient(eqc.Config{
			Username: cfg.EQC.Username,
			Password: cfg.EQC.Password,
			HotelID:  cfg.Hotel.ID,
			ARURL:    cfg.EQC.ARURL,
			BRURL:    cfg.EQC.BRURL,
		}, nil, logger)
	} else {
		logger.Info("EQC disabled, rate pushes will fail politely")
	}

	// 9. Initialize Repositories
	occupancyRepo := postgres.NewOccupancyRepository(db, logger)
	roomKindRepo := postgres.NewRoomKindRepository(db, logger)
	payloadRepo := postgres.NewPayloadRepository(db, logger)
	decisionRepo := postgres.NewDecisionRepository(db, logger)

	// 10. Initialize Services
	calendar := holiday.NewCalendar()
	historyService := history.NewLoader(occupancyRepo, engineCache, logger)
	roomService := rooms.NewService(pmsClient, roomKindRepo, logger)
	rateService := rates.NewManager(pmsClient, pushClient, messageQueue, logger)

	var emailService ports.EmailService
	if cfg.Notification.Email.Enabled {
		emailService, err = email.NewService(&email.Config{
			Provider:       cfg.Notification.Email.Provider,
			FromEmail:      cfg.Notification.Email.From,
			FromName:       cfg.Notification.Email.FromName,
			Recipients:     cfg.Notification.Email.Recipients,
			SendGridAPIKey: cfg.Notification.Email.SendGridAPIKey,
			SMTPHost:       cfg.Notification.Email.SMTP.Host,
			SMTPPort:       cfg.Notification.Email.SMTP.Port,
			SMTPUsername:   cfg.Notification.Email.SMTP.Username,
			SMTPPassword:   cfg.Notification.Email.SMTP.Password,
			SMTPUseTLS:     cfg.Notification.Email.SMTP.UseTLS,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to initialize email service", zap.Error(err))
		}
	}

	recommendationService := precompute.NewService(
		historyService, roomService, decisionRepo, payloadRepo,
		calendar, messageQueue, emailService, logger,
	)
	decisionService := decision.NewService(decisionRepo, rateService, messageQueue, logger)
	forecaster := prediction.NewForecaster(calendar, logger)
	analyticsService := analytics.NewService(historyService, roomService, calendar, forecaster, logger)
	exportService := export.NewService(recommendationService, rateService, logger)
	authService := auth.NewService(auth.Config{
		APIKey:   cfg.Auth.APIKey,
		Secret:   cfg.Auth.JWT.Secret,
		Issuer:   cfg.Auth.JWT.Issuer,
		Audience: cfg.Auth.JWT.Audience,
		TokenTTL: cfg.Auth.JWT.TokenTTL,
	}, logger)

	// 11. Initialize Health Checks
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("Failed to get underlying SQL DB", zap.Error(err))
	}
	healthService := health.NewService(&health.Config{
		Version: cfg.App.Version,
		DB:      sqlDB,
		NatsURL: natsURLForHealth(cfg),
	}, logger)
	healthService.RegisterChecker("cache", cacheChecker(engineCache))
	healthService.RegisterChecker("previo", previoChecker(pmsClient))

	statusService := status.NewService(
		healthService, pmsClient, pushClient, payloadRepo,
		cfg.Hotel.ID, cfg.Hotel.Name, cfg.App.Version, logger,
	)

	// 12. Initialize WebSocket Hub and event relay
	wsHub := wsAdapter.NewHub(logger)
	go wsHub.Run()
	if err := wsHub.RelayQueue(messageQueue); err != nil {
		logger.Error("Failed to relay queue events to websocket hub", zap.Error(err))
	}

	// 13. Initialize Fiber HTTP Server
	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		ServerHeader:          serviceName,
		DisableStartupMessage: true,
		ReadTimeout:           cfg.HTTP.ReadTimeout,
		WriteTimeout:          cfg.HTTP.WriteTimeout,
		IdleTimeout:           cfg.HTTP.IdleTimeout,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(middleware.Metrics())
	if cfg.CORS.Enabled {
		app.Use(middleware.NewCORS(cfg.CORS))
	}
	if cfg.RateLimiting.Enabled {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimiting.MaxRequests,
			Expiration: cfg.RateLimiting.Window,
		}))
	}
	if cfg.CircuitBreaker.Enabled {
		app.Use(middleware.CircuitBreaker(logger))
	}

	// Health and metrics endpoints
	healthHandler := health.NewFiberHandler(healthService)
	healthHandler.RegisterRoutes(app)

	if cfg.Prometheus.Enabled {
		metricsHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
		app.Get(cfg.Prometheus.Path, func(c *fiber.Ctx) error {
			metricsHandler(c.Context())
			return nil
		})
	}

	// API v1 Routes
	v1 := app.Group("/api/v1")

	authHandler := handlers.NewAuthHandler(authService, logger)
	v1.Post("/auth/token", authHandler.Token)

	protected := v1.Group("", middleware.AuthRequired(authService))

	recHandler := handlers.NewRecommendationHandler(recommendationService, decisionService, cfg.Hotel.ID, logger)
	protected.Get("/recommendations", recHandler.Get)
	protected.Post("/recommendations/precompute", recHandler.Precompute)
	protected.Get("/recommendations/decisions", recHandler.Decisions)
	protected.Post("/recommendations/:id/decision", recHandler.Decide)

	roomHandler := handlers.NewRoomHandler(roomService, logger)
	protected.Get("/rooms", roomHandler.List)

	rateHandler := handlers.NewRateHandler(rateService, logger)
	protected.Get("/rates", rateHandler.List)
	protected.Post("/rates/apply", rateHandler.Apply)

	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, cfg.Hotel.ID, logger)
	protected.Get("/analytics/statistics", analyticsHandler.Statistics)
	protected.Get("/analytics/year-comparison", analyticsHandler.YearComparison)
	protected.Get("/analytics/predictions", analyticsHandler.Predictions)

	exportHandler := handlers.NewExportHandler(exportService, cfg.Hotel.ID, logger)
	protected.Get("/export/csv", exportHandler.CSV)
	protected.Get("/export/json", exportHandler.JSON)

	statusHandler := handlers.NewStatusHandler(statusService, logger)
	protected.Get("/status", statusHandler.Status)
	protected.Post("/status/self-test", statusHandler.SelfTest)

	// WebSocket route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/updates", websocket.New(func(c *websocket.Conn) {
		wsHub.ServeClient(c)
	}))

	// 14. Start the periodic precompute job
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()
	if cfg.Jobs.Precompute.Enabled {
		go runPrecomputeJob(jobCtx, recommendationService, cfg.Hotel.ID, cfg.Jobs.Precompute.Interval, logger)
	}

	// 15. Start HTTP Server
	go func() {
		logger.Info("Starting HTTP Server", zap.Int("port", cfg.HTTP.Port))
		if err := app.Listen(fmt.Sprintf(":%d", cfg.HTTP.Port)); err != nil {
			logger.Fatal("HTTP Server failed", zap.Error(err))
		}
	}()

	// 16. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	cancelJobs()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

func newMessageQueue(cfg *config.Config, logger *zap.Logger) (queue.MessageQueue, error) {
	switch strings.ToLower(cfg.Queue.Kind) {
	case "rabbitmq":
		return queue.NewRabbitMQQueue(cfg.Queue.RabbitMQ.URL, logger)
	default:
		return queue.NewNATSQueue(cfg.Queue.NATS.URL, logger)
	}
}

func natsURLForHealth(cfg *config.Config) string {
	if strings.ToLower(cfg.Queue.Kind) == "nats" {
		return cfg.Queue.NATS.URL
	}
	return ""
}

func cacheChecker(c ports.Cache) health.Checker {
	return func(ctx context.Context) health.CheckResult {
		start := time.Now()
		result := health.CheckResult{Name: "cache", Timestamp: time.Now()}
		if err := c.Ping(); err != nil {
			result.Status = health.StatusUnhealthy
			result.Message = err.Error()
		} else {
			result.Status = health.StatusHealthy
		}
		result.Duration = time.Since(start)
		return result
	}
}

func previoChecker(pms ports.PMSClient) health.Checker {
	return func(ctx context.Context) health.CheckResult {
		start := time.Now()
		result := health.CheckResult{Name: "previo", Timestamp: time.Now()}
		if err := pms.TestConnection(ctx); err != nil {
			result.Status = health.StatusDegraded
			result.Message = err.Error()
		} else {
			result.Status = health.StatusHealthy
		}
		result.Duration = time.Since(start)
		return result
	}
}

// runPrecomputeJob refreshes the stored payload on the configured interval.
// The first run fires shortly after startup so a fresh deployment serves
// recommendations without waiting a full day.
func runPrecomputeJob(ctx context.Context, svc ports.RecommendationService, hotelID string, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	run := func() {
		runCtx, cancel := context.WithTimeout(ctx, 10*time.Minute)
		defer cancel()
		if _, err := svc.Precompute(runCtx, hotelID); err != nil {
			logger.Error("Scheduled precompute failed", zap.Error(err))
		}
	}

	select {
	case <-time.After(time.Minute):
		run()
	case <-ctx.Done():
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			run()
		case <-ctx.Done():
			return
		}
	}
}

func resolveVaultSecrets(cfg *config.Config, logger *zap.Logger) {
	sm, err := vault.NewSecretManager(cfg.Vault.Address, cfg.Vault.Token)
	if err != nil {
		logger.Warn("Vault unavailable, using configured credentials", zap.Error(err))
		return
	}

	if dsn, err := sm.GetDatabaseDSN(); err == nil {
		cfg.Database.URL = dsn
	}
	if login, password, err := sm.GetPrevioCredentials(); err == nil {
		cfg.Previo.Login = login
		cfg.Previo.Password = password
	}
	if username, password, err := sm.GetEQCCredentials(); err == nil {
		cfg.EQC.Username = username
		cfg.EQC.Password = password
	}
	if key, err := sm.GetSendGridAPIKey(); err == nil {
		cfg.Notification.Email.SendGridAPIKey = key
	}
	if secret, err := sm.GetJWTSecret(); err == nil {
		cfg.Auth.JWT.Secret = secret
	}
	logger.Info("Resolved secrets from Vault")
}
