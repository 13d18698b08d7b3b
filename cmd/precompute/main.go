// Command precompute runs one recommendation computation and stores the
// payload, for cron-style deployments without the long-running server.
package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/ratesense/ratesense/internal/adapter/cache"
	"github.com/ratesense/ratesense/internal/adapter/pms/previo"
	"github.com/ratesense/ratesense/internal/adapter/storage/postgres"
	"github.com/ratesense/ratesense/internal/ports"
	"github.com/ratesense/ratesense/internal/service/email"
	"github.com/ratesense/ratesense/internal/service/history"
	"github.com/ratesense/ratesense/internal/service/holiday"
	"github.com/ratesense/ratesense/internal/service/precompute"
	"github.com/ratesense/ratesense/internal/service/rooms"
	"github.com/ratesense/ratesense/pkg/config"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}
	if cfg.Hotel.ID == "" {
		logger.Fatal("hotel.id is required")
	}

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

	engineCache := cache.NewLocalCache(time.Minute, logger)
	defer engineCache.Close()

	pmsClient := previo.NewClient(previo.Config{
		Login:       cfg.Previo.Login,
		Password:    cfg.Previo.Password,
		HotelID:     cfg.Hotel.ID,
		XMLBaseURL:  cfg.Previo.XMLBaseURL,
		RESTBaseURL: cfg.Previo.RESTBaseURL,
	}, nil, logger)

	occupancyRepo := postgres.NewOccupancyRepository(db, logger)
	roomKindRepo := postgres.NewRoomKindRepository(db, logger)
	payloadRepo := postgres.NewPayloadRepository(db, logger)
	decisionRepo := postgres.NewDecisionRepository(db, logger)

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

	svc := precompute.NewService(
		history.NewLoader(occupancyRepo, engineCache, logger),
		rooms.NewService(pmsClient, roomKindRepo, logger),
		decisionRepo,
		payloadRepo,
		holiday.NewCalendar(),
		nil,
		emailService,
		logger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	payload, err := svc.Precompute(ctx, cfg.Hotel.ID)
	if err != nil {
		logger.Fatal("Precompute failed", zap.Error(err))
	}

	logger.Info("Precompute finished",
		zap.Int("recommendations", payload.Count),
		zap.Int("daily", payload.DailyCount),
		zap.Time("computed_at", payload.ComputedAt),
	)
}
