package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"ecoinsure/internal/ai/gemini"
	"ecoinsure/internal/config"
	"ecoinsure/internal/database/minio"
	"ecoinsure/internal/database/postgres"
	"ecoinsure/internal/database/redis"
	"ecoinsure/internal/event"
	"ecoinsure/internal/handlers"
	"ecoinsure/internal/models"
	"ecoinsure/internal/repository"
	"ecoinsure/internal/services"
	"ecoinsure/internal/store"

	"github.com/gofiber/fiber/v3"
)

func setupLogging() (*os.File, error) {
	logDir := filepath.Join("/ecoinsure", "log")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	logFile := filepath.Join(logDir, fmt.Sprintf("log_%s.log", time.Now().Format("2006-01-02")))
	file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}

	handler := slog.NewTextHandler(io.MultiWriter(os.Stdout, file), nil)
	slog.SetDefault(slog.New(handler))

	return file, nil
}

func main() {
	logFile, err := setupLogging()
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logFile.Close()

	cfg := config.New()

	slog.Info("Connecting to PostgreSQL",
		"host", cfg.PostgresCfg.Host, "port", cfg.PostgresCfg.Port, "dbname", cfg.PostgresCfg.DBName)
	db, err := postgres.ConnectAndCreateDB(cfg.PostgresCfg)
	if err != nil {
		slog.Error("Failed to connect to database, carbon ledger runs degraded until reconnect", "error", err)
	}

	var cache services.AssessmentCache
	if redisClient, err := redis.NewClient(cfg.RedisCfg); err != nil {
		slog.Warn("Redis unavailable, assessments will not be cached", "error", err)
	} else {
		cache = redisClient
	}

	var evidenceStore services.EvidenceStore
	if minioClient, err := minio.NewMinioClient(cfg.MinioCfg); err != nil {
		slog.Warn("MinIO unavailable, evidence uploads disabled", "error", err)
	} else {
		evidenceStore = minioClient
	}

	var publisher *event.NotificationPublisher
	if mq, err := event.ConnectRabbitMQ(cfg.RabbitMQCfg); err != nil {
		slog.Warn("RabbitMQ unavailable, decision events disabled", "error", err)
	} else {
		defer mq.Close()
		publisher = event.NewNotificationPublisher(mq)
	}

	oracle, err := gemini.NewClient(context.Background(), cfg.GeminiCfg)
	if err != nil {
		log.Fatalf("Failed to initialize oracle client: %v", err)
	}

	carbonRecords := store.New(func(r models.CarbonRecord) string { return r.ID })
	policies := store.New(func(p models.Policy) string { return p.ID })
	claims := store.New(func(c models.ClaimRecord) string { return c.ID })
	loans := store.New(func(l models.LoanApplication) string { return l.ID })

	carbonService := services.NewCarbonService(carbonRecords, nil)
	policyService := services.NewPolicyService(oracle, carbonService, cache, policies, nil, publisher)
	claimService := services.NewClaimService(oracle, claims, policies, evidenceStore, publisher)
	loanService := services.NewLoanService(oracle, loans, publisher)

	attachMirrors := func() {
		carbonService.AttachLedger(repository.NewCarbonRecordRepository(db))
		policyService.AttachMirror(repository.NewPolicyRepository(db))
	}
	if db != nil {
		attachMirrors()
	} else {
		go func() {
			postgres.RetryConnectOnFailed(30*time.Second, &db, cfg.PostgresCfg)
			if db != nil {
				attachMirrors()
				slog.Info("Database connection restored, persistence mirrors enabled")
			}
		}()
	}

	app := fiber.New()
	app.Get("/checkhealth", func(c fiber.Ctx) error {
		health := map[string]any{"status": "healthy"}
		if publisher != nil {
			health["publisher"] = publisher.GetMetrics()
		}
		return c.Status(fiber.StatusOK).JSON(health)
	})

	handlers.NewCarbonHandler(carbonService).Register(app)
	handlers.NewPolicyHandler(policyService).Register(app)
	handlers.NewClaimHandler(claimService).Register(app)
	handlers.NewLoanHandler(loanService).Register(app)

	slog.Info("EcoInsure service listening", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
