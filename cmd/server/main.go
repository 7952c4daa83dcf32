package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"stagepass/config"
	_ "stagepass/docs"
	"stagepass/internal/adapters/auth"
	"stagepass/internal/adapters/email"
	"stagepass/internal/adapters/pdf"
	"stagepass/internal/adapters/storage"
	delivery "stagepass/internal/delivery/http"
	"stagepass/internal/delivery/http/controllers"
	"stagepass/internal/delivery/http/middleware"
	"stagepass/internal/repository/postgres"
	"stagepass/internal/services"
)

const serviceTimeout = 10 * time.Second

// @title StagePass API
// @version 1.0
// @description Event ticketing platform: catalog, orders, auditorium scheduling, and sales reporting.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "err", err)
		os.Exit(1)
	}

	userRepo := postgres.NewUserRepository(db)
	roleRepo := postgres.NewRoleRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	scheduleRepo := postgres.NewScheduleRepository(db)
	utilizationRepo := postgres.NewUtilizationRepository(db)
	waitlistRepo := postgres.NewWaitlistRepository(db)

	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)
	issuer := auth.NewJWTIssuer(cfg.JWTSecret)
	renderer := pdf.NewRenderer()

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFrom,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:             cfg.SESRegion,
			AccessKeyID:        cfg.SESAccessKeyID,
			SecretAccessKey:    cfg.SESSecretAccessKey,
			InsecureSkipVerify: cfg.SESInsecureSkipVerify,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}

	fileStorage, err := storage.NewFileStorage(storage.StorageConfig{
		Provider: cfg.StorageProvider,
		S3: storage.S3Config{
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Endpoint:        cfg.S3Endpoint,
			PublicBaseURL:   cfg.S3PublicBaseURL,
		},
	})
	if err != nil {
		logger.Error("failed to create file storage", "err", err)
		os.Exit(1)
	}

	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer())
	authService := services.NewAuthService(userRepo, roleRepo, hasher, issuer, cfg.JWTExpiry)
	eventService := services.NewEventService(eventRepo, serviceTimeout)
	waitlistService := services.NewWaitlistService(waitlistRepo, eventRepo, userRepo, emailService, serviceTimeout)
	orderService := services.NewOrderService(orderRepo, eventRepo, userRepo, waitlistService, emailService, serviceTimeout)
	scheduleService := services.NewScheduleService(scheduleRepo, eventRepo, serviceTimeout, time.Now)
	reportService := services.NewReportService(eventRepo, orderRepo, renderer, serviceTimeout, time.Now)
	auditoriumService := services.NewAuditoriumReportService(eventRepo, scheduleRepo, utilizationRepo, renderer, serviceTimeout, time.Now)
	uploadService := services.NewUploadService(fileStorage, eventRepo, serviceTimeout)

	mux := delivery.NewRouter(delivery.Controllers{
		Auth:       controllers.NewAuthController(logger, authService),
		Event:      controllers.NewEventController(logger, eventService),
		Order:      controllers.NewOrderController(logger, orderService),
		Waitlist:   controllers.NewWaitlistController(logger, waitlistService),
		Schedule:   controllers.NewScheduleController(logger, scheduleService),
		Report:     controllers.NewReportController(logger, reportService),
		Auditorium: controllers.NewAuditoriumController(logger, auditoriumService),
		Upload:     controllers.NewUploadController(logger, uploadService),
	}, issuer, logger)

	handler := middleware.CORS(cfg.CORSAllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
	}
}
