package main

import (
	"fmt"
	"log"
	"time"

	"drawbook/internal/config"
	emailnoop "drawbook/internal/email/noop"
	emailses "drawbook/internal/email/ses"
	"drawbook/internal/handler"
	"drawbook/internal/ocr"
	"drawbook/internal/port"
	"drawbook/internal/repository/postgres"
	"drawbook/internal/router"
	"drawbook/internal/service"
	s3storage "drawbook/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	fileRepo := postgres.NewUserFileRepo(db)
	exampleRepo := postgres.NewExampleFileRepo(db)
	usageRepo := postgres.NewUsageLogRepo(db)
	txRepo := postgres.NewTransactionRepo(db)

	// Initialize storage and external clients
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}
	parser := ocr.NewClient(cfg.OCR.Endpoint, cfg.OCR.Token, time.Duration(cfg.OCR.TimeoutSecs)*time.Second)

	var emailSender port.EmailSender
	switch cfg.Email.Provider {
	case "ses":
		emailSender, err = emailses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	default:
		emailSender = emailnoop.NewNoopSender()
	}

	// Initialize services
	authSvc := service.NewAuthService(userRepo, cfg.JWT, cfg.Billing.SignupFreePages)
	meteringSvc := service.NewMeteringService(userRepo)
	parseSvc := service.NewParseService(userRepo, fileRepo, exampleRepo, parser, s3Client, meteringSvc, &cfg.S3)
	fileSvc := service.NewFileService(fileRepo, s3Client, &cfg.S3)
	exampleSvc := service.NewExampleService(exampleRepo)
	usageSvc := service.NewUsageService(userRepo, usageRepo)
	paymentSvc := service.NewPaymentService(txRepo, userRepo, emailSender, cfg.Pay)

	// Initialize handlers
	authH := handler.NewAuthHandler(authSvc)
	fileH := handler.NewFileHandler(fileSvc, parseSvc)
	exampleH := handler.NewExampleHandler(exampleSvc, parseSvc)
	usageH := handler.NewUsageHandler(usageSvc)
	paymentH := handler.NewPaymentHandler(paymentSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(cfg, authSvc, authH, fileH, exampleH, usageH, paymentH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
