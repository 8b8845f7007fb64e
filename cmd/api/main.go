package main

import (
	"context"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"github.com/sangkips/receipt-relay/internal/application/service"
	"github.com/sangkips/receipt-relay/internal/config"
	"github.com/sangkips/receipt-relay/internal/infrastructure/database"
	"github.com/sangkips/receipt-relay/internal/infrastructure/repository"
	"github.com/sangkips/receipt-relay/internal/presentation/http/handler"
	"github.com/sangkips/receipt-relay/internal/presentation/http/middleware"
	"github.com/sangkips/receipt-relay/internal/presentation/http/routes"
	"github.com/sangkips/receipt-relay/pkg/notify"
	"github.com/sangkips/receipt-relay/pkg/renderer"
	"github.com/sangkips/receipt-relay/pkg/retry"
	"github.com/sangkips/receipt-relay/pkg/storage"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	letterhead := config.DefaultLetterhead()
	if cfg.App.LetterheadPath != "" {
		lh, err := config.LoadLetterhead(cfg.App.LetterheadPath)
		if err != nil {
			log.Printf("Warning: Failed to load letterhead %s, using defaults: %v", cfg.App.LetterheadPath, err)
		} else {
			letterhead = lh
		}
	}

	// Initialize renderer; the service still starts without a browser and
	// reports the render stage as unavailable
	pdfRenderer, err := renderer.NewRendererFromConfig(cfg.Renderer.Type, renderer.ChromeOptions{
		ExecPath:      cfg.Renderer.ExecPath,
		RemoteURL:     cfg.Renderer.RemoteURL,
		MaxConcurrent: cfg.Renderer.MaxConcurrent,
		LoadTimeout:   cfg.Renderer.LoadTimeout,
	})
	if err != nil {
		log.Printf("Warning: Failed to initialize renderer: %v", err)
		pdfRenderer = renderer.NewUnavailableRenderer(err)
	}
	defer pdfRenderer.Close()

	uploader, err := storage.NewUploaderFromConfig(context.Background(), cfg.Storage.Backend, storage.UploaderOptions{
		UploadURL:    cfg.Storage.UploadURL,
		DownloadBase: cfg.Storage.DownloadBase,
		S3Bucket:     cfg.Storage.S3Bucket,
		S3Region:     cfg.Storage.S3Region,
		S3Prefix:     cfg.Storage.S3Prefix,
		S3URLExpiry:  cfg.Storage.S3URLExpiry,
	})
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	publisher := storage.NewPublisher(storage.NewLocalStore(cfg.Storage.Path), uploader)

	notifier, err := notify.NewNotifierFromConfig(cfg.Notifier.Type, cfg.Notifier.AccountSID, cfg.Notifier.AuthToken, notify.Options{
		From:    cfg.Notifier.From,
		Channel: cfg.Notifier.Channel,
		Body:    cfg.Notifier.Body,
		Strict:  cfg.Notifier.StrictDestination,
	})
	if err != nil {
		log.Fatalf("Failed to initialize notifier: %v", err)
	}

	receiptService := service.NewReceiptService(
		service.NewReceiptComposer(letterhead),
		pdfRenderer,
		publisher,
		notifier,
		retryPolicies(cfg.Retry),
	)

	deps := &routes.Deps{
		Cfg:         cfg,
		RateLimiter: middleware.NewClientRateLimiter(middleware.RateLimiterConfigFromWindow(cfg.RateLimit.Requests, cfg.RateLimit.Duration)),
	}

	// Idempotency-Key replay needs the database; without it every call runs
	if cfg.Idempotency.Enabled {
		db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		idempotencyRepo := repository.NewIdempotencyRepository(db)
		go purgeExpiredKeys(idempotencyRepo)
		deps.IdempotencyRepo = idempotencyRepo
	}

	router := routes.Setup(&routes.Handlers{
		Receipt: handler.NewReceiptHandler(receiptService),
	}, deps)

	if cfg.App.Runtime == "lambda" {
		adapter := ginadapter.New(router)
		lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
			return adapter.ProxyWithContext(ctx, req)
		})
		return
	}

	port := cfg.App.Port
	if port == "" {
		port = "3000"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s, renderer: %s, storage: %s, notifier: %s",
		cfg.App.Env, cfg.Renderer.Type, cfg.Storage.Backend, cfg.Notifier.Type)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func retryPolicies(cfg config.RetryConfig) service.RetryPolicies {
	policy := func(attempts int) retry.Policy {
		return retry.Policy{
			MaxAttempts:    attempts,
			InitialBackoff: cfg.InitialBackoff,
			MaxBackoff:     cfg.MaxBackoff,
		}
	}
	return service.RetryPolicies{
		Render: policy(cfg.RenderAttempts),
		Upload: policy(cfg.UploadAttempts),
		Notify: policy(cfg.NotifyAttempts),
	}
}

type expiredKeyPurger interface {
	DeleteExpired(ctx context.Context) error
}

func purgeExpiredKeys(repo expiredKeyPurger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := repo.DeleteExpired(context.Background()); err != nil {
			log.Printf("Warning: Failed to purge expired idempotency keys: %v", err)
		}
	}
}
