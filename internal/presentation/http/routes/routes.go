package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/receipt-relay/internal/config"
	domainRepo "github.com/sangkips/receipt-relay/internal/domain/repository"
	"github.com/sangkips/receipt-relay/internal/presentation/http/handler"
	"github.com/sangkips/receipt-relay/internal/presentation/http/middleware"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Receipt *handler.ReceiptHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg *config.Config
	// IdempotencyRepo is nil when Idempotency-Key replay is disabled.
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.ClientRateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	if dir := deps.Cfg.App.AssetsDir; dir != "" {
		router.Static("/asset", dir)
	}

	send := []gin.HandlerFunc{}
	if deps.RateLimiter != nil {
		send = append(send, deps.RateLimiter.Middleware())
	}
	if deps.IdempotencyRepo != nil {
		send = append(send, middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
			TTL:  deps.Cfg.Idempotency.TTL,
		}))
	}
	send = append(send, h.Receipt.GenerateAndSend)

	// Path used by existing clients
	router.POST("/generate-and-send", send...)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/receipts/send", send...)
	}

	return router
}
