package router

import (
	"github.com/gin-gonic/gin"

	"drawbook/internal/config"
	"drawbook/internal/handler"
	"drawbook/internal/middleware"
	"drawbook/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	authSvc service.AuthService,
	authH *handler.AuthHandler,
	fileH *handler.FileHandler,
	exampleH *handler.ExampleHandler,
	usageH *handler.UsageHandler,
	paymentH *handler.PaymentHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authH.Register)
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.Refresh)

	// Public example library; parsing an example is free for everyone
	examples := v1.Group("/examples")
	examples.GET("", exampleH.List)
	examples.POST("/:id/parse", exampleH.Parse)

	// Gateway callback, authenticated by checksum
	v1.POST("/pay/notify", paymentH.Notify)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	files := protected.Group("/files")
	files.POST("/upload", fileH.Upload)
	files.GET("", fileH.List)
	files.POST("/:id/parse", fileH.Parse)
	files.GET("/:id/download", fileH.DownloadURL)
	files.DELETE("/:id", fileH.Delete)

	usage := protected.Group("/usage")
	usage.GET("", usageH.List)
	usage.GET("/summary", usageH.Summary)
	usage.GET("/export", usageH.Export)

	pay := protected.Group("/pay")
	pay.POST("/orders", paymentH.CreateOrder)
	pay.GET("/orders", paymentH.ListOrders)

	return r
}
