package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mariiahub/booking-api/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, gatherer prometheus.Gatherer) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(handler.logger),
		errorHandlingMiddleware(handler.logger),
		corsMiddleware(cfg.HTTP.AllowOrigins),
		rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger),
	)

	api := router.Group("/api/v1")
	{
		api.GET("/healthz", handler.Health)
		api.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

		authGroup := api.Group("/auth")
		authGroup.POST("/register", handler.Register)
		authGroup.POST("/login", handler.Login)
		authGroup.POST("/refresh", handler.Refresh)
		authGroup.GET("/me", authMiddleware(handler.authSvc), handler.Me)

		api.GET("/services", handler.ListServices)
		api.GET("/gallery", handler.ListGallery)
		api.GET("/slots", handler.Slots)

		wizardGroup := api.Group("/wizard")
		wizardGroup.POST("", optionalAuth(handler), handler.StartWizard)
		wizardGroup.GET("/:id", handler.GetWizard)
		wizardGroup.PATCH("/:id/request", handler.UpdateWizardRequest)
		wizardGroup.POST("/:id/date", handler.ViewWizardDate)
		wizardGroup.POST("/:id/slot", handler.SelectWizardSlot)
		wizardGroup.POST("/:id/advance", handler.AdvanceWizard)
		wizardGroup.POST("/:id/retreat", handler.RetreatWizard)
		wizardGroup.POST("/:id/submit", handler.SubmitWizard)

		api.GET("/appointments/mine", authMiddleware(handler.authSvc), handler.MyAppointments)

		admin := api.Group("/admin", authMiddleware(handler.authSvc), adminMiddleware())
		admin.GET("/appointments", handler.AllAppointments)
		admin.GET("/services", handler.AdminListServices)
		admin.POST("/services", handler.CreateService)
		admin.PUT("/services/order", handler.ReorderServices)
		admin.PUT("/services/:id", handler.UpdateService)
		admin.DELETE("/services/:id", handler.DeleteService)
		admin.POST("/gallery", handler.UploadImage)
		admin.PUT("/gallery/order", handler.ReorderGallery)
		admin.DELETE("/gallery/:id", handler.DeleteImage)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        withRetry(router, cfg.HTTP.Retry, handler.logger),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

// optionalAuth attaches claims when a valid bearer token is present and never rejects.
func optionalAuth(handler *Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if len(header) > 7 && header[:7] == "Bearer " {
			if claims, err := handler.authSvc.ValidateToken(c.Request.Context(), header[7:]); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("http request", "method", c.Request.Method, "path", c.Request.URL.Path, "status", c.Writer.Status(), "latency_ms", latency.Milliseconds())
	}
}
