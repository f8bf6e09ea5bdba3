package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mariiahub/booking-api/internal/domain/auth"
	"github.com/mariiahub/booking-api/internal/domain/booking"
	"github.com/mariiahub/booking-api/internal/domain/catalog"
	"github.com/mariiahub/booking-api/internal/domain/scheduling"
	"github.com/mariiahub/booking-api/internal/domain/wizard"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	authSvc    auth.Service
	slotSvc    scheduling.Service
	wizardSvc  wizard.Service
	bookingSvc booking.Service
	catalogSvc catalog.Service
	logger     *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(
	authSvc auth.Service,
	slotSvc scheduling.Service,
	wizardSvc wizard.Service,
	bookingSvc booking.Service,
	catalogSvc catalog.Service,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		authSvc:    authSvc,
		slotSvc:    slotSvc,
		wizardSvc:  wizardSvc,
		bookingSvc: bookingSvc,
		catalogSvc: catalogSvc,
		logger:     logger.With("component", "http.handler"),
	}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
