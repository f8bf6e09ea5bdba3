package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mariiahub/booking-api/internal/domain/scheduling"
	"github.com/mariiahub/booking-api/internal/domain/wizard"
)

// Slots lays out and ranks one date without a wizard session.
func (h *Handler) Slots(c *gin.Context) {
	q := scheduling.Query{
		Date: c.Query("date"),
		Request: scheduling.AppointmentRequest{
			ServiceType:   c.Query("serviceType"),
			PreferredTime: c.Query("preferredTime"),
		},
	}
	if q.Request.PreferredTime != "" {
		if _, err := scheduling.ParseClock(q.Request.PreferredTime); err != nil {
			badRequest(c, err)
			return
		}
	}
	resp, err := h.slotSvc.Slots(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// StartWizard opens a booking session, optionally pre-filled.
func (h *Handler) StartWizard(c *gin.Context) {
	var seed wizard.RequestPatch
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&seed); err != nil {
			badRequest(c, err)
			return
		}
	}
	if claims, ok := getClaims(c); ok && seed.Email == nil {
		email := claims.Email
		seed.Email = &email
	}
	session, err := h.wizardSvc.Start(c.Request.Context(), seed)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// GetWizard returns the session state.
func (h *Handler) GetWizard(c *gin.Context) {
	session, err := h.wizardSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// UpdateWizardRequest patches the appointment request.
func (h *Handler) UpdateWizardRequest(c *gin.Context) {
	var patch wizard.RequestPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}
	session, err := h.wizardSvc.UpdateRequest(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

type viewDatePayload struct {
	Date string `json:"date" binding:"required"`
}

// ViewWizardDate loads the slot grid for a date into the session.
func (h *Handler) ViewWizardDate(c *gin.Context) {
	var payload viewDatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, err)
		return
	}
	session, err := h.wizardSvc.ViewDate(c.Request.Context(), c.Param("id"), payload.Date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

type selectSlotPayload struct {
	SlotID string `json:"slotId" binding:"required"`
}

// SelectWizardSlot picks one slot of the viewed date.
func (h *Handler) SelectWizardSlot(c *gin.Context) {
	var payload selectSlotPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, err)
		return
	}
	session, err := h.wizardSvc.SelectSlot(c.Request.Context(), c.Param("id"), payload.SlotID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// AdvanceWizard moves forward; a blocked move is not an error.
func (h *Handler) AdvanceWizard(c *gin.Context) {
	res, err := h.wizardSvc.Advance(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// RetreatWizard moves back one step.
func (h *Handler) RetreatWizard(c *gin.Context) {
	session, err := h.wizardSvc.Retreat(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// SubmitWizard books the selected slot from the confirmation step.
func (h *Handler) SubmitWizard(c *gin.Context) {
	res, err := h.wizardSvc.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// MyAppointments lists the caller's bookings.
func (h *Handler) MyAppointments(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing token", nil))
		return
	}
	items, err := h.bookingSvc.ListMine(c.Request.Context(), claims.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// AllAppointments lists recent bookings for the admin console.
func (h *Handler) AllAppointments(c *gin.Context) {
	items, err := h.bookingSvc.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
