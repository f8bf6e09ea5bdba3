package wizard

import (
	"errors"
	"strings"

	"github.com/mariiahub/booking-api/internal/domain/scheduling"
)

// Step is the wizard position.
type Step int

const (
	StepService Step = iota + 1
	StepSchedule
	StepDetails
	StepConfirm
)

func (s Step) String() string {
	switch s {
	case StepService:
		return "service"
	case StepSchedule:
		return "schedule"
	case StepDetails:
		return "details"
	case StepConfirm:
		return "confirm"
	default:
		return "unknown"
	}
}

var (
	ErrSlotUnavailable = errors.New("slot is not available")
	ErrSlotNotFound    = errors.New("slot not found for the viewed date")
)

// Controller is the wizard state machine. It carries no I/O so it can be
// stored as-is in a session.
type Controller struct {
	Step       Step                          `json:"step"`
	Request    scheduling.AppointmentRequest `json:"request"`
	ViewedDate string                        `json:"viewedDate,omitempty"`
	Slots      []scheduling.TimeSlot         `json:"slots,omitempty"`
	Selected   *scheduling.TimeSlot          `json:"selectedSlot,omitempty"`
}

// NewController returns a controller at the first step.
func NewController() Controller {
	return Controller{Step: StepService}
}

// CanAdvance reports whether the current step's required fields are filled.
func (c *Controller) CanAdvance() bool {
	switch c.Step {
	case StepService:
		return strings.TrimSpace(c.Request.ServiceType) != "" &&
			strings.TrimSpace(c.Request.Name) != "" &&
			strings.TrimSpace(c.Request.Email) != ""
	case StepSchedule:
		return c.Selected != nil
	case StepDetails:
		return true
	default:
		return false
	}
}

// Advance moves forward one step when allowed and reports whether it moved.
func (c *Controller) Advance() bool {
	if !c.CanAdvance() {
		return false
	}
	c.Step++
	return true
}

// Retreat moves back one step; step 1 is the floor.
func (c *Controller) Retreat() bool {
	if c.Step <= StepService {
		c.Step = StepService
		return false
	}
	c.Step--
	return true
}

// SetDate records the viewed date and its slots. Changing the date drops the selection.
func (c *Controller) SetDate(date string, slots []scheduling.TimeSlot) {
	if date != c.ViewedDate {
		c.Selected = nil
	}
	c.ViewedDate = date
	c.Request.PreferredDate = date
	c.Slots = slots
	if c.Selected != nil {
		// keep the selection only while the refreshed grid still offers it
		if slot, ok := c.findSlot(c.Selected.ID); !ok || !slot.Available {
			c.Selected = nil
		} else {
			c.Selected = &slot
		}
	}
}

// RefreshSlots swaps in a re-scored grid of the viewed date. The selection follows its
// slot id so it picks up the new confidence and price.
func (c *Controller) RefreshSlots(slots []scheduling.TimeSlot) {
	c.Slots = slots
	if c.Selected == nil {
		return
	}
	if slot, ok := c.findSlot(c.Selected.ID); ok {
		c.Selected = &slot
	}
}

// SelectSlot marks one slot of the viewed date as chosen, replacing any earlier choice.
func (c *Controller) SelectSlot(id string) error {
	slot, ok := c.findSlot(id)
	if !ok {
		return ErrSlotNotFound
	}
	if !slot.Available {
		return ErrSlotUnavailable
	}
	c.Selected = &slot
	return nil
}

// CanSubmit reports whether the terminal submit action is available.
func (c *Controller) CanSubmit() bool {
	return c.Step == StepConfirm && c.Selected != nil
}

// Reset returns to the first step with an empty request.
func (c *Controller) Reset() {
	*c = NewController()
}

func (c *Controller) findSlot(id string) (scheduling.TimeSlot, bool) {
	for _, slot := range c.Slots {
		if slot.ID == id {
			return slot, true
		}
	}
	return scheduling.TimeSlot{}, false
}
