package scheduling

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Flexibility expresses how far the customer accepts moving from the preferred time.
type Flexibility string

const (
	FlexibilityExact        Flexibility = "exact"
	FlexibilityFlexible     Flexibility = "flexible"
	FlexibilityVeryFlexible Flexibility = "very_flexible"
)

// Valid reports whether f is a known flexibility value.
func (f Flexibility) Valid() bool {
	switch f {
	case FlexibilityExact, FlexibilityFlexible, FlexibilityVeryFlexible:
		return true
	}
	return false
}

// BudgetRange is an optional inclusive price window.
type BudgetRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether price lies inside the range. A zero Max means no upper bound.
func (b BudgetRange) Contains(price float64) bool {
	if price < b.Min {
		return false
	}
	return b.Max <= 0 || price <= b.Max
}

// AppointmentRequest is filled in step by step while the customer walks the wizard.
type AppointmentRequest struct {
	ServiceType   string       `json:"serviceType"`
	PreferredDate string       `json:"preferredDate,omitempty"`
	PreferredTime string       `json:"preferredTime,omitempty"`
	Duration      int          `json:"duration,omitempty"`
	Name          string       `json:"name"`
	Email         string       `json:"email"`
	Phone         string       `json:"phone,omitempty"`
	Flexibility   Flexibility  `json:"flexibility,omitempty"`
	Budget        *BudgetRange `json:"budget,omitempty"`
	Notes         string       `json:"notes,omitempty"`
}

// TimeSlot is a bookable window produced for a single date.
type TimeSlot struct {
	ID           string    `json:"id"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	Available    bool      `json:"available"`
	ProviderID   string    `json:"providerId"`
	ProviderName string    `json:"providerName"`
	Price        float64   `json:"price"`
	Confidence   float64   `json:"confidence"`
	Recommended  bool      `json:"recommended"`
	Reasons      []string  `json:"reasons,omitempty"`
}

// Provider is a staff member slots can be assigned to.
type Provider struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// ParseDate parses a YYYY-MM-DD date in loc.
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("date cannot be empty")
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(dateLayout, raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must use YYYY-MM-DD: %w", err)
	}
	return t, nil
}

// ParseClock parses HH:MM into minutes after midnight.
func ParseClock(raw string) (int, error) {
	t, err := time.Parse(clockLayout, strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("time must use HH:MM: %w", err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func slotID(start time.Time) string {
	return start.Format("20060102-1504")
}
