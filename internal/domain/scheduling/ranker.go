package scheduling

import (
	"math"
	"time"
)

const (
	reasonPeak      = "Popular time window"
	reasonProximity = "Close to your preferred time"
	reasonPrice     = "Good value"
	reasonBudget    = "Within your budget"
)

// Ranker scores slots with a fixed additive heuristic.
type Ranker struct {
	cfg RankingConfig
}

// NewRanker builds a ranker.
func NewRanker(cfg RankingConfig) *Ranker {
	return &Ranker{cfg: cfg}
}

// Rank annotates a copy of slots with confidence, recommendation and reasons.
func (r *Ranker) Rank(slots []TimeSlot, req AppointmentRequest) []TimeSlot {
	preferred, hasPreferred := -1, false
	if req.PreferredTime != "" {
		if minutes, err := ParseClock(req.PreferredTime); err == nil {
			preferred, hasPreferred = minutes, true
		}
	}

	out := make([]TimeSlot, len(slots))
	for i, slot := range slots {
		score := r.cfg.BaseScore
		var reasons []string

		if r.inPeakBand(slot.Start) {
			score += r.cfg.PeakBoost
			reasons = append(reasons, reasonPeak)
		}
		if hasPreferred && r.nearPreferred(slot.Start, preferred) {
			score += r.cfg.ProximityBoost
			reasons = append(reasons, reasonProximity)
		}
		if slot.Price < r.cfg.PriceThreshold {
			score += r.cfg.PriceBoost
			reasons = append(reasons, reasonPrice)
		}
		if req.Budget != nil && req.Budget.Contains(slot.Price) {
			reasons = append(reasons, reasonBudget)
		}

		slot.Confidence = math.Min(1.0, roundScore(score))
		slot.Recommended = slot.Available && slot.Confidence >= r.cfg.RecommendThreshold
		slot.Reasons = reasons
		out[i] = slot
	}
	return out
}

func (r *Ranker) inPeakBand(start time.Time) bool {
	hour := start.Hour()
	for _, band := range r.cfg.PeakBands {
		if hour >= band[0] && hour < band[1] {
			return true
		}
	}
	return false
}

func (r *Ranker) nearPreferred(start time.Time, preferredMinutes int) bool {
	minutes := start.Hour()*60 + start.Minute()
	diff := time.Duration(absInt(minutes-preferredMinutes)) * time.Minute
	return diff <= r.cfg.ProximityWindow
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// roundScore trims float noise from repeated additions (0.5+0.2+0.1 and friends).
func roundScore(v float64) float64 {
	return math.Round(v*1000) / 1000
}
