package scheduling

import (
	"errors"
	"time"
)

// Config drives the slot grid and the ranking heuristic.
type Config struct {
	Location             *time.Location
	OpenHour             int
	CloseHour            int
	SlotStep             time.Duration
	LunchStartHour       int
	LunchEndHour         int
	ClosingThresholdHour int
	BaseAvailability     float64
	LunchAvailability    float64
	EveningAvailability  float64
	WeekendFactor        float64
	WeekendSurcharge     float64
	DefaultPrice         float64
	Providers            []Provider
	Ranking              RankingConfig
}

// RankingConfig holds the additive scoring knobs.
type RankingConfig struct {
	BaseScore          float64
	PeakBands          [][2]int
	PeakBoost          float64
	ProximityWindow    time.Duration
	ProximityBoost     float64
	PriceThreshold     float64
	PriceBoost         float64
	RecommendThreshold float64
}

// DefaultConfig mirrors the studio's published opening hours.
func DefaultConfig() Config {
	return Config{
		Location:             time.UTC,
		OpenHour:             9,
		CloseHour:            18,
		SlotStep:             30 * time.Minute,
		LunchStartHour:       12,
		LunchEndHour:         13,
		ClosingThresholdHour: 17,
		BaseAvailability:     0.8,
		LunchAvailability:    0.3,
		EveningAvailability:  0.5,
		WeekendFactor:        0.5,
		WeekendSurcharge:     1.15,
		DefaultPrice:         180,
		Providers: []Provider{
			{ID: "mariia", Name: "Mariia"},
			{ID: "anna", Name: "Anna"},
			{ID: "katarzyna", Name: "Katarzyna"},
		},
		Ranking: DefaultRankingConfig(),
	}
}

// DefaultRankingConfig returns the baseline heuristic weights.
func DefaultRankingConfig() RankingConfig {
	return RankingConfig{
		BaseScore:          0.5,
		PeakBands:          [][2]int{{10, 12}, {14, 16}},
		PeakBoost:          0.2,
		ProximityWindow:    time.Hour,
		ProximityBoost:     0.3,
		PriceThreshold:     200,
		PriceBoost:         0.1,
		RecommendThreshold: 0.8,
	}
}

// Validate ensures the grid is well formed.
func (c Config) Validate() error {
	if c.OpenHour < 0 || c.CloseHour > 24 || c.OpenHour >= c.CloseHour {
		return errors.New("scheduling hours must satisfy 0 <= open < close <= 24")
	}
	if c.SlotStep <= 0 || c.SlotStep > time.Duration(c.CloseHour-c.OpenHour)*time.Hour {
		return errors.New("scheduling slot step must be positive and fit the working window")
	}
	if len(c.Providers) == 0 {
		return errors.New("scheduling requires at least one provider")
	}
	for _, p := range []float64{c.BaseAvailability, c.LunchAvailability, c.EveningAvailability, c.WeekendFactor} {
		if p < 0 || p > 1 {
			return errors.New("scheduling probabilities must be within [0,1]")
		}
	}
	if c.Ranking.BaseScore < 0 || c.Ranking.BaseScore > 1 {
		return errors.New("ranking base score must be within [0,1]")
	}
	return nil
}
