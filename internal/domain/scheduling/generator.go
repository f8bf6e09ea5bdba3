package scheduling

import (
	"math/rand/v2"
	"sync"
	"time"
)

// RandSource is the subset of *rand.Rand the generator draws from.
type RandSource interface {
	Float64() float64
	IntN(n int) int
}

// Generator lays out the daily slot grid with mocked availability.
type Generator struct {
	cfg Config
	mu  sync.Mutex
	rnd RandSource
}

// NewGenerator builds a generator. A nil source uses a randomly seeded PCG.
func NewGenerator(cfg Config, rnd RandSource) *Generator {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Generator{cfg: cfg, rnd: rnd}
}

// Generate returns the slots of date, ascending by start. basePrice <= 0 falls back to
// the configured default.
func (g *Generator) Generate(date time.Time, basePrice float64) []TimeSlot {
	if basePrice <= 0 {
		basePrice = g.cfg.DefaultPrice
	}
	y, m, d := date.In(g.cfg.Location).Date()
	open := time.Date(y, m, d, g.cfg.OpenHour, 0, 0, 0, g.cfg.Location)
	closing := time.Date(y, m, d, g.cfg.CloseHour, 0, 0, 0, g.cfg.Location)
	weekend := isWeekend(open)
	price := g.PriceAt(open, basePrice)

	g.mu.Lock()
	defer g.mu.Unlock()

	var slots []TimeSlot
	for start := open; !start.Add(g.cfg.SlotStep).After(closing); start = start.Add(g.cfg.SlotStep) {
		provider := g.cfg.Providers[g.rnd.IntN(len(g.cfg.Providers))]
		slots = append(slots, TimeSlot{
			ID:           slotID(start),
			Start:        start,
			End:          start.Add(g.cfg.SlotStep),
			Available:    g.rnd.Float64() < g.availability(start, weekend),
			ProviderID:   provider.ID,
			ProviderName: provider.Name,
			Price:        price,
		})
	}
	return slots
}

// PriceAt applies the weekend surcharge to basePrice for a slot starting at start.
func (g *Generator) PriceAt(start time.Time, basePrice float64) float64 {
	if basePrice <= 0 {
		basePrice = g.cfg.DefaultPrice
	}
	if isWeekend(start.In(g.cfg.Location)) && g.cfg.WeekendSurcharge > 0 {
		return roundPrice(basePrice * g.cfg.WeekendSurcharge)
	}
	return basePrice
}

func (g *Generator) availability(start time.Time, weekend bool) float64 {
	hour := start.Hour()
	p := g.cfg.BaseAvailability
	switch {
	case hour >= g.cfg.LunchStartHour && hour < g.cfg.LunchEndHour:
		p = g.cfg.LunchAvailability
	case hour >= g.cfg.ClosingThresholdHour:
		p = g.cfg.EveningAvailability
	}
	if weekend {
		p *= g.cfg.WeekendFactor
	}
	return p
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func roundPrice(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
