package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fixedRand struct {
	value    float64
	provider int
}

func (f fixedRand) Float64() float64 { return f.value }
func (f fixedRand) IntN(n int) int   { return f.provider % n }

func monday() time.Time   { return time.Date(2099, 1, 5, 0, 0, 0, 0, time.UTC) }
func saturday() time.Time { return time.Date(2099, 1, 10, 0, 0, 0, 0, time.UTC) }

func TestGenerateGridShape(t *testing.T) {
	cfg := DefaultConfig()
	gen := NewGenerator(cfg, nil)

	for _, date := range []time.Time{monday(), saturday()} {
		slots := gen.Generate(date, 0)
		require.Len(t, slots, 18)
		require.Equal(t, time.Date(2099, 1, date.Day(), 9, 0, 0, 0, time.UTC), slots[0].Start)
		require.Equal(t, time.Date(2099, 1, date.Day(), 18, 0, 0, 0, time.UTC), slots[len(slots)-1].End)

		seen := make(map[string]struct{}, len(slots))
		for i, slot := range slots {
			require.Equal(t, cfg.SlotStep, slot.End.Sub(slot.Start))
			require.NotEmpty(t, slot.ProviderID)
			if i > 0 {
				require.True(t, slot.Start.After(slots[i-1].Start))
				require.Equal(t, slots[i-1].End, slot.Start)
			}
			_, dup := seen[slot.ID]
			require.False(t, dup, "duplicate slot id %s", slot.ID)
			seen[slot.ID] = struct{}{}
		}
	}
}

func TestGenerateCustomWindow(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OpenHour = 8
	cfg.CloseHour = 12
	cfg.SlotStep = 45 * time.Minute
	slots := NewGenerator(cfg, fixedRand{}).Generate(monday(), 100)

	// 08:00 .. 11:00 start, the 11:45 slot would overrun 12:00.
	require.Len(t, slots, 5)
	require.Equal(t, 11, slots[4].Start.Hour())
	require.False(t, slots[4].End.After(time.Date(2099, 1, 5, 12, 0, 0, 0, time.UTC)))
}

func TestGenerateAvailabilityWindows(t *testing.T) {
	gen := NewGenerator(DefaultConfig(), fixedRand{value: 0.4, provider: 1})

	for _, slot := range gen.Generate(monday(), 0) {
		hour := slot.Start.Hour()
		if hour == 12 {
			require.False(t, slot.Available, "lunch slot %s", slot.ID)
			continue
		}
		require.True(t, slot.Available, "slot %s", slot.ID)
		require.Equal(t, "anna", slot.ProviderID)
		require.Equal(t, 180.0, slot.Price)
	}

	for _, slot := range gen.Generate(saturday(), 0) {
		require.False(t, slot.Available, "weekend slot %s", slot.ID)
		require.Equal(t, 207.0, slot.Price)
	}
}

func TestGenerateUsesLocation(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	cfg := DefaultConfig()
	cfg.Location = loc
	slots := NewGenerator(cfg, fixedRand{}).Generate(time.Date(2099, 1, 5, 0, 0, 0, 0, loc), 150)

	require.Equal(t, loc, slots[0].Start.Location())
	require.Equal(t, 9, slots[0].Start.Hour())
	require.Equal(t, 150.0, slots[0].Price)
}
