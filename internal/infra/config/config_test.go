package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Chdir(t.TempDir())
	t.Setenv("AUTH_SECRET", "s3cret")
	t.Setenv("AUTH_ADMIN_EMAILS", "owner@studio.pl, manager@studio.pl")
	t.Setenv("BOOKING_SIMULATED_DELAY", "1500ms")
	t.Setenv("HTTP_RATE_LIMIT_RPM", "30")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTP.Address)
	require.Equal(t, []string{"owner@studio.pl", "manager@studio.pl"}, cfg.Auth.AdminEmails)
	require.Equal(t, 1500*time.Millisecond, cfg.Booking.SimulatedDelay)
	require.Equal(t, 30, cfg.HTTP.RateLimit.RequestsPerMinute)
	require.Equal(t, "Europe/Warsaw", cfg.Scheduling.Location)
	require.Len(t, cfg.Scheduling.Providers, 3)
	require.Equal(t, 30*time.Minute, cfg.Wizard.SessionTTL)
	require.False(t, cfg.Storage.Enabled())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
auth:
  secret: from-file
scheduling:
  openHour: 8
  closeHour: 20
  slotStep: 15m
  providers:
    - id: ola
      name: Ola
  ranking:
    peakBands: [[9, 11]]
    priceBoost: 0
    proximityWindow: 90m
storage:
  endpoint: https://r2.example.com
  bucket: gallery
  accessKey: key
  secretKey: secret
`), 0o600))
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "from-file", cfg.Auth.Secret)
	require.Equal(t, 8, cfg.Scheduling.OpenHour)
	require.Equal(t, 15*time.Minute, cfg.Scheduling.SlotStep)
	require.Equal(t, []ProviderConfig{{ID: "ola", Name: "Ola"}}, cfg.Scheduling.Providers)
	require.Equal(t, [][2]int{{9, 11}}, cfg.Scheduling.Ranking.PeakBands)
	require.NotNil(t, cfg.Scheduling.Ranking.PriceBoost)
	require.Zero(t, *cfg.Scheduling.Ranking.PriceBoost)
	require.Equal(t, 90*time.Minute, *cfg.Scheduling.Ranking.ProximityWindow)
	require.Nil(t, cfg.Scheduling.Ranking.PeakBoost)
	require.True(t, cfg.Storage.Enabled())
	// untouched sections keep defaults
	require.Equal(t, 180.0, cfg.Scheduling.DefaultPrice)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"missing secret":   func(c *Config) { c.Auth.Secret = "" },
		"bad timezone":     func(c *Config) { c.Scheduling.Location = "Mars/Olympus" },
		"negative delay":   func(c *Config) { c.Booking.SimulatedDelay = -time.Second },
		"valkey sans addr": func(c *Config) { c.Valkey.Enabled = true },
		"storage sans key": func(c *Config) { c.Storage = StorageConfig{Endpoint: "x", Bucket: "y"} },
		"zero burst":       func(c *Config) { c.HTTP.RateLimit.Burst = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.Auth.Secret = "s"
			require.NoError(t, cfg.Validate())
			mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
