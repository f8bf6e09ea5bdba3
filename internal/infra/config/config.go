package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Auth       AuthConfig       `yaml:"auth"`
	Scheduling SchedulingConfig `yaml:"scheduling"`
	Booking    BookingConfig    `yaml:"booking"`
	Wizard     WizardConfig     `yaml:"wizard"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	Postgres   PostgresConfig   `yaml:"postgres"`
	Valkey     ValkeyConfig     `yaml:"valkey"`
	Storage    StorageConfig    `yaml:"storage"`
	Functions  FunctionsConfig  `yaml:"functions"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string          `yaml:"address"`
	ReadTimeout  time.Duration   `yaml:"readTimeout"`
	WriteTimeout time.Duration   `yaml:"writeTimeout"`
	AllowOrigins []string        `yaml:"allowOrigins"`
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
	Retry        RetryConfig     `yaml:"retry"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures best-effort retries for idempotent requests.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	Exclude     []string      `yaml:"exclude"`
}

// AuthConfig controls token issuance.
type AuthConfig struct {
	Secret          string        `yaml:"secret"`
	TokenTTL        time.Duration `yaml:"tokenTtl"`
	RefreshTokenTTL time.Duration `yaml:"refreshTokenTtl"`
	AdminEmails     []string      `yaml:"adminEmails"`
}

// SchedulingConfig defines the studio day and the ranking heuristics.
type SchedulingConfig struct {
	Location             string           `yaml:"location"`
	OpenHour             int              `yaml:"openHour"`
	CloseHour            int              `yaml:"closeHour"`
	SlotStep             time.Duration    `yaml:"slotStep"`
	LunchStartHour       int              `yaml:"lunchStartHour"`
	LunchEndHour         int              `yaml:"lunchEndHour"`
	ClosingThresholdHour int              `yaml:"closingThresholdHour"`
	BaseAvailability     float64          `yaml:"baseAvailability"`
	LunchAvailability    float64          `yaml:"lunchAvailability"`
	EveningAvailability  float64          `yaml:"eveningAvailability"`
	WeekendFactor        float64          `yaml:"weekendFactor"`
	WeekendSurcharge     float64          `yaml:"weekendSurcharge"`
	DefaultPrice         float64          `yaml:"defaultPrice"`
	Providers            []ProviderConfig `yaml:"providers"`
	Ranking              RankingConfig    `yaml:"ranking"`
}

// ProviderConfig names a staff member.
type ProviderConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// RankingConfig mirrors the ranker knobs. Omitted knobs keep the defaults; an explicit
// zero switches a boost off.
type RankingConfig struct {
	BaseScore          *float64       `yaml:"baseScore"`
	PeakBands          [][2]int       `yaml:"peakBands"`
	PeakBoost          *float64       `yaml:"peakBoost"`
	ProximityWindow    *time.Duration `yaml:"proximityWindow"`
	ProximityBoost     *float64       `yaml:"proximityBoost"`
	PriceThreshold     *float64       `yaml:"priceThreshold"`
	PriceBoost         *float64       `yaml:"priceBoost"`
	RecommendThreshold *float64       `yaml:"recommendThreshold"`
}

// BookingConfig controls submission.
type BookingConfig struct {
	SimulatedDelay       time.Duration `yaml:"simulatedDelay"`
	ListLimit            int           `yaml:"listLimit"`
	ConfirmationFunction string        `yaml:"confirmationFunction"`
	QueueKey             string        `yaml:"queueKey"`
}

// WizardConfig controls session lifetime.
type WizardConfig struct {
	SessionTTL time.Duration `yaml:"sessionTtl"`
}

// CatalogConfig limits gallery uploads.
type CatalogConfig struct {
	MaxImageBytes int64 `yaml:"maxImageBytes"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// ValkeyConfig contains connection information for sessions and the job queue.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// StorageConfig points at the S3-compatible bucket used for gallery images.
type StorageConfig struct {
	Endpoint      string `yaml:"endpoint"`
	AccessKey     string `yaml:"accessKey"`
	SecretKey     string `yaml:"secretKey"`
	Bucket        string `yaml:"bucket"`
	Region        string `yaml:"region"`
	PublicBaseURL string `yaml:"publicBaseUrl"`
}

// Enabled reports whether an object store is configured.
func (s StorageConfig) Enabled() bool {
	return strings.TrimSpace(s.Endpoint) != "" && strings.TrimSpace(s.Bucket) != ""
}

// FunctionsConfig points at the BaaS functions endpoint.
type FunctionsConfig struct {
	BaseURL string        `yaml:"baseUrl"`
	APIKey  string        `yaml:"apiKey"`
	Timeout time.Duration `yaml:"timeout"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	setString(&cfg.HTTP.Address, "HTTP_ADDRESS")
	if v := os.Getenv("HTTP_ALLOW_ORIGINS"); v != "" {
		cfg.HTTP.AllowOrigins = splitList(v)
	}
	setBool(&cfg.HTTP.RateLimit.Enabled, "HTTP_RATE_LIMIT_ENABLED")
	setInt(&cfg.HTTP.RateLimit.RequestsPerMinute, "HTTP_RATE_LIMIT_RPM")
	setInt(&cfg.HTTP.RateLimit.Burst, "HTTP_RATE_LIMIT_BURST")
	setBool(&cfg.HTTP.Retry.Enabled, "HTTP_RETRY_ENABLED")
	setInt(&cfg.HTTP.Retry.MaxAttempts, "HTTP_RETRY_MAX_ATTEMPTS")
	setDuration(&cfg.HTTP.Retry.BaseBackoff, "HTTP_RETRY_BASE_BACKOFF")

	setString(&cfg.Auth.Secret, "AUTH_SECRET")
	setDuration(&cfg.Auth.TokenTTL, "AUTH_TOKEN_TTL")
	setDuration(&cfg.Auth.RefreshTokenTTL, "AUTH_REFRESH_TOKEN_TTL")
	if v := os.Getenv("AUTH_ADMIN_EMAILS"); v != "" {
		cfg.Auth.AdminEmails = splitList(v)
	}

	setString(&cfg.Scheduling.Location, "STUDIO_TIMEZONE")
	setFloat(&cfg.Scheduling.DefaultPrice, "STUDIO_DEFAULT_PRICE")

	setDuration(&cfg.Booking.SimulatedDelay, "BOOKING_SIMULATED_DELAY")
	setString(&cfg.Booking.ConfirmationFunction, "BOOKING_CONFIRMATION_FUNCTION")
	setDuration(&cfg.Wizard.SessionTTL, "WIZARD_SESSION_TTL")

	setString(&cfg.Postgres.DSN, "POSTGRES_DSN")
	if v := os.Getenv("POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MinConns = int32(parsed)
		}
	}

	setBool(&cfg.Valkey.Enabled, "VALKEY_ENABLED")
	setString(&cfg.Valkey.Addr, "VALKEY_ADDR")

	setString(&cfg.Storage.Endpoint, "STORAGE_ENDPOINT")
	setString(&cfg.Storage.AccessKey, "STORAGE_ACCESS_KEY")
	setString(&cfg.Storage.SecretKey, "STORAGE_SECRET_KEY")
	setString(&cfg.Storage.Bucket, "STORAGE_BUCKET")
	setString(&cfg.Storage.Region, "STORAGE_REGION")
	setString(&cfg.Storage.PublicBaseURL, "STORAGE_PUBLIC_BASE_URL")

	setString(&cfg.Functions.BaseURL, "FUNCTIONS_BASE_URL")
	setString(&cfg.Functions.APIKey, "FUNCTIONS_API_KEY")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v == "1" || strings.EqualFold(v, "true")
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}

func setFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = parsed
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			*dst = parsed
		}
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			AllowOrigins: []string{"*"},
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             30,
			},
			Retry: RetryConfig{
				Enabled:     true,
				MaxAttempts: 3,
				BaseBackoff: 150 * time.Millisecond,
				Exclude: []string{
					"/api/v1/metrics",
				},
			},
		},
		Auth: AuthConfig{
			TokenTTL:        time.Hour,
			RefreshTokenTTL: 30 * 24 * time.Hour,
		},
		Scheduling: SchedulingConfig{
			Location:             "Europe/Warsaw",
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
			Providers: []ProviderConfig{
				{ID: "mariia", Name: "Mariia"},
				{ID: "anna", Name: "Anna"},
				{ID: "katarzyna", Name: "Katarzyna"},
			},
		},
		Booking: BookingConfig{
			SimulatedDelay:       0,
			ListLimit:            100,
			ConfirmationFunction: "send-booking-confirmation",
			QueueKey:             "booking:jobs",
		},
		Wizard: WizardConfig{
			SessionTTL: 30 * time.Minute,
		},
		Catalog: CatalogConfig{
			MaxImageBytes: 5 << 20,
		},
		Postgres: PostgresConfig{
			MaxConns: 4,
		},
		Valkey: ValkeyConfig{
			Prefix: "booking",
		},
		Functions: FunctionsConfig{
			Timeout: 10 * time.Second,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}
	if strings.TrimSpace(c.Auth.Secret) == "" {
		return errors.New("auth.secret cannot be empty")
	}
	if c.Auth.TokenTTL <= 0 || c.Auth.RefreshTokenTTL <= 0 {
		return errors.New("auth token ttls must be positive")
	}
	if _, err := time.LoadLocation(c.Scheduling.Location); err != nil {
		return fmt.Errorf("scheduling.location: %w", err)
	}
	if c.Scheduling.DefaultPrice <= 0 {
		return errors.New("scheduling.defaultPrice must be positive")
	}
	if c.Booking.SimulatedDelay < 0 {
		return errors.New("booking.simulatedDelay cannot be negative")
	}
	if c.Wizard.SessionTTL <= 0 {
		return errors.New("wizard.sessionTtl must be positive")
	}
	if c.Catalog.MaxImageBytes <= 0 {
		return errors.New("catalog.maxImageBytes must be positive")
	}
	if c.Valkey.Enabled && strings.TrimSpace(c.Valkey.Addr) == "" {
		return errors.New("valkey.addr cannot be empty when valkey is enabled")
	}
	if c.Storage.Enabled() && (c.Storage.AccessKey == "" || c.Storage.SecretKey == "") {
		return errors.New("storage credentials are required when storage.endpoint is set")
	}
	return nil
}
