package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/valkey-io/valkey-go"

	"github.com/mariiahub/booking-api/internal/domain/auth"
	"github.com/mariiahub/booking-api/internal/domain/baas"
	"github.com/mariiahub/booking-api/internal/domain/booking"
	"github.com/mariiahub/booking-api/internal/domain/catalog"
	"github.com/mariiahub/booking-api/internal/domain/scheduling"
	"github.com/mariiahub/booking-api/internal/domain/wizard"
	"github.com/mariiahub/booking-api/internal/infra/bookingrepo"
	"github.com/mariiahub/booking-api/internal/infra/config"
	"github.com/mariiahub/booking-api/internal/infra/functions"
	"github.com/mariiahub/booking-api/internal/infra/pgxdb"
	"github.com/mariiahub/booking-api/internal/infra/queue"
	"github.com/mariiahub/booking-api/internal/infra/records"
	"github.com/mariiahub/booking-api/internal/infra/sessionstore"
	"github.com/mariiahub/booking-api/internal/infra/storage"
	"github.com/mariiahub/booking-api/internal/infra/userrepo"
)

func provideAuthConfig(cfg *config.Config) auth.Config {
	return auth.Config{
		Secret:          cfg.Auth.Secret,
		TokenTTL:        cfg.Auth.TokenTTL,
		RefreshTokenTTL: cfg.Auth.RefreshTokenTTL,
		AdminEmails:     cfg.Auth.AdminEmails,
	}
}

func provideSchedulingConfig(cfg *config.Config) (scheduling.Config, error) {
	src := cfg.Scheduling
	loc, err := time.LoadLocation(src.Location)
	if err != nil {
		return scheduling.Config{}, fmt.Errorf("load studio location: %w", err)
	}
	out := scheduling.Config{
		Location:             loc,
		OpenHour:             src.OpenHour,
		CloseHour:            src.CloseHour,
		SlotStep:             src.SlotStep,
		LunchStartHour:       src.LunchStartHour,
		LunchEndHour:         src.LunchEndHour,
		ClosingThresholdHour: src.ClosingThresholdHour,
		BaseAvailability:     src.BaseAvailability,
		LunchAvailability:    src.LunchAvailability,
		EveningAvailability:  src.EveningAvailability,
		WeekendFactor:        src.WeekendFactor,
		WeekendSurcharge:     src.WeekendSurcharge,
		DefaultPrice:         src.DefaultPrice,
		Ranking:              mergeRanking(src.Ranking),
	}
	for _, p := range src.Providers {
		out.Providers = append(out.Providers, scheduling.Provider{ID: p.ID, Name: p.Name})
	}
	if err := out.Validate(); err != nil {
		return scheduling.Config{}, err
	}
	return out, nil
}

// mergeRanking overlays the configured knobs on the default weights. Only omitted knobs
// fall back, so a configured zero boost stays zero.
func mergeRanking(src config.RankingConfig) scheduling.RankingConfig {
	out := scheduling.DefaultRankingConfig()
	if src.PeakBands != nil {
		out.PeakBands = src.PeakBands
	}
	overlay(&out.BaseScore, src.BaseScore)
	overlay(&out.PeakBoost, src.PeakBoost)
	overlay(&out.ProximityWindow, src.ProximityWindow)
	overlay(&out.ProximityBoost, src.ProximityBoost)
	overlay(&out.PriceThreshold, src.PriceThreshold)
	overlay(&out.PriceBoost, src.PriceBoost)
	overlay(&out.RecommendThreshold, src.RecommendThreshold)
	return out
}

func overlay[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func provideSlotGenerator(cfg scheduling.Config) *scheduling.Generator {
	return scheduling.NewGenerator(cfg, nil)
}

func provideOfferLookup(svc catalog.Service) scheduling.OfferLookup {
	return svc
}

func provideBookingConfig(cfg *config.Config) booking.Config {
	return booking.Config{
		SimulatedDelay: cfg.Booking.SimulatedDelay,
		ListLimit:      cfg.Booking.ListLimit,
	}
}

func provideWizardConfig(cfg *config.Config) wizard.Config {
	return wizard.Config{SessionTTL: cfg.Wizard.SessionTTL}
}

func provideCatalogConfig(cfg *config.Config) catalog.Config {
	return catalog.Config{MaxImageBytes: cfg.Catalog.MaxImageBytes}
}

func provideMetricsRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// providePostgresPool returns nil when no DSN is configured or the server is unreachable;
// the repository providers then fall back to memory adapters.
func providePostgresPool(cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, func()) {
	if strings.TrimSpace(cfg.Postgres.DSN) == "" {
		logger.Info("postgres dsn not set, using memory repositories")
		return nil, func() {}
	}
	pool, err := pgxdb.Open(context.Background(), pgxdb.Options{
		DSN:      cfg.Postgres.DSN,
		MaxConns: cfg.Postgres.MaxConns,
		MinConns: cfg.Postgres.MinConns,
	})
	if err != nil {
		logger.Error("postgres unavailable, using memory repositories", "error", err)
		return nil, func() {}
	}
	logger.Info("postgres repositories enabled")
	return pool, pool.Close
}

func provideUserRepository(pool *pgxpool.Pool) auth.Repository {
	if pool == nil {
		return userrepo.NewMemoryRepository()
	}
	return userrepo.NewPostgresRepository(pool)
}

func provideAppointmentRepository(pool *pgxpool.Pool) booking.Repository {
	if pool == nil {
		return bookingrepo.NewMemoryRepository()
	}
	return bookingrepo.NewPostgresRepository(pool)
}

func provideRecordStore(pool *pgxpool.Pool) baas.RecordStore {
	if pool == nil {
		return records.NewMemoryStore()
	}
	return records.NewPostgresStore(pool)
}

func provideFileStorage(cfg *config.Config, logger *slog.Logger) baas.FileStorage {
	if !cfg.Storage.Enabled() {
		logger.Info("object storage not configured, using memory storage")
		return storage.NewMemoryStorage(cfg.Storage.PublicBaseURL)
	}
	s3, err := storage.NewS3Storage(storage.S3Options{
		Endpoint:      cfg.Storage.Endpoint,
		AccessKey:     cfg.Storage.AccessKey,
		SecretKey:     cfg.Storage.SecretKey,
		Bucket:        cfg.Storage.Bucket,
		Region:        cfg.Storage.Region,
		PublicBaseURL: cfg.Storage.PublicBaseURL,
	}, logger)
	if err != nil {
		logger.Error("failed to initialize object storage, using memory storage", "error", err)
		return storage.NewMemoryStorage(cfg.Storage.PublicBaseURL)
	}
	logger.Info("object storage enabled", "bucket", cfg.Storage.Bucket)
	return s3
}

// provideValkeyClient returns nil when valkey is disabled or unreachable.
func provideValkeyClient(cfg *config.Config, logger *slog.Logger) (valkey.Client, func()) {
	if !cfg.Valkey.Enabled {
		return nil, func() {}
	}
	opt, err := buildValkeyOptions(cfg.Valkey.Addr)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory", "error", err)
		return nil, func() {}
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory", "error", err)
		return nil, func() {}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory", "error", err)
		client.Close()
		return nil, func() {}
	}
	logger.Info("valkey enabled", "addr", cfg.Valkey.Addr)
	return client, client.Close
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

func provideSessionStore(cfg *config.Config, client valkey.Client) wizard.SessionStore {
	if client == nil {
		return sessionstore.NewMemoryStore()
	}
	return sessionstore.NewValkeyStore(client, cfg.Valkey.Prefix)
}

func provideFunctionInvoker(cfg *config.Config, logger *slog.Logger) baas.FunctionInvoker {
	if strings.TrimSpace(cfg.Functions.BaseURL) == "" {
		logger.Info("functions endpoint not set, confirmations will be skipped")
		return nil
	}
	return functions.NewClient(cfg.Functions.BaseURL, cfg.Functions.APIKey, cfg.Functions.Timeout)
}

func provideConfirmationWorker(cfg *config.Config, invoker baas.FunctionInvoker, logger *slog.Logger) *booking.ConfirmationWorker {
	return booking.NewConfirmationWorker(invoker, cfg.Booking.ConfirmationFunction, logger)
}

// provideJobQueue picks the valkey list queue when available and attaches the
// confirmation worker. The cleanup drains in-flight jobs.
func provideJobQueue(cfg *config.Config, client valkey.Client, worker *booking.ConfirmationWorker, logger *slog.Logger) (booking.JobQueue, func()) {
	var q queue.HandlerQueue
	if client == nil {
		q = queue.NewImmediateQueue(nil)
	} else {
		q = queue.NewValkeyQueue(client, cfg.Booking.QueueKey, logger)
	}
	q.SetHandler(worker.Handle)
	return q, q.Close
}
