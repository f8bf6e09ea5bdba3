//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mariiahub/booking-api/internal/bootstrap"
	"github.com/mariiahub/booking-api/internal/domain/auth"
	"github.com/mariiahub/booking-api/internal/domain/booking"
	"github.com/mariiahub/booking-api/internal/domain/catalog"
	"github.com/mariiahub/booking-api/internal/domain/scheduling"
	"github.com/mariiahub/booking-api/internal/domain/wizard"
	"github.com/mariiahub/booking-api/internal/infra/config"
	httpiface "github.com/mariiahub/booking-api/internal/interface/http"
	"github.com/mariiahub/booking-api/pkg/logger"
	"github.com/mariiahub/booking-api/pkg/metrics"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		provideMetricsRegistry,
		wire.Bind(new(prometheus.Registerer), new(*prometheus.Registry)),
		wire.Bind(new(prometheus.Gatherer), new(*prometheus.Registry)),
		metrics.NewBookingMetrics,
		providePostgresPool,
		provideValkeyClient,
		provideAuthConfig,
		provideUserRepository,
		auth.NewService,
		provideCatalogConfig,
		provideRecordStore,
		provideFileStorage,
		catalog.NewService,
		provideSchedulingConfig,
		provideSlotGenerator,
		provideOfferLookup,
		scheduling.NewService,
		provideBookingConfig,
		provideAppointmentRepository,
		provideFunctionInvoker,
		provideConfirmationWorker,
		provideJobQueue,
		booking.NewService,
		provideWizardConfig,
		provideSessionStore,
		wizard.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
