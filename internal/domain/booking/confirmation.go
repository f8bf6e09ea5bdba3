package booking

import (
	"context"
	"log/slog"

	"github.com/mariiahub/booking-api/internal/domain/baas"
)

// ConfirmationWorker forwards confirmation jobs to the BaaS e-mail function.
type ConfirmationWorker struct {
	invoker  baas.FunctionInvoker
	function string
	logger   *slog.Logger
}

// NewConfirmationWorker builds the worker. function is the BaaS function name.
func NewConfirmationWorker(invoker baas.FunctionInvoker, function string, logger *slog.Logger) *ConfirmationWorker {
	if function == "" {
		function = "send-booking-confirmation"
	}
	return &ConfirmationWorker{invoker: invoker, function: function, logger: logger.With("component", "booking.confirmation")}
}

// Handle matches the queue handler signature. Unknown jobs are ignored.
func (w *ConfirmationWorker) Handle(ctx context.Context, name string, payload map[string]any) {
	if name != ConfirmationJob {
		w.logger.Debug("ignoring job", "job", name)
		return
	}
	if w.invoker == nil {
		w.logger.Info("no function invoker configured, confirmation skipped", "appointment_id", payload["appointmentId"])
		return
	}
	if err := w.invoker.Invoke(ctx, w.function, payload, nil); err != nil {
		w.logger.Error("confirmation function failed", "function", w.function, "appointment_id", payload["appointmentId"], "error", err)
		return
	}
	w.logger.Info("confirmation sent", "appointment_id", payload["appointmentId"])
}
