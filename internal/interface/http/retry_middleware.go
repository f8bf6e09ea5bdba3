package http

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mariiahub/booking-api/internal/infra/config"
)

// withRetry replays GET and HEAD requests whose handler answered with a transient 5xx.
// Booking writes are never replayed: a second POST could book a second slot.
func withRetry(next http.Handler, cfg config.RetryConfig, logger *slog.Logger) http.Handler {
	if !cfg.Enabled || cfg.MaxAttempts <= 1 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !replayable(r, cfg.Exclude) {
			next.ServeHTTP(w, r)
			return
		}

		var buffered *bufferedResponse
		for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
			if attempt > 1 && !sleepBackoff(r, cfg.BaseBackoff<<(attempt-2)) {
				break
			}
			buffered = newBufferedResponse()
			req := r
			if attempt > 1 {
				req = r.WithContext(context.WithValue(r.Context(), replayKey{}, attempt))
			}
			next.ServeHTTP(buffered, req)
			if !transientStatus(buffered.status) {
				break
			}
			if attempt < cfg.MaxAttempts {
				logger.Warn("transient read failure, retrying",
					"path", r.URL.Path, "status", buffered.status, "attempt", attempt)
			}
		}
		buffered.flushTo(w)
	})
}

type replayKey struct{}

// isReplay reports whether r is a retry of a request that already passed admission.
func isReplay(r *http.Request) bool {
	_, ok := r.Context().Value(replayKey{}).(int)
	return ok
}

func replayable(r *http.Request, exclude []string) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return false
	}
	for _, prefix := range exclude {
		if prefix != "" && strings.HasPrefix(r.URL.Path, prefix) {
			return false
		}
	}
	return true
}

// sleepBackoff waits d unless the client goes away first.
func sleepBackoff(r *http.Request, d time.Duration) bool {
	if d <= 0 {
		return r.Context().Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-r.Context().Done():
		return false
	case <-timer.C:
		return true
	}
}

func transientStatus(status int) bool {
	switch status {
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// bufferedResponse holds one attempt's response until it is known to be final.
type bufferedResponse struct {
	header http.Header
	body   bytes.Buffer
	status int
}

func newBufferedResponse() *bufferedResponse {
	return &bufferedResponse{header: make(http.Header)}
}

func (b *bufferedResponse) Header() http.Header { return b.header }

func (b *bufferedResponse) WriteHeader(status int) {
	if b.status == 0 {
		b.status = status
	}
}

func (b *bufferedResponse) Write(p []byte) (int, error) {
	if b.status == 0 {
		b.status = http.StatusOK
	}
	return b.body.Write(p)
}

func (b *bufferedResponse) Flush() {}

func (b *bufferedResponse) flushTo(w http.ResponseWriter) {
	dst := w.Header()
	for k, values := range b.header {
		dst[k] = append([]string(nil), values...)
	}
	if b.status == 0 {
		b.status = http.StatusOK
	}
	w.WriteHeader(b.status)
	_, _ = w.Write(b.body.Bytes())
}
