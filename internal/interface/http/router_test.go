package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/mariiahub/booking-api/internal/domain/auth"
	"github.com/mariiahub/booking-api/internal/domain/booking"
	"github.com/mariiahub/booking-api/internal/domain/catalog"
	"github.com/mariiahub/booking-api/internal/domain/scheduling"
	"github.com/mariiahub/booking-api/internal/domain/wizard"
	"github.com/mariiahub/booking-api/internal/infra/bookingrepo"
	"github.com/mariiahub/booking-api/internal/infra/config"
	"github.com/mariiahub/booking-api/internal/infra/records"
	"github.com/mariiahub/booking-api/internal/infra/sessionstore"
	"github.com/mariiahub/booking-api/internal/infra/storage"
	"github.com/mariiahub/booking-api/internal/infra/userrepo"
	"github.com/mariiahub/booking-api/pkg/metrics"
)

// openDay makes every slot available and assigns the first provider.
type openDay struct{}

func (openDay) Float64() float64 { return 0 }
func (openDay) IntN(int) int     { return 0 }

func TestRouter_Health(t *testing.T) {
	server := newRouterUnderTest(t, testConfig())
	rec := doRequest(server, http.MethodGet, "/api/v1/healthz", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouter_WizardBookingFlow(t *testing.T) {
	server := newRouterUnderTest(t, testConfig())

	rec := doRequest(server, http.MethodPost, "/api/v1/wizard", `{"serviceType":"beauty","name":"Anna","email":"anna@test.com"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	session := decodeSession(t, rec)
	require.Equal(t, wizard.StepService, session.Step)
	require.True(t, session.CanAdvance)
	base := "/api/v1/wizard/" + session.ID

	rec = doRequest(server, http.MethodPost, base+"/advance", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var advanced wizard.AdvanceResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &advanced))
	require.True(t, advanced.Advanced)
	require.Equal(t, wizard.StepSchedule, advanced.Session.Step)

	// step 2 is gated on a selected slot
	rec = doRequest(server, http.MethodPost, base+"/advance", "", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &advanced))
	require.False(t, advanced.Advanced)
	require.Equal(t, wizard.StepSchedule, advanced.Session.Step)

	rec = doRequest(server, http.MethodPost, base+"/date", `{"date":"2099-01-05"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	session = decodeSession(t, rec)
	require.Len(t, session.Slots, 18)

	rec = doRequest(server, http.MethodPost, base+"/slot", `{"slotId":"`+session.Slots[2].ID+`"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	for range 2 {
		rec = doRequest(server, http.MethodPost, base+"/advance", "", "")
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &advanced))
		require.True(t, advanced.Advanced)
	}
	require.Equal(t, wizard.StepConfirm, advanced.Session.Step)

	rec = doRequest(server, http.MethodPost, base+"/submit", "", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	var submitted wizard.SubmitResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &submitted))
	require.Equal(t, booking.StatusConfirmed, submitted.Appointment.Status)
	require.Equal(t, "anna@test.com", submitted.Appointment.Request.Email)
	require.Equal(t, wizard.StepService, submitted.Session.Step)

	rec = doRequest(server, http.MethodGet, base, "", "")
	require.Equal(t, wizard.StepService, decodeSession(t, rec).Step)
}

func TestRouter_WizardErrors(t *testing.T) {
	server := newRouterUnderTest(t, testConfig())

	rec := doRequest(server, http.MethodGet, "/api/v1/wizard/unknown", "", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	errBody := decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, "not_found", errBody["error"]["code"])
	require.NotEmpty(t, errBody["error"]["description"])

	rec = doRequest(server, http.MethodPost, "/api/v1/wizard", "", "")
	session := decodeSession(t, rec)

	rec = doRequest(server, http.MethodPost, "/api/v1/wizard/"+session.ID+"/submit", "", "")
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "invalid_state", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])

	rec = doRequest(server, http.MethodPost, "/api/v1/wizard/"+session.ID+"/date", `{}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid_request", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])
}

func TestRouter_Slots(t *testing.T) {
	server := newRouterUnderTest(t, testConfig())

	rec := doRequest(server, http.MethodGet, "/api/v1/slots?date=2099-01-05&preferredTime=10:00", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp scheduling.SlotsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "2099-01-05", resp.Date)
	require.Len(t, resp.Slots, 18)
	require.Equal(t, 18, resp.Available)
	require.Positive(t, resp.Recommended)

	rec = doRequest(server, http.MethodGet, "/api/v1/slots?date=2000-01-01", "", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	errBody := decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, "invalid_input", errBody["error"]["code"])
	require.Equal(t, "Please choose today or a later date.", errBody["error"]["description"])

	rec = doRequest(server, http.MethodGet, "/api/v1/slots?date=2099-01-05&preferredTime=noon", "", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_AdminAccess(t *testing.T) {
	server := newRouterUnderTest(t, testConfig())
	customer := registerAndLogin(t, server, "anna@test.com")
	owner := registerAndLogin(t, server, "owner@studio.pl")

	rec := doRequest(server, http.MethodPost, "/api/v1/admin/services", `{"name":"Brows","category":"beauty","durationMinutes":30,"price":120}`, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(server, http.MethodPost, "/api/v1/admin/services", `{"name":"Brows","category":"beauty","durationMinutes":30,"price":120}`, customer)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(server, http.MethodPost, "/api/v1/admin/services", `{"name":"Brows","category":"beauty","durationMinutes":30,"price":120}`, owner)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created catalog.ServiceItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doRequest(server, http.MethodGet, "/api/v1/services?category=beauty", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listed struct {
		Items []catalog.ServiceItem `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed.Items, 1)
	require.Equal(t, created.ID, listed.Items[0].ID)

	rec = doRequest(server, http.MethodPut, "/api/v1/admin/services/order", `{"ids":["`+created.ID+`"]}`, owner)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(server, http.MethodDelete, "/api/v1/admin/services/"+created.ID, "", owner)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(server, http.MethodGet, "/api/v1/admin/appointments", "", owner)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_MyAppointments(t *testing.T) {
	server := newRouterUnderTest(t, testConfig())
	token := registerAndLogin(t, server, "anna@test.com")

	rec := doRequest(server, http.MethodPost, "/api/v1/wizard", `{"serviceType":"beauty","name":"Anna"}`, token)
	session := decodeSession(t, rec)
	require.Equal(t, "anna@test.com", session.Request.Email)
	base := "/api/v1/wizard/" + session.ID
	doRequest(server, http.MethodPost, base+"/advance", "", "")
	rec = doRequest(server, http.MethodPost, base+"/date", `{"date":"2099-01-06"}`, "")
	session = decodeSession(t, rec)
	doRequest(server, http.MethodPost, base+"/slot", `{"slotId":"`+session.Slots[0].ID+`"}`, "")
	doRequest(server, http.MethodPost, base+"/advance", "", "")
	doRequest(server, http.MethodPost, base+"/advance", "", "")
	rec = doRequest(server, http.MethodPost, base+"/submit", "", "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(server, http.MethodGet, "/api/v1/appointments/mine", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	var mine struct {
		Items []booking.Appointment `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &mine))
	require.Len(t, mine.Items, 1)

	rec = doRequest(server, http.MethodGet, "/api/v1/appointments/mine", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_GalleryUpload(t *testing.T) {
	server := newRouterUnderTest(t, testConfig())
	owner := registerAndLogin(t, server, "owner@studio.pl")

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.WriteField("title", "Studio"))
	part, err := writer.CreateFormFile("file", "studio.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG\r\n\x1a\n0000000000000000"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/gallery", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+owner)
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var item catalog.GalleryItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	require.Equal(t, "Studio", item.Title)
	require.Contains(t, item.URL, "https://cdn.example.com/gallery/")

	rec = doRequest(server, http.MethodGet, "/api/v1/gallery", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), item.ID)

	rec = doRequest(server, http.MethodDelete, "/api/v1/admin/gallery/"+item.ID, "", owner)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRouter_RateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.HTTP.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1, Burst: 1}
	server := newRouterUnderTest(t, cfg)

	require.Equal(t, http.StatusOK, doRequest(server, http.MethodGet, "/api/v1/healthz", "", "").Code)
	rec := doRequest(server, http.MethodGet, "/api/v1/healthz", "", "")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "rate_limit_exceeded", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])
}

func TestRouter_CORSPreflight(t *testing.T) {
	cfg := testConfig()
	cfg.HTTP.AllowOrigins = []string{"https://studio.example.com"}
	server := newRouterUnderTest(t, cfg)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/wizard", nil)
	req.Header.Set("Origin", "https://studio.example.com")
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "https://studio.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_Metrics(t *testing.T) {
	server := newRouterUnderTest(t, testConfig())
	doRequest(server, http.MethodGet, "/api/v1/slots?date=2099-01-05", "", "")

	rec := doRequest(server, http.MethodGet, "/api/v1/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "studio_scheduling_slots_generated_total")
}

func testConfig() *config.Config {
	return &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
	}
}

func newRouterUnderTest(t *testing.T, cfg *config.Config) *http.Server {
	t.Helper()
	logger := newTestLogger()
	registry := prometheus.NewRegistry()
	m := metrics.NewBookingMetrics(registry)

	authSvc := auth.NewService(auth.Config{
		Secret:          "test-secret",
		TokenTTL:        time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
		AdminEmails:     []string{"owner@studio.pl"},
	}, userrepo.NewMemoryRepository(), logger)
	catalogSvc := catalog.NewService(catalog.Config{MaxImageBytes: 1 << 20}, records.NewMemoryStore(), storage.NewMemoryStorage("https://cdn.example.com"), logger)

	schedCfg := scheduling.DefaultConfig()
	slotSvc := scheduling.NewService(schedCfg, scheduling.NewGenerator(schedCfg, openDay{}), catalogSvc, m, logger)
	bookingSvc := booking.NewService(booking.Config{}, bookingrepo.NewMemoryRepository(), nil, m, logger)
	wizardSvc := wizard.NewService(wizard.Config{}, sessionstore.NewMemoryStore(), slotSvc, bookingSvc, m, logger)

	handler := NewHandler(authSvc, slotSvc, wizardSvc, bookingSvc, catalogSvc, logger)
	return NewRouter(cfg, handler, registry)
}

func registerAndLogin(t *testing.T, server *http.Server, email string) string {
	t.Helper()
	rec := doRequest(server, http.MethodPost, "/api/v1/auth/register", `{"email":"`+email+`","password":"pass1234","name":"Test User"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = doRequest(server, http.MethodPost, "/api/v1/auth/login", `{"email":"`+email+`","password":"pass1234"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp auth.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	rec = doRequest(server, http.MethodGet, "/api/v1/auth/me", "", resp.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	return resp.Token
}

func doRequest(server *http.Server, method, path, body, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequestWithContext(context.Background(), method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeSession(t *testing.T, rec *httptest.ResponseRecorder) wizard.Session {
	t.Helper()
	var session wizard.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session), rec.Body.String())
	return session
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}
