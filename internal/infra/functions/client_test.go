package functions

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInvokePostsJSON(t *testing.T) {
	var (
		gotPath string
		gotAuth string
		gotBody map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sent":true}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/", "anon-key", 0)
	var out struct {
		Sent bool `json:"sent"`
	}
	err := client.Invoke(context.Background(), "send-booking-confirmation", map[string]any{"email": "anna@test.com"}, &out)
	require.NoError(t, err)
	require.True(t, out.Sent)
	require.Equal(t, "/functions/v1/send-booking-confirmation", gotPath)
	require.Equal(t, "Bearer anon-key", gotAuth)
	require.Equal(t, "anna@test.com", gotBody["email"])
}

func TestInvokeReportsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "mailer offline", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", 0)
	err := client.Invoke(context.Background(), "send-booking-confirmation", map[string]any{}, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "status=502")
	require.Contains(t, err.Error(), "mailer offline")

	require.Error(t, client.Invoke(context.Background(), " ", nil, nil))
}
