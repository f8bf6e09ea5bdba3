package sessionstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mariiahub/booking-api/internal/domain/wizard"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	session := wizard.Session{ID: "s1", Controller: wizard.NewController()}
	session.Request.Name = "Anna"

	require.NoError(t, store.Save(context.Background(), session, time.Minute))
	got, found, err := store.Load(context.Background(), "s1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "Anna", got.Request.Name)

	require.NoError(t, store.Delete(context.Background(), "s1"))
	_, found, err = store.Load(context.Background(), "s1")
	require.NoError(t, err)
	require.False(t, found)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2099, 1, 5, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(context.Background(), wizard.Session{ID: "s1"}, 30*time.Minute))
	_, found, _ := store.Load(context.Background(), "s1")
	require.True(t, found)

	now = now.Add(31 * time.Minute)
	_, found, _ = store.Load(context.Background(), "s1")
	require.False(t, found)
}
