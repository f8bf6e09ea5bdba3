package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeEndpoint(t *testing.T) {
	require.Equal(t, "abc.supabase.co", sanitizeEndpoint("https://abc.supabase.co/storage/v1/s3"))
	require.Equal(t, "localhost:9000", sanitizeEndpoint("http://localhost:9000"))
	require.Equal(t, "", sanitizeEndpoint("  "))
}

func TestPublicURLEscapesSegments(t *testing.T) {
	require.Equal(t, "https://cdn.example.com/gallery/my%20photo.png", publicURL("https://cdn.example.com", "gallery/my photo.png"))
}

func TestNewS3StorageDefaultsPublicURL(t *testing.T) {
	s, err := NewS3Storage(S3Options{Endpoint: "http://localhost:9000", Bucket: "media", AccessKey: "k", SecretKey: "s"}, nil)
	require.NoError(t, err)
	require.Equal(t, "http://localhost:9000/media", s.publicBaseURL)

	_, err = NewS3Storage(S3Options{Endpoint: "localhost:9000"}, nil)
	require.Error(t, err)
}

func TestMemoryStorageUploadDelete(t *testing.T) {
	s := NewMemoryStorage("http://localhost:8080/media/")
	file, err := s.Upload(context.Background(), "gallery/a.png", []byte("png"), "image/png")
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080/media/gallery/a.png", file.URL)
	require.Equal(t, int64(3), file.Size)
	require.True(t, s.Has("gallery/a.png"))

	require.NoError(t, s.Delete(context.Background(), "gallery/a.png"))
	require.False(t, s.Has("gallery/a.png"))
}
