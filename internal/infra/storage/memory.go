package storage

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"github.com/mariiahub/booking-api/internal/domain/baas"
)

// MemoryStorage keeps blobs in memory. Useful for tests and local dev.
type MemoryStorage struct {
	mu      sync.RWMutex
	baseURL string
	blobs   map[string]storedBlob
}

type storedBlob struct {
	data     []byte
	mimeType string
}

// NewMemoryStorage constructs storage whose public URLs start with baseURL.
func NewMemoryStorage(baseURL string) *MemoryStorage {
	if baseURL == "" {
		baseURL = "memory://bucket"
	}
	return &MemoryStorage{baseURL: strings.TrimRight(baseURL, "/"), blobs: make(map[string]storedBlob)}
}

// Upload stores the blob and returns its public URL.
func (s *MemoryStorage) Upload(_ context.Context, key string, data []byte, mimeType string) (baas.StoredFile, error) {
	if strings.TrimSpace(key) == "" {
		return baas.StoredFile{}, fmt.Errorf("object key cannot be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([]byte, len(data))
	copy(copied, data)
	s.blobs[key] = storedBlob{data: copied, mimeType: mimeType}
	hash := md5.Sum(data)
	return baas.StoredFile{
		Key:      key,
		URL:      s.baseURL + "/" + key,
		Size:     int64(len(data)),
		MimeType: mimeType,
		ETag:     hex.EncodeToString(hash[:]),
	}, nil
}

// Delete removes the blob.
func (s *MemoryStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}

// Has reports whether key is stored.
func (s *MemoryStorage) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.blobs[key]
	return ok
}

var _ baas.FileStorage = (*MemoryStorage)(nil)
