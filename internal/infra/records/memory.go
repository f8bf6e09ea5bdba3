package records

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mariiahub/booking-api/internal/domain/baas"
)

// MemoryStore keeps table records in memory. Useful for tests and local dev.
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string]map[string]baas.Record
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: make(map[string]map[string]baas.Record)}
}

func (s *MemoryStore) Insert(_ context.Context, table, id string, data json.RawMessage) (baas.Record, error) {
	if err := baas.CheckTable(table); err != nil {
		return baas.Record{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.tables[table]
	if rows == nil {
		rows = make(map[string]baas.Record)
		s.tables[table] = rows
	}
	if _, exists := rows[id]; exists {
		return baas.Record{}, fmt.Errorf("record %s/%s already exists", table, id)
	}
	now := time.Now().UTC()
	rec := baas.Record{ID: id, Data: cloneRaw(data), CreatedAt: now, UpdatedAt: now}
	rows[id] = rec
	return rec, nil
}

func (s *MemoryStore) Get(_ context.Context, table, id string) (baas.Record, bool, error) {
	if err := baas.CheckTable(table); err != nil {
		return baas.Record{}, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.tables[table][id]
	if !ok {
		return baas.Record{}, false, nil
	}
	rec.Data = cloneRaw(rec.Data)
	return rec, true, nil
}

func (s *MemoryStore) List(_ context.Context, table string) ([]baas.Record, error) {
	if err := baas.CheckTable(table); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]baas.Record, 0, len(s.tables[table]))
	for _, rec := range s.tables[table] {
		rec.Data = cloneRaw(rec.Data)
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) Update(_ context.Context, table, id string, data json.RawMessage) (baas.Record, error) {
	if err := baas.CheckTable(table); err != nil {
		return baas.Record{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.tables[table][id]
	if !ok {
		return baas.Record{}, baas.ErrRecordNotFound
	}
	rec.Data = cloneRaw(data)
	rec.UpdatedAt = time.Now().UTC()
	s.tables[table][id] = rec
	return rec, nil
}

func (s *MemoryStore) Delete(_ context.Context, table, id string) error {
	if err := baas.CheckTable(table); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tables[table][id]; !ok {
		return baas.ErrRecordNotFound
	}
	delete(s.tables[table], id)
	return nil
}

func cloneRaw(data json.RawMessage) json.RawMessage {
	if data == nil {
		return nil
	}
	out := make(json.RawMessage, len(data))
	copy(out, data)
	return out
}

var _ baas.RecordStore = (*MemoryStore)(nil)
