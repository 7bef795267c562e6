package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"broker/internal/evidence/models"
)

// InMemoryStore keeps accreditations in process memory. Records are held in
// serialized form so callers never share state with the store.
type InMemoryStore struct {
	mu    sync.RWMutex
	items map[string][]byte
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{items: make(map[string][]byte)}
}

func (s *InMemoryStore) Create(_ context.Context, acc *models.Accreditation) error {
	raw, err := json.Marshal(acc)
	if err != nil {
		return fmt.Errorf("encode accreditation: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[acc.ID]; exists {
		return ErrConflict
	}
	s.items[acc.ID] = raw
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, id string) (*models.Accreditation, error) {
	s.mu.RLock()
	raw, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return decode(raw)
}

// Execute applies mutate to the stored record atomically. Nothing is written when mutate fails.
func (s *InMemoryStore) Execute(_ context.Context, id string, mutate func(*models.Accreditation) error) (*models.Accreditation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	acc, err := decode(raw)
	if err != nil {
		return nil, err
	}
	if err := mutate(acc); err != nil {
		return nil, err
	}
	updated, err := json.Marshal(acc)
	if err != nil {
		return nil, fmt.Errorf("encode accreditation: %w", err)
	}
	s.items[id] = updated
	return acc, nil
}

func (s *InMemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *InMemoryStore) Query(_ context.Context, q Query) ([]*models.Accreditation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Accreditation
	for _, raw := range s.items {
		acc, err := decode(raw)
		if err != nil {
			return nil, err
		}
		if q.Matches(acc) {
			out = append(out, acc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastChanged.Before(out[j].LastChanged) })
	return out, nil
}

func decode(raw []byte) (*models.Accreditation, error) {
	var acc models.Accreditation
	if err := json.Unmarshal(raw, &acc); err != nil {
		return nil, fmt.Errorf("decode accreditation: %w", err)
	}
	return &acc, nil
}
