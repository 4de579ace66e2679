package fields

import (
	"fmt"
	"sync"

	"github.com/peterkacmarik/dockify/internal/model"
	"github.com/peterkacmarik/dockify/internal/store"
)

// Service keeps the intake field registry in memory in front of the
// sqlite store. Mutations are applied optimistically: the cache changes
// first so callers see the new state immediately, and is rolled back to
// the previous snapshot when the store write fails.
type Service struct {
	store *store.Store

	mu    sync.RWMutex
	cache []model.IntakeField
}

func NewService(st *store.Store) (*Service, error) {
	s := &Service{store: st}
	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Service) reload() error {
	fields, err := s.store.ListFields()
	if err != nil {
		return fmt.Errorf("failed to load field registry: %w", err)
	}
	s.mu.Lock()
	s.cache = fields
	s.mu.Unlock()
	return nil
}

// List returns a copy of the registry in creation order.
func (s *Service) List() []model.IntakeField {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneFields(s.cache)
}

// ActiveKeys returns the keys of active fields, in registry order.
func (s *Service) ActiveKeys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	for _, f := range s.cache {
		if f.IsActive {
			keys = append(keys, f.Key)
		}
	}
	return keys
}

// ActiveCount reports how many fields are currently active.
func (s *Service) ActiveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, f := range s.cache {
		if f.IsActive {
			n++
		}
	}
	return n
}

// Add inserts a new user-defined field and refreshes the cache. Inserts
// are not optimistic: the stored row carries the generated id and
// timestamp, so the cache is reloaded after the write.
func (s *Service) Add(label, key string, isRequired bool) (model.IntakeField, error) {
	field, err := s.store.InsertField(label, key, isRequired)
	if err != nil {
		return model.IntakeField{}, err
	}
	if err := s.reload(); err != nil {
		return model.IntakeField{}, err
	}
	return field, nil
}

// SetActive toggles a field, rolling the cache back if the write fails.
func (s *Service) SetActive(id string, isActive bool) error {
	return s.applyOptimistic(
		func(cache []model.IntakeField) []model.IntakeField {
			for i := range cache {
				if cache[i].ID == id {
					cache[i].IsActive = isActive
				}
			}
			return cache
		},
		func() error { return s.store.SetFieldActive(id, isActive) },
	)
}

// Delete removes a field, rolling the cache back if the write fails.
func (s *Service) Delete(id string) error {
	return s.applyOptimistic(
		func(cache []model.IntakeField) []model.IntakeField {
			kept := cache[:0]
			for _, f := range cache {
				if f.ID != id {
					kept = append(kept, f)
				}
			}
			return kept
		},
		func() error { return s.store.DeleteField(id) },
	)
}

// applyOptimistic swaps in the mutated cache, runs the store write, and
// restores the previous snapshot when the write fails.
func (s *Service) applyOptimistic(mutate func([]model.IntakeField) []model.IntakeField, commit func() error) error {
	s.mu.Lock()
	snapshot := s.cache
	s.cache = mutate(cloneFields(snapshot))
	s.mu.Unlock()

	if err := commit(); err != nil {
		s.mu.Lock()
		s.cache = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func cloneFields(fields []model.IntakeField) []model.IntakeField {
	out := make([]model.IntakeField, len(fields))
	copy(out, fields)
	return out
}
