// Package memstore is a thread-safe in-memory fsm.Storage implementation.
// It keeps no state across process restarts and exists for tests and local
// development; production deployments should reach for a durable backend
// such as fsm/sqlitestore instead.
package memstore

import (
	"context"
	"sync"

	"github.com/basket/tgdispatch/fsm"
)

type record struct {
	state string
	data  map[string]any
}

// Store implements fsm.Storage with a mutex-guarded map keyed by
// fsm.StorageKey. All methods are safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	records map[fsm.StorageKey]record
}

// New returns an empty Store.
func New() *Store {
	return &Store{records: make(map[fsm.StorageKey]record)}
}

// SetState implements fsm.Storage.
func (s *Store) SetState(_ context.Context, key fsm.StorageKey, state string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.records[key]
	r.state = state
	s.records[key] = r
	return nil
}

// GetState implements fsm.Storage.
func (s *Store) GetState(_ context.Context, key fsm.StorageKey) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[key]
	if !ok || r.state == "" {
		return "", false, nil
	}
	return r.state, true, nil
}

// RemoveState implements fsm.Storage.
func (s *Store) RemoveState(_ context.Context, key fsm.StorageKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[key]
	if !ok {
		return nil
	}
	r.state = ""
	s.records[key] = r
	return nil
}

// SetData implements fsm.Storage, replacing the whole data map for key.
func (s *Store) SetData(_ context.Context, key fsm.StorageKey, data map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.records[key]
	cp := make(map[string]any, len(data))
	for k, v := range data {
		cp[k] = v
	}
	r.data = cp
	s.records[key] = r
	return nil
}

// GetData implements fsm.Storage.
func (s *Store) GetData(_ context.Context, key fsm.StorageKey) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[key]
	if !ok || len(r.data) == 0 {
		return map[string]any{}, nil
	}
	cp := make(map[string]any, len(r.data))
	for k, v := range r.data {
		cp[k] = v
	}
	return cp, nil
}

// RemoveData implements fsm.Storage.
func (s *Store) RemoveData(ctx context.Context, key fsm.StorageKey) error {
	return s.SetData(ctx, key, map[string]any{})
}

// SetValue implements fsm.Storage.
func (s *Store) SetValue(_ context.Context, key fsm.StorageKey, name string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.records[key]
	if r.data == nil {
		r.data = make(map[string]any)
	}
	r.data[name] = value
	s.records[key] = r
	return nil
}

// GetValue implements fsm.Storage.
func (s *Store) GetValue(_ context.Context, key fsm.StorageKey, name string) (any, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[key]
	if !ok {
		return nil, false, nil
	}
	v, ok := r.data[name]
	return v, ok, nil
}

// RemoveValue implements fsm.Storage.
func (s *Store) RemoveValue(_ context.Context, key fsm.StorageKey, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[key]
	if !ok {
		return nil
	}
	delete(r.data, name)
	s.records[key] = r
	return nil
}

var _ fsm.Storage = (*Store)(nil)
