// Package store provides the in-memory lifecycle stores that are
// authoritative for claim, policy and loan records. Stores prepend new
// records so insertion order doubles as display order.
package store

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrDuplicateID = errors.New("duplicate id")
	ErrNotFound    = errors.New("record not found")
)

// Store holds an ordered collection of records keyed by a caller-supplied
// identity function. All methods are safe for concurrent use.
type Store[T any] struct {
	mu      sync.RWMutex
	records []T
	ids     map[string]struct{}
	idOf    func(T) string
}

func New[T any](idOf func(T) string) *Store[T] {
	return &Store[T]{
		ids:  make(map[string]struct{}),
		idOf: idOf,
	}
}

// Insert prepends a record. A duplicate id fails with ErrDuplicateID and
// leaves the store unchanged.
func (s *Store[T]) Insert(rec T) error {
	id := s.idOf(rec)
	if id == "" {
		return fmt.Errorf("insert: record has empty id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ids[id]; ok {
		return fmt.Errorf("insert %s: %w", id, ErrDuplicateID)
	}

	s.records = append([]T{rec}, s.records...)
	s.ids[id] = struct{}{}
	return nil
}

// Update applies a mutation to the record with the given id, preserving its
// position. The mutation runs under the store lock; if it returns an error
// the record is left untouched. Returns the updated record.
func (s *Store[T]) Update(id string, apply func(*T) error) (T, error) {
	var zero T

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.indexOf(id)
	if !ok {
		return zero, fmt.Errorf("update %s: %w", id, ErrNotFound)
	}

	rec := s.records[i]
	if err := apply(&rec); err != nil {
		return zero, err
	}
	s.records[i] = rec
	return rec, nil
}

// Get returns the record with the given id.
func (s *Store[T]) Get(id string) (T, error) {
	var zero T

	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.indexOf(id)
	if !ok {
		return zero, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	return s.records[i], nil
}

// List returns a snapshot of the full ordered collection, newest first.
// Filtering is a presentation concern and happens in the handlers.
func (s *Store[T]) List() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, len(s.records))
	copy(out, s.records)
	return out
}

// Delete removes the record with the given id. Only the carbon record
// service exposes this; claim, policy and loan stores keep a full audit
// trail.
func (s *Store[T]) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.indexOf(id)
	if !ok {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}

	s.records = append(s.records[:i], s.records[i+1:]...)
	delete(s.ids, id)
	return nil
}

func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// indexOf must be called with the lock held.
func (s *Store[T]) indexOf(id string) (int, bool) {
	if _, ok := s.ids[id]; !ok {
		return 0, false
	}
	for i := range s.records {
		if s.idOf(s.records[i]) == id {
			return i, true
		}
	}
	return 0, false
}
