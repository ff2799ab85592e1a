// Package list holds the shared list state every card reads: the current
// view parameters and the last fetched summaries.
package list

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todocard-go/internal/todo"
)

// ErrStale is returned by Refresh when the view changed while the fetch was
// in flight. The result is dropped and a newer refresh is expected.
var ErrStale = errors.New("stale list refresh")

// Source fetches the summaries for a view.
type Source interface {
	ListItems(ctx context.Context, params todo.Params) ([]todo.Summary, error)
}

// Store is safe for concurrent use. Refresh runs inside UI commands on
// goroutines other than the one rendering.
type Store struct {
	source Source
	logger *log.Logger

	mu     sync.RWMutex
	params todo.Params
	items  []todo.Summary
}

// NewStore creates a store for the given initial view.
func NewStore(source Source, params todo.Params, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{
		source: source,
		logger: logger,
		params: params,
	}
}

// Params returns the current view parameters.
func (s *Store) Params() todo.Params {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params
}

// SetDeleted switches between the active and deleted views. The held items
// are cleared because they belong to the previous view.
func (s *Store) SetDeleted(deleted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.params.IsDeleted == deleted {
		return
	}
	s.params.IsDeleted = deleted
	s.items = nil
}

// Refresh refetches the summaries for the current view. A result that
// arrives after the view changed is dropped with ErrStale.
func (s *Store) Refresh(ctx context.Context) error {
	params := s.Params()
	items, err := s.source.ListItems(ctx, params)
	if err != nil {
		return fmt.Errorf("refresh list: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.params != params {
		s.logger.Debug("dropping stale refresh", "deleted", params.IsDeleted)
		return ErrStale
	}
	s.items = items
	s.logger.Debug("list refreshed", "deleted", params.IsDeleted, "count", len(items))
	return nil
}

// Items returns a copy of the held summaries.
func (s *Store) Items() []todo.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]todo.Summary, len(s.items))
	copy(out, s.items)
	return out
}

// Remove drops id from the held summaries.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, item := range s.items {
		if item.ID == id {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			return
		}
	}
}
