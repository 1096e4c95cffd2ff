// Package registry keeps the session's single in-memory view of all ratings,
// consistent with the durable store via write-through: every mutation writes
// the store first and only touches the local map once that write succeeds, so
// the map is never ahead of the store.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/kinolog/kinolog/internal/domain"
	"github.com/kinolog/kinolog/internal/repository"
)

// Store is the durable backend the registry writes through to. It is
// satisfied by repository.RatingsRepository.
type Store interface {
	Save(ctx context.Context, movie domain.Movie, values domain.RatingValues) (domain.WatchedEntry, bool, error)
	ListWithMovies(ctx context.Context) ([]domain.WatchedEntry, error)
	Delete(ctx context.Context, movieID int) (bool, error)
}

// Registry is safe for concurrent use. The mutex guards only the map; it is
// never held across a store round-trip.
type Registry struct {
	store Store

	mu      sync.RWMutex
	entries map[int]domain.WatchedEntry
}

// New constructs an empty registry over the given store.
func New(store Store) *Registry {
	return &Registry{
		store:   store,
		entries: make(map[int]domain.WatchedEntry),
	}
}

// Load populates the registry from the store. On failure the registry stays
// empty and usable; the error is returned for the caller to surface.
func (r *Registry) Load(ctx context.Context) error {
	entries, err := r.store.ListWithMovies(ctx)
	if err != nil {
		return fmt.Errorf("load ratings: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[int]domain.WatchedEntry, len(entries))
	for _, entry := range entries {
		r.entries[entry.MovieID] = entry
	}
	return nil
}

// Save writes the rating through to the store, then updates the local view.
// A failed write leaves the local view unchanged and propagates the error;
// there is no optimistic update.
func (r *Registry) Save(ctx context.Context, movie domain.Movie, values domain.RatingValues) (domain.WatchedEntry, error) {
	entry, _, err := r.store.Save(ctx, movie, values)
	if err != nil {
		return domain.WatchedEntry{}, err
	}

	r.mu.Lock()
	r.entries[entry.MovieID] = entry
	r.mu.Unlock()
	return entry, nil
}

// Get is a pure local lookup; it never touches the store.
func (r *Registry) Get(movieID int) (domain.WatchedEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[movieID]
	return entry, ok
}

// Delete removes the rating from the store first, then locally. A not-found
// from the store still clears the local entry, so deleting twice is a no-op.
// Any other store error leaves the local view unchanged.
func (r *Registry) Delete(ctx context.Context, movieID int) error {
	_, err := r.store.Delete(ctx, movieID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	r.mu.Lock()
	delete(r.entries, movieID)
	r.mu.Unlock()
	return nil
}

// All returns a snapshot of every entry, newest-created first.
func (r *Registry) All() []domain.WatchedEntry {
	r.mu.RLock()
	entries := make([]domain.WatchedEntry, 0, len(r.entries))
	for _, entry := range r.entries {
		entries = append(entries, entry)
	}
	r.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.After(entries[j].CreatedAt)
		}
		return entries[i].MovieID > entries[j].MovieID
	})
	return entries
}
