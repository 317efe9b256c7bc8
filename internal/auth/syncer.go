package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	apperrors "github.com/agencia-digital/agencia/internal/errors"
	"github.com/agencia-digital/agencia/internal/models"
	"github.com/agencia-digital/agencia/internal/timetrack"
)

// UserStore persists synced users
type UserStore interface {
	UpsertUser(ctx context.Context, user models.User) error
}

type cacheEntry struct {
	user    models.User
	expires time.Time
}

// Syncer resolves a user id to a stored user, keeping the users table in
// step with the provider's role metadata. Results are cached for ttl and
// concurrent lookups of one id share a single provider call.
type Syncer struct {
	provider Provider
	store    UserStore
	ttl      time.Duration
	clock    timetrack.Clock

	mu    sync.Mutex
	cache map[string]cacheEntry
	// bumped by Invalidate so a lookup already in flight is not cached
	generation map[string]uint64
	group      singleflight.Group
}

// NewSyncer creates a Syncer. A nil clock uses the system clock.
func NewSyncer(provider Provider, store UserStore, ttl time.Duration, clock timetrack.Clock) *Syncer {
	if clock == nil {
		clock = timetrack.SystemClock{}
	}
	return &Syncer{
		provider: provider,
		store:    store,
		ttl:      ttl,
		clock:    clock,
		cache:      make(map[string]cacheEntry),
		generation: make(map[string]uint64),
	}
}

// Resolve returns the synced user for userID
func (s *Syncer) Resolve(ctx context.Context, userID string) (models.User, error) {
	if userID == "" {
		return models.User{}, apperrors.NewPermissionError("authenticate", "session")
	}
	if user, ok := s.cached(userID); ok {
		return user, nil
	}

	// the shared lookup outlives any single caller's cancellation
	ch := s.group.DoChan(userID, func() (interface{}, error) {
		return s.sync(context.WithoutCancel(ctx), userID)
	})
	select {
	case <-ctx.Done():
		return models.User{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return models.User{}, res.Err
		}
		if res.Shared {
			slog.Debug("role lookup coalesced", "user_id", userID)
		}
		return res.Val.(models.User), nil
	}
}

func (s *Syncer) cached(userID string) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.cache[userID]
	if !ok || !s.clock.Now().Before(entry.expires) {
		return models.User{}, false
	}
	return entry.user, true
}

func (s *Syncer) sync(ctx context.Context, userID string) (models.User, error) {
	s.mu.Lock()
	gen := s.generation[userID]
	s.mu.Unlock()

	ident, err := s.provider.Lookup(ctx, userID)
	if errors.Is(err, ErrUnknownUser) {
		return models.User{}, apperrors.NewPermissionError("authenticate", "user "+userID)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("lookup user %s: %w", userID, err)
	}

	role, ok := NormalizeRole(ident.Role)
	if !ok {
		return models.User{}, apperrors.NewPermissionError("authenticate", "role "+ident.Role)
	}

	now := s.clock.Now()
	user := models.User{ID: userID, Email: ident.Email, Role: role, SyncedAt: now}
	if err := s.store.UpsertUser(ctx, user); err != nil {
		return models.User{}, err
	}

	s.mu.Lock()
	if s.generation[userID] == gen {
		s.cache[userID] = cacheEntry{user: user, expires: now.Add(s.ttl)}
	}
	s.mu.Unlock()

	slog.Debug("role synced", "user_id", userID, "role", role)
	return user, nil
}

// Invalidate drops the cached user so the next Resolve hits the provider.
// A lookup in flight still answers its callers but is not cached.
func (s *Syncer) Invalidate(userID string) {
	s.mu.Lock()
	delete(s.cache, userID)
	s.generation[userID]++
	s.mu.Unlock()
	s.group.Forget(userID)
}

// Purge removes expired entries and reports how many were dropped
func (s *Syncer) Purge() int {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	purged := 0
	for id, entry := range s.cache {
		if !now.Before(entry.expires) {
			delete(s.cache, id)
			purged++
		}
	}
	return purged
}

// Len is the number of cached users, expired ones included
func (s *Syncer) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cache)
}
