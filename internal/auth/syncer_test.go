package auth

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agencia-digital/agencia/internal/config"
	apperrors "github.com/agencia-digital/agencia/internal/errors"
	"github.com/agencia-digital/agencia/internal/models"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type countingProvider struct {
	inner   Provider
	calls   atomic.Int32
	release chan struct{}
	err     error
}

func (p *countingProvider) Lookup(ctx context.Context, userID string) (Identity, error) {
	p.calls.Add(1)
	if p.release != nil {
		<-p.release
	}
	if err := ctx.Err(); err != nil {
		return Identity{}, err
	}
	if p.err != nil {
		return Identity{}, p.err
	}
	return p.inner.Lookup(ctx, userID)
}

type memoryStore struct {
	mu    sync.Mutex
	users map[string]models.User
	err   error
}

func (s *memoryStore) UpsertUser(_ context.Context, user models.User) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.users == nil {
		s.users = make(map[string]models.User)
	}
	s.users[user.ID] = user
	return nil
}

func newFixture() (*countingProvider, *memoryStore, *fakeClock) {
	provider := &countingProvider{inner: NewConfigProvider([]config.UserEntry{
		{ID: "ana", Email: "ana@agencia.co", Role: "admin"},
		{ID: "luis", Email: "luis@agencia.co", Role: "Colaborador"},
		{ID: "eve", Email: "eve@agencia.co", Role: "superuser"},
	})}
	return provider, &memoryStore{}, &fakeClock{now: time.Date(2026, 4, 14, 9, 0, 0, 0, time.UTC)}
}

func TestResolveSyncsAndCaches(t *testing.T) {
	provider, store, clock := newFixture()
	s := NewSyncer(provider, store, 5*time.Minute, clock)
	ctx := context.Background()

	user, err := s.Resolve(ctx, "luis")
	require.NoError(t, err)
	assert.Equal(t, models.RoleCollaborator, user.Role)
	assert.Equal(t, "luis@agencia.co", store.users["luis"].Email)
	assert.Equal(t, clock.Now(), store.users["luis"].SyncedAt)

	_, err = s.Resolve(ctx, "luis")
	require.NoError(t, err)
	assert.Equal(t, int32(1), provider.calls.Load())

	clock.Advance(5 * time.Minute)
	_, err = s.Resolve(ctx, "luis")
	require.NoError(t, err)
	assert.Equal(t, int32(2), provider.calls.Load())
}

func TestResolveRejectsUnknownUsersAndRoles(t *testing.T) {
	provider, store, clock := newFixture()
	s := NewSyncer(provider, store, time.Minute, clock)

	tests := []struct {
		name string
		id   string
	}{
		{"empty id", ""},
		{"unknown user", "mallory"},
		{"unknown role", "eve"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Resolve(context.Background(), tt.id)
			assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypePermission))
		})
	}
	assert.Empty(t, store.users)
	assert.Zero(t, s.Len())
}

func TestProviderFailuresAreNotCached(t *testing.T) {
	provider, store, clock := newFixture()
	provider.err = errors.New("provider down")
	s := NewSyncer(provider, store, time.Minute, clock)

	_, err := s.Resolve(context.Background(), "ana")
	require.Error(t, err)
	assert.Zero(t, s.Len())

	provider.err = nil
	user, err := s.Resolve(context.Background(), "ana")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.Equal(t, int32(2), provider.calls.Load())
}

func TestStoreFailurePropagates(t *testing.T) {
	provider, store, clock := newFixture()
	store.err = apperrors.NewDatabaseError("upsert user", errors.New("disk full"))
	s := NewSyncer(provider, store, time.Minute, clock)

	_, err := s.Resolve(context.Background(), "ana")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeDatabase))
	assert.Zero(t, s.Len())
}

func TestConcurrentResolvesShareOneLookup(t *testing.T) {
	provider, store, clock := newFixture()
	provider.release = make(chan struct{})
	s := NewSyncer(provider, store, time.Minute, clock)

	const callers = 8
	var wg sync.WaitGroup
	results := make([]models.User, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = s.Resolve(context.Background(), "ana")
		}(i)
	}

	require.Eventually(t, func() bool { return provider.calls.Load() == 1 }, time.Second, time.Millisecond)
	// give the remaining callers time to join the in-flight lookup
	time.Sleep(20 * time.Millisecond)
	close(provider.release)
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "ana", results[i].ID)
	}
	assert.Equal(t, int32(1), provider.calls.Load())
}

func TestInvalidateAndPurge(t *testing.T) {
	provider, store, clock := newFixture()
	s := NewSyncer(provider, store, time.Minute, clock)
	ctx := context.Background()

	_, err := s.Resolve(ctx, "ana")
	require.NoError(t, err)
	_, err = s.Resolve(ctx, "luis")
	require.NoError(t, err)

	s.Invalidate("ana")
	assert.Equal(t, 1, s.Len())

	assert.Zero(t, s.Purge())
	clock.Advance(time.Minute)
	assert.Equal(t, 1, s.Purge())
	assert.Zero(t, s.Len())
}

func TestRoleChangeVisibleAfterInvalidate(t *testing.T) {
	_, store, clock := newFixture()
	provider := NewConfigProvider([]config.UserEntry{{ID: "luis", Role: "colaborador"}})
	s := NewSyncer(provider, store, time.Hour, clock)
	ctx := context.Background()

	user, err := s.Resolve(ctx, "luis")
	require.NoError(t, err)
	assert.Equal(t, models.RoleCollaborator, user.Role)

	provider.Set(Identity{ID: "luis", Role: "admin"})
	user, err = s.Resolve(ctx, "luis")
	require.NoError(t, err)
	assert.Equal(t, models.RoleCollaborator, user.Role, "cached until invalidated")

	s.Invalidate("luis")
	user, err = s.Resolve(ctx, "luis")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.Equal(t, models.RoleAdmin, store.users["luis"].Role)
}

func TestCancelledCallerDoesNotFailOthers(t *testing.T) {
	provider, store, clock := newFixture()
	provider.release = make(chan struct{})
	s := NewSyncer(provider, store, time.Minute, clock)

	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := s.Resolve(first, "ana")
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return provider.calls.Load() == 1 }, time.Second, time.Millisecond)

	type result struct {
		user models.User
		err  error
	}
	second := make(chan result, 1)
	go func() {
		user, err := s.Resolve(context.Background(), "ana")
		second <- result{user, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(provider.release)
	res := <-second
	require.NoError(t, res.err)
	assert.Equal(t, "ana", res.user.ID)
	assert.Equal(t, int32(1), provider.calls.Load())
	assert.Equal(t, 1, s.Len())
}

func TestInvalidateDuringLookupSkipsCaching(t *testing.T) {
	provider, store, clock := newFixture()
	provider.release = make(chan struct{})
	s := NewSyncer(provider, store, time.Hour, clock)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := s.Resolve(ctx, "luis")
		done <- err
	}()
	require.Eventually(t, func() bool { return provider.calls.Load() == 1 }, time.Second, time.Millisecond)

	s.Invalidate("luis")
	close(provider.release)
	require.NoError(t, <-done)
	assert.Zero(t, s.Len())

	_, err := s.Resolve(ctx, "luis")
	require.NoError(t, err)
	assert.Equal(t, int32(2), provider.calls.Load())
	assert.Equal(t, 1, s.Len())
}
