package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bsouch96/CustomerAccountDeletionRequest/internal/cache"
	"github.com/Bsouch96/CustomerAccountDeletionRequest/internal/models"
	"github.com/Bsouch96/CustomerAccountDeletionRequest/internal/repositories"
	"github.com/Bsouch96/CustomerAccountDeletionRequest/internal/seeding"
)

// flakyRepo fails a configured number of GetAllAwaitingDecision calls before
// delegating, to exercise the refresh retry path.
type flakyRepo struct {
	*repositories.InMemoryDeletionRequestRepository

	failures int
	calls    int
}

func (r *flakyRepo) GetAllAwaitingDecision(ctx context.Context) ([]models.DeletionRequest, error) {
	r.calls++
	if r.calls <= r.failures {
		return nil, errors.New("store unreachable")
	}
	return r.InMemoryDeletionRequestRepository.GetAllAwaitingDecision(ctx)
}

func newFlakyRepo(t *testing.T, failures int) *flakyRepo {
	t.Helper()
	inner := repositories.NewInMemoryDeletionRequestRepository()
	require.NoError(t, seeding.SeedDeletionRequests(inner))
	return &flakyRepo{InMemoryDeletionRequestRepository: inner, failures: failures}
}

func newRefreshFixture(t *testing.T, failures int) (*flakyRepo, *cache.PendingCache, *CacheRefreshService) {
	t.Helper()

	repo := newFlakyRepo(t, failures)
	pendingCache := cache.NewPendingCache(cache.Config{
		Key:                "CustomerAccountDeletionRequests",
		AbsoluteExpiration: time.Minute,
		Priority:           cache.PriorityNeverRemove,
	})

	svc := NewCacheRefreshService(repo, pendingCache)
	svc.initialBackoff = time.Millisecond // keep retries fast under test

	return repo, pendingCache, svc
}

func TestRefreshPopulatesCache(t *testing.T) {
	_, pendingCache, svc := newRefreshFixture(t, 0)

	require.NoError(t, svc.Refresh(context.Background()))

	got, ok := pendingCache.Get()
	require.True(t, ok)
	assert.Len(t, got, 5)
}

func TestRefreshRetriesUntilStoreRecovers(t *testing.T) {
	repo, pendingCache, svc := newRefreshFixture(t, 3)

	require.NoError(t, svc.Refresh(context.Background()))

	assert.Equal(t, 4, repo.calls)
	_, ok := pendingCache.Get()
	assert.True(t, ok)
}

func TestRefreshGivesUpAfterMaxAttempts(t *testing.T) {
	repo, pendingCache, svc := newRefreshFixture(t, 100)
	svc.maxAttempts = 3

	err := svc.Refresh(context.Background())

	require.Error(t, err)
	assert.Equal(t, 3, repo.calls)
	_, ok := pendingCache.Get()
	assert.False(t, ok, "a failed refresh must not install anything")
}

func TestRefreshStopsOnCancelledContext(t *testing.T) {
	repo, _, svc := newRefreshFixture(t, 100)
	svc.initialBackoff = time.Hour // cancellation must cut the wait short

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Refresh(ctx) }()

	require.Eventually(t, func() bool { return repo.calls >= 1 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Refresh did not honor context cancellation")
	}
}

func TestRunRepopulatesAfterManualClear(t *testing.T) {
	_, pendingCache, svc := newRefreshFixture(t, 0)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go svc.Run(ctx)

	require.NoError(t, svc.Refresh(ctx))
	pendingCache.Clear()

	require.Eventually(t, func() bool {
		_, ok := pendingCache.Get()
		return ok
	}, 2*time.Second, 10*time.Millisecond, "eviction must re-arm the populate cycle")
}

func TestRunServicesRefreshRequests(t *testing.T) {
	_, pendingCache, svc := newRefreshFixture(t, 0)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go svc.Run(ctx)

	svc.RequestRefresh()

	require.Eventually(t, func() bool {
		_, ok := pendingCache.Get()
		return ok
	}, 2*time.Second, 10*time.Millisecond)
}
