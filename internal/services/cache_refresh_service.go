package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Bsouch96/CustomerAccountDeletionRequest/internal/cache"
	"github.com/Bsouch96/CustomerAccountDeletionRequest/internal/repositories"
	"github.com/Bsouch96/CustomerAccountDeletionRequest/internal/utils"
)

const (
	refreshMaxAttempts    = 5
	refreshInitialBackoff = 500 * time.Millisecond
)

// CacheRefreshService keeps the pending-set cache continuously populated.
// The cadence comes from the cron entry in main; on top of that, Run reacts
// to eviction signals and to RequestRefresh nudges from the request path, so
// a manual clear or an expired entry repopulates without waiting a full tick.
type CacheRefreshService struct {
	repo  repositories.DeletionRequestRepository
	cache *cache.PendingCache

	trigger chan struct{}

	// overridable in tests
	maxAttempts    int
	initialBackoff time.Duration
}

func NewCacheRefreshService(
	repo repositories.DeletionRequestRepository,
	pendingCache *cache.PendingCache,
) *CacheRefreshService {
	return &CacheRefreshService{
		repo:           repo,
		cache:          pendingCache,
		trigger:        make(chan struct{}, 1),
		maxAttempts:    refreshMaxAttempts,
		initialBackoff: refreshInitialBackoff,
	}
}

// Refresh loads the full pending-set from the store and replaces the cached
// collection wholesale. Store failures are retried with exponential backoff;
// after the last attempt the error is returned so the caller can log it.
// The next cron tick retries regardless, so the chain never dies.
func (s *CacheRefreshService) Refresh(ctx context.Context) error {
	backoff := s.initialBackoff

	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		pending, err := s.repo.GetAllAwaitingDecision(ctx)
		if err == nil {
			s.cache.Replace(pending)
			utils.Logger.Debugf("Pending-set cache refreshed with %d record(s)", len(pending))
			return nil
		}
		lastErr = err

		utils.Logger.WithError(err).Warnf(
			"Pending-set refresh failed on attempt %d/%d. Retrying in %v...",
			attempt, s.maxAttempts, backoff,
		)

		if attempt == s.maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return fmt.Errorf("refresh pending-set cache after %d attempts: %w", s.maxAttempts, lastErr)
}

// RequestRefresh asks for an out-of-band refresh without blocking. A signal
// already queued covers this request too.
func (s *CacheRefreshService) RequestRefresh() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// Run services eviction signals and refresh requests until ctx is cancelled.
// Meant to be started once, as its own goroutine, from main.
func (s *CacheRefreshService) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			utils.Logger.Info("Cache refresh loop shutting down.")
			return
		case <-s.cache.Evictions():
		case <-s.trigger:
		}

		if err := s.Refresh(ctx); err != nil && ctx.Err() == nil {
			utils.Logger.WithError(err).Error("Eviction-driven cache refresh failed")
		}
	}
}
