package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Bsouch96/CustomerAccountDeletionRequest/internal/cache"
	"github.com/Bsouch96/CustomerAccountDeletionRequest/internal/dtos"
	"github.com/Bsouch96/CustomerAccountDeletionRequest/internal/models"
	"github.com/Bsouch96/CustomerAccountDeletionRequest/internal/repositories"
	"github.com/Bsouch96/CustomerAccountDeletionRequest/internal/utils"
)

// Refresher lets the request path nudge the refresh scheduler after a cold
// read. Wholesale cache replacement stays the scheduler's job.
type Refresher interface {
	RequestRefresh()
}

// DeletionRequestService is the cache-aside accessor in front of the store.
// Reads consult the pending-set cache first; writes go to the store and then
// patch the warm collection (upsert on create, remove on approve).
type DeletionRequestService struct {
	repo      repositories.DeletionRequestRepository
	cache     *cache.PendingCache
	refresher Refresher
}

func NewDeletionRequestService(
	repo repositories.DeletionRequestRepository,
	pendingCache *cache.PendingCache,
	refresher Refresher,
) *DeletionRequestService {
	return &DeletionRequestService{
		repo:      repo,
		cache:     pendingCache,
		refresher: refresher,
	}
}

// GetAll returns the pending-set, served from cache when warm. The cached
// collection is filtered on every hit: single-item promotion can park a
// non-pending record in it.
func (s *DeletionRequestService) GetAll(ctx context.Context) ([]models.DeletionRequest, error) {
	if cached, ok := s.cache.Get(); ok {
		pending := make([]models.DeletionRequest, 0, len(cached))
		for _, dr := range cached {
			if dr.IsPending() {
				pending = append(pending, dr)
			}
		}
		return pending, nil
	}

	all, err := s.repo.GetAllAwaitingDecision(ctx)
	if err != nil {
		return nil, &utils.AppError{StatusCode: http.StatusInternalServerError, Message: "Failed to load deletion requests", Err: err}
	}
	if s.refresher != nil {
		s.refresher.RequestRefresh()
	}
	return all, nil
}

// GetByCustomerID serves a single record: warm cache hit, warm cache with a
// single-item miss (store fetch + promotion into the cached collection), or
// cold cache (store fetch, no population).
func (s *DeletionRequestService) GetByCustomerID(ctx context.Context, customerID int) (*models.DeletionRequest, error) {
	if customerID < 1 {
		return nil, &utils.AppError{StatusCode: http.StatusBadRequest, Message: "IDs cannot be less than 1."}
	}

	if cached, warm := s.cache.Get(); warm {
		for _, dr := range cached {
			if dr.CustomerID == customerID {
				found := dr
				return &found, nil
			}
		}

		dr, err := s.fetchFromStore(ctx, customerID)
		if err != nil {
			return nil, err
		}
		s.cache.Upsert(*dr)
		return dr, nil
	}

	return s.fetchFromStore(ctx, customerID)
}

// Create inserts a new AwaitingDecision record and best-effort appends it to
// the warm pending-set.
func (s *DeletionRequestService) Create(ctx context.Context, payload dtos.DeletionRequestCreateDTO) (*models.DeletionRequest, error) {
	dr := &models.DeletionRequest{
		CustomerID:  payload.CustomerID,
		Reason:      payload.Reason,
		RequestedAt: time.Now(),
		Status:      models.StatusAwaitingDecision,
	}

	if err := s.repo.Create(ctx, dr); err != nil {
		return nil, &utils.AppError{StatusCode: http.StatusInternalServerError, Message: "Failed to create the deletion request", Err: err}
	}

	s.cache.Upsert(*dr)
	return dr, nil
}

// Approve transitions the customer's request to Approved (terminal) and drops
// it from the warm pending-set. Re-approving an already-approved record only
// refreshes the staff ID and timestamp; status never regresses.
func (s *DeletionRequestService) Approve(ctx context.Context, customerID int, patch dtos.DeletionRequestApproveDTO) error {
	if customerID < 1 {
		return &utils.AppError{StatusCode: http.StatusBadRequest, Message: "IDs cannot be less than 1."}
	}

	dr, err := s.GetByCustomerID(ctx, customerID)
	if err != nil {
		return err
	}

	dr.ApprovingStaffID = *patch.StaffID
	dr.ApprovedAt = time.Now()
	dr.Status = models.StatusApproved

	if err := s.repo.Update(ctx, dr); err != nil {
		if errors.Is(err, utils.ErrResourceNotFound) {
			return s.notFound(customerID)
		}
		return &utils.AppError{StatusCode: http.StatusInternalServerError, Message: "Failed to update the deletion request", Err: err}
	}

	s.cache.RemoveByCustomerID(customerID)
	return nil
}

func (s *DeletionRequestService) fetchFromStore(ctx context.Context, customerID int) (*models.DeletionRequest, error) {
	dr, err := s.repo.GetByCustomerID(ctx, customerID)
	if err != nil {
		return nil, &utils.AppError{StatusCode: http.StatusInternalServerError, Message: "Failed to load the deletion request", Err: err}
	}
	if dr == nil {
		return nil, s.notFound(customerID)
	}
	return dr, nil
}

func (s *DeletionRequestService) notFound(customerID int) *utils.AppError {
	return &utils.AppError{
		StatusCode: http.StatusNotFound,
		Message:    fmt.Sprintf("A resource for ID: %d does not exist.", customerID),
		Err:        utils.ErrResourceNotFound,
	}
}
