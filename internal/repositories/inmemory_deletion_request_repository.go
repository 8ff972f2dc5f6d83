package repositories

import (
	"context"
	"sync"

	"github.com/Bsouch96/CustomerAccountDeletionRequest/internal/models"
	"github.com/Bsouch96/CustomerAccountDeletionRequest/internal/utils"
)

// InMemoryDeletionRequestRepository backs the service in development and in
// tests, where no Postgres is available. Same contract as the pgx
// implementation, including insertion-order GetByCustomerID.
type InMemoryDeletionRequestRepository struct {
	mu       sync.Mutex
	requests []models.DeletionRequest
	nextID   int64
}

func NewInMemoryDeletionRequestRepository() *InMemoryDeletionRequestRepository {
	return &InMemoryDeletionRequestRepository{nextID: 1}
}

func (r *InMemoryDeletionRequestRepository) GetAllAwaitingDecision(ctx context.Context) ([]models.DeletionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.DeletionRequest
	for _, dr := range r.requests {
		if dr.Status == models.StatusAwaitingDecision {
			out = append(out, dr)
		}
	}
	return out, nil
}

func (r *InMemoryDeletionRequestRepository) GetByCustomerID(ctx context.Context, customerID int) (*models.DeletionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, dr := range r.requests {
		if dr.CustomerID == customerID {
			found := dr
			return &found, nil
		}
	}
	return nil, nil
}

func (r *InMemoryDeletionRequestRepository) Create(ctx context.Context, dr *models.DeletionRequest) error {
	if dr == nil {
		return utils.ErrNilEntity
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	dr.ID = r.nextID
	r.nextID++
	r.requests = append(r.requests, *dr)
	return nil
}

func (r *InMemoryDeletionRequestRepository) Update(ctx context.Context, dr *models.DeletionRequest) error {
	if dr == nil {
		return utils.ErrNilEntity
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.requests {
		if r.requests[i].ID == dr.ID {
			r.requests[i] = *dr
			return nil
		}
	}
	return utils.ErrResourceNotFound
}
