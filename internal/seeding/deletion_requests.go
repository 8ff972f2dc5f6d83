package seeding

import (
	"context"
	"fmt"
	"time"

	"github.com/Bsouch96/CustomerAccountDeletionRequest/internal/models"
	"github.com/Bsouch96/CustomerAccountDeletionRequest/internal/repositories"
	"github.com/Bsouch96/CustomerAccountDeletionRequest/internal/utils"
)

// SeedDeletionRequests inserts the canonical test records (customers 1-5,
// all awaiting a decision) unless the store already holds customer 1.
// Test/demo profiles only.
func SeedDeletionRequests(repo repositories.DeletionRequestRepository) error {
	ctx := context.Background()

	if existing, err := repo.GetByCustomerID(ctx, 1); err != nil {
		return fmt.Errorf("check existing seed data: %w", err)
	} else if existing != nil {
		utils.Logger.Info("seeding: deletion requests already present; skipping")
		return nil
	}

	for _, dr := range CanonicalDeletionRequests() {
		dr := dr
		if err := repo.Create(ctx, &dr); err != nil {
			return fmt.Errorf("insert seed deletion request for customer %d: %w", dr.CustomerID, err)
		}
	}

	utils.Logger.Info("seeding: inserted canonical deletion requests")
	return nil
}

// CanonicalDeletionRequests returns fresh copies of the five seed records.
func CanonicalDeletionRequests() []models.DeletionRequest {
	return []models.DeletionRequest{
		{CustomerID: 1, Reason: "Terrible Site.", RequestedAt: time.Date(2010, 10, 1, 8, 5, 3, 0, time.UTC), Status: models.StatusAwaitingDecision},
		{CustomerID: 2, Reason: "Prefer Amazon.", RequestedAt: time.Date(2012, 1, 2, 10, 3, 45, 0, time.UTC), Status: models.StatusAwaitingDecision},
		{CustomerID: 3, Reason: "Too many clicks.", RequestedAt: time.Date(2013, 2, 3, 12, 2, 40, 0, time.UTC), Status: models.StatusAwaitingDecision},
		{CustomerID: 4, Reason: "Scammed into signing up.", RequestedAt: time.Date(2014, 3, 4, 14, 1, 35, 0, time.UTC), Status: models.StatusAwaitingDecision},
		{CustomerID: 5, Reason: "If Wish was built by students...", RequestedAt: time.Date(2007, 4, 5, 16, 50, 30, 0, time.UTC), Status: models.StatusAwaitingDecision},
	}
}
