package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"

	"github.com/Bsouch96/CustomerAccountDeletionRequest/internal/models"
	"github.com/Bsouch96/CustomerAccountDeletionRequest/internal/utils"
)

/* ------------------------------------------------------------------
   Public interface
------------------------------------------------------------------ */

// DeletionRequestRepository is the durable store behind the pending-set cache.
// GetByCustomerID returns (nil, nil) when no record exists; callers translate
// that into their own not-found semantics.
type DeletionRequestRepository interface {
	GetAllAwaitingDecision(ctx context.Context) ([]models.DeletionRequest, error)
	GetByCustomerID(ctx context.Context, customerID int) (*models.DeletionRequest, error)
	Create(ctx context.Context, dr *models.DeletionRequest) error
	Update(ctx context.Context, dr *models.DeletionRequest) error
}

/* ------------------------------------------------------------------
   Implementation
------------------------------------------------------------------ */

type deletionRequestRepo struct {
	db DB
}

func NewDeletionRequestRepository(db DB) DeletionRequestRepository {
	return &deletionRequestRepo{db: db}
}

const baseSelect = `
    SELECT id, customer_id, reason, requested_at, approved_at, staff_id, status
      FROM customer_account_deletion_requests
`

func (r *deletionRequestRepo) GetAllAwaitingDecision(ctx context.Context) ([]models.DeletionRequest, error) {
	rows, err := r.db.Query(ctx, baseSelect+" WHERE status=$1 ORDER BY id", models.StatusAwaitingDecision)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.DeletionRequest
	for rows.Next() {
		dr, err := scanDeletionRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *dr)
	}
	return out, rows.Err()
}

// GetByCustomerID returns the first (oldest) record for the customer. Customer
// IDs are not unique across the full history, so order matters.
func (r *deletionRequestRepo) GetByCustomerID(ctx context.Context, customerID int) (*models.DeletionRequest, error) {
	row := r.db.QueryRow(ctx, baseSelect+" WHERE customer_id=$1 ORDER BY id LIMIT 1", customerID)
	dr, err := scanDeletionRequest(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return dr, err
}

// Create inserts the record and fills in the store-assigned ID. Each statement
// commits on its own; there is no separate save step.
func (r *deletionRequestRepo) Create(ctx context.Context, dr *models.DeletionRequest) error {
	if dr == nil {
		return utils.ErrNilEntity
	}
	return r.db.QueryRow(ctx, `
        INSERT INTO customer_account_deletion_requests
            (customer_id, reason, requested_at, staff_id, status)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `,
		dr.CustomerID, dr.Reason, dr.RequestedAt, dr.ApprovingStaffID, dr.Status,
	).Scan(&dr.ID)
}

func (r *deletionRequestRepo) Update(ctx context.Context, dr *models.DeletionRequest) error {
	if dr == nil {
		return utils.ErrNilEntity
	}
	var approvedAt *time.Time
	if !dr.ApprovedAt.IsZero() {
		approvedAt = &dr.ApprovedAt
	}
	tag, err := r.db.Exec(ctx, `
        UPDATE customer_account_deletion_requests
           SET reason=$2, approved_at=$3, staff_id=$4, status=$5
         WHERE id=$1
    `,
		dr.ID, dr.Reason, approvedAt, dr.ApprovingStaffID, dr.Status,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrResourceNotFound
	}
	return nil
}

func scanDeletionRequest(row pgx.Row) (*models.DeletionRequest, error) {
	var (
		dr         models.DeletionRequest
		approvedAt *time.Time
	)
	if err := row.Scan(
		&dr.ID, &dr.CustomerID, &dr.Reason, &dr.RequestedAt,
		&approvedAt, &dr.ApprovingStaffID, &dr.Status,
	); err != nil {
		return nil, err
	}
	if approvedAt != nil {
		dr.ApprovedAt = *approvedAt
	}
	return &dr, nil
}
