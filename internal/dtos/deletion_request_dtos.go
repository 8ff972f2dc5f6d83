package dtos

import (
	"time"

	"github.com/Bsouch96/CustomerAccountDeletionRequest/internal/models"
)

// DeletionRequestReadDTO is the read shape served on every GET.
type DeletionRequestReadDTO struct {
	CustomerID  int       `json:"customerId"`
	Reason      string    `json:"reason"`
	RequestedAt time.Time `json:"requestedAt"`
}

// DeletionRequestCreateDTO is the POST /Create payload.
type DeletionRequestCreateDTO struct {
	CustomerID int    `json:"customerId" validate:"required,min=1"`
	Reason     string `json:"reason" validate:"required,max=300"`
}

// DeletionRequestApproveDTO carries the fields a staff member may patch when
// approving. Pointer fields distinguish "absent" from "zero".
type DeletionRequestApproveDTO struct {
	StaffID *int `json:"staffId" validate:"required,min=1"`
}

type HealthCheckResponse struct {
	Status string `json:"status"`
}

// NewReadDTOFromModel maps a domain record to its read shape.
func NewReadDTOFromModel(m models.DeletionRequest) DeletionRequestReadDTO {
	return DeletionRequestReadDTO{
		CustomerID:  m.CustomerID,
		Reason:      m.Reason,
		RequestedAt: m.RequestedAt,
	}
}

// NewReadDTOsFromModels maps a collection, preserving order.
func NewReadDTOsFromModels(ms []models.DeletionRequest) []DeletionRequestReadDTO {
	out := make([]DeletionRequestReadDTO, 0, len(ms))
	for _, m := range ms {
		out = append(out, NewReadDTOFromModel(m))
	}
	return out
}
