package models

import (
	"time"
)

type DeletionRequestStatus string

const (
	StatusAwaitingDecision DeletionRequestStatus = "AWAITING_DECISION"
	StatusApproved         DeletionRequestStatus = "APPROVED"
)

// DeletionRequest is a customer's request to have their account removed.
// ID is assigned by the store on insert and never changes afterwards.
// ApprovedAt stays at its zero value and ApprovingStaffID at 0 until a member
// of staff approves the request; Approved is terminal.
type DeletionRequest struct {
	ID               int64                 `json:"id"`
	CustomerID       int                   `json:"customerId"`
	Reason           string                `json:"reason"`
	RequestedAt      time.Time             `json:"requestedAt"`
	ApprovedAt       time.Time             `json:"approvedAt,omitempty"`
	ApprovingStaffID int                   `json:"approvingStaffId,omitempty"`
	Status           DeletionRequestStatus `json:"status"`
}

// IsPending reports whether the request still awaits a staff decision.
func (d *DeletionRequest) IsPending() bool {
	return d.Status == StatusAwaitingDecision
}
