package routes

const (
	// Health
	Health = "/health"

	// Customer account deletion requests
	DeletionRequestBase    = "/CustomerAccountDeletionRequest"
	DeletionRequestByID    = "/CustomerAccountDeletionRequest/{id:-?[0-9]+}"
	DeletionRequestCreate  = "/CustomerAccountDeletionRequest/Create"
	DeletionRequestApprove = "/CustomerAccountDeletionRequest/Approve/{id:-?[0-9]+}"
)

// Permission claims checked per route. The values predate this service and
// must stay aligned with the tokens the gateway issues.
const (
	PermReadAll = "read:customer_account_deletion_requests"
	PermReadOne = "read:customer_account_deletion_request"
	PermCreate  = "add:customer_account_deletion_request"
	PermUpdate  = "edit:customer_account_deletion_requests"
)
