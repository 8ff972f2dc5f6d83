package controllers

import (
	"context"
	"net/http"

	"github.com/Bsouch96/CustomerAccountDeletionRequest/internal/dtos"
	"github.com/Bsouch96/CustomerAccountDeletionRequest/internal/repositories"
	"github.com/Bsouch96/CustomerAccountDeletionRequest/internal/utils"
)

type HealthController struct {
	repo repositories.DeletionRequestRepository
}

func NewHealthController(repo repositories.DeletionRequestRepository) *HealthController {
	return &HealthController{repo: repo}
}

func (c *HealthController) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	// Probe the only external dependency.
	if _, err := c.repo.GetAllAwaitingDecision(context.Background()); err != nil {
		utils.Logger.WithError(err).Error("deletion-request store unhealthy")
		utils.RespondError(w, http.StatusServiceUnavailable, "Service unhealthy", err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.HealthCheckResponse{Status: "OK"})
}
