package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/Bsouch96/CustomerAccountDeletionRequest/internal/dtos"
	"github.com/Bsouch96/CustomerAccountDeletionRequest/internal/routes"
	"github.com/Bsouch96/CustomerAccountDeletionRequest/internal/services"
	"github.com/Bsouch96/CustomerAccountDeletionRequest/internal/utils"
)

type DeletionRequestController struct {
	service  *services.DeletionRequestService
	validate *validator.Validate
}

func NewDeletionRequestController(service *services.DeletionRequestService) *DeletionRequestController {
	return &DeletionRequestController{
		service:  service,
		validate: validator.New(),
	}
}

func (c *DeletionRequestController) pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		return 0, &utils.AppError{
			StatusCode: http.StatusBadRequest,
			Message:    "IDs cannot be less than 1.",
			Err:        err,
		}
	}
	return id, nil
}

// GET /CustomerAccountDeletionRequest
func (c *DeletionRequestController) GetAllHandler(w http.ResponseWriter, r *http.Request) {
	requests, err := c.service.GetAll(r.Context())
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.NewReadDTOsFromModels(requests))
}

// GET /CustomerAccountDeletionRequest/{id}
func (c *DeletionRequestController) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := c.pathID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	dr, err := c.service.GetByCustomerID(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.NewReadDTOFromModel(*dr))
}

// POST /CustomerAccountDeletionRequest/Create
func (c *DeletionRequestController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.DeletionRequestCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "The deletion request to be created cannot be null.", err)
		return
	}

	if err := c.validate.Struct(req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error(), err)
		return
	}

	dr, err := c.service.Create(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("%s/%d", routes.DeletionRequestBase, dr.CustomerID))
	utils.RespondWithJSON(w, http.StatusCreated, dtos.NewReadDTOFromModel(*dr))
}

// PATCH /CustomerAccountDeletionRequest/Approve/{id}
func (c *DeletionRequestController) ApproveHandler(w http.ResponseWriter, r *http.Request) {
	id, err := c.pathID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	var patch dtos.DeletionRequestApproveDTO
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "The deletion request used to update cannot be null.", err)
		return
	}

	if err := c.validate.Struct(patch); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error(), err)
		return
	}

	if err := c.service.Approve(r.Context(), id, patch); err != nil {
		utils.HandleAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusNoContent, nil)
}
