package handler

import (
	"net/http"

	"github.com/osse101/CommentGarden_Go/internal/domain"
	"github.com/osse101/CommentGarden_Go/internal/logger"
)

// ProgressionResponse is the garden state plus the plantable catalog
type ProgressionResponse struct {
	State   domain.ProgressionState `json:"state"`
	Catalog []domain.TreeSpecies    `json:"catalog"`
}

// PlantTreeRequest is the body of POST /trees
type PlantTreeRequest struct {
	Type string `json:"type" validate:"required,treetype"`
}

// SelectTreeRequest is the body of PUT /trees/selected
type SelectTreeRequest struct {
	TreeID string `json:"tree_id" validate:"notblank"`
}

// ProgressionHandlers contains HTTP handlers for the garden
type ProgressionHandlers struct {
	service ProgressionService
}

// NewProgressionHandlers creates new progression handlers
func NewProgressionHandlers(service ProgressionService) *ProgressionHandlers {
	return &ProgressionHandlers{service: service}
}

// HandleGetState returns the full progression snapshot
// @Summary Get progression
// @Description Returns trees, weekly stats, tickets and comment history
// @Tags progression
// @Produce json
// @Success 200 {object} ProgressionResponse
// @Failure 500 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /progression [get]
func (h *ProgressionHandlers) HandleGetState() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := h.service.GetState(r.Context())
		if err != nil {
			respondServiceError(w, r, "Get progression", err)
			return
		}
		respondJSON(w, http.StatusOK, ProgressionResponse{State: state, Catalog: domain.TreeCatalog})
	}
}

// HandlePlantTree plants and selects a new tree
// @Summary Plant a tree
// @Tags progression
// @Accept json
// @Produce json
// @Param request body PlantTreeRequest true "Species"
// @Success 201 {object} domain.TreeState
// @Failure 400 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /trees [post]
func (h *ProgressionHandlers) HandlePlantTree() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PlantTreeRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Plant tree"); err != nil {
			return
		}

		tree, err := h.service.PlantTree(r.Context(), req.Type)
		if err != nil {
			respondServiceError(w, r, "Plant tree", err)
			return
		}

		logger.FromContext(r.Context()).Info(LogMsgTreePlanted, "tree_id", tree.ID, "type", tree.Type)
		respondJSON(w, http.StatusCreated, tree)
	}
}

// HandleSelectTree switches the tree that receives comment scores
// @Summary Select a tree
// @Tags progression
// @Accept json
// @Produce json
// @Param request body SelectTreeRequest true "Tree"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /trees/selected [put]
func (h *ProgressionHandlers) HandleSelectTree() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SelectTreeRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Select tree"); err != nil {
			return
		}

		if err := h.service.SelectTree(r.Context(), req.TreeID); err != nil {
			respondServiceError(w, r, "Select tree", err)
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgTreeSelected})
	}
}

// HandleReviveTree brings a dead tree back at full health
// @Summary Revive a tree
// @Tags progression
// @Produce json
// @Param id path string true "Tree ID"
// @Success 200 {object} domain.TreeState
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /trees/{id}/revive [post]
func (h *ProgressionHandlers) HandleReviveTree() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := GetPathParam(r, w, "id")
		if !ok {
			return
		}

		tree, err := h.service.ReviveTree(r.Context(), id)
		if err != nil {
			respondServiceError(w, r, "Revive tree", err)
			return
		}
		respondJSON(w, http.StatusOK, tree)
	}
}

// HandleEnterLottery spends tickets on one spin of the prize wheel
// @Summary Enter the lottery
// @Tags progression
// @Produce json
// @Success 200 {object} progression.LotteryResult
// @Failure 409 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /lottery [post]
func (h *ProgressionHandlers) HandleEnterLottery() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := h.service.EnterLottery(r.Context())
		if err != nil {
			respondServiceError(w, r, "Enter lottery", err)
			return
		}

		logger.FromContext(r.Context()).Info(LogMsgLotteryEntered,
			"prize", result.Prize.Name,
			"tickets_left", result.TicketsLeft)
		respondJSON(w, http.StatusOK, result)
	}
}
