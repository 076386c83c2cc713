package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/trocatudo/trocatudo/internal/models"

	"github.com/go-chi/chi/v5"
)

// CreateProposal submits a trade proposal on an item
func (h *Handler) CreateProposal(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := actor(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		ItemID  int     `json:"item_id"`
		Message *string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ItemID == 0 {
		writeError(w, http.StatusBadRequest, "Item ID required")
		return
	}

	proposal, err := h.Engine.CreateProposal(r.Context(), userID, req.ItemID, req.Message)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, proposal)
}

// ReceivedProposals retrieves proposals on the caller's items
func (h *Handler) ReceivedProposals(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := actor(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	proposals, err := h.Engine.ListReceived(r.Context(), userID)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if proposals == nil {
		proposals = []models.Proposal{}
	}

	writeJSON(w, http.StatusOK, proposals)
}

// SentProposals retrieves proposals the caller has made
func (h *Handler) SentProposals(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := actor(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	proposals, err := h.Engine.ListSent(r.Context(), userID)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if proposals == nil {
		proposals = []models.Proposal{}
	}

	writeJSON(w, http.StatusOK, proposals)
}

// UpdateProposalStatus accepts or rejects a pending proposal
func (h *Handler) UpdateProposalStatus(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := actor(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	proposalID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid proposal ID")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	proposal, err := h.Engine.UpdateProposalStatus(r.Context(), userID, proposalID, req.Status)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, proposal)
}

// DeleteProposal removes the caller's own proposal
func (h *Handler) DeleteProposal(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := actor(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	proposalID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid proposal ID")
		return
	}

	if err := h.Engine.DeleteProposal(r.Context(), userID, proposalID); err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Proposal deleted"})
}

// CreateRating records a post-trade review by one of the trade parties
func (h *Handler) CreateRating(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := actor(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		ProposalID int     `json:"proposal_id"`
		Score      int     `json:"score"`
		Comment    *string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ProposalID == 0 || req.Score == 0 {
		writeError(w, http.StatusBadRequest, "Proposal ID and score required")
		return
	}

	rating, err := h.Engine.CreateRating(r.Context(), userID, req.ProposalID, req.Score, req.Comment)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, rating)
}

// UserRatings retrieves ratings received by a user
func (h *Handler) UserRatings(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	ratings, err := h.Engine.ListUserRatings(r.Context(), userID)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if ratings == nil {
		ratings = []models.Rating{}
	}

	writeJSON(w, http.StatusOK, ratings)
}
