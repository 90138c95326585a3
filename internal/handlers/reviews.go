package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abrezinsky/plateplay/internal/models"
)

func (h *Handlers) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	var req CreateReviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondError(w, err)
		return
	}
	if req.ItemID == "" {
		h.respondError(w, BadRequest("itemId is required"))
		return
	}
	review, err := h.Reviews.Create(r.Context(), req.ItemID, req.Rating, req.Text, req.SessionToken)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondCreated(w, review)
}

func (h *Handlers) handleListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.Reviews.List(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	// Session tokens never leave the server
	for i := range reviews {
		reviews[i].SessionToken = ""
	}
	respondOK(w, ReviewListResponse{Reviews: reviews})
}

func (h *Handlers) handleReviewStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Reviews.Stats(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondOK(w, stats)
}

func (h *Handlers) handleCheckReviews(w http.ResponseWriter, r *http.Request) {
	var req CheckReviewsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondError(w, err)
		return
	}
	reviewed, err := h.Reviews.CheckExisting(r.Context(), req.ItemIDs, req.SessionToken)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if reviewed == nil {
		reviewed = map[string]bool{}
	}
	respondOK(w, CheckReviewsResponse{Reviewed: reviewed})
}
