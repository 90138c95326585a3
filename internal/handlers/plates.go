package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abrezinsky/plateplay/internal/models"
)

func (h *Handlers) handleGetPlate(w http.ResponseWriter, r *http.Request) {
	plate, err := h.Plates.Get(r.Context(), chi.URLParam(r, "*"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	plate.OwnerID = ""
	respondOK(w, plate)
}

func (h *Handlers) handleListPlates(w http.ResponseWriter, r *http.Request) {
	plates, err := h.Plates.List(r.Context(), ownerOf(r))
	if err != nil {
		h.respondError(w, err)
		return
	}
	if plates == nil {
		plates = []models.Plate{}
	}
	respondOK(w, plates)
}

func (h *Handlers) handleSavePlate(w http.ResponseWriter, r *http.Request) {
	var req SavePlateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondError(w, err)
		return
	}
	plate, err := h.Plates.Save(r.Context(), ownerOf(r), chi.URLParam(r, "*"), req.Title, req.Data)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondOK(w, plate)
}
