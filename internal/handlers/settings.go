package handlers

import (
	"net/http"

	"github.com/abrezinsky/plateplay/internal/services"
)

func (h *Handlers) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Settings.AllSettings(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondOK(w, settings)
}

func (h *Handlers) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondError(w, err)
		return
	}
	err := h.Settings.UpdateSettings(r.Context(), services.Settings{
		BaseURL:         req.BaseURL,
		DefaultCurrency: req.DefaultCurrency,
		DefaultLang:     req.DefaultLang,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondSuccess(w, "Settings updated")
}

func (h *Handlers) handleResetTables(w http.ResponseWriter, r *http.Request) {
	var req ResetTablesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondError(w, err)
		return
	}
	result, err := h.Settings.ResetTables(r.Context(), req.Tables)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondOK(w, ResetTablesResponse{Success: true, Tables: result.Tables, Message: result.Message})
}
