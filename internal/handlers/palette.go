package handlers

import "net/http"

func (h *Handlers) handleRecentColors(w http.ResponseWriter, r *http.Request) {
	colors, err := h.Palette.Recent(r.Context(), ownerOf(r))
	h.respondPalette(w, colors, err)
}

func (h *Handlers) handleAddRecentColor(w http.ResponseWriter, r *http.Request) {
	var req ColorRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondError(w, err)
		return
	}
	colors, err := h.Palette.AddRecent(r.Context(), ownerOf(r), req.Color)
	h.respondPalette(w, colors, err)
}

func (h *Handlers) handleFavoriteColors(w http.ResponseWriter, r *http.Request) {
	colors, err := h.Palette.Favorites(r.Context(), ownerOf(r))
	h.respondPalette(w, colors, err)
}

func (h *Handlers) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	var req ColorRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondError(w, err)
		return
	}
	colors, err := h.Palette.ToggleFavorite(r.Context(), ownerOf(r), req.Color)
	h.respondPalette(w, colors, err)
}

func (h *Handlers) respondPalette(w http.ResponseWriter, colors []string, err error) {
	if err != nil {
		h.respondError(w, err)
		return
	}
	if colors == nil {
		colors = []string{}
	}
	respondOK(w, PaletteResponse{Colors: colors})
}
