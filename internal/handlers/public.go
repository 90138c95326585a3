package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/abrezinsky/plateplay/internal/menu"
	"github.com/abrezinsky/plateplay/internal/services"
	"github.com/abrezinsky/plateplay/internal/theme"
	"github.com/abrezinsky/plateplay/pkg/colorconv"
)

func (h *Handlers) handleGetPublicBoard(w http.ResponseWriter, r *http.Request) {
	b, err := h.Boards.GetPublic(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondOK(w, b)
}

// handleRenderPublicBoard returns the board resolved for one language, the
// same view the menu page draws. It records no view so live clients can
// refresh freely.
func (h *Handlers) handleRenderPublicBoard(w http.ResponseWriter, r *http.Request) {
	b, err := h.Boards.Snapshot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	respondOK(w, h.Boards.Render(r.Context(), b, resolveLang(r, b), menu.Options{Category: category}))
}

func (h *Handlers) handleNewSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.Boards.Snapshot(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	respondCreated(w, h.Reviews.NewSession(id))
}

// handleBoardSocket upgrades to a websocket that receives the board's
// snapshots. Unknown boards are rejected before the upgrade.
func (h *Handlers) handleBoardSocket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.Boards.Snapshot(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	h.Hub.ServeWs(w, r, id)
}

func (h *Handlers) handleBoardQR(w http.ResponseWriter, r *http.Request) {
	size, err := parseIntQuery(r, "size", 0)
	if err != nil {
		h.respondError(w, err)
		return
	}
	png, err := h.QR.BoardQR(r.Context(), chi.URLParam(r, "id"), size)
	if err != nil {
		h.respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.Write(png)
}

func (h *Handlers) handleConvertColor(w http.ResponseWriter, r *http.Request) {
	swatch, ok := colorconv.Convert(r.URL.Query().Get("hex"))
	if !ok {
		h.respondError(w, services.ErrInvalidColor)
		return
	}
	respondOK(w, swatch)
}

func (h *Handlers) handleSuggestPalette(w http.ResponseWriter, r *http.Request) {
	primary := r.URL.Query().Get("primary")
	if !colorconv.IsValidHexLoose(primary) {
		h.respondError(w, services.ErrInvalidColor)
		return
	}
	primary = colorconv.NormalizeHex(primary)
	secondary, accent := theme.SuggestPalette(primary)
	respondOK(w, SuggestResponse{
		Primary:   primary,
		Secondary: secondary,
		Accent:    accent,
		OnPrimary: theme.TextOn(primary),
	})
}
