package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/abrezinsky/plateplay/internal/menu"
	"github.com/abrezinsky/plateplay/internal/models"
	"github.com/abrezinsky/plateplay/internal/services"
)

func (h *Handlers) handleListBoards(w http.ResponseWriter, r *http.Request) {
	boards, err := h.Boards.List(r.Context(), ownerOf(r))
	if err != nil {
		h.respondError(w, err)
		return
	}
	if boards == nil {
		boards = []models.BoardSummary{}
	}
	respondOK(w, boards)
}

func (h *Handlers) handleCreateBoard(w http.ResponseWriter, r *http.Request) {
	var b models.Board
	if err := decodeJSON(w, r, &b); err != nil {
		h.respondError(w, err)
		return
	}
	created, err := h.Boards.Create(r.Context(), ownerOf(r), &b)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondCreated(w, created)
}

func (h *Handlers) handleCreateFromTemplate(w http.ResponseWriter, r *http.Request) {
	var req CreateFromTemplateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondError(w, err)
		return
	}
	if strings.TrimSpace(req.Template) == "" {
		h.respondError(w, BadRequest("template is required"))
		return
	}
	created, err := h.Boards.CreateFromTemplate(r.Context(), ownerOf(r), req.Template)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondCreated(w, created)
}

func (h *Handlers) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	list, err := h.Boards.Templates()
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondOK(w, list)
}

func (h *Handlers) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	b, err := h.Boards.Get(r.Context(), ownerOf(r), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondOK(w, b)
}

// handleUpdateBoard replaces a board. The ID in the URL wins over the body.
func (h *Handlers) handleUpdateBoard(w http.ResponseWriter, r *http.Request) {
	var b models.Board
	if err := decodeJSON(w, r, &b); err != nil {
		h.respondError(w, err)
		return
	}
	b.ID = chi.URLParam(r, "id")
	updated, err := h.Boards.Update(r.Context(), ownerOf(r), &b)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondOK(w, updated)
}

func (h *Handlers) handleDeleteBoard(w http.ResponseWriter, r *http.Request) {
	if err := h.Boards.Delete(r.Context(), ownerOf(r), chi.URLParam(r, "id")); err != nil {
		h.respondError(w, err)
		return
	}
	respondDeleted(w)
}

func (h *Handlers) handleSetItemStatus(w http.ResponseWriter, r *http.Request) {
	var req ItemStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondError(w, err)
		return
	}
	b, err := h.Boards.SetItemStatus(r.Context(), ownerOf(r),
		chi.URLParam(r, "id"), chi.URLParam(r, "itemID"), models.ItemStatus(req.Status))
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondOK(w, b)
}

func (h *Handlers) handleClassifySection(w http.ResponseWriter, r *http.Request) {
	b, err := h.Boards.Classify(r.Context(), ownerOf(r), chi.URLParam(r, "id"), chi.URLParam(r, "sid"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondOK(w, b)
}

func (h *Handlers) handleReorder(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondError(w, err)
		return
	}
	b, err := h.Boards.Reorder(r.Context(), ownerOf(r), chi.URLParam(r, "id"), req.ActiveID, req.OverID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondOK(w, b)
}

func (h *Handlers) handleBoardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Boards.Stats(r.Context(), ownerOf(r), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondOK(w, stats)
}

func (h *Handlers) handleBoardCoverage(w http.ResponseWriter, r *http.Request) {
	coverage, err := h.Boards.Coverage(r.Context(), ownerOf(r), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondOK(w, coverage)
}

// handleShareLink returns the board's public URL. With ?embed=true the whole
// board is packed into the link so it renders without the database.
func (h *Handlers) handleShareLink(w http.ResponseWriter, r *http.Request) {
	b, err := h.Boards.Get(r.Context(), ownerOf(r), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	baseURL, err := h.Settings.GetBaseURL(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	if baseURL == "" {
		h.respondError(w, services.ErrBaseURLNotSet)
		return
	}

	embed := r.URL.Query().Get("embed") == "true"
	if embed {
		b.OwnerID = ""
	}
	link, err := menu.ShareURL(baseURL, b, embed)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondOK(w, ShareResponse{URL: link, Embedded: embed})
}

func (h *Handlers) handleExport(w http.ResponseWriter, r *http.Request) {
	boards, err := h.Boards.Export(r.Context(), ownerOf(r))
	if err != nil {
		h.respondError(w, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="plateplay-boards.json"`)
	respondOK(w, boards)
}

// handleImport accepts a JSON array of boards
func (h *Handlers) handleImport(w http.ResponseWriter, r *http.Request) {
	var boards []models.Board
	if err := decodeJSON(w, r, &boards); err != nil {
		h.respondError(w, err)
		return
	}
	result, err := h.Boards.Import(r.Context(), ownerOf(r), boards)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondOK(w, result)
}

func (h *Handlers) handleSeed(w http.ResponseWriter, r *http.Request) {
	var req SeedRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondError(w, err)
		return
	}
	ids, err := h.Boards.SeedSample(r.Context(), ownerOf(r), req.Count)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondCreated(w, SeedResponse{Created: len(ids), IDs: ids})
}
