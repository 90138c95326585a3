package handlers

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/abrezinsky/plateplay/internal/locale"
	"github.com/abrezinsky/plateplay/internal/menu"
	"github.com/abrezinsky/plateplay/internal/models"
)

// IndexPageData holds data for the landing page
type IndexPageData struct {
	Title    string
	LoggedIn bool
}

// MenuPageData holds data for the public menu page
type MenuPageData struct {
	View     *menu.View
	Category string
	Shared   bool
	Live     bool
}

// PlatePageData holds data for a published page-builder document
type PlatePageData struct {
	Plate *models.Plate
}

// renderPage executes a page template. Layout-based templates are executed by
// their layout name; standalone ones pass an empty name.
func (h *Handlers) renderPage(w http.ResponseWriter, t *template.Template, name string, data interface{}) {
	if t == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	var err error
	if name == "" {
		err = t.Execute(w, data)
	} else {
		err = t.ExecuteTemplate(w, name, data)
	}
	if err != nil && h.Log != nil {
		h.Log.Error("Template execution failed", "template", t.Name(), "error", err)
	}
}

// pageError writes a plain-text error page with the status ToAPIError picks
func (h *Handlers) pageError(w http.ResponseWriter, err error) {
	apiErr := ToAPIError(err)
	h.logServerError(apiErr)
	http.Error(w, apiErr.Message, apiErr.Status)
}

// resolveLang picks the display language: an explicit ?lang=, then the
// browser's Accept-Language, then the board's own default.
func resolveLang(r *http.Request, b *models.Board) locale.Lang {
	if l, ok := locale.Parse(r.URL.Query().Get("lang")); ok {
		return l
	}
	if header := r.Header.Get("Accept-Language"); header != "" {
		if l := locale.Detect(header); l != locale.Default {
			return l
		}
	}
	if b != nil && b.DefaultLang != "" {
		return b.DefaultLang
	}
	return locale.Default
}

func (h *Handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	_, loggedIn := h.Auth.OwnerFromRequest(r)
	h.renderPage(w, h.templates.Index, "", IndexPageData{Title: "PlatePlay", LoggedIn: loggedIn})
}

// handleMenuPage renders a board for guests. A ?data= share link renders the
// embedded board instead of the stored one and counts no view.
func (h *Handlers) handleMenuPage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var (
		b      *models.Board
		err    error
		shared bool
	)
	if data := r.URL.Query().Get("data"); data != "" {
		b, err = menu.DecodeShare(data)
		if err != nil {
			http.Error(w, "Invalid share link", http.StatusBadRequest)
			return
		}
		if b.ID == "" {
			b.ID = id
		}
		shared = true
	} else {
		b, err = h.Boards.GetPublic(r.Context(), id)
		if err != nil {
			h.pageError(w, err)
			return
		}
	}

	category := strings.TrimSpace(r.URL.Query().Get("category"))
	view := h.Boards.Render(r.Context(), b, resolveLang(r, b), menu.Options{Category: category})

	h.renderPage(w, h.templates.Menu, "", MenuPageData{
		View:     view,
		Category: category,
		Shared:   shared,
		Live:     !shared && h.Hub != nil,
	})
}

func (h *Handlers) handlePlatePage(w http.ResponseWriter, r *http.Request) {
	plate, err := h.Plates.Get(r.Context(), chi.URLParam(r, "*"))
	if err != nil {
		h.pageError(w, err)
		return
	}
	plate.OwnerID = ""
	h.renderPage(w, h.templates.Plate, "", PlatePageData{Plate: plate})
}

func (h *Handlers) handleDashboardBoards(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, h.templates.DashboardBoards, "dashboard", DashboardPageData{
		Title:     "Boards - PlatePlay",
		PageTitle: "My boards",
		ActiveNav: "boards",
		Owner:     ownerOf(r),
	})
}

func (h *Handlers) handleDashboardEditor(w http.ResponseWriter, r *http.Request) {
	b, err := h.Boards.Get(r.Context(), ownerOf(r), chi.URLParam(r, "id"))
	if err != nil {
		h.pageError(w, err)
		return
	}
	h.renderPage(w, h.templates.DashboardEditor, "dashboard", DashboardPageData{
		Title:     "Editor - PlatePlay",
		PageTitle: locale.GetText(b.Title, locale.Default),
		ActiveNav: "boards",
		Owner:     ownerOf(r),
		BoardID:   b.ID,
	})
}

func (h *Handlers) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	b, err := h.Boards.Get(r.Context(), ownerOf(r), chi.URLParam(r, "id"))
	if err != nil {
		h.pageError(w, err)
		return
	}
	h.renderPage(w, h.templates.DashboardStats, "dashboard", DashboardPageData{
		Title:     "Statistics - PlatePlay",
		PageTitle: locale.GetText(b.Title, locale.Default) + " statistics",
		ActiveNav: "boards",
		Owner:     ownerOf(r),
		BoardID:   b.ID,
	})
}

func (h *Handlers) handleDashboardSettings(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, h.templates.DashboardSettings, "dashboard", DashboardPageData{
		Title:     "Settings - PlatePlay",
		PageTitle: "Settings",
		ActiveNav: "settings",
		Owner:     ownerOf(r),
	})
}
