package handlers

import (
	"net/http"
	"strings"

	"github.com/abrezinsky/plateplay/internal/auth"
)

// LoginPageData holds data for the login template
type LoginPageData struct {
	Owner string
	Error string
}

// handleLoginPage renders the login form
func (h *Handlers) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	// Already logged in
	if _, ok := h.Auth.OwnerFromRequest(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	h.renderPage(w, h.templates.Login, "", LoginPageData{})
}

// handleLogin processes login form submission
func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	owner := strings.TrimSpace(r.FormValue("owner"))
	password := r.FormValue("password")

	token, ok := h.Auth.Login(owner, password)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		h.renderPage(w, h.templates.Login, "", LoginPageData{
			Owner: owner,
			Error: "Invalid owner or password",
		})
		return
	}

	auth.SetSessionCookie(w, token)
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// handleLogout clears the session and redirects to login
func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.CookieName); err == nil {
		h.Auth.Logout(cookie.Value)
	}

	auth.ClearSessionCookie(w)
	http.Redirect(w, r, auth.LoginPath, http.StatusFound)
}
