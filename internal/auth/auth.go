package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	CookieName    = "plateplay_session"
	SessionExpiry = 24 * time.Hour
	LoginPath     = "/dashboard/login"
)

// Kitchen words for password generation
var menuWords = []string{
	"basil", "brisket", "butter", "cocoa", "crumble",
	"espresso", "fennel", "ginger", "honey", "kimchi",
	"latte", "lemon", "mango", "miso", "pesto",
	"saffron", "sesame", "truffle", "walnut",
}

type ctxKey struct{}

type session struct {
	owner   string
	expires time.Time
}

// Auth handles owner authentication. Each owner has one password; a login
// yields a session token bound to that owner.
type Auth struct {
	accounts map[string]string
	sessions map[string]session
	mu       sync.RWMutex
	now      func() time.Time
}

// New creates a new Auth instance for the given owner -> password accounts
func New(accounts map[string]string) *Auth {
	copied := make(map[string]string, len(accounts))
	for owner, pw := range accounts {
		copied[owner] = pw
	}
	return &Auth{
		accounts: copied,
		sessions: make(map[string]session),
		now:      time.Now,
	}
}

// ParseAccounts turns "owner:password" pairs into an accounts map. An entry
// without a password gets a generated one, reported in the second return.
func ParseAccounts(entries []string) (map[string]string, map[string]string, error) {
	accounts := make(map[string]string)
	generated := make(map[string]string)
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		owner, pw, _ := strings.Cut(entry, ":")
		owner = strings.TrimSpace(owner)
		if owner == "" {
			return nil, nil, fmt.Errorf("owner entry %q has no name", entry)
		}
		if _, dup := accounts[owner]; dup {
			return nil, nil, fmt.Errorf("owner %q listed twice", owner)
		}
		if pw == "" {
			pw = GeneratePassword()
			generated[owner] = pw
		}
		accounts[owner] = pw
	}
	if len(accounts) == 0 {
		return nil, nil, fmt.Errorf("at least one owner is required")
	}
	return accounts, generated, nil
}

// GeneratePassword creates a random 3-word password
func GeneratePassword() string {
	words := make([]string, 3)
	for i := range words {
		words[i] = menuWords[randomInt(len(menuWords))]
	}
	return strings.Join(words, "-")
}

// Owners returns the configured owner IDs in sorted order
func (a *Auth) Owners() []string {
	owners := make([]string, 0, len(a.accounts))
	for owner := range a.accounts {
		owners = append(owners, owner)
	}
	sort.Strings(owners)
	return owners
}

// Login validates the owner's password and returns a session token if valid
func (a *Auth) Login(owner, password string) (string, bool) {
	want, ok := a.accounts[owner]
	if !ok || subtle.ConstantTimeCompare([]byte(password), []byte(want)) != 1 {
		return "", false
	}

	token := generateToken()
	a.mu.Lock()
	a.sessions[token] = session{owner: owner, expires: a.now().Add(SessionExpiry)}
	a.mu.Unlock()

	return token, true
}

// Logout invalidates a session token
func (a *Auth) Logout(token string) {
	a.mu.Lock()
	delete(a.sessions, token)
	a.mu.Unlock()
}

// Owner returns the owner a live session token belongs to
func (a *Auth) Owner(token string) (string, bool) {
	a.mu.RLock()
	s, exists := a.sessions[token]
	a.mu.RUnlock()

	if !exists {
		return "", false
	}

	if a.now().After(s.expires) {
		a.mu.Lock()
		delete(a.sessions, token)
		a.mu.Unlock()
		return "", false
	}

	return s.owner, true
}

// OwnerFromRequest extracts and validates the session from a request
func (a *Auth) OwnerFromRequest(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", false
	}
	return a.Owner(cookie.Value)
}

// WithOwner returns a copy of ctx carrying the owner ID
func WithOwner(ctx context.Context, owner string) context.Context {
	return context.WithValue(ctx, ctxKey{}, owner)
}

// OwnerFromContext returns the owner set by RequireAuth or RequireAuthAPI
func OwnerFromContext(ctx context.Context) (string, bool) {
	owner, ok := ctx.Value(ctxKey{}).(string)
	return owner, ok && owner != ""
}

// RequireAuth middleware for dashboard pages (redirects to login)
func (a *Auth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if owner, ok := a.OwnerFromRequest(r); ok {
			next.ServeHTTP(w, r.WithContext(WithOwner(r.Context(), owner)))
			return
		}
		http.Redirect(w, r, LoginPath, http.StatusFound)
	})
}

// RequireAuthAPI middleware for API endpoints (returns 401)
func (a *Auth) RequireAuthAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if owner, ok := a.OwnerFromRequest(r); ok {
			next.ServeHTTP(w, r.WithContext(WithOwner(r.Context(), owner)))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":"UNAUTHORIZED","error":"Unauthorized - please log in"}`))
	})
}

// SetSessionCookie sets the session cookie on the response
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(SessionExpiry.Seconds()),
	})
}

// ClearSessionCookie removes the session cookie
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// generateToken creates a random session token
func generateToken() string {
	bytes := make([]byte, 32)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// randomInt returns a random int in [0, max)
func randomInt(max int) int {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0
	}
	return int(n.Int64())
}
