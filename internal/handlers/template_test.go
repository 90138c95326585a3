package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/abrezinsky/plateplay/internal/auth"
	"github.com/abrezinsky/plateplay/internal/handlers"
	"github.com/abrezinsky/plateplay/internal/logger"
	"github.com/abrezinsky/plateplay/internal/menu"
	"github.com/abrezinsky/plateplay/internal/repository"
	"github.com/abrezinsky/plateplay/internal/services"
	"github.com/abrezinsky/plateplay/internal/testutil"
)

func createTestTemplatesFS() fstest.MapFS {
	return fstest.MapFS{
		"index.html":              &fstest.MapFile{Data: []byte(`<html><body><h1>Index Page</h1>{{if .LoggedIn}}Signed in{{end}}</body></html>`)},
		"public/menu.html":        &fstest.MapFile{Data: []byte(`<html><body><h1>{{.View.Title}}</h1>{{range .View.Sections}}{{range .Items}}<li>{{.Name}}</li>{{end}}{{end}}{{if .Live}}live{{end}}{{if .Shared}}shared{{end}}</body></html>`)},
		"public/plate.html":       &fstest.MapFile{Data: []byte(`<html><body><h1>{{.Plate.Title}}</h1></body></html>`)},
		"dashboard/login.html":    &fstest.MapFile{Data: []byte(`<html><body><h1>Login Page</h1>{{.Error}}</body></html>`)},
		"dashboard/layout.html":   &fstest.MapFile{Data: []byte(`{{define "dashboard"}}<html><body><h1>{{.PageTitle}}</h1>{{template "content" .}}</body></html>{{end}}`)},
		"dashboard/boards.html":   &fstest.MapFile{Data: []byte(`{{define "content"}}<div>Boards Content</div>{{end}}`)},
		"dashboard/editor.html":   &fstest.MapFile{Data: []byte(`{{define "content"}}<div data-board="{{.BoardID}}">Editor Content</div>{{end}}`)},
		"dashboard/stats.html":    &fstest.MapFile{Data: []byte(`{{define "content"}}<div>Stats Content</div>{{end}}`)},
		"dashboard/settings.html": &fstest.MapFile{Data: []byte(`{{define "content"}}<div>Settings Content</div>{{end}}`)},
	}
}

// fakeSocket records which boards clients subscribed to
type fakeSocket struct {
	mu     sync.Mutex
	boards []string
}

func (f *fakeSocket) ServeWs(w http.ResponseWriter, r *http.Request, boardID string) {
	f.mu.Lock()
	f.boards = append(f.boards, boardID)
	f.mu.Unlock()
	w.WriteHeader(http.StatusAccepted)
}

func setupHandlersWithTemplates(t *testing.T) (*handlers.Handlers, *repository.Repository, *fakeSocket, *http.Cookie) {
	t.Helper()

	repo := testutil.NewTestRepository(t)
	log := logger.New()
	settings := services.NewSettingsService(log, repo)
	boards := services.NewBoardService(log, repo, settings)
	ownerAuth := auth.New(map[string]string{"alice": "secret"})
	socket := &fakeSocket{}

	h, err := handlers.New(
		boards,
		services.NewReviewService(log, repo),
		services.NewPaletteService(log, repo),
		services.NewPlateService(log, repo),
		settings,
		services.NewQRService(log, repo, settings),
		createTestTemplatesFS(),
		handlers.NewStaticServer(fstest.MapFS{"css/menu.css": &fstest.MapFile{Data: []byte("body{}")}}),
		ownerAuth,
		socket,
		handlers.NoopHTTPLogger{},
	)
	if err != nil {
		t.Fatalf("failed to create handlers: %v", err)
	}

	token, _ := ownerAuth.Login("alice", "secret")
	return h, repo, socket, &http.Cookie{Name: auth.CookieName, Value: token}
}

func get(h *handlers.Handlers, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)
	return rec
}

func TestNew_MissingTemplate(t *testing.T) {
	templatesFS := createTestTemplatesFS()
	delete(templatesFS, "dashboard/stats.html")

	_, err := handlers.New(nil, nil, nil, nil, nil, nil, templatesFS, nil, auth.New(nil), nil, handlers.NoopHTTPLogger{})
	if err == nil {
		t.Fatal("expected error for missing template")
	}
	if !strings.Contains(err.Error(), "stats") {
		t.Errorf("expected error to name the stats template, got %v", err)
	}
}

func TestHandleIndex(t *testing.T) {
	h, _, _, cookie := setupHandlersWithTemplates(t)

	rec := get(h, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Index Page") {
		t.Error("expected index page content")
	}
	if strings.Contains(rec.Body.String(), "Signed in") {
		t.Error("anonymous visitor should not be signed in")
	}

	if rec := get(h, "/", cookie); !strings.Contains(rec.Body.String(), "Signed in") {
		t.Error("expected signed-in index for owner")
	}
}

func TestStaticFiles(t *testing.T) {
	h, _, _, _ := setupHandlersWithTemplates(t)

	rec := get(h, "/static/css/menu.css", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if rec.Body.String() != "body{}" {
		t.Errorf("unexpected static content %q", rec.Body.String())
	}
}

func TestDashboardPages(t *testing.T) {
	h, repo, _, cookie := setupHandlersWithTemplates(t)
	testutil.SeedBoard(t, repo, "b1", "alice")

	tests := []struct {
		path    string
		title   string
		content string
	}{
		{"/dashboard", "My boards", "Boards Content"},
		{"/dashboard/boards/b1", "점심 메뉴", `data-board="b1"`},
		{"/dashboard/boards/b1/stats", "점심 메뉴 statistics", "Stats Content"},
		{"/dashboard/settings", "Settings", "Settings Content"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(h, tt.path, cookie)
			if rec.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", rec.Code)
			}
			body := rec.Body.String()
			if !strings.Contains(body, tt.title) {
				t.Errorf("expected title %q in %q", tt.title, body)
			}
			if !strings.Contains(body, tt.content) {
				t.Errorf("expected content %q in %q", tt.content, body)
			}
		})
	}
}

func TestDashboardPages_RedirectWithoutLogin(t *testing.T) {
	h, _, _, _ := setupHandlersWithTemplates(t)

	for _, path := range []string{"/dashboard", "/dashboard/settings", "/dashboard/boards/b1"} {
		rec := get(h, path, nil)
		if rec.Code != http.StatusFound {
			t.Errorf("%s: expected 302, got %d", path, rec.Code)
			continue
		}
		if loc := rec.Header().Get("Location"); loc != auth.LoginPath {
			t.Errorf("%s: expected redirect to %s, got %s", path, auth.LoginPath, loc)
		}
	}
}

func TestDashboardEditor_OtherOwnersBoard(t *testing.T) {
	h, repo, _, cookie := setupHandlersWithTemplates(t)
	testutil.SeedBoard(t, repo, "b-other", "mallory")

	if rec := get(h, "/dashboard/boards/b-other", cookie); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestLoginFlow(t *testing.T) {
	h, _, _, cookie := setupHandlersWithTemplates(t)

	rec := get(h, "/dashboard/login", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Login Page") {
		t.Fatalf("expected login page, got %d %q", rec.Code, rec.Body.String())
	}

	// Already logged in
	rec = get(h, "/dashboard/login", cookie)
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/dashboard" {
		t.Errorf("expected redirect to dashboard, got %d %s", rec.Code, rec.Header().Get("Location"))
	}

	post := func(form url.Values) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/dashboard/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		h.Router().ServeHTTP(rec, req)
		return rec
	}

	rec = post(url.Values{"owner": {"alice"}, "password": {"wrong"}})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad password, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid owner or password") {
		t.Error("expected error message on login page")
	}

	rec = post(url.Values{"owner": {"alice"}, "password": {"secret"}})
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CookieName {
			session = c
		}
	}
	if session == nil || session.Value == "" {
		t.Fatal("expected session cookie")
	}
	if owner, ok := h.Auth.Owner(session.Value); !ok || owner != "alice" {
		t.Errorf("expected session for alice, got %q %v", owner, ok)
	}

	req := httptest.NewRequest(http.MethodPost, "/dashboard/logout", nil)
	req.AddCookie(session)
	rec = httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != auth.LoginPath {
		t.Errorf("expected redirect to login, got %d %s", rec.Code, rec.Header().Get("Location"))
	}
	if _, ok := h.Auth.Owner(session.Value); ok {
		t.Error("expected session to be invalidated")
	}
}

func TestHandleMenuPage(t *testing.T) {
	h, repo, _, _ := setupHandlersWithTemplates(t)
	testutil.SeedBoard(t, repo, "b1", "alice")

	req := httptest.NewRequest(http.MethodGet, "/menu/b1", nil)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<h1>Lunch</h1>") {
		t.Errorf("expected English title, got %q", body)
	}
	if strings.Contains(body, "비밀") {
		t.Error("hidden item rendered on public page")
	}
	if !strings.Contains(body, "live") {
		t.Error("expected live updates for stored board")
	}

	// Explicit language wins over the browser
	rec = get(h, "/menu/b1?lang=default", nil)
	if !strings.Contains(rec.Body.String(), "<h1>점심 메뉴</h1>") {
		t.Errorf("expected default title, got %q", rec.Body.String())
	}

	if rec := get(h, "/menu/missing", nil); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown board, got %d", rec.Code)
	}
}

func TestHandleMenuPage_SharedData(t *testing.T) {
	h, _, _, _ := setupHandlersWithTemplates(t)

	// The board only exists in the link
	data, err := menu.EncodeShare(testutil.Board("shared", ""))
	if err != nil {
		t.Fatalf("EncodeShare failed: %v", err)
	}

	rec := get(h, "/menu/shared?lang=en&data="+data, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, "shared") || strings.Contains(body, "live") {
		t.Errorf("expected a static shared page, got %q", body)
	}

	if rec := get(h, "/menu/shared?data=@@@@", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for corrupt share data, got %d", rec.Code)
	}
}

func TestHandlePlatePage(t *testing.T) {
	h, repo, _, _ := setupHandlersWithTemplates(t)
	plates := services.NewPlateService(logger.New(), repo)
	if _, err := plates.Save(context.Background(), "alice", "events/summer", "Summer Party", []byte(`{"blocks":[]}`)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	rec := get(h, "/plates/events/summer", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Summer Party") {
		t.Errorf("expected plate title, got %q", rec.Body.String())
	}

	if rec := get(h, "/plates/events/winter", nil); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestBoardSocket(t *testing.T) {
	h, repo, socket, _ := setupHandlersWithTemplates(t)
	testutil.SeedBoard(t, repo, "b1", "alice")

	if rec := get(h, "/ws/boards/b1", nil); rec.Code != http.StatusAccepted {
		t.Errorf("expected socket handoff, got %d", rec.Code)
	}
	if rec := get(h, "/ws/boards/missing", nil); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown board, got %d", rec.Code)
	}

	socket.mu.Lock()
	defer socket.mu.Unlock()
	if len(socket.boards) != 1 || socket.boards[0] != "b1" {
		t.Errorf("expected one subscription to b1, got %v", socket.boards)
	}
}

func TestBoardSocket_NotRoutedWithoutHub(t *testing.T) {
	env := setupAPI(t)
	testutil.SeedBoard(t, env.repo, "b1", handlers.TestOwner)

	if rec := env.do(t, http.MethodGet, "/ws/boards/b1", nil, false); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 without a hub, got %d", rec.Code)
	}
}
