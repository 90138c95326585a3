package handlers

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/abrezinsky/plateplay/internal/auth"
	"github.com/abrezinsky/plateplay/internal/services"
)

// NewStaticServer creates a static file server from an fs.FS
func NewStaticServer(staticFS fs.FS) http.Handler {
	return http.FileServer(http.FS(staticFS))
}

// DashboardPageData holds the data passed to dashboard templates
type DashboardPageData struct {
	Title     string
	PageTitle string
	ActiveNav string
	Owner     string
	BoardID   string
}

// Templates holds all parsed HTML templates
type Templates struct {
	Index             *template.Template
	Menu              *template.Template
	Plate             *template.Template
	Login             *template.Template
	DashboardBoards   *template.Template
	DashboardEditor   *template.Template
	DashboardStats    *template.Template
	DashboardSettings *template.Template
}

// BoardSocket subscribes a websocket client to one board's updates
type BoardSocket interface {
	ServeWs(w http.ResponseWriter, r *http.Request, boardID string)
}

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Boards       services.BoardServicer
	Reviews      services.ReviewServicer
	Palette      services.PaletteServicer
	Plates       services.PlateServicer
	Settings     services.SettingsServicer
	QR           services.QRServicer
	Auth         *auth.Auth
	Hub          BoardSocket
	Log          HTTPLogger
	templates    *Templates
	staticServer http.Handler
}

// HTTPLogger is the logging the handlers need: server errors and the HTTP
// request logging toggle
type HTTPLogger interface {
	Error(msg string, args ...any)
	IsHTTPLoggingEnabled() bool
}

// New creates a new Handlers instance with all dependencies
func New(
	boards services.BoardServicer,
	reviews services.ReviewServicer,
	palette services.PaletteServicer,
	plates services.PlateServicer,
	settings services.SettingsServicer,
	qr services.QRServicer,
	templatesFS fs.FS,
	staticServer http.Handler,
	ownerAuth *auth.Auth,
	hub BoardSocket,
	log HTTPLogger,
) (*Handlers, error) {
	templates, err := loadTemplates(templatesFS)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	return &Handlers{
		Boards:       boards,
		Reviews:      reviews,
		Palette:      palette,
		Plates:       plates,
		Settings:     settings,
		QR:           qr,
		Auth:         ownerAuth,
		Hub:          hub,
		Log:          log,
		templates:    templates,
		staticServer: staticServer,
	}, nil
}

// NoopHTTPLogger is a test logger that drops errors and never logs requests
type NoopHTTPLogger struct{}

func (NoopHTTPLogger) Error(msg string, args ...any) {}

func (NoopHTTPLogger) IsHTTPLoggingEnabled() bool { return false }

// TestOwner and TestPassword are the account NewForTesting logs in with
const (
	TestOwner    = "owner"
	TestPassword = "test-password"
)

// NewForTesting creates a Handlers instance without loading templates (for testing API endpoints)
func NewForTesting(
	boards services.BoardServicer,
	reviews services.ReviewServicer,
	palette services.PaletteServicer,
	plates services.PlateServicer,
	settings services.SettingsServicer,
	qr services.QRServicer,
) *Handlers {
	return &Handlers{
		Boards:   boards,
		Reviews:  reviews,
		Palette:  palette,
		Plates:   plates,
		Settings: settings,
		QR:       qr,
		Auth:     auth.New(map[string]string{TestOwner: TestPassword}),
		Log:      NoopHTTPLogger{},
	}
}

// loadTemplates parses all templates once at startup
func loadTemplates(templatesFS fs.FS) (*Templates, error) {
	t := &Templates{}
	var err error

	if t.Index, err = template.ParseFS(templatesFS, "index.html"); err != nil {
		return nil, fmt.Errorf("index template: %w", err)
	}
	if t.Menu, err = template.ParseFS(templatesFS, "public/menu.html"); err != nil {
		return nil, fmt.Errorf("menu template: %w", err)
	}
	if t.Plate, err = template.ParseFS(templatesFS, "public/plate.html"); err != nil {
		return nil, fmt.Errorf("plate template: %w", err)
	}
	if t.Login, err = template.ParseFS(templatesFS, "dashboard/login.html"); err != nil {
		return nil, fmt.Errorf("login template: %w", err)
	}
	if t.DashboardBoards, err = template.ParseFS(templatesFS, "dashboard/layout.html", "dashboard/boards.html"); err != nil {
		return nil, fmt.Errorf("dashboard boards template: %w", err)
	}
	if t.DashboardEditor, err = template.ParseFS(templatesFS, "dashboard/layout.html", "dashboard/editor.html"); err != nil {
		return nil, fmt.Errorf("dashboard editor template: %w", err)
	}
	if t.DashboardStats, err = template.ParseFS(templatesFS, "dashboard/layout.html", "dashboard/stats.html"); err != nil {
		return nil, fmt.Errorf("dashboard stats template: %w", err)
	}
	if t.DashboardSettings, err = template.ParseFS(templatesFS, "dashboard/layout.html", "dashboard/settings.html"); err != nil {
		return nil, fmt.Errorf("dashboard settings template: %w", err)
	}

	return t, nil
}
