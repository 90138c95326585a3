package services

import (
	"context"
	"encoding/json"

	"github.com/abrezinsky/plateplay/internal/locale"
	"github.com/abrezinsky/plateplay/internal/menu"
	"github.com/abrezinsky/plateplay/internal/models"
	"github.com/abrezinsky/plateplay/internal/templates"
)

// Broadcaster pushes whole-board snapshots to connected viewers
type Broadcaster interface {
	BroadcastBoard(b *models.Board)
}

// BoardServicer defines the interface for board operations
type BoardServicer interface {
	List(ctx context.Context, owner string) ([]models.BoardSummary, error)
	Get(ctx context.Context, owner, id string) (*models.Board, error)
	Create(ctx context.Context, owner string, b *models.Board) (*models.Board, error)
	CreateFromTemplate(ctx context.Context, owner, name string) (*models.Board, error)
	Templates() ([]templates.Info, error)
	Update(ctx context.Context, owner string, b *models.Board) (*models.Board, error)
	Delete(ctx context.Context, owner, id string) error
	SetItemStatus(ctx context.Context, owner, boardID, itemID string, status models.ItemStatus) (*models.Board, error)
	Classify(ctx context.Context, owner, boardID, sectionID string) (*models.Board, error)
	Reorder(ctx context.Context, owner, id, activeID, overID string) (*models.Board, error)
	GetPublic(ctx context.Context, id string) (*models.Board, error)
	Snapshot(ctx context.Context, id string) (*models.Board, error)
	Render(ctx context.Context, b *models.Board, lang locale.Lang, opts menu.Options) *menu.View
	Stats(ctx context.Context, owner, id string) (*models.BoardStats, error)
	Coverage(ctx context.Context, owner, id string) (locale.BoardCoverage, error)
	Export(ctx context.Context, owner string) ([]models.Board, error)
	Import(ctx context.Context, owner string, boards []models.Board) (*ImportResult, error)
	ImportBoard(ctx context.Context, owner string, b *models.Board) (bool, error)
	SeedSample(ctx context.Context, owner string, n int) ([]string, error)
	SetBroadcaster(b Broadcaster)
}

// ReviewServicer defines the interface for anonymous review operations
type ReviewServicer interface {
	NewSession(boardID string) Session
	Create(ctx context.Context, itemID string, rating int, text, token string) (*models.Review, error)
	List(ctx context.Context, itemID string) ([]models.Review, error)
	Stats(ctx context.Context, itemID string) (*models.ReviewStats, error)
	CheckExisting(ctx context.Context, itemIDs []string, token string) (map[string]bool, error)
	Cleanup(ctx context.Context) (int64, error)
}

// PaletteServicer defines the interface for color picker history
type PaletteServicer interface {
	Recent(ctx context.Context, owner string) ([]string, error)
	AddRecent(ctx context.Context, owner, color string) ([]string, error)
	Favorites(ctx context.Context, owner string) ([]string, error)
	ToggleFavorite(ctx context.Context, owner, color string) ([]string, error)
}

// PlateServicer defines the interface for page documents
type PlateServicer interface {
	Get(ctx context.Context, path string) (*models.Plate, error)
	Save(ctx context.Context, owner, path, title string, data json.RawMessage) (*models.Plate, error)
	List(ctx context.Context, owner string) ([]models.Plate, error)
}

// SettingsServicer defines the interface for settings operations
type SettingsServicer interface {
	GetBaseURL(ctx context.Context) (string, error)
	SetBaseURL(ctx context.Context, url string) error
	EnsureBaseURL(ctx context.Context, fallback string) (string, error)
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	DefaultCurrency(ctx context.Context) (string, error)
	DefaultLang(ctx context.Context) (locale.Lang, error)
	AllSettings(ctx context.Context) (map[string]interface{}, error)
	UpdateSettings(ctx context.Context, settings Settings) error
	ResetTables(ctx context.Context, tables []string) (*ResetTablesResult, error)
}

// QRServicer defines the interface for QR code generation
type QRServicer interface {
	BoardURL(ctx context.Context, boardID string) (string, error)
	BoardQR(ctx context.Context, boardID string, size int) ([]byte, error)
}

// Ensure concrete types implement interfaces
var (
	_ BoardServicer    = (*BoardService)(nil)
	_ ReviewServicer   = (*ReviewService)(nil)
	_ PaletteServicer  = (*PaletteService)(nil)
	_ PlateServicer    = (*PlateService)(nil)
	_ SettingsServicer = (*SettingsService)(nil)
	_ QRServicer       = (*QRService)(nil)
)
