package repository

import (
	"context"
	"time"

	"github.com/abrezinsky/plateplay/internal/kv"
	"github.com/abrezinsky/plateplay/internal/models"
)

// BoardRepository defines board data operations
type BoardRepository interface {
	ListBoards(ctx context.Context, ownerID string) ([]models.BoardSummary, error)
	ListBoardIDs(ctx context.Context, ownerID string) ([]string, error)
	GetBoard(ctx context.Context, id string) (*models.Board, error)
	SaveBoard(ctx context.Context, b *models.Board) error
	DeleteBoard(ctx context.Context, id string) error
	GetItemBoardID(ctx context.Context, itemID string) (string, error)
}

// AnalyticsRepository defines view tracking operations
type AnalyticsRepository interface {
	RecordBoardView(ctx context.Context, boardID string, at time.Time) error
	RecordItemView(ctx context.Context, boardID, itemID string) error
	GetViewStats(ctx context.Context, boardID string, recent int) (int, [24]int, []models.ViewRecord, error)
	GetItemViews(ctx context.Context, boardID string) (map[string]int, error)
}

// ReviewRepository defines review data operations
type ReviewRepository interface {
	CreateReview(ctx context.Context, boardID string, rev *models.Review) error
	ListReviews(ctx context.Context, itemID string, now time.Time) ([]models.Review, error)
	ReviewedItems(ctx context.Context, itemIDs []string, token string, now time.Time) (map[string]bool, error)
	DeleteExpiredReviews(ctx context.Context, now time.Time) (int64, error)
}

// PlateRepository defines page document operations
type PlateRepository interface {
	GetPlate(ctx context.Context, path string) (*models.Plate, error)
	ListPlates(ctx context.Context, ownerID string) ([]models.Plate, error)
	SavePlate(ctx context.Context, p *models.Plate) error
}

// SettingsRepository defines settings data operations
type SettingsRepository interface {
	kv.Store
	ClearTable(ctx context.Context, table string) error
}

// FullRepository combines all repository interfaces
// Use this when a service needs access to multiple domains
type FullRepository interface {
	BoardRepository
	AnalyticsRepository
	ReviewRepository
	PlateRepository
	SettingsRepository
}

// Ensure Repository implements all interfaces
var _ FullRepository = (*Repository)(nil)
