package mock

import (
	"context"
	"time"

	"github.com/abrezinsky/plateplay/internal/models"
	"github.com/abrezinsky/plateplay/internal/repository"
)

// Repository wraps a real repository and allows injecting errors for testing.
// This provides a flexible way to test error paths without complex database manipulation.
//
// Usage:
//
//	realRepo := testutil.NewTestRepository(t)
//	mockRepo := mock.NewRepository(realRepo)
//	mockRepo.SaveBoardError = errors.New("database error")
//	svc := services.NewBoardService(log, mockRepo, nil)
//	_, err := svc.Create(ctx, "owner", board)
//	// err will now contain the injected error
type Repository struct {
	repository.FullRepository

	// ===== Board Errors =====
	ListBoardsError     error
	ListBoardIDsError   error
	GetBoardError       error
	SaveBoardError      error
	DeleteBoardError    error
	GetItemBoardIDError error

	// ===== Analytics Errors =====
	RecordBoardViewError error
	RecordItemViewError  error
	GetViewStatsError    error
	GetItemViewsError    error

	// ===== Review Errors =====
	CreateReviewError         error
	ListReviewsError          error
	ReviewedItemsError        error
	DeleteExpiredReviewsError error

	// ===== Plate Errors =====
	GetPlateError   error
	ListPlatesError error
	SavePlateError  error

	// ===== Settings Errors =====
	GetError        error
	SetError        error
	ClearTableError error
}

// NewRepository creates a mock repository wrapping a real one
func NewRepository(real repository.FullRepository) *Repository {
	return &Repository{
		FullRepository: real,
	}
}

// ===== Board Methods =====

func (m *Repository) ListBoards(ctx context.Context, ownerID string) ([]models.BoardSummary, error) {
	if m.ListBoardsError != nil {
		return nil, m.ListBoardsError
	}
	return m.FullRepository.ListBoards(ctx, ownerID)
}

func (m *Repository) ListBoardIDs(ctx context.Context, ownerID string) ([]string, error) {
	if m.ListBoardIDsError != nil {
		return nil, m.ListBoardIDsError
	}
	return m.FullRepository.ListBoardIDs(ctx, ownerID)
}

func (m *Repository) GetBoard(ctx context.Context, id string) (*models.Board, error) {
	if m.GetBoardError != nil {
		return nil, m.GetBoardError
	}
	return m.FullRepository.GetBoard(ctx, id)
}

func (m *Repository) SaveBoard(ctx context.Context, b *models.Board) error {
	if m.SaveBoardError != nil {
		return m.SaveBoardError
	}
	return m.FullRepository.SaveBoard(ctx, b)
}

func (m *Repository) DeleteBoard(ctx context.Context, id string) error {
	if m.DeleteBoardError != nil {
		return m.DeleteBoardError
	}
	return m.FullRepository.DeleteBoard(ctx, id)
}

func (m *Repository) GetItemBoardID(ctx context.Context, itemID string) (string, error) {
	if m.GetItemBoardIDError != nil {
		return "", m.GetItemBoardIDError
	}
	return m.FullRepository.GetItemBoardID(ctx, itemID)
}

// ===== Analytics Methods =====

func (m *Repository) RecordBoardView(ctx context.Context, boardID string, at time.Time) error {
	if m.RecordBoardViewError != nil {
		return m.RecordBoardViewError
	}
	return m.FullRepository.RecordBoardView(ctx, boardID, at)
}

func (m *Repository) RecordItemView(ctx context.Context, boardID, itemID string) error {
	if m.RecordItemViewError != nil {
		return m.RecordItemViewError
	}
	return m.FullRepository.RecordItemView(ctx, boardID, itemID)
}

func (m *Repository) GetViewStats(ctx context.Context, boardID string, recent int) (int, [24]int, []models.ViewRecord, error) {
	if m.GetViewStatsError != nil {
		return 0, [24]int{}, nil, m.GetViewStatsError
	}
	return m.FullRepository.GetViewStats(ctx, boardID, recent)
}

func (m *Repository) GetItemViews(ctx context.Context, boardID string) (map[string]int, error) {
	if m.GetItemViewsError != nil {
		return nil, m.GetItemViewsError
	}
	return m.FullRepository.GetItemViews(ctx, boardID)
}

// ===== Review Methods =====

func (m *Repository) CreateReview(ctx context.Context, boardID string, rev *models.Review) error {
	if m.CreateReviewError != nil {
		return m.CreateReviewError
	}
	return m.FullRepository.CreateReview(ctx, boardID, rev)
}

func (m *Repository) ListReviews(ctx context.Context, itemID string, now time.Time) ([]models.Review, error) {
	if m.ListReviewsError != nil {
		return nil, m.ListReviewsError
	}
	return m.FullRepository.ListReviews(ctx, itemID, now)
}

func (m *Repository) ReviewedItems(ctx context.Context, itemIDs []string, token string, now time.Time) (map[string]bool, error) {
	if m.ReviewedItemsError != nil {
		return nil, m.ReviewedItemsError
	}
	return m.FullRepository.ReviewedItems(ctx, itemIDs, token, now)
}

func (m *Repository) DeleteExpiredReviews(ctx context.Context, now time.Time) (int64, error) {
	if m.DeleteExpiredReviewsError != nil {
		return 0, m.DeleteExpiredReviewsError
	}
	return m.FullRepository.DeleteExpiredReviews(ctx, now)
}

// ===== Plate Methods =====

func (m *Repository) GetPlate(ctx context.Context, path string) (*models.Plate, error) {
	if m.GetPlateError != nil {
		return nil, m.GetPlateError
	}
	return m.FullRepository.GetPlate(ctx, path)
}

func (m *Repository) ListPlates(ctx context.Context, ownerID string) ([]models.Plate, error) {
	if m.ListPlatesError != nil {
		return nil, m.ListPlatesError
	}
	return m.FullRepository.ListPlates(ctx, ownerID)
}

func (m *Repository) SavePlate(ctx context.Context, p *models.Plate) error {
	if m.SavePlateError != nil {
		return m.SavePlateError
	}
	return m.FullRepository.SavePlate(ctx, p)
}

// ===== Settings Methods =====

func (m *Repository) Get(ctx context.Context, key string) (string, error) {
	if m.GetError != nil {
		return "", m.GetError
	}
	return m.FullRepository.Get(ctx, key)
}

func (m *Repository) Set(ctx context.Context, key, value string) error {
	if m.SetError != nil {
		return m.SetError
	}
	return m.FullRepository.Set(ctx, key, value)
}

func (m *Repository) ClearTable(ctx context.Context, table string) error {
	if m.ClearTableError != nil {
		return m.ClearTableError
	}
	return m.FullRepository.ClearTable(ctx, table)
}

var _ repository.FullRepository = (*Repository)(nil)
