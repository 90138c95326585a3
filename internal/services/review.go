package services

import (
	"context"
	stderrors "errors"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/lucsky/cuid"

	"github.com/abrezinsky/plateplay/internal/errors"
	"github.com/abrezinsky/plateplay/internal/logger"
	"github.com/abrezinsky/plateplay/internal/models"
	"github.com/abrezinsky/plateplay/internal/repository"
)

const (
	// SessionTTL is how long an anonymous session and its reviews live
	SessionTTL = 24 * time.Hour
	// SessionPrefix starts every anonymous session token
	SessionPrefix = "anon_"
	// MaxReviewText is the longest review text accepted, in characters
	MaxReviewText = 1000
)

// ReviewServiceRepository defines the repository methods needed by ReviewService
type ReviewServiceRepository interface {
	repository.ReviewRepository
	repository.AnalyticsRepository
	GetItemBoardID(ctx context.Context, itemID string) (string, error)
}

// Session is an anonymous reviewer identity handed to a menu visitor
type Session struct {
	Token     string    `json:"token"`
	BoardID   string    `json:"menuBoardId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ReviewService handles anonymous item reviews
type ReviewService struct {
	log  logger.Logger
	repo ReviewServiceRepository
	now  func() time.Time
}

// NewReviewService creates a new ReviewService
func NewReviewService(log logger.Logger, repo ReviewServiceRepository) *ReviewService {
	return &ReviewService{log: log, repo: repo, now: time.Now}
}

// SetClock replaces the time source (for testing)
func (s *ReviewService) SetClock(now func() time.Time) {
	s.now = now
}

// NewSession issues a fresh anonymous session for a visitor of boardID
func (s *ReviewService) NewSession(boardID string) Session {
	now := s.now().UTC()
	return Session{
		Token:     SessionPrefix + uuid.NewString(),
		BoardID:   boardID,
		CreatedAt: now,
		ExpiresAt: now.Add(SessionTTL),
	}
}

// Create stores a review of itemID by the session. Each session may review an
// item once; the review expires after SessionTTL.
func (s *ReviewService) Create(ctx context.Context, itemID string, rating int, text, token string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMissingSession
	}
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) > MaxReviewText {
		return nil, errors.Validationf("review text must be at most %d characters", MaxReviewText)
	}

	boardID, err := s.repo.GetItemBoardID(ctx, itemID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFound("Menu item not found")
		}
		return nil, err
	}

	now := s.now().UTC()
	rev := &models.Review{
		ID:           cuid.New(),
		ItemID:       itemID,
		Rating:       rating,
		Text:         text,
		SessionToken: token,
		CreatedAt:    now,
		ExpiresAt:    now.Add(SessionTTL),
	}
	if err := s.repo.CreateReview(ctx, boardID, rev); err != nil {
		if stderrors.Is(err, repository.ErrConflict) {
			return nil, errors.Conflict(ReviewExistsMessage)
		}
		return nil, err
	}

	if err := s.repo.RecordItemView(ctx, boardID, itemID); err != nil {
		s.log.Warn("Failed to record item view", "item_id", itemID, "error", err)
	}
	s.log.Debug("Review created", "item_id", itemID, "rating", rating)

	rev.SessionToken = ""
	return rev, nil
}

// List returns an item's live reviews, newest first
func (s *ReviewService) List(ctx context.Context, itemID string) ([]models.Review, error) {
	return s.repo.ListReviews(ctx, itemID, s.now())
}

// Stats aggregates an item's live reviews
func (s *ReviewService) Stats(ctx context.Context, itemID string) (*models.ReviewStats, error) {
	reviews, err := s.repo.ListReviews(ctx, itemID, s.now())
	if err != nil {
		return nil, err
	}
	return summarizeReviews(reviews), nil
}

// summarizeReviews averages ratings to one decimal and counts each star value
func summarizeReviews(reviews []models.Review) *models.ReviewStats {
	stats := &models.ReviewStats{
		TotalReviews:       len(reviews),
		RatingDistribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}
	if len(reviews) == 0 {
		return stats
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
		if r.Rating >= 1 && r.Rating <= 5 {
			stats.RatingDistribution[r.Rating]++
		}
	}
	stats.AverageRating = math.Round(float64(sum)/float64(len(reviews))*10) / 10
	return stats
}

// CheckExisting reports, for each of itemIDs, whether the session has a
// review of it that has not expired yet
func (s *ReviewService) CheckExisting(ctx context.Context, itemIDs []string, token string) (map[string]bool, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrMissingSession
	}
	return s.repo.ReviewedItems(ctx, itemIDs, token, s.now())
}

// Cleanup deletes expired reviews and returns how many were removed
func (s *ReviewService) Cleanup(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteExpiredReviews(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Info("Expired reviews removed", "count", n)
	}
	return n, nil
}
