package services

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"regexp"
	"strings"
	"time"

	"github.com/abrezinsky/plateplay/internal/errors"
	"github.com/abrezinsky/plateplay/internal/logger"
	"github.com/abrezinsky/plateplay/internal/models"
	"github.com/abrezinsky/plateplay/internal/repository"
)

// MaxPlatePath is the longest accepted plate path
const MaxPlatePath = 200

var plateSegment = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// PlateService stores page-builder documents. The document body is kept
// verbatim; only its outer shape is checked.
type PlateService struct {
	log  logger.Logger
	repo repository.PlateRepository
	now  func() time.Time
}

// NewPlateService creates a new PlateService
func NewPlateService(log logger.Logger, repo repository.PlateRepository) *PlateService {
	return &PlateService{log: log, repo: repo, now: time.Now}
}

// SetClock replaces the time source (for testing)
func (s *PlateService) SetClock(now func() time.Time) {
	s.now = now
}

// NormalizePlatePath returns path with exactly one leading slash and no
// trailing slash. The root path is "/".
func NormalizePlatePath(path string) (string, error) {
	trimmed := strings.Trim(strings.TrimSpace(path), "/")
	if trimmed == "" {
		return "/", nil
	}
	if len(trimmed) > MaxPlatePath {
		return "", ErrInvalidPlatePath
	}
	for _, seg := range strings.Split(trimmed, "/") {
		if !plateSegment.MatchString(seg) {
			return "", ErrInvalidPlatePath
		}
	}
	return "/" + trimmed, nil
}

// Get returns the document stored at path
func (s *PlateService) Get(ctx context.Context, path string) (*models.Plate, error) {
	p, err := NormalizePlatePath(path)
	if err != nil {
		return nil, err
	}
	plate, err := s.repo.GetPlate(ctx, p)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFoundf("plate %s not found", p)
		}
		return nil, err
	}
	return plate, nil
}

// Save creates or replaces the document at path. A path already owned by
// another owner is a conflict.
func (s *PlateService) Save(ctx context.Context, owner, path, title string, data json.RawMessage) (*models.Plate, error) {
	p, err := NormalizePlatePath(path)
	if err != nil {
		return nil, err
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil || obj == nil {
		return nil, ErrInvalidPlateData
	}

	now := s.now().UTC()
	plate := &models.Plate{
		Path:      p,
		OwnerID:   owner,
		Title:     strings.TrimSpace(title),
		Data:      data,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.SavePlate(ctx, plate); err != nil {
		if stderrors.Is(err, repository.ErrConflict) {
			return nil, errors.Conflictf("plate %s belongs to another owner", p)
		}
		return nil, err
	}
	s.log.Info("Plate saved", "path", p, "owner", owner)

	return s.Get(ctx, p)
}

// List returns the owner's plates without their documents
func (s *PlateService) List(ctx context.Context, owner string) ([]models.Plate, error) {
	return s.repo.ListPlates(ctx, owner)
}
