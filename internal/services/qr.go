package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/abrezinsky/plateplay/internal/errors"
	"github.com/abrezinsky/plateplay/internal/logger"
	"github.com/abrezinsky/plateplay/internal/models"
	"github.com/abrezinsky/plateplay/internal/repository"
)

// QR image size limits, in pixels
const (
	DefaultQRSize = 256
	MinQRSize     = 64
	MaxQRSize     = 1024
)

// QRBoardRepository defines the repository methods needed by QRService
type QRBoardRepository interface {
	GetBoard(ctx context.Context, id string) (*models.Board, error)
}

// QRService renders QR codes that open a board's public page
type QRService struct {
	log      logger.Logger
	repo     QRBoardRepository
	settings SettingsServicer
}

// NewQRService creates a new QRService
func NewQRService(log logger.Logger, repo QRBoardRepository, settings SettingsServicer) *QRService {
	return &QRService{log: log, repo: repo, settings: settings}
}

// BoardURL returns the public menu URL of a board
func (s *QRService) BoardURL(ctx context.Context, boardID string) (string, error) {
	if _, err := s.repo.GetBoard(ctx, boardID); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return "", errors.NotFoundf("board %s not found", boardID)
		}
		return "", err
	}

	baseURL, err := s.settings.GetBaseURL(ctx)
	if err != nil {
		return "", errors.Internal(err, "reading base_url")
	}
	if baseURL == "" {
		return "", ErrBaseURLNotSet
	}
	return fmt.Sprintf("%s/menu/%s", strings.TrimSuffix(baseURL, "/"), boardID), nil
}

// BoardQR renders a PNG QR code for the board's public URL. A size of zero
// selects DefaultQRSize.
func (s *QRService) BoardQR(ctx context.Context, boardID string, size int) ([]byte, error) {
	if size == 0 {
		size = DefaultQRSize
	}
	if size < MinQRSize || size > MaxQRSize {
		return nil, ErrInvalidQRSize
	}
	menuURL, err := s.BoardURL(ctx, boardID)
	if err != nil {
		return nil, err
	}
	s.log.Debug("Generating board QR code", "board_id", boardID, "size", size)
	return qrcode.Encode(menuURL, qrcode.Medium, size)
}
