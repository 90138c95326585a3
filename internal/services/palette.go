package services

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/abrezinsky/plateplay/internal/kv"
	"github.com/abrezinsky/plateplay/internal/logger"
	"github.com/abrezinsky/plateplay/pkg/colorconv"
)

// MaxRecentColors is the length of the recent colors list
const MaxRecentColors = 10

const (
	recentColorsKey   = "plate-play-recent-colors"
	favoriteColorsKey = "plate-play-favorite-colors"
)

// PaletteService keeps each owner's recently used and favorite colors
type PaletteService struct {
	log   logger.Logger
	store kv.Store
}

// NewPaletteService creates a new PaletteService
func NewPaletteService(log logger.Logger, store kv.Store) *PaletteService {
	return &PaletteService{log: log, store: store}
}

// Recent returns the owner's recent colors, most recent first
func (s *PaletteService) Recent(ctx context.Context, owner string) ([]string, error) {
	return s.load(ctx, paletteKey(recentColorsKey, owner))
}

// AddRecent moves color to the front of the recent list, dropping duplicates
// and keeping at most MaxRecentColors entries.
func (s *PaletteService) AddRecent(ctx context.Context, owner, color string) ([]string, error) {
	c, err := normalizeColor(color)
	if err != nil {
		return nil, err
	}
	key := paletteKey(recentColorsKey, owner)
	recent, err := s.load(ctx, key)
	if err != nil {
		return nil, err
	}

	next := []string{c}
	for _, r := range recent {
		if r != c && len(next) < MaxRecentColors {
			next = append(next, r)
		}
	}
	return next, s.save(ctx, key, next)
}

// Favorites returns the owner's favorite colors in the order they were added
func (s *PaletteService) Favorites(ctx context.Context, owner string) ([]string, error) {
	return s.load(ctx, paletteKey(favoriteColorsKey, owner))
}

// ToggleFavorite adds color to the favorites, or removes it when present
func (s *PaletteService) ToggleFavorite(ctx context.Context, owner, color string) ([]string, error) {
	c, err := normalizeColor(color)
	if err != nil {
		return nil, err
	}
	key := paletteKey(favoriteColorsKey, owner)
	favs, err := s.load(ctx, key)
	if err != nil {
		return nil, err
	}

	next := make([]string, 0, len(favs)+1)
	removed := false
	for _, f := range favs {
		if f == c {
			removed = true
			continue
		}
		next = append(next, f)
	}
	if !removed {
		next = append(next, c)
	}
	return next, s.save(ctx, key, next)
}

func normalizeColor(color string) (string, error) {
	if !colorconv.IsValidHexLoose(color) {
		return "", ErrInvalidColor
	}
	return colorconv.NormalizeHex(color), nil
}

func paletteKey(prefix, owner string) string {
	return prefix + ":" + owner
}

// load reads a stored list. Missing or unreadable lists are empty.
func (s *PaletteService) load(ctx context.Context, key string) ([]string, error) {
	raw, err := s.store.Get(ctx, key)
	if err != nil {
		if stderrors.Is(err, kv.ErrNotFound) {
			return []string{}, nil
		}
		return nil, err
	}
	var colors []string
	if err := json.Unmarshal([]byte(raw), &colors); err != nil {
		s.log.Warn("Discarding unreadable color list", "key", key, "error", err)
		return []string{}, nil
	}
	if colors == nil {
		colors = []string{}
	}
	return colors, nil
}

func (s *PaletteService) save(ctx context.Context, key string, colors []string) error {
	data, _ := json.Marshal(colors) // Marshal on []string never fails
	return s.store.Set(ctx, key, string(data))
}
