package services

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/abrezinsky/plateplay/internal/kv"
	"github.com/abrezinsky/plateplay/internal/locale"
	"github.com/abrezinsky/plateplay/internal/logger"
	"github.com/abrezinsky/plateplay/internal/menu"
	"github.com/abrezinsky/plateplay/internal/repository"
)

// Setting keys
const (
	SettingBaseURL         = "base_url"
	SettingDefaultCurrency = "default_currency"
	SettingDefaultLang     = "default_lang"
)

// SettingsService handles settings-related business logic
type SettingsService struct {
	log  logger.Logger
	repo repository.SettingsRepository
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(log logger.Logger, repo repository.SettingsRepository) *SettingsService {
	return &SettingsService{log: log, repo: repo}
}

// GetSetting retrieves an arbitrary setting
func (s *SettingsService) GetSetting(ctx context.Context, key string) (string, error) {
	return s.repo.Get(ctx, key)
}

// SetSetting saves an arbitrary setting
func (s *SettingsService) SetSetting(ctx context.Context, key, value string) error {
	return s.repo.Set(ctx, key, value)
}

// getOr returns the stored value of key, or def when it was never set
func (s *SettingsService) getOr(ctx context.Context, key, def string) (string, error) {
	value, err := s.repo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return def, nil
		}
		return "", err // Propagate database errors
	}
	return value, nil
}

// GetBaseURL returns the application base URL
func (s *SettingsService) GetBaseURL(ctx context.Context) (string, error) {
	return s.getOr(ctx, SettingBaseURL, "")
}

// SetBaseURL validates and saves the application base URL without a trailing slash
func (s *SettingsService) SetBaseURL(ctx context.Context, raw string) error {
	clean, err := cleanBaseURL(raw)
	if err != nil {
		return err
	}
	return s.repo.Set(ctx, SettingBaseURL, clean)
}

// EnsureBaseURL stores fallback as the base URL unless one is already set,
// and returns the URL in effect.
func (s *SettingsService) EnsureBaseURL(ctx context.Context, fallback string) (string, error) {
	current, err := s.GetBaseURL(ctx)
	if err != nil {
		return "", err
	}
	if current != "" || fallback == "" {
		return current, nil
	}
	if err := s.SetBaseURL(ctx, fallback); err != nil {
		return "", err
	}
	s.log.Info("Base URL initialized", "base_url", fallback)
	return strings.TrimRight(fallback, "/"), nil
}

func cleanBaseURL(raw string) (string, error) {
	raw = strings.TrimRight(strings.TrimSpace(raw), "/")
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", ErrInvalidBaseURL
	}
	return raw, nil
}

// DefaultCurrency returns the currency given to new boards
func (s *SettingsService) DefaultCurrency(ctx context.Context) (string, error) {
	return s.getOr(ctx, SettingDefaultCurrency, menu.DefaultCurrency)
}

// DefaultLang returns the default language given to new boards
func (s *SettingsService) DefaultLang(ctx context.Context) (locale.Lang, error) {
	value, err := s.getOr(ctx, SettingDefaultLang, string(locale.Default))
	if err != nil {
		return "", err
	}
	lang, ok := locale.Parse(value)
	if !ok {
		return locale.Default, nil
	}
	return lang, nil
}

// AllSettings returns commonly used settings as a map
func (s *SettingsService) AllSettings(ctx context.Context) (map[string]interface{}, error) {
	settings := make(map[string]interface{})

	baseURL, err := s.GetBaseURL(ctx)
	if err != nil {
		return nil, err
	}
	settings[SettingBaseURL] = baseURL

	currency, _ := s.DefaultCurrency(ctx)
	settings[SettingDefaultCurrency] = currency

	lang, _ := s.DefaultLang(ctx)
	settings[SettingDefaultLang] = lang

	return settings, nil
}

// Settings represents application settings for update operations
type Settings struct {
	BaseURL         string
	DefaultCurrency string
	DefaultLang     string
}

// UpdateSettings updates multiple settings at once. Empty fields are left unchanged.
func (s *SettingsService) UpdateSettings(ctx context.Context, settings Settings) error {
	if settings.BaseURL != "" {
		if err := s.SetBaseURL(ctx, settings.BaseURL); err != nil {
			return err
		}
	}
	if settings.DefaultCurrency != "" {
		code := strings.ToUpper(strings.TrimSpace(settings.DefaultCurrency))
		if err := s.repo.Set(ctx, SettingDefaultCurrency, code); err != nil {
			return err
		}
	}
	if settings.DefaultLang != "" {
		lang, ok := locale.Parse(settings.DefaultLang)
		if !ok {
			return &ServiceError{Message: "unsupported language: " + settings.DefaultLang}
		}
		if err := s.repo.Set(ctx, SettingDefaultLang, string(lang)); err != nil {
			return err
		}
	}
	return nil
}

// ResetTablesResult contains the result of a database reset
type ResetTablesResult struct {
	Tables  []string
	Message string
}

// ValidTables defines which tables can be reset
var ValidTables = map[string]bool{
	"board_views": true, "item_views": true, "reviews": true,
}

// ResetTables validates and clears analytics or review tables
func (s *SettingsService) ResetTables(ctx context.Context, tables []string) (*ResetTablesResult, error) {
	if len(tables) == 0 {
		return nil, ErrNoTablesSpecified
	}

	var tablesToReset []string
	for _, table := range tables {
		if !ValidTables[table] {
			return nil, &InvalidTableError{Table: table}
		}
		if !containsTable(tablesToReset, table) {
			tablesToReset = append(tablesToReset, table)
		}
	}

	for _, table := range tablesToReset {
		if err := s.repo.ClearTable(ctx, table); err != nil {
			return nil, err
		}
	}
	s.log.Info("Tables reset", "tables", strings.Join(tablesToReset, ","))

	return &ResetTablesResult{
		Tables:  tablesToReset,
		Message: "Successfully deleted data from tables",
	}, nil
}

func containsTable(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
