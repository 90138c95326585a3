package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/abrezinsky/plateplay/internal/locale"
	"github.com/abrezinsky/plateplay/internal/logger"
	"github.com/abrezinsky/plateplay/internal/models"
	"github.com/abrezinsky/plateplay/internal/repository/mock"
	"github.com/abrezinsky/plateplay/internal/services"
	"github.com/abrezinsky/plateplay/internal/testutil"
)

func TestSettingsService_BaseURL(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	svc := services.NewSettingsService(logger.New(), repo)
	ctx := context.Background()

	url, err := svc.GetBaseURL(ctx)
	if err != nil {
		t.Fatalf("GetBaseURL failed: %v", err)
	}
	if url != "" {
		t.Errorf("expected empty base URL by default, got %q", url)
	}

	if err := svc.SetBaseURL(ctx, " http://10.0.0.5:8080/ "); err != nil {
		t.Fatalf("SetBaseURL failed: %v", err)
	}
	url, _ = svc.GetBaseURL(ctx)
	if url != "http://10.0.0.5:8080" {
		t.Errorf("expected trimmed URL, got %q", url)
	}
}

func TestSettingsService_SetBaseURL_Invalid(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	svc := services.NewSettingsService(logger.New(), repo)

	for _, raw := range []string{"", "localhost:8080", "ftp://example.com", "http://"} {
		if err := svc.SetBaseURL(context.Background(), raw); err != services.ErrInvalidBaseURL {
			t.Errorf("SetBaseURL(%q) = %v, want ErrInvalidBaseURL", raw, err)
		}
	}
}

func TestSettingsService_EnsureBaseURL(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	svc := services.NewSettingsService(logger.New(), repo)
	ctx := context.Background()

	url, err := svc.EnsureBaseURL(ctx, "http://192.168.1.20:8080/")
	if err != nil {
		t.Fatalf("EnsureBaseURL failed: %v", err)
	}
	if url != "http://192.168.1.20:8080" {
		t.Errorf("expected fallback to be stored, got %q", url)
	}

	// An existing value wins over a new fallback
	url, err = svc.EnsureBaseURL(ctx, "http://10.1.1.1")
	if err != nil {
		t.Fatalf("EnsureBaseURL failed: %v", err)
	}
	if url != "http://192.168.1.20:8080" {
		t.Errorf("expected stored URL to be kept, got %q", url)
	}
}

func TestSettingsService_Defaults(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	svc := services.NewSettingsService(logger.New(), repo)
	ctx := context.Background()

	currency, err := svc.DefaultCurrency(ctx)
	if err != nil || currency != "KRW" {
		t.Errorf("DefaultCurrency() = %q, %v", currency, err)
	}
	lang, err := svc.DefaultLang(ctx)
	if err != nil || lang != locale.Default {
		t.Errorf("DefaultLang() = %q, %v", lang, err)
	}

	err = svc.UpdateSettings(ctx, services.Settings{DefaultCurrency: " usd ", DefaultLang: "en"})
	if err != nil {
		t.Fatalf("UpdateSettings failed: %v", err)
	}
	currency, _ = svc.DefaultCurrency(ctx)
	lang, _ = svc.DefaultLang(ctx)
	if currency != "USD" || lang != locale.EN {
		t.Errorf("expected USD/en, got %q/%q", currency, lang)
	}

	all, err := svc.AllSettings(ctx)
	if err != nil {
		t.Fatalf("AllSettings failed: %v", err)
	}
	if all[services.SettingDefaultCurrency] != "USD" {
		t.Errorf("expected default_currency in settings map, got %v", all)
	}
	if _, ok := all[services.SettingBaseURL]; !ok {
		t.Error("expected base_url key in settings map")
	}
}

func TestSettingsService_UpdateSettings_BadLanguage(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	svc := services.NewSettingsService(logger.New(), repo)

	err := svc.UpdateSettings(context.Background(), services.Settings{DefaultLang: "tlh"})
	var svcErr *services.ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected ServiceError, got %v", err)
	}
}

func TestSettingsService_UpdateSettings_BadBaseURL(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	svc := services.NewSettingsService(logger.New(), repo)

	err := svc.UpdateSettings(context.Background(), services.Settings{BaseURL: "not a url"})
	if err != services.ErrInvalidBaseURL {
		t.Errorf("expected ErrInvalidBaseURL, got %v", err)
	}
}

func TestSettingsService_ResetTables(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	svc := services.NewSettingsService(logger.New(), repo)
	ctx := context.Background()

	testutil.SeedBoard(t, repo, "b1", "owner")
	if err := repo.CreateReview(ctx, "b1", &models.Review{ID: "r1", ItemID: "b1-i1", Rating: 5, SessionToken: "t", CreatedAt: testutil.Monday, ExpiresAt: testutil.Monday.AddDate(1, 0, 0)}); err != nil {
		t.Fatalf("CreateReview failed: %v", err)
	}

	result, err := svc.ResetTables(ctx, []string{"reviews", "reviews", "board_views"})
	if err != nil {
		t.Fatalf("ResetTables failed: %v", err)
	}
	if len(result.Tables) != 2 {
		t.Errorf("expected duplicates to be dropped, got %v", result.Tables)
	}

	reviews, _ := repo.ListReviews(ctx, "b1-i1", testutil.Monday)
	if len(reviews) != 0 {
		t.Errorf("expected reviews to be cleared, got %d", len(reviews))
	}
}

func TestSettingsService_ResetTables_Errors(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	svc := services.NewSettingsService(logger.New(), repo)
	ctx := context.Background()

	if _, err := svc.ResetTables(ctx, nil); err != services.ErrNoTablesSpecified {
		t.Errorf("expected ErrNoTablesSpecified, got %v", err)
	}

	_, err := svc.ResetTables(ctx, []string{"boards"})
	var tableErr *services.InvalidTableError
	if !errors.As(err, &tableErr) || tableErr.Table != "boards" {
		t.Errorf("expected InvalidTableError for boards, got %v", err)
	}
}

func TestSettingsService_RepositoryErrors(t *testing.T) {
	mockRepo := mock.NewRepository(testutil.NewTestRepository(t))
	svc := services.NewSettingsService(logger.New(), mockRepo)
	ctx := context.Background()

	mockRepo.GetError = errors.New("database error")
	if _, err := svc.GetBaseURL(ctx); err == nil {
		t.Error("expected GetBaseURL to propagate database error")
	}
	if _, err := svc.AllSettings(ctx); err == nil {
		t.Error("expected AllSettings to propagate database error")
	}
	mockRepo.GetError = nil

	mockRepo.SetError = errors.New("database error")
	if err := svc.SetBaseURL(ctx, "http://example.com"); err == nil {
		t.Error("expected SetBaseURL to propagate database error")
	}
	mockRepo.SetError = nil

	mockRepo.ClearTableError = errors.New("database error")
	if _, err := svc.ResetTables(ctx, []string{"reviews"}); err == nil {
		t.Error("expected ResetTables to propagate database error")
	}
}
