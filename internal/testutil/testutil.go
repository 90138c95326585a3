package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/abrezinsky/plateplay/internal/locale"
	"github.com/abrezinsky/plateplay/internal/models"
	"github.com/abrezinsky/plateplay/internal/promo"
	"github.com/abrezinsky/plateplay/internal/repository"
)

// NewTestRepository creates a new in-memory repository for testing.
// Each call creates a fresh database with all migrations applied.
func NewTestRepository(t *testing.T) *repository.Repository {
	t.Helper()

	repo, err := repository.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}

	t.Cleanup(func() {
		repo.Close()
	})

	return repo
}

// Monday is 2024-01-01 16:30 UTC, inside the sample happy hour
var Monday = time.Date(2024, 1, 1, 16, 30, 0, 0, time.UTC)

// Board returns a small two-section board owned by owner
func Board(id, owner string) *models.Board {
	return &models.Board{
		ID:          id,
		OwnerID:     owner,
		Title:       locale.Text{locale.Default: "점심 메뉴", locale.EN: "Lunch"},
		Currency:    "KRW",
		DefaultLang: locale.Default,
		Theme:       models.Theme{Primary: "#16a34a", Secondary: "#0ea5e9", Accent: "#f59e0b", FontPair: "inter-playfair", Template: "blank"},
		Promotions:  []promo.Promotion{{ID: id + "-p1", Name: "해피 아워", Percent: 15, StartHour: 15, EndHour: 17, Days: []int{1, 2, 3, 4, 5}}},
		Sections: []models.Section{
			{ID: id + "-s1", Name: locale.Text{locale.Default: "메인", locale.EN: "Mains"}, Items: []models.Item{
				{ID: id + "-i1", Name: locale.Text{locale.Default: "스테이크", locale.EN: "Steak"}, Price: 29000, Category: "steak", Status: models.StatusAvailable},
				{ID: id + "-i2", Name: locale.NewText("파스타"), Price: 16000, Status: models.StatusSoldOut},
				{ID: id + "-i3", Name: locale.NewText("비밀"), Price: 1000, Status: models.StatusHidden},
			}},
			{ID: id + "-s2", Name: locale.NewText("음료"), Items: []models.Item{
				{ID: id + "-i4", Name: locale.NewText("아메리카노"), Price: 4500, Category: "coffee", Status: models.StatusAvailable},
			}},
		},
		CreatedAt: Monday,
		UpdatedAt: Monday,
	}
}

// SeedBoard stores Board(id, owner) in repo
func SeedBoard(t *testing.T, repo repository.BoardRepository, id, owner string) *models.Board {
	t.Helper()
	b := Board(id, owner)
	if err := repo.SaveBoard(context.Background(), b); err != nil {
		t.Fatalf("failed to seed board: %v", err)
	}
	return b
}

// FixedClock returns a clock function frozen at t
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
