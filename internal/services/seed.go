package services

import (
	"context"
	"strings"

	"github.com/jaswdr/faker"

	"github.com/abrezinsky/plateplay/internal/idgen"
	"github.com/abrezinsky/plateplay/internal/locale"
	"github.com/abrezinsky/plateplay/internal/menu"
	"github.com/abrezinsky/plateplay/internal/models"
	"github.com/abrezinsky/plateplay/internal/templates"
)

// MaxSeedBoards caps a single SeedSample call
const MaxSeedBoards = 50

var seedDishes = []string{"Steak", "Pasta", "Salad", "Latte", "Beer", "Wine", "Cake", "Burger", "Soup", "Tea"}

// SeedSample creates n demo boards for owner. Each one starts from the sample
// board and gets a generated name and an extra section of generated dishes.
func (s *BoardService) SeedSample(ctx context.Context, owner string, n int) ([]string, error) {
	if n < 1 || n > MaxSeedBoards {
		return nil, ErrInvalidSeedCount
	}

	fake := faker.New()
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		b, err := templates.Load(templates.Sample)
		if err != nil {
			return ids, err
		}
		name := fake.Company().Name()
		b.Title = locale.Text{locale.Default: name, locale.EN: name}
		b.Description = locale.NewText(fake.Lorem().Sentence(8))
		b.Sections = append(b.Sections, fakeSection(fake))

		if _, err := s.insert(ctx, owner, b); err != nil {
			return ids, err
		}
		ids = append(ids, b.ID)
	}
	s.log.Info("Seeded sample boards", "owner", owner, "count", len(ids))
	return ids, nil
}

func fakeSection(fake faker.Faker) models.Section {
	sec := models.Section{
		ID:   idgen.Must(idgen.SectionPrefix),
		Name: locale.Text{locale.Default: "오늘의 추천", locale.EN: "Chef's picks"},
	}
	count := fake.IntBetween(3, 6)
	for i := 0; i < count; i++ {
		dish := seedDishes[fake.IntBetween(0, len(seedDishes)-1)]
		name := capitalize(fake.Lorem().Word()) + " " + dish
		status := models.StatusAvailable
		if fake.IntBetween(0, 9) == 0 {
			status = models.StatusSoldOut
		}
		sec.Items = append(sec.Items, models.Item{
			ID:          idgen.Must(idgen.ItemPrefix),
			Name:        locale.Text{locale.Default: name, locale.EN: name},
			Description: locale.NewText(fake.Lorem().Sentence(6)),
			Price:       int64(fake.IntBetween(5, 40)) * 1000,
			Category:    menu.Classify(name),
			Status:      status,
		})
	}
	return sec
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
