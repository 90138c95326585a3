// Package menu prepares boards for storage and for the public menu page.
package menu

import (
	"fmt"
	"strings"

	"github.com/abrezinsky/plateplay/internal/idgen"
	"github.com/abrezinsky/plateplay/internal/locale"
	"github.com/abrezinsky/plateplay/internal/models"
	"github.com/abrezinsky/plateplay/internal/promo"
	"github.com/abrezinsky/plateplay/internal/theme"
)

// Board defaults
const (
	DefaultTitle    = "메뉴"
	DefaultCurrency = "KRW"
)

// Migrate fills defaults and missing IDs in place. It is safe to run on a
// board that has already been migrated.
func Migrate(b *models.Board) {
	if b.ID == "" {
		b.ID = idgen.Must(idgen.BoardPrefix)
	}
	if b.Title == nil {
		b.Title = locale.NewText(DefaultTitle)
	} else if _, ok := b.Title[locale.Default]; !ok {
		b.Title[locale.Default] = DefaultTitle
	}
	b.Currency = strings.ToUpper(strings.TrimSpace(b.Currency))
	if b.Currency == "" {
		b.Currency = DefaultCurrency
	}
	if _, ok := locale.Parse(string(b.DefaultLang)); !ok {
		b.DefaultLang = locale.Default
	}
	b.Theme = theme.Normalize(b.Theme)
	b.Promotions = promo.Normalize(b.Promotions, idgen.Func(idgen.PromotionPrefix))
	if b.Sections == nil {
		b.Sections = []models.Section{}
	}

	for si := range b.Sections {
		s := &b.Sections[si]
		if s.ID == "" {
			s.ID = idgen.Must(idgen.SectionPrefix)
		}
		if s.Name == nil {
			s.Name = locale.NewText("")
		}
		if s.Items == nil {
			s.Items = []models.Item{}
		}
		for ii := range s.Items {
			migrateItem(&s.Items[ii])
		}
	}
}

func migrateItem(it *models.Item) {
	if it.ID == "" {
		it.ID = idgen.Must(idgen.ItemPrefix)
	}
	if it.Name == nil {
		it.Name = locale.NewText("")
	}
	if !it.Status.Valid() {
		it.Status = models.StatusAvailable
	}
	if it.Price < 0 {
		it.Price = 0
	}
}

// Validate checks a board submitted by an editor
func Validate(b *models.Board) error {
	if !b.Title.Countable() {
		return fmt.Errorf("title is required")
	}
	if _, ok := locale.Parse(string(b.DefaultLang)); !ok && b.DefaultLang != "" {
		return fmt.Errorf("unknown default language %q", b.DefaultLang)
	}
	for _, p := range b.Promotions {
		if err := promo.Validate(p); err != nil {
			return fmt.Errorf("promotion %q: %w", p.Name, err)
		}
	}
	for _, s := range b.Sections {
		for _, it := range s.Items {
			if it.Price < 0 {
				return fmt.Errorf("item %s: price must not be negative", it.ID)
			}
			if it.Status != "" && !it.Status.Valid() {
				return fmt.Errorf("item %s: unknown status %q", it.ID, it.Status)
			}
		}
	}
	return nil
}
