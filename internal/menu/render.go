package menu

import (
	"time"

	"github.com/abrezinsky/plateplay/internal/locale"
	"github.com/abrezinsky/plateplay/internal/models"
	"github.com/abrezinsky/plateplay/internal/promo"
	"github.com/abrezinsky/plateplay/internal/theme"
)

// View is a board resolved for one language at one moment
type View struct {
	ID          string        `json:"id"`
	Lang        locale.Lang   `json:"lang"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Currency    string        `json:"currency"`
	Symbol      string        `json:"symbol"`
	Theme       ThemeView     `json:"theme"`
	Promotion   *PromoView    `json:"promotion,omitempty"`
	Languages   []LangOption  `json:"languages"`
	Categories  []string      `json:"categories"`
	Sections    []SectionView `json:"sections"`
}

// ThemeView carries the resolved colors for the page stylesheet
type ThemeView struct {
	Primary      string `json:"primary"`
	PrimaryHover string `json:"primaryHover"`
	OnPrimary    string `json:"onPrimary"`
	Secondary    string `json:"secondary"`
	Accent       string `json:"accent"`
	HeadingFont  string `json:"headingFont"`
	BodyFont     string `json:"bodyFont"`
	Template     string `json:"template"`
}

// PromoView is the promotion in effect when the view was rendered
type PromoView struct {
	Name      string  `json:"name"`
	Percent   float64 `json:"percent"`
	StartHour int     `json:"startHour"`
	EndHour   int     `json:"endHour"`
}

// LangOption is an entry of the language switcher
type LangOption struct {
	Code   locale.Lang `json:"code"`
	Label  string      `json:"label"`
	Active bool        `json:"active"`
}

type SectionView struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Items []ItemView `json:"items"`
}

type ItemView struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description,omitempty"`
	Image          string   `json:"image,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	Category       string   `json:"category"`
	CategoryLabel  string   `json:"categoryLabel"`
	Price          int64    `json:"price"`
	FinalPrice     int64    `json:"finalPrice"`
	PriceText      string   `json:"priceText"`
	FinalPriceText string   `json:"finalPriceText"`
	Discounted     bool     `json:"discounted"`
	SoldOut        bool     `json:"soldOut"`
	Rating         float64  `json:"rating"`
	ReviewCount    int      `json:"reviewCount"`
}

// Options narrows what Render includes
type Options struct {
	// Category keeps only items of this category; empty or "all" keeps everything.
	Category string
}

// Render resolves b for lang. The active promotion is evaluated at now in the
// board's timezone, or now's own zone when the board has none. Hidden items
// and sections left empty by filtering are omitted.
func Render(b *models.Board, lang locale.Lang, now time.Time, opts Options) *View {
	if b == nil {
		return nil
	}
	fallback := b.DefaultLang
	if fallback == "" {
		fallback = locale.Default
	}
	text := func(t locale.Text) string { return locale.GetText(t, lang, fallback) }

	th := theme.Normalize(b.Theme)
	fp, _ := theme.LookupFontPair(th.FontPair)
	v := &View{
		ID:          b.ID,
		Lang:        lang,
		Title:       text(b.Title),
		Description: text(b.Description),
		Currency:    b.Currency,
		Symbol:      CurrencySymbol(b.Currency),
		Theme: ThemeView{
			Primary:      th.Primary,
			PrimaryHover: theme.Shade(th.Primary, -0.15),
			OnPrimary:    theme.TextOn(th.Primary),
			Secondary:    th.Secondary,
			Accent:       th.Accent,
			HeadingFont:  fp.Heading,
			BodyFont:     fp.Body,
			Template:     th.Template,
		},
		Languages:  languages(b, lang),
		Categories: []string{},
		Sections:   []SectionView{},
	}
	if v.Title == "" {
		v.Title = DefaultTitle
	}

	active := promo.Active(b.Promotions, now.In(b.Location(now.Location())))
	if active != nil {
		v.Promotion = &PromoView{Name: active.Name, Percent: active.Percent, StartHour: active.StartHour, EndHour: active.EndHour}
	}

	seen := make(map[string]bool)
	for _, s := range b.Sections {
		sv := SectionView{ID: s.ID, Name: text(s.Name), Items: []ItemView{}}
		for _, it := range s.Items {
			if it.Status == models.StatusHidden {
				continue
			}
			cat := categoryOf(it)
			if !seen[cat] {
				seen[cat] = true
				v.Categories = append(v.Categories, cat)
			}
			if opts.Category != "" && opts.Category != "all" && opts.Category != cat {
				continue
			}
			sv.Items = append(sv.Items, renderItem(it, cat, b.Currency, active, text))
		}
		if len(sv.Items) > 0 {
			v.Sections = append(v.Sections, sv)
		}
	}
	return v
}

func renderItem(it models.Item, cat, currency string, active *promo.Promotion, text func(locale.Text) string) ItemView {
	iv := ItemView{
		ID:            it.ID,
		Name:          text(it.Name),
		Description:   text(it.Description),
		Image:         it.Image,
		Tags:          it.Tags,
		Category:      cat,
		CategoryLabel: CategoryLabel(cat),
		Price:         it.Price,
		FinalPrice:    it.Price,
		SoldOut:       it.Status == models.StatusSoldOut,
	}
	if active != nil {
		iv.FinalPrice = promo.Discounted(it.Price, active.Percent)
	}
	iv.Discounted = iv.FinalPrice != iv.Price
	iv.PriceText = FormatPrice(currency, iv.Price)
	iv.FinalPriceText = FormatPrice(currency, iv.FinalPrice)
	return iv
}

func categoryOf(it models.Item) string {
	if it.Category != "" {
		return it.Category
	}
	return ClassifyItem(it)
}

// languages offers the default plus every tracked language with at least one
// translated field.
func languages(b *models.Board, current locale.Lang) []LangOption {
	opts := []LangOption{{Code: locale.Default, Label: locale.Label(locale.Default), Active: current == locale.Default}}
	cov := locale.ComputeCoverage(b)
	for _, l := range locale.Tracked {
		if cov[l].Filled > 0 {
			opts = append(opts, LangOption{Code: l, Label: locale.Label(l), Active: current == l})
		}
	}
	return opts
}
