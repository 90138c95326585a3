package models

import (
	"encoding/json"
	"time"

	"github.com/abrezinsky/plateplay/internal/locale"
	"github.com/abrezinsky/plateplay/internal/promo"
)

// ItemStatus controls how an item shows on the public board
type ItemStatus string

const (
	StatusAvailable ItemStatus = "available"
	StatusSoldOut   ItemStatus = "soldout"
	StatusHidden    ItemStatus = "hidden"
)

// Valid reports whether s is one of the known statuses
func (s ItemStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusSoldOut, StatusHidden:
		return true
	}
	return false
}

// Theme holds a board's colors and typography
type Theme struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`
	FontPair  string `json:"fontPair"`
	Template  string `json:"template"`
}

// Item is a single menu entry. Price is in whole currency units.
type Item struct {
	ID          string      `json:"id"`
	Name        locale.Text `json:"name"`
	Description locale.Text `json:"description,omitempty"`
	Price       int64       `json:"price"`
	Image       string      `json:"image,omitempty"`
	Tags        []string    `json:"tags,omitempty"`
	Category    string      `json:"category,omitempty"`
	Status      ItemStatus  `json:"status"`
}

// Section groups items under a heading
type Section struct {
	ID    string      `json:"id"`
	Name  locale.Text `json:"name"`
	Items []Item      `json:"items"`
}

// Board is a complete menu board owned by one account
type Board struct {
	ID          string            `json:"id"`
	OwnerID     string            `json:"ownerId,omitempty"`
	Title       locale.Text       `json:"title"`
	Description locale.Text       `json:"description,omitempty"`
	Currency    string            `json:"currency"`
	DefaultLang locale.Lang       `json:"defaultLang"`
	Timezone    string            `json:"timezone,omitempty"`
	Theme       Theme             `json:"theme"`
	Promotions  []promo.Promotion `json:"promotions"`
	Sections    []Section         `json:"sections"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// LocalizedFields lists title, description, then every section name followed
// by its items' names and descriptions. Absent descriptions are skipped.
func (b *Board) LocalizedFields() []locale.Text {
	fields := []locale.Text{b.Title}
	if b.Description != nil {
		fields = append(fields, b.Description)
	}
	for _, s := range b.Sections {
		fields = append(fields, s.Name)
		for _, it := range s.Items {
			fields = append(fields, it.Name)
			if it.Description != nil {
				fields = append(fields, it.Description)
			}
		}
	}
	return fields
}

// FindItem returns the item with the given ID and the index of its section
func (b *Board) FindItem(id string) (*Item, int) {
	for si := range b.Sections {
		for ii := range b.Sections[si].Items {
			if b.Sections[si].Items[ii].ID == id {
				return &b.Sections[si].Items[ii], si
			}
		}
	}
	return nil, -1
}

// SectionIndex returns the index of the section with the given ID, or -1
func (b *Board) SectionIndex(id string) int {
	for i := range b.Sections {
		if b.Sections[i].ID == id {
			return i
		}
	}
	return -1
}

// ItemCount returns the number of items across all sections
func (b *Board) ItemCount() int {
	n := 0
	for _, s := range b.Sections {
		n += len(s.Items)
	}
	return n
}

// Location resolves the board's timezone, falling back to fallback when the
// board has none or it does not parse.
func (b *Board) Location(fallback *time.Location) *time.Location {
	if b.Timezone == "" {
		return fallback
	}
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return fallback
	}
	return loc
}

// BoardSummary is the list view of a board
type BoardSummary struct {
	ID        string      `json:"id"`
	Title     locale.Text `json:"title"`
	Currency  string      `json:"currency"`
	Sections  int         `json:"sections"`
	Items     int         `json:"items"`
	Views     int         `json:"views"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// ViewRecord is a single public page view
type ViewRecord struct {
	ViewedAt time.Time `json:"viewedAt"`
	Hour     int       `json:"hour"`
}

// BoardStats summarises a board's content and traffic
type BoardStats struct {
	TotalViews      int            `json:"totalViews"`
	TotalSections   int            `json:"totalSections"`
	TotalItems      int            `json:"totalItems"`
	SoldOutItems    int            `json:"soldOutItems"`
	AvailableItems  int            `json:"availableItems"`
	CategoriesCount int            `json:"categoriesCount"`
	HourlyViews     [24]int        `json:"hourlyViews"`
	RecentViews     []ViewRecord   `json:"recentViews"`
	ItemViews       map[string]int `json:"itemViews"`
}

// Review is an anonymous rating of one item
type Review struct {
	ID           string    `json:"id"`
	ItemID       string    `json:"menuItemId"`
	Rating       int       `json:"rating"`
	Text         string    `json:"text,omitempty"`
	SessionToken string    `json:"sessionToken,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// ReviewStats aggregates the live reviews of one item
type ReviewStats struct {
	AverageRating      float64     `json:"averageRating"`
	TotalReviews       int         `json:"totalReviews"`
	RatingDistribution map[int]int `json:"ratingDistribution"`
}

// Plate is an opaque page-builder document addressed by path
type Plate struct {
	Path      string          `json:"path"`
	OwnerID   string          `json:"ownerId,omitempty"`
	Title     string          `json:"title"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
