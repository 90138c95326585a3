package handlers

import "github.com/abrezinsky/plateplay/internal/models"

// ShareResponse is a board's public link
type ShareResponse struct {
	URL      string `json:"url"`
	Embedded bool   `json:"embedded"`
}

// SeedResponse lists the IDs of generated boards
type SeedResponse struct {
	Created int      `json:"created"`
	IDs     []string `json:"ids"`
}

// ReviewListResponse wraps an item's live reviews
type ReviewListResponse struct {
	Reviews []models.Review `json:"reviews"`
}

// CheckReviewsResponse maps item IDs to whether the session reviewed them
type CheckReviewsResponse struct {
	Reviewed map[string]bool `json:"reviewed"`
}

// PaletteResponse is a list of hex colors
type PaletteResponse struct {
	Colors []string `json:"colors"`
}

// SuggestResponse holds colors that pair with a primary color
type SuggestResponse struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`
	OnPrimary string `json:"onPrimary"`
}

// ResetTablesResponse reports which tables were cleared
type ResetTablesResponse struct {
	Success bool     `json:"success"`
	Tables  []string `json:"tables"`
	Message string   `json:"message"`
}
