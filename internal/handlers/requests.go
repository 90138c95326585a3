package handlers

import "encoding/json"

// CreateFromTemplateRequest names the template a new board starts from
type CreateFromTemplateRequest struct {
	Template string `json:"template"`
}

// ItemStatusRequest changes one item's availability
type ItemStatusRequest struct {
	Status string `json:"status"`
}

// ReorderRequest is the drag-end event of the editor
type ReorderRequest struct {
	ActiveID string `json:"activeId"`
	OverID   string `json:"overId"`
}

// SeedRequest asks for generated demo boards
type SeedRequest struct {
	Count int `json:"count"`
}

// CreateReviewRequest is a guest's rating of one item
type CreateReviewRequest struct {
	ItemID       string `json:"itemId"`
	Rating       int    `json:"rating"`
	Text         string `json:"text"`
	SessionToken string `json:"sessionToken"`
}

// CheckReviewsRequest asks which items a session already reviewed
type CheckReviewsRequest struct {
	ItemIDs      []string `json:"itemIds"`
	SessionToken string   `json:"sessionToken"`
}

// ColorRequest carries one color for the palette endpoints
type ColorRequest struct {
	Color string `json:"color"`
}

// SavePlateRequest stores a page-builder document
type SavePlateRequest struct {
	Title string          `json:"title"`
	Data  json.RawMessage `json:"data"`
}

// UpdateSettingsRequest updates server settings. Empty fields are unchanged.
type UpdateSettingsRequest struct {
	BaseURL         string `json:"base_url"`
	DefaultCurrency string `json:"default_currency"`
	DefaultLang     string `json:"default_lang"`
}

// ResetTablesRequest names the tables to clear
type ResetTablesRequest struct {
	Tables []string `json:"tables"`
}
