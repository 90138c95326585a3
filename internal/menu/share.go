package menu

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abrezinsky/plateplay/internal/models"
)

// EncodeShare packs a board into the ?data= parameter of a share link
func EncodeShare(b *models.Board) (string, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return "", fmt.Errorf("encoding board: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// DecodeShare unpacks a ?data= parameter. Padding is tolerated.
func DecodeShare(s string) (*models.Board, error) {
	data, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
	if err != nil {
		return nil, fmt.Errorf("decoding share data: %w", err)
	}
	var b models.Board
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decoding board: %w", err)
	}
	Migrate(&b)
	return &b, nil
}

// ShareURL returns the public link for a board, optionally embedding its data
func ShareURL(baseURL string, b *models.Board, embed bool) (string, error) {
	u := strings.TrimRight(baseURL, "/") + "/menu/" + b.ID
	if !embed {
		return u, nil
	}
	data, err := EncodeShare(b)
	if err != nil {
		return "", err
	}
	return u + "?data=" + data, nil
}
