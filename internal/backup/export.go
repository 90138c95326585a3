// Package backup exports boards as JSONL and ships the export to files or
// S3-compatible storage on a schedule.
package backup

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/abrezinsky/plateplay/internal/models"
)

// FormatVersion is written into every export header
const FormatVersion = "1"

const maxLine = 16 << 20

// Store is the subset of the repository an export reads from
type Store interface {
	ListBoardIDs(ctx context.Context, ownerID string) ([]string, error)
	GetBoard(ctx context.Context, id string) (*models.Board, error)
}

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version    string    `json:"version"`
	Type       string    `json:"type"`
	Timestamp  time.Time `json:"timestamp"`
	BoardCount int       `json:"board_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ExportJSONL writes every board in the store to w, one per line after a
// header line. Boards are sorted by ID.
func ExportJSONL(ctx context.Context, s Store, w io.Writer) error {
	ids, err := s.ListBoardIDs(ctx, "")
	if err != nil {
		return fmt.Errorf("list boards: %w", err)
	}
	sort.Strings(ids)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:    FormatVersion,
		Type:       "header",
		Timestamp:  time.Now().UTC(),
		BoardCount: len(ids),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		b, err := s.GetBoard(ctx, id)
		if err != nil {
			return fmt.Errorf("get board %s: %w", id, err)
		}
		data, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("encode board %s: %w", id, err)
		}
		if err := enc.Encode(record{Type: "board", Data: data}); err != nil {
			return fmt.Errorf("write board %s: %w", id, err)
		}
	}
	return nil
}

// ReadBoards decodes boards from either a JSONL export or a plain JSON array
// as returned by the dashboard's export endpoint.
func ReadBoards(r io.Reader) ([]models.Board, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}
	if first == '[' {
		var boards []models.Board
		if err := json.NewDecoder(br).Decode(&boards); err != nil {
			return nil, fmt.Errorf("decode board array: %w", err)
		}
		return boards, nil
	}
	return readJSONL(br)
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		c, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch c {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return c, br.UnreadByte()
	}
}

func readJSONL(r io.Reader) ([]models.Board, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)

	var boards []models.Board
	sawHeader := false
	line := 0
	for sc.Scan() {
		line++
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}
		if !sawHeader {
			var h header
			if err := json.Unmarshal(raw, &h); err != nil || h.Type != "header" {
				return nil, fmt.Errorf("line %d: missing export header", line)
			}
			if h.Version != FormatVersion {
				return nil, fmt.Errorf("unsupported export version %q", h.Version)
			}
			sawHeader = true
			continue
		}

		var rec record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if rec.Type != "board" {
			continue
		}
		var b models.Board
		if err := json.Unmarshal(rec.Data, &b); err != nil {
			return nil, fmt.Errorf("line %d: decode board: %w", line, err)
		}
		boards = append(boards, b)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return boards, nil
}
