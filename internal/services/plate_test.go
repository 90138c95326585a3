package services_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/abrezinsky/plateplay/internal/errors"
	"github.com/abrezinsky/plateplay/internal/logger"
	"github.com/abrezinsky/plateplay/internal/services"
	"github.com/abrezinsky/plateplay/internal/testutil"
)

func TestNormalizePlatePath(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "/", false},
		{"/", "/", false},
		{"about", "/about", false},
		{"/menu/lunch/", "/menu/lunch", false},
		{"  /a_b-c  ", "/a_b-c", false},
		{"/../secret", "", true},
		{"/a//b", "", true},
		{"/with space", "", true},
	}

	for _, tt := range tests {
		got, err := services.NormalizePlatePath(tt.in)
		if tt.wantErr {
			if err != services.ErrInvalidPlatePath {
				t.Errorf("NormalizePlatePath(%q) error = %v, want ErrInvalidPlatePath", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("NormalizePlatePath(%q) = %q, %v, want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestPlateService_SaveAndGet(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	svc := services.NewPlateService(logger.New(), repo)
	svc.SetClock(testutil.FixedClock(testutil.Monday))
	ctx := context.Background()

	data := json.RawMessage(`{"content":[{"type":"Hero"}],"root":{}}`)
	saved, err := svc.Save(ctx, "alice", "about/", " About us ", data)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if saved.Path != "/about" || saved.Title != "About us" {
		t.Errorf("unexpected saved plate %+v", saved)
	}

	got, err := svc.Get(ctx, "/about")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got.Data) != string(data) {
		t.Errorf("expected document to round-trip verbatim, got %s", got.Data)
	}

	// Updating keeps the creation time
	svc.SetClock(testutil.FixedClock(testutil.Monday.Add(time.Hour)))
	updated, err := svc.Save(ctx, "alice", "/about", "About", json.RawMessage(`{"root":{}}`))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !updated.CreatedAt.Equal(testutil.Monday) {
		t.Errorf("expected creation time to be kept, got %v", updated.CreatedAt)
	}

	list, err := svc.List(ctx, "alice")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 1 || list[0].Path != "/about" {
		t.Errorf("unexpected plate list %+v", list)
	}
}

func TestPlateService_Errors(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	svc := services.NewPlateService(logger.New(), repo)
	ctx := context.Background()

	if _, err := svc.Get(ctx, "/nope"); !hasKind(err, errors.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
	if _, err := svc.Save(ctx, "alice", "/x", "", json.RawMessage(`[1,2]`)); err != services.ErrInvalidPlateData {
		t.Errorf("expected ErrInvalidPlateData for array, got %v", err)
	}
	if _, err := svc.Save(ctx, "alice", "/x", "", json.RawMessage(`null`)); err != services.ErrInvalidPlateData {
		t.Errorf("expected ErrInvalidPlateData for null, got %v", err)
	}
	if _, err := svc.Save(ctx, "alice", "/../x", "", json.RawMessage(`{}`)); err != services.ErrInvalidPlatePath {
		t.Errorf("expected ErrInvalidPlatePath, got %v", err)
	}

	if _, err := svc.Save(ctx, "alice", "/home", "", json.RawMessage(`{}`)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := svc.Save(ctx, "bob", "/home", "", json.RawMessage(`{}`)); !hasKind(err, errors.ErrConflict) {
		t.Errorf("expected conflict for another owner's path, got %v", err)
	}
}
