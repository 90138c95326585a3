package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name    string
		err     *Error
		kind    Kind
		message string
	}{
		{"board not found", NotFoundf("board %s not found", "b1"), ErrNotFound, "board b1 not found"},
		{"item not found", NotFound("Menu item not found"), ErrNotFound, "Menu item not found"},
		{"unknown status", Validationf("unknown status %q", "archived"), ErrValidation, `unknown status "archived"`},
		{"blank title", Validation("board title is required"), ErrValidation, "board title is required"},
		{"review exists", Conflict("You have already reviewed this item"), ErrConflict, "You have already reviewed this item"},
		{"plate taken", Conflictf("plate %s belongs to another owner", "/home"), ErrConflict, "plate /home belongs to another owner"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("expected kind %v, got %v", tt.kind, tt.err.Kind)
			}
			if tt.err.Message != tt.message || tt.err.Error() != tt.message {
				t.Errorf("expected message %q, got %q / %q", tt.message, tt.err.Message, tt.err.Error())
			}
			if tt.err.Unwrap() != nil {
				t.Errorf("expected no cause, got %v", tt.err.Unwrap())
			}
		})
	}
}

func TestInternal_KeepsCause(t *testing.T) {
	cause := stderrors.New("database is locked")
	err := Internalf(cause, "loading board %s", "b1")

	if err.Kind != ErrInternal {
		t.Errorf("expected internal kind, got %v", err.Kind)
	}
	if err.Error() != "loading board b1: database is locked" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to reach the cause")
	}
	if Internal(cause, "loading view stats").Message != "loading view stats" {
		t.Error("Internal should keep the context message")
	}
}

func TestWrap_TemplateNotFound(t *testing.T) {
	cause := stderrors.New("open boards/tavern.toml: file does not exist")
	err := Wrap(cause, ErrNotFound, `template "tavern" not found`)

	if !IsKind(err, ErrNotFound) {
		t.Error("expected not-found kind")
	}
	if stderrors.Unwrap(err) != cause {
		t.Error("expected Unwrap to return the cause")
	}
}

func TestIsKind(t *testing.T) {
	conflict := Conflict("You have already reviewed this item")
	wrapped := fmt.Errorf("creating review: %w", conflict)

	if !IsKind(wrapped, ErrConflict) {
		t.Error("expected IsKind to see through fmt wrapping")
	}
	if IsKind(wrapped, ErrValidation) {
		t.Error("conflict is not a validation error")
	}
	if IsKind(stderrors.New("plain"), ErrInternal) {
		t.Error("a plain error carries no kind")
	}
	if IsKind(nil, ErrInternal) {
		t.Error("nil carries no kind")
	}
}

func TestKind_String(t *testing.T) {
	for kind, want := range map[Kind]string{
		ErrInternal:   "internal",
		ErrNotFound:   "not found",
		ErrValidation: "validation",
		ErrConflict:   "conflict",
	} {
		if kind.String() != want {
			t.Errorf("Kind(%d).String() = %q, want %q", kind, kind.String(), want)
		}
	}
}
