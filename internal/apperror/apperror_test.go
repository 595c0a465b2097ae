package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("snippet", "abc123"),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("title", "Title is required"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "Validation wraps ErrValidation",
			err:       Validation(FieldError{Field: "code", Message: "Code content is required"}),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "Conflict wraps ErrConflict",
			err:       Conflict("user", "a@b.c"),
			target:    ErrConflict,
			wantMatch: true,
		},
		{
			name:      "AlreadyExists wraps ErrConflict",
			err:       AlreadyExists("user", "email", "a@b.c"),
			target:    ErrConflict,
			wantMatch: true,
		},
		{
			name:      "Forbidden wraps ErrForbidden",
			err:       Forbidden("Access denied: Private snippet"),
			target:    ErrForbidden,
			wantMatch: true,
		},
		{
			name:      "Unauthenticated wraps ErrUnauthenticated",
			err:       Unauthenticated("No token, authorization denied"),
			target:    ErrUnauthenticated,
			wantMatch: true,
		},
		{
			name:      "InvalidToken wraps ErrInvalidToken",
			err:       InvalidToken("Token is not valid"),
			target:    ErrInvalidToken,
			wantMatch: true,
		},
		{
			name:      "InvalidToken does NOT match ErrUnauthenticated",
			err:       InvalidToken("Token is not valid"),
			target:    ErrUnauthenticated,
			wantMatch: false,
		},
		{
			name:      "wrapped NotFound still matches",
			err:       fmt.Errorf("fetching snippet: %w", NotFound("snippet", "x")),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "NotFound does NOT match ErrValidation",
			err:       NotFound("snippet", "abc123"),
			target:    ErrValidation,
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.target)
			if got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         *AppError
		wantMessage string
	}{
		{
			name:        "NotFound message includes resource and id",
			err:         NotFound("snippet", "abc123"),
			wantMessage: "snippet not found with id abc123",
		},
		{
			name:        "ValidationFailed uses custom message",
			err:         ValidationFailed("title", "Title is required"),
			wantMessage: "Title is required",
		},
		{
			name: "Validation joins every message",
			err: Validation(
				FieldError{Field: "title", Message: "Title is required"},
				FieldError{Field: "code", Message: "Code content is required"},
			),
			wantMessage: "Title is required; Code content is required",
		},
		{
			name:        "AlreadyExists names the attribute",
			err:         AlreadyExists("user", "email", "a@b.c"),
			wantMessage: "user with email a@b.c already exists",
		},
		{
			name:        "InvalidCredentials has a fixed message",
			err:         InvalidCredentials(),
			wantMessage: "Invalid credentials",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMessage {
				t.Errorf("Error() = %q, want %q", got, tt.wantMessage)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	err := NotFound("snippet", "abc123")
	if unwrapped := err.Unwrap(); unwrapped != ErrNotFound {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, ErrNotFound)
	}
}

func TestValidationFailedField(t *testing.T) {
	err := ValidationFailed("email", "invalid email format")

	if err.Field != "email" {
		t.Errorf("Field = %q, want %q", err.Field, "email")
	}
	if len(err.Fields) != 1 || err.Fields[0].Field != "email" {
		t.Errorf("Fields = %+v, want a single email entry", err.Fields)
	}
}

func TestValidationKeepsEveryField(t *testing.T) {
	err := Validation(
		FieldError{Field: "title", Message: "Title is required"},
		FieldError{Field: "code", Message: "Code content is required"},
		FieldError{Field: "language", Message: "Language is required"},
	)

	if len(err.Fields) != 3 {
		t.Fatalf("len(Fields) = %d, want 3", len(err.Fields))
	}
	if err.Field != "" {
		t.Errorf("Field = %q, want empty for multi-field errors", err.Field)
	}
	want := []string{"title", "code", "language"}
	for i, f := range err.Fields {
		if f.Field != want[i] {
			t.Errorf("Fields[%d].Field = %q, want %q", i, f.Field, want[i])
		}
	}
}
