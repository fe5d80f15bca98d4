package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorsIs(t *testing.T) {
	driverErr := errors.New("disk I/O error")

	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("user", "alice"),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("order_id", "order id is malformed"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "Conflict wraps ErrConflict",
			err:       Conflict("sport", "soccer"),
			target:    ErrConflict,
			wantMatch: true,
		},
		{
			name:      "Storage wraps ErrStorage",
			err:       Storage("inserting order", driverErr),
			target:    ErrStorage,
			wantMatch: true,
		},
		{
			name:      "Storage keeps the driver cause",
			err:       Storage("inserting order", driverErr),
			target:    driverErr,
			wantMatch: true,
		},
		{
			name:      "wrapped NotFound still matches",
			err:       fmt.Errorf("outer: %w", NotFound("user", "alice")),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "NotFound does NOT match ErrStorage",
			err:       NotFound("order", "order-1"),
			target:    ErrStorage,
			wantMatch: false,
		},
		{
			name:      "Conflict does NOT match ErrNotFound",
			err:       Conflict("user", "alice"),
			target:    ErrNotFound,
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
			err:         NotFound("sport", "soccer"),
			wantMessage: "sport not found with id soccer",
		},
		{
			name:        "ValidationFailed uses custom message",
			err:         ValidationFailed("nickname", "nickname is required"),
			wantMessage: "nickname is required",
		},
		{
			name:        "Conflict message includes resource and id",
			err:         Conflict("user", "alice"),
			wantMessage: "user conflict with id alice",
		},
		{
			name:        "Storage message appends the cause",
			err:         Storage("deleting sport", errors.New("database is locked")),
			wantMessage: "storage: deleting sport: database is locked",
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
	err := NotFound("order", "order-7")
	unwrapped := err.Unwrap()

	if len(unwrapped) != 1 || unwrapped[0] != ErrNotFound {
		t.Errorf("Unwrap() = %v, want [%v]", unwrapped, ErrNotFound)
	}
}

func TestValidationFailedField(t *testing.T) {
	err := ValidationFailed("order_id", "order id is malformed")

	if err.Field != "order_id" {
		t.Errorf("Field = %q, want %q", err.Field, "order_id")
	}
}
