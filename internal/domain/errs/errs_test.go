package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestKind(t *testing.T) {
	dup := fmt.Errorf("%w: bill number already exists", ErrValidation)

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"direct", ErrNotFound, ErrNotFound},
		{"wrapped sentinel", dup, ErrValidation},
		{"double wrapped", fmt.Errorf("save loan: %w", dup), ErrValidation},
		{"storage", fmt.Errorf("%w: github 401", ErrStorage), ErrStorage},
		{"no kind", errors.New("boom"), nil},
		{"nil", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Kind(tt.err); got != tt.want {
				t.Fatalf("Kind = %v, want %v", got, tt.want)
			}
		})
	}
}
