package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare mobile", "3001234567", "573001234567"},
		{"already prefixed", "573001234567", "573001234567"},
		{"with spaces", "300 123 4567", "573001234567"},
		{"with punctuation", "(300) 123-4567", "573001234567"},
		{"plus prefix", "+57 300 123 4567", "573001234567"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatNumber(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatNumberRejects(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"empty", "", ErrEmpty},
		{"no digits", "abc-def", ErrEmpty},
		{"too short", "300123", ErrInvalid},
		{"landline", "6011234567", ErrInvalid},
		{"wrong country code", "13001234567", ErrInvalid},
		{"twelve digits not 57", "123001234567", ErrInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FormatNumber(tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
