// Package phone normalizes Colombian phone numbers to E.164 digits.
package phone

import (
	"errors"
	"strings"
)

const countryCode = "57"

var (
	ErrEmpty   = errors.New("phone number is empty")
	ErrInvalid = errors.New("phone number is not a valid Colombian mobile")
)

// FormatNumber strips everything but digits, prefixes the Colombian country
// code when absent and validates the result. Mobile numbers have 10 digits
// and start with 3; with the 57 prefix the result is 12 digits.
func FormatNumber(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return "", ErrEmpty
	}

	switch {
	case len(digits) == 10 && digits[0] == '3':
		digits = countryCode + digits
	case len(digits) == 12 && strings.HasPrefix(digits, countryCode+"3"):
		// already prefixed
	default:
		return "", ErrInvalid
	}

	return digits, nil
}
