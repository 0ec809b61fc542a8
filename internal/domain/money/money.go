// Package money converts between integer cents and the R$ display format
// used on forms ("R$1.234,56").
package money

import (
	"errors"
	"strconv"
	"strings"
)

// Prefix is the currency symbol shown before amounts.
const Prefix = "R$"

// ErrInvalidAmount is returned when a price cannot be parsed.
var ErrInvalidAmount = errors.New("invalid amount")

// FormatCents renders cents with two fixed decimals, "," as decimal separator
// and "." as thousands separator.
func FormatCents(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	units := strconv.FormatInt(cents/100, 10)
	frac := cents % 100

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(Prefix)
	for i, r := range units {
		if i > 0 && (len(units)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	if frac < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.FormatInt(frac, 10))
	return b.String()
}

// ParseCents parses a user-entered amount into cents. It accepts the display
// format ("R$1.234,56"), plain integers ("150") and dot decimals ("150.5").
// Negative amounts are rejected.
func ParseCents(s string) (int64, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), Prefix))
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, ErrInvalidAmount
	}

	var whole, frac string
	if i := strings.LastIndexByte(s, ','); i >= 0 {
		whole = strings.ReplaceAll(s[:i], ".", "")
		frac = s[i+1:]
	} else if i := strings.LastIndexByte(s, '.'); i >= 0 && len(s)-i-1 <= 2 {
		whole = strings.ReplaceAll(s[:i], ".", "")
		frac = s[i+1:]
	} else {
		whole = strings.ReplaceAll(s, ".", "")
	}

	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 || !digitsOnly(whole) || !digitsOnly(frac) {
		return 0, ErrInvalidAmount
	}
	for len(frac) < 2 {
		frac += "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	cents, _ := strconv.ParseInt(frac, 10, 64)
	return units*100 + cents, nil
}

func digitsOnly(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
