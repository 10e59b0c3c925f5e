package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// InvalidMonth is the sentinel month name for unparseable month values.
const InvalidMonth = "Invalid Month"

var invisibleReplacer = strings.NewReplacer("\u200B", "", "\uFEFF", "")

// NormalizeKey canonicalizes a free-text identifying field so that join keys
// are comparable across files authored independently: convert to text, strip
// zero-width-space and BOM characters, trim whitespace, upper-case.
// Invisible characters are stripped before trimming so the result is stable
// under repeated normalization.
func NormalizeKey(value any) string {
	s := fmt.Sprint(value)
	s = invisibleReplacer.Replace(s)
	s = strings.TrimSpace(s)
	return strings.ToUpper(s)
}

// MonthName converts a raw month value to its calendar month name.
// Non-integer or out-of-range values yield InvalidMonth rather than an error.
func MonthName(raw any) string {
	s := strings.TrimSpace(fmt.Sprint(raw))
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 12 {
		return InvalidMonth
	}
	return time.Month(n).String()
}

// CoerceDecimal converts a raw cell value to a decimal, defaulting to zero
// on empty or non-numeric input.
func CoerceDecimal(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
