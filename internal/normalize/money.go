package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseCents converts a dollar amount string to int64 cents.
// Uses math.Round to avoid truncation bias on values like "19.995".
// An empty string is an error; callers decide the default.
func ParseCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return int64(math.Round(v * 100)), nil
}

// FormatCents renders int64 cents as a dollar string with two decimals.
func FormatCents(c int64) string {
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}
