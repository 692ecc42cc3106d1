package extract

import (
	"math"
	"strconv"
	"strings"
)

// AmountPlaceholder marks an amount that was not recorded.
const AmountPlaceholder = "-"

// cleanAmount removes thousands separators and the currency symbol.
func cleanAmount(raw string) string {
	s := strings.ReplaceAll(raw, ",", "")
	s = strings.ReplaceAll(s, "$", "")
	return strings.TrimSpace(s)
}

// parseAmount parses a cleaned amount. Empty strings, the placeholder and
// non-finite numbers are rejected.
func parseAmount(cleaned string) (float64, bool) {
	if cleaned == "" || cleaned == AmountPlaceholder {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// isDigits reports whether s is a non-empty string of ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
