// Package numeric pulls numbers out of the free-text amount fields a model
// returns ("₹1,234.56", "250 kWh", "Rs. 7.50/unit"). It is best-effort by
// design: no match means nil, never an error.
package numeric

import (
	"regexp"
	"strconv"
	"strings"
)

// First maximal run of digits with optional grouping commas and at most one
// decimal point. A leading currency symbol or any other prefix is skipped by
// the scan itself.
var numberPattern = regexp.MustCompile(`[0-9][0-9,]*(?:\.[0-9]+)?`)

// Extract returns the first numeric run found in value, with grouping commas
// stripped, or nil when value is empty or holds no parseable number.
func Extract(value string) *float64 {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}

	match := numberPattern.FindString(trimmed)
	if match == "" {
		return nil
	}

	parsed, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil {
		return nil
	}
	return &parsed
}

// ExtractOrZero is Extract with the external-schema default: absent numbers
// become 0, since the downstream record requires a numeric field.
func ExtractOrZero(value string) float64 {
	if v := Extract(value); v != nil {
		return *v
	}
	return 0
}
