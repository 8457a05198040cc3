// Package core holds the wager tracker's domain types and the parsing
// helpers for user-entered amounts and odds.
//
// Amounts are plain float64 values rather than integer cents: the
// remote ledger stores raw spreadsheet numbers and computes payouts as
// stake*odds on those numbers, so a cents representation would not
// round-trip identically.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseAmount converts a user-entered decimal string to a positive
// amount. It accepts both dot (12.34) and comma (12,34) separators.
// Returns ErrInvalidAmount for empty input, signs, malformed numbers,
// or non-positive values.
//
// Examples:
//
//	ParseAmount("150")    -> 150, nil
//	ParseAmount("12,50")  -> 12.5, nil
//	ParseAmount("-3")     -> 0, ErrInvalidAmount
func ParseAmount(s string) (float64, error) {
	v, err := parseDecimal(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if v <= 0 {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// ParseOdds converts a user-entered decimal string to an odds
// multiplier. Odds are contractually greater than 1.
func ParseOdds(s string) (float64, error) {
	v, err := parseDecimal(s)
	if err != nil {
		return 0, ErrInvalidOdds
	}
	if v <= 1 {
		return 0, ErrInvalidOdds
	}
	return v, nil
}

func parseDecimal(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		// Only unsigned values allowed
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	for _, part := range parts {
		for _, r := range part {
			if !unicode.IsDigit(r) {
				return 0, ErrInvalidAmount
			}
		}
	}
	return strconv.ParseFloat(s, 64)
}
