// Package core holds the domain records and the pure profit/loss
// calculation. Nothing here performs I/O.
package core

import (
	"math"
	"strconv"
	"strings"
)

// Round2 rounds a monetary amount to 2 decimal places, half away
// from zero. Applied once per value, at the point of persistence.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ParseAmount converts user input to a non-negative amount. It
// accepts both dot (12.34) and comma (12,34) decimal separators.
// Negative, signed or non-numeric input is rejected; this is the
// validation boundary in front of the calculator.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, ErrInvalidAmount
	}
	return v, nil
}
