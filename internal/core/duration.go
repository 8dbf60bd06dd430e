// Package core provides duration parsing for event input.
//
// This file turns user-entered durations into minutes. Plain numbers are
// minutes; Go duration strings ("1h30m") are also accepted.
package core

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// ParseDurationMinutes converts s to a non-negative number of minutes.
//
// Both dot (12.5) and comma (12,5) decimal separators are accepted. Values
// with a unit suffix are parsed with time.ParseDuration.
//
// Examples:
//
//	ParseDurationMinutes("90")    -> 90, nil
//	ParseDurationMinutes("7,5")   -> 7.5, nil
//	ParseDurationMinutes("1h30m") -> 90, nil
//	ParseDurationMinutes("-1")    -> 0, ErrInvalidDuration
func ParseDurationMinutes(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidDuration
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidDuration
	}
	if strings.IndexFunc(s, unicode.IsLetter) >= 0 {
		d, err := time.ParseDuration(s)
		if err != nil {
			return 0, ErrInvalidDuration
		}
		return d.Minutes(), nil
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.Count(s, ".") > 1 {
		return 0, ErrInvalidDuration
	}
	for _, r := range s {
		if r != '.' && !unicode.IsDigit(r) {
			return 0, ErrInvalidDuration
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidDuration
	}
	return v, nil
}
