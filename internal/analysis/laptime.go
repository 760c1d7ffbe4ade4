// Package analysis derives race-engineering analytics from accumulated
// live-timing state: per-driver lap records, traffic classification, pace
// trends, pit and position events, and undercut/rejoin projections.
package analysis

import (
	"math"
	"strconv"
	"strings"
)

// ParseLapTime parses the feed's lap-time format, "M:SS.mmm" or "SS.mmm",
// into milliseconds. Any other shape returns ok=false; lap times are never
// coerced to zero.
func ParseLapTime(s string) (float64, bool) {
	minutes := 0.0
	if head, rest, found := strings.Cut(s, ":"); found {
		if !isDigits(head) {
			return 0, false
		}
		m, err := strconv.Atoi(head)
		if err != nil {
			return 0, false
		}
		minutes = float64(m)
		s = rest
	}
	sec, frac, found := strings.Cut(s, ".")
	if !found || !isDigits(sec) || len(sec) < 1 || len(sec) > 2 || len(frac) != 3 || !isDigits(frac) {
		return 0, false
	}
	seconds, err := strconv.ParseFloat(sec+"."+frac, 64)
	if err != nil {
		return 0, false
	}
	return (minutes*60 + seconds) * 1000, true
}

// parseGapSeconds parses a gap/interval field such as "+1.234" or "12.5"
// into seconds. Lapped-car markers ("1 L"), empty strings and anything
// non-numeric return nil.
func parseGapSeconds(s string) *float64 {
	s = strings.TrimSpace(strings.TrimPrefix(s, "+"))
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
