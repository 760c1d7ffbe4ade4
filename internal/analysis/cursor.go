package analysis

import (
	"math"
	"strconv"
	"time"
)

// CursorSource reports how an as-of cursor was resolved.
type CursorSource string

const (
	CursorSourceLatest CursorSource = "latest"
	CursorSourceLap    CursorSource = "lap"
	CursorSourceTime   CursorSource = "time"
)

// Cursor is an optional as-of position: a lap number, a wall-clock instant,
// or neither (latest). The zero value means latest.
type Cursor struct {
	Lap  *float64
	Time *time.Time
}

// CursorResolution is the lap boundary a cursor resolved to.
type CursorResolution struct {
	Lap    int          `json:"lap"`
	Source CursorSource `json:"source"`
}

// ParseCursor interprets a caller-supplied cursor string: empty or
// "latest" mean latest, a number is a lap cursor, and anything parseable
// as RFC 3339 is a time cursor. Unparseable input degrades to latest.
func ParseCursor(s string) Cursor {
	if s == "" || s == "latest" {
		return Cursor{}
	}
	if lap, err := strconv.ParseFloat(s, 64); err == nil {
		return Cursor{Lap: &lap}
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return Cursor{Time: &t}
	}
	return Cursor{}
}

// ResolveCursor maps a cursor to the nearest known lap boundary. laps must
// be sorted ascending; timestamps holds each lap's representative instant
// where one is known. With no cursor, a non-finite lap, or a time cursor
// when no lap has a timestamp, the highest known lap wins with source
// "latest". Lap cursors snap to the nearest known lap, ties toward the
// lower number.
func ResolveCursor(laps []int, timestamps map[int]time.Time, cur Cursor) CursorResolution {
	latest := 0
	if len(laps) > 0 {
		latest = laps[len(laps)-1]
	}

	switch {
	case cur.Lap != nil:
		target := *cur.Lap
		if math.IsNaN(target) || math.IsInf(target, 0) || len(laps) == 0 {
			return CursorResolution{Lap: latest, Source: CursorSourceLatest}
		}
		best := laps[0]
		bestDiff := math.Abs(float64(best) - target)
		for _, lap := range laps[1:] {
			if diff := math.Abs(float64(lap) - target); diff < bestDiff {
				best, bestDiff = lap, diff
			}
		}
		return CursorResolution{Lap: best, Source: CursorSourceLap}

	case cur.Time != nil:
		best, found := 0, false
		var bestDiff time.Duration
		for _, lap := range laps {
			ts, ok := timestamps[lap]
			if !ok {
				continue
			}
			diff := cur.Time.Sub(ts)
			if diff < 0 {
				diff = -diff
			}
			if !found || diff < bestDiff {
				best, bestDiff, found = lap, diff, true
			}
		}
		if !found {
			return CursorResolution{Lap: latest, Source: CursorSourceLatest}
		}
		return CursorResolution{Lap: best, Source: CursorSourceTime}

	default:
		return CursorResolution{Lap: latest, Source: CursorSourceLatest}
	}
}
