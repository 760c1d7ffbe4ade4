package analysis

import (
	"math"
	"testing"
	"time"
)

func TestResolveCursorLatest(t *testing.T) {
	laps := []int{1, 2, 3, 5}

	tests := []struct {
		name string
		cur  Cursor
	}{
		{"no cursor", Cursor{}},
		{"NaN lap", Cursor{Lap: f64(math.NaN())}},
		{"infinite lap", Cursor{Lap: f64(math.Inf(1))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveCursor(laps, nil, tt.cur)
			if got.Lap != 5 || got.Source != CursorSourceLatest {
				t.Errorf("ResolveCursor = %+v, want {5 latest}", got)
			}
		})
	}
}

func TestResolveCursorNearestLap(t *testing.T) {
	laps := []int{1, 2, 3, 5}

	tests := []struct {
		name string
		lap  float64
		want int
	}{
		{"exact match", 3, 3},
		{"below range clamps", -10, 1},
		{"above range clamps", 99, 5},
		{"nearest in gap", 4.6, 5},
		{"tie breaks toward lower", 4, 3},
		{"fractional rounds to nearest", 2.4, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveCursor(laps, nil, Cursor{Lap: f64(tt.lap)})
			if got.Lap != tt.want || got.Source != CursorSourceLap {
				t.Errorf("ResolveCursor(lap=%v) = %+v, want {%d lap}", tt.lap, got, tt.want)
			}
		})
	}
}

func TestResolveCursorByTime(t *testing.T) {
	base := time.Date(2024, 5, 26, 14, 0, 0, 0, time.UTC)
	laps := []int{1, 2, 3}
	timestamps := map[int]time.Time{
		1: base,
		3: base.Add(3 * time.Minute),
		// lap 2 has no timestamp and must be ignored
	}

	at := base.Add(140 * time.Second)
	got := ResolveCursor(laps, timestamps, Cursor{Time: &at})
	if got.Lap != 3 || got.Source != CursorSourceTime {
		t.Errorf("ResolveCursor(time) = %+v, want {3 time}", got)
	}

	before := base.Add(-time.Hour)
	got = ResolveCursor(laps, timestamps, Cursor{Time: &before})
	if got.Lap != 1 || got.Source != CursorSourceTime {
		t.Errorf("ResolveCursor(early time) = %+v, want {1 time}", got)
	}
}

func TestResolveCursorTimeWithoutTimestamps(t *testing.T) {
	at := time.Now()
	got := ResolveCursor([]int{1, 2}, nil, Cursor{Time: &at})
	if got.Lap != 2 || got.Source != CursorSourceLatest {
		t.Errorf("ResolveCursor with no timestamps = %+v, want latest fallback", got)
	}
}

func TestResolveCursorEmptyLapSet(t *testing.T) {
	got := ResolveCursor(nil, nil, Cursor{Lap: f64(4)})
	if got.Lap != 0 || got.Source != CursorSourceLatest {
		t.Errorf("ResolveCursor on empty laps = %+v, want {0 latest}", got)
	}
}

func TestParseCursor(t *testing.T) {
	if cur := ParseCursor(""); cur.Lap != nil || cur.Time != nil {
		t.Error("empty string should be the latest cursor")
	}
	if cur := ParseCursor("latest"); cur.Lap != nil || cur.Time != nil {
		t.Error("\"latest\" should be the latest cursor")
	}
	if cur := ParseCursor("12"); cur.Lap == nil || *cur.Lap != 12 {
		t.Errorf("numeric cursor parsed as %+v", cur)
	}
	if cur := ParseCursor("2024-05-26T14:00:00Z"); cur.Time == nil {
		t.Errorf("timestamp cursor parsed as %+v", cur)
	}
	if cur := ParseCursor("yesterday-ish"); cur.Lap != nil || cur.Time != nil {
		t.Error("unparseable cursor should degrade to latest")
	}
}
