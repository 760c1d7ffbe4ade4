package analysis

import (
	"sort"
	"strconv"
	"time"

	"github.com/pitwall-data/pitwall/internal/livetiming"
)

// LapRecord is one driver's derived state at a specific lap: pace, gaps,
// position, pit flag and traffic label. Within a driver, records are
// ordered by ascending lap number; the last timing write for a given
// (driver, lap) wins.
type LapRecord struct {
	Driver           string       `json:"driver"`
	Lap              int          `json:"lap"`
	LapTimeMs        *float64     `json:"lapTimeMs"`
	GapToLeaderSec   *float64     `json:"gapToLeaderSec"`
	IntervalAheadSec *float64     `json:"intervalAheadSec"`
	Traffic          TrafficLabel `json:"traffic"`
	Pit              bool         `json:"pit"`
	Position         *int         `json:"position"`
	Timestamp        *time.Time   `json:"timestamp"`
}

// Index is a read-only analytical snapshot built from a session's
// accumulated processor state. It does not observe later ingestion; build
// a new index to see new events. Safe for concurrent readers.
type Index struct {
	records    map[string][]*LapRecord
	drivers    []string
	laps       []int
	timestamps map[int]time.Time
	green      bool
}

// BuildIndex reconstructs per-driver lap records from the session's timing
// trail and classifies each record's traffic. The session's track-status
// state at build time supplies the green flag (unknown counts as green).
func BuildIndex(s *livetiming.Session) *Index {
	idx := &Index{
		records:    make(map[string][]*LapRecord),
		timestamps: make(map[int]time.Time),
		green:      s.TrackGreen(),
	}

	lines := make(map[string]map[string]any)
	byLap := make(map[string]map[int]*LapRecord)

	for _, up := range s.Timing.Trail() {
		line := lines[up.Car]
		if line == nil {
			line = make(map[string]any)
			lines[up.Car] = line
		}
		for key, value := range up.Fields {
			line[key] = value
		}

		lap, ok := intField(line, "NumberOfLaps")
		if !ok {
			continue
		}

		recs := byLap[up.Car]
		if recs == nil {
			recs = make(map[int]*LapRecord)
			byLap[up.Car] = recs
		}
		rec := recs[lap]
		if rec == nil {
			ts := up.Timestamp
			rec = &LapRecord{Driver: up.Car, Lap: lap, Timestamp: &ts}
			recs[lap] = rec
			idx.records[up.Car] = append(idx.records[up.Car], rec)
		}

		rec.LapTimeMs = nil
		if v, ok := ParseLapTime(timingValue(line, "LastLapTime")); ok {
			rec.LapTimeMs = &v
		}
		rec.GapToLeaderSec = parseGapSeconds(timingValue(line, "GapToLeader"))
		rec.IntervalAheadSec = parseGapSeconds(timingValue(line, "IntervalToPositionAhead"))
		if pos, ok := intField(line, "Position"); ok {
			rec.Position = &pos
		}
		if pitFlag(up.Fields) {
			rec.Pit = true
		}
	}

	idx.finalize()
	return idx
}

// finalize sorts records, derives the lap-number set and representative
// timestamps, and classifies traffic now that every lap's field is placed.
func (idx *Index) finalize() {
	lapSet := make(map[int]bool)
	for driver, recs := range idx.records {
		sort.Slice(recs, func(i, j int) bool { return recs[i].Lap < recs[j].Lap })
		idx.drivers = append(idx.drivers, driver)
		for _, rec := range recs {
			lapSet[rec.Lap] = true
			if rec.Timestamp == nil {
				continue
			}
			if known, ok := idx.timestamps[rec.Lap]; !ok || rec.Timestamp.Before(known) {
				idx.timestamps[rec.Lap] = *rec.Timestamp
			}
		}
	}
	sortDrivers(idx.drivers)
	for lap := range lapSet {
		idx.laps = append(idx.laps, lap)
	}
	sort.Ints(idx.laps)

	thresholds := DefaultTrafficThresholds()
	for _, lap := range idx.laps {
		byPosition := make(map[int]*LapRecord)
		for _, driver := range idx.drivers {
			if rec, ok := idx.record(driver, lap); ok && rec.Position != nil {
				byPosition[*rec.Position] = rec
			}
		}
		for _, driver := range idx.drivers {
			rec, ok := idx.record(driver, lap)
			if !ok {
				continue
			}
			gapAhead := rec.IntervalAheadSec
			if gapAhead == nil {
				gapAhead = rec.GapToLeaderSec
			}
			var gapBehind *float64
			if rec.Position != nil {
				if behind, ok := byPosition[*rec.Position+1]; ok {
					gapBehind = behind.IntervalAheadSec
				}
			}
			rec.Traffic = ClassifyTraffic(gapAhead, gapBehind, rec.LapTimeMs, idx.green, thresholds)
		}
	}
}

// Drivers returns every driver with at least one lap record, in racing
// number order.
func (idx *Index) Drivers() []string { return idx.drivers }

// LapNumbers returns the sorted distinct lap numbers observed across all
// drivers.
func (idx *Index) LapNumbers() []int { return idx.laps }

// Records returns one driver's lap records in ascending lap order.
func (idx *Index) Records(driver string) []LapRecord {
	recs := idx.records[driver]
	out := make([]LapRecord, len(recs))
	for i, rec := range recs {
		out[i] = *rec
	}
	return out
}

// Record returns one driver's record at an exact lap number.
func (idx *Index) Record(driver string, lap int) (LapRecord, bool) {
	rec, ok := idx.record(driver, lap)
	if !ok {
		return LapRecord{}, false
	}
	return *rec, true
}

// ResolveAsOf maps a cursor to the nearest known lap boundary over the
// index's lap set and representative timestamps.
func (idx *Index) ResolveAsOf(cur Cursor) CursorResolution {
	return ResolveCursor(idx.laps, idx.timestamps, cur)
}

func (idx *Index) record(driver string, lap int) (*LapRecord, bool) {
	for _, rec := range idx.records[driver] {
		if rec.Lap == lap {
			return rec, true
		}
	}
	return nil, false
}

// timingValue reads a timing-line field that the feed reports either as a
// bare string or wrapped in an object's "Value" key.
func timingValue(line map[string]any, key string) string {
	switch v := line[key].(type) {
	case string:
		return v
	case map[string]any:
		s, _ := v["Value"].(string)
		return s
	default:
		return ""
	}
}

// intField reads an integer field that may arrive as a JSON number or a
// numeric string.
func intField(obj map[string]any, key string) (int, bool) {
	switch v := obj[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// pitFlag reports whether a timing patch marks the car as in the pits.
func pitFlag(fields map[string]any) bool {
	for _, key := range []string{"InPit", "PitIn"} {
		switch v := fields[key].(type) {
		case bool:
			if v {
				return true
			}
		case float64:
			if v != 0 {
				return true
			}
		}
	}
	return false
}

// sortDrivers orders racing numbers numerically where possible so "2"
// sorts before "10"; non-numeric identifiers fall back to lexicographic.
func sortDrivers(drivers []string) {
	sort.Slice(drivers, func(i, j int) bool {
		a, aerr := strconv.Atoi(drivers[i])
		b, berr := strconv.Atoi(drivers[j])
		if aerr == nil && berr == nil {
			return a < b
		}
		if (aerr == nil) != (berr == nil) {
			return aerr == nil
		}
		return drivers[i] < drivers[j]
	})
}
