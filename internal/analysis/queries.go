package analysis

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// PitEvent marks a lap on which a driver's timing line reported a pit
// entry.
type PitEvent struct {
	Driver    string     `json:"driver"`
	Lap       int        `json:"lap"`
	Timestamp *time.Time `json:"timestamp"`
}

// PitEvents returns one event per lap record with the pit flag set, stable
// by (driver, lap).
func (idx *Index) PitEvents() []PitEvent {
	var events []PitEvent
	for _, driver := range idx.drivers {
		for _, rec := range idx.records[driver] {
			if rec.Pit {
				events = append(events, PitEvent{Driver: driver, Lap: rec.Lap, Timestamp: rec.Timestamp})
			}
		}
	}
	return events
}

// PositionChange records a driver's classified position moving between two
// adjacent lap records.
type PositionChange struct {
	Driver       string `json:"driver"`
	FromLap      int    `json:"fromLap"`
	ToLap        int    `json:"toLap"`
	FromPosition int    `json:"fromPosition"`
	ToPosition   int    `json:"toPosition"`
}

// PositionChanges emits one change per adjacent record pair whose position
// differs, per driver. Records without a known position are skipped.
func (idx *Index) PositionChanges() []PositionChange {
	var changes []PositionChange
	for _, driver := range idx.drivers {
		recs := idx.records[driver]
		for i := 1; i < len(recs); i++ {
			prev, cur := recs[i-1], recs[i]
			if prev.Position == nil || cur.Position == nil || *prev.Position == *cur.Position {
				continue
			}
			changes = append(changes, PositionChange{
				Driver:       driver,
				FromLap:      prev.Lap,
				ToLap:        cur.Lap,
				FromPosition: *prev.Position,
				ToPosition:   *cur.Position,
			})
		}
	}
	return changes
}

// StintPace summarises a driver's pace trend: the least-squares slope of
// lap time against lap number over every record with a parsed lap time.
type StintPace struct {
	Driver        string   `json:"driver"`
	Samples       int      `json:"samples"`
	SlopeMsPerLap *float64 `json:"slopeMsPerLap"`
}

// GetStintPace fits lap-time (ms) against lap number for one driver. Fewer
// than two timed laps leave the slope unknown.
func (idx *Index) GetStintPace(driver string) StintPace {
	var laps, times []float64
	for _, rec := range idx.records[driver] {
		if rec.LapTimeMs == nil {
			continue
		}
		laps = append(laps, float64(rec.Lap))
		times = append(times, *rec.LapTimeMs)
	}
	pace := StintPace{Driver: driver, Samples: len(laps)}
	if len(laps) < 2 {
		return pace
	}
	_, slope := stat.LinearRegression(laps, times, nil, false)
	if !math.IsNaN(slope) && !math.IsInf(slope, 0) {
		pace.SlopeMsPerLap = &slope
	}
	return pace
}

// LapDelta is one overlapping lap's time difference between two drivers,
// negative when the first driver was faster.
type LapDelta struct {
	Lap     int     `json:"lap"`
	DeltaMs float64 `json:"deltaMs"`
}

// ComparisonSummary aggregates a driver comparison.
type ComparisonSummary struct {
	AvgDeltaMs float64 `json:"avgDeltaMs"`
}

// Comparison is a lap-by-lap pace comparison of two drivers over the laps
// both completed with a parsed lap time.
type Comparison struct {
	DriverA string             `json:"driverA"`
	DriverB string             `json:"driverB"`
	Laps    []LapDelta         `json:"laps"`
	Summary *ComparisonSummary `json:"summary"`
}

// CompareDrivers computes per-lap deltas lapTime(A) - lapTime(B) over the
// sorted set of laps timed for both drivers. With no overlap the summary
// is nil.
func (idx *Index) CompareDrivers(driverA, driverB string) Comparison {
	timesA := idx.timedLaps(driverA)
	timesB := idx.timedLaps(driverB)

	var laps []int
	for lap := range timesA {
		if _, ok := timesB[lap]; ok {
			laps = append(laps, lap)
		}
	}
	sort.Ints(laps)

	cmp := Comparison{DriverA: driverA, DriverB: driverB}
	if len(laps) == 0 {
		return cmp
	}
	total := 0.0
	for _, lap := range laps {
		delta := timesA[lap] - timesB[lap]
		total += delta
		cmp.Laps = append(cmp.Laps, LapDelta{Lap: lap, DeltaMs: delta})
	}
	cmp.Summary = &ComparisonSummary{AvgDeltaMs: total / float64(len(laps))}
	return cmp
}

// UndercutWindow projects how many laps an undercut needs to pay off.
type UndercutWindow struct {
	DriverA     string   `json:"driverA"`
	DriverB     string   `json:"driverB"`
	PitLossMs   float64  `json:"pitLossMs"`
	AvgDeltaMs  *float64 `json:"avgDeltaMs"`
	LapsToCover *float64 `json:"lapsToCover"`
}

// GetUndercutWindow computes the average pace delta between two drivers
// and, when A is faster per lap on average, the number of laps needed to
// recoup a pit stop costing pitLossMs. Without a pace advantage the window
// never closes and LapsToCover is nil.
func (idx *Index) GetUndercutWindow(driverA, driverB string, pitLossMs float64) UndercutWindow {
	window := UndercutWindow{DriverA: driverA, DriverB: driverB, PitLossMs: pitLossMs}
	cmp := idx.CompareDrivers(driverA, driverB)
	if cmp.Summary == nil {
		return window
	}
	avg := cmp.Summary.AvgDeltaMs
	window.AvgDeltaMs = &avg
	if avg >= 0 {
		return window
	}
	laps := pitLossMs / math.Abs(avg)
	window.LapsToCover = &laps
	return window
}

// RejoinProjection estimates where a driver sits relative to the leader
// immediately after a pit stop, assuming no pace change during the stop.
type RejoinProjection struct {
	Driver                  string   `json:"driver"`
	Lap                     int      `json:"lap"`
	LossMs                  float64  `json:"lossMs"`
	GapToLeaderSec          *float64 `json:"gapToLeaderSec"`
	ProjectedGapToLeaderSec *float64 `json:"projectedGapToLeaderSec"`
}

// SimulateRejoin adds the pit loss directly onto the driver's gap to the
// leader as of the given cursor. The projection is nil when the driver has
// no known gap at the resolved lap.
func (idx *Index) SimulateRejoin(driver string, pitLossMs float64, asOf Cursor) RejoinProjection {
	resolved := idx.ResolveAsOf(asOf)
	projection := RejoinProjection{Driver: driver, Lap: resolved.Lap, LossMs: pitLossMs}
	rec, ok := idx.record(driver, resolved.Lap)
	if !ok || rec.GapToLeaderSec == nil {
		return projection
	}
	gap := *rec.GapToLeaderSec
	projected := gap + pitLossMs/1000
	projection.GapToLeaderSec = &gap
	projection.ProjectedGapToLeaderSec = &projected
	return projection
}

func (idx *Index) timedLaps(driver string) map[int]float64 {
	times := make(map[int]float64)
	for _, rec := range idx.records[driver] {
		if rec.LapTimeMs != nil {
			times[rec.Lap] = *rec.LapTimeMs
		}
	}
	return times
}
