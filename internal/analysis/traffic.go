package analysis

import "math"

// TrafficLabel is the qualitative air classification for one lap record.
type TrafficLabel string

const (
	TrafficUnknown TrafficLabel = "unknown"
	TrafficTraffic TrafficLabel = "traffic"
	TrafficClean   TrafficLabel = "clean"
	TrafficNeutral TrafficLabel = "neutral"
)

// TrafficThresholds holds the base and lap-time-scaled factors for the four
// classification boundaries. Each effective threshold is
// max(base, factor * lapTimeSeconds), so longer circuits widen the bands.
type TrafficThresholds struct {
	TrafficAheadBaseSec  float64
	TrafficAheadFactor   float64
	TrafficBehindBaseSec float64
	TrafficBehindFactor  float64
	CleanAheadBaseSec    float64
	CleanAheadFactor     float64
	CleanBehindBaseSec   float64
	CleanBehindFactor    float64
}

// DefaultTrafficThresholds returns the tuning used for classification when
// callers have no circuit-specific overrides.
func DefaultTrafficThresholds() TrafficThresholds {
	return TrafficThresholds{
		TrafficAheadBaseSec:  1.0,
		TrafficAheadFactor:   0.012,
		TrafficBehindBaseSec: 0.8,
		TrafficBehindFactor:  0.010,
		CleanAheadBaseSec:    1.7,
		CleanAheadFactor:     0.018,
		CleanBehindBaseSec:   1.3,
		CleanBehindFactor:    0.014,
	}
}

// ClassifyTraffic computes the traffic label for a car from its gaps to the
// cars ahead and behind, its lap time, and the track status. Missing or
// non-finite inputs yield TrafficUnknown. Clean air is never reported on a
// non-green lap.
func ClassifyTraffic(gapAheadSec, gapBehindSec, lapTimeMs *float64, green bool, th TrafficThresholds) TrafficLabel {
	if !finite(lapTimeMs) || !finite(gapAheadSec) || !finite(gapBehindSec) {
		return TrafficUnknown
	}
	lapSec := *lapTimeMs / 1000

	trafficAhead := math.Max(th.TrafficAheadBaseSec, th.TrafficAheadFactor*lapSec)
	trafficBehind := math.Max(th.TrafficBehindBaseSec, th.TrafficBehindFactor*lapSec)
	cleanAhead := math.Max(th.CleanAheadBaseSec, th.CleanAheadFactor*lapSec)
	cleanBehind := math.Max(th.CleanBehindBaseSec, th.CleanBehindFactor*lapSec)

	if *gapAheadSec <= trafficAhead || *gapBehindSec <= trafficBehind {
		return TrafficTraffic
	}
	if green && *gapAheadSec >= cleanAhead && *gapBehindSec >= cleanBehind {
		return TrafficClean
	}
	return TrafficNeutral
}

func finite(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}
