package capture

import (
	"context"
	"time"

	"github.com/pitwall-data/pitwall/internal/livetiming"
	"github.com/pitwall-data/pitwall/internal/monitoring"
	"github.com/pitwall-data/pitwall/internal/timeutil"
)

// Ingest feeds a capture into a session in order and returns how many
// events were applied. Malformed payloads are logged and skipped so one
// bad event never halts ingestion of the rest of the stream.
func Ingest(s *livetiming.Session, events []RawEvent) int {
	applied := 0
	for _, ev := range events {
		if err := s.IngestJSON(ev.Topic, ev.Payload, ev.Timestamp); err != nil {
			monitoring.Logf("capture: dropping event: %v", err)
			continue
		}
		applied++
	}
	return applied
}

// Replayer feeds a capture into a session at the cadence of the original
// timestamps, useful for exercising consumers against live-like pacing.
type Replayer struct {
	clock timeutil.Clock
	speed float64
}

// NewReplayer creates a replayer running at the given speed multiple of
// real time. Speeds at or below zero replay with no delay.
func NewReplayer(clock timeutil.Clock, speed float64) *Replayer {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &Replayer{clock: clock, speed: speed}
}

// Run replays events into the session, sleeping between events according
// to their capture-timestamp deltas scaled by the replay speed. Returns
// the number of events applied, stopping early if ctx is cancelled.
func (r *Replayer) Run(ctx context.Context, s *livetiming.Session, events []RawEvent) (int, error) {
	applied := 0
	var prev time.Time
	for i, ev := range events {
		if err := ctx.Err(); err != nil {
			return applied, err
		}
		if i > 0 && r.speed > 0 {
			if gap := ev.Timestamp.Sub(prev); gap > 0 {
				r.clock.Sleep(time.Duration(float64(gap) / r.speed))
			}
		}
		prev = ev.Timestamp
		if err := s.IngestJSON(ev.Topic, ev.Payload, ev.Timestamp); err != nil {
			monitoring.Logf("capture: dropping event: %v", err)
			continue
		}
		applied++
	}
	return applied, nil
}
