package livetiming

// pitDeletedKey is the feed's tombstone entry inside PitTimes maps. It
// marks a retraction and must be skipped, not merged.
const pitDeletedKey = "_deleted"

// PitLaneProcessor accumulates pit-lane times: the most recent pit time per
// driver, plus each driver's full ordered pit history for stop counting.
type PitLaneProcessor struct {
	latest  map[string]any
	history map[string][]any
}

// NewPitLaneProcessor returns an empty pit-lane processor.
func NewPitLaneProcessor() *PitLaneProcessor {
	return &PitLaneProcessor{
		latest:  make(map[string]any),
		history: make(map[string][]any),
	}
}

// Topic returns the canonical pit-lane topic.
func (p *PitLaneProcessor) Topic() string { return TopicPitLaneTimeCollection }

// Apply records every pit time present in the payload's PitTimes map,
// appending to the per-driver history and overwriting the latest entry.
func (p *PitLaneProcessor) Apply(ev Event) {
	root, ok := ev.Payload.(map[string]any)
	if !ok {
		return
	}
	times, ok := root["PitTimes"].(map[string]any)
	if !ok {
		return
	}
	for driver, value := range times {
		if driver == pitDeletedKey {
			continue
		}
		copied := deepCopyValue(value)
		p.latest[driver] = copied
		p.history[driver] = append(p.history[driver], copied)
	}
}

// Latest returns the most recent pit time per driver.
func (p *PitLaneProcessor) Latest() map[string]any { return p.latest }

// History returns the ordered pit times recorded for one driver.
func (p *PitLaneProcessor) History(driver string) []any { return p.history[driver] }

// StopCount returns how many pit times have been recorded for a driver.
func (p *PitLaneProcessor) StopCount(driver string) int { return len(p.history[driver]) }
