package livetiming

import "time"

// TimingUpdate is one retained timing-line patch: the car it applied to,
// the fields the patch carried, and the capture timestamp. The analysis
// layer replays the trail to reconstruct per-lap records; the processor
// itself only needs the running lines.
type TimingUpdate struct {
	Car       string
	Fields    map[string]any
	Timestamp time.Time
}

// TimingProcessor tracks per-car timing lines (position, lap count, lap
// time, gaps, pit flags). Each patch shallow-overlays the fields it carries
// onto the car's stored line; fields the patch omits are untouched. The
// full ordered update trail is retained so one record per distinct lap
// number per driver can be reconstructed afterwards.
type TimingProcessor struct {
	lines map[string]map[string]any
	trail []TimingUpdate
}

// NewTimingProcessor returns an empty timing processor.
func NewTimingProcessor() *TimingProcessor {
	return &TimingProcessor{lines: make(map[string]map[string]any)}
}

// Topic returns the canonical timing topic.
func (p *TimingProcessor) Topic() string { return TopicTimingData }

// Apply overlays each car patch in the payload's Lines map onto that car's
// stored line and appends it to the trail.
func (p *TimingProcessor) Apply(ev Event) {
	root, ok := ev.Payload.(map[string]any)
	if !ok {
		return
	}
	carLines, ok := root["Lines"].(map[string]any)
	if !ok {
		return
	}
	for car, patch := range carLines {
		fields, ok := patch.(map[string]any)
		if !ok {
			continue
		}
		line := p.lines[car]
		if line == nil {
			line = make(map[string]any, len(fields))
			p.lines[car] = line
		}
		copied := make(map[string]any, len(fields))
		for key, value := range fields {
			copied[key] = deepCopyValue(value)
			line[key] = deepCopyValue(value)
		}
		p.trail = append(p.trail, TimingUpdate{Car: car, Fields: copied, Timestamp: ev.Timestamp})
	}
}

// Latest returns the current line for every car. Read-only.
func (p *TimingProcessor) Latest() map[string]map[string]any { return p.lines }

// Line returns the current timing line for one car, nil if never seen.
func (p *TimingProcessor) Line(car string) map[string]any { return p.lines[car] }

// Trail returns the ordered sequence of retained line patches. Read-only.
func (p *TimingProcessor) Trail() []TimingUpdate { return p.trail }
