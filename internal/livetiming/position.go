package livetiming

// PositionSnapshot is the latest known on-track position data: one
// attribute object per car, plus the source timestamp of the most recent
// update that carried one.
type PositionSnapshot struct {
	Timestamp string
	Entries   map[string]any
}

// PositionProcessor maintains a single continuously-overlaid position
// snapshot. The feed delivers batches of entity maps; each car's attribute
// object replaces that car's previous entry key-wise (positions are whole
// readings, there is nothing to merge inside one). No per-update history is
// kept.
type PositionProcessor struct {
	current PositionSnapshot
}

// NewPositionProcessor returns an empty position processor.
func NewPositionProcessor() *PositionProcessor {
	return &PositionProcessor{current: PositionSnapshot{Entries: make(map[string]any)}}
}

// Topic returns the canonical position topic.
func (p *PositionProcessor) Topic() string { return TopicPosition }

// Apply overlays the payload's entries onto the current snapshot. Both the
// raw snapshot shape ({Timestamp, Entries}) and the batched stream shape
// ({Position: [{Timestamp, Entries}, ...]}) are accepted.
func (p *PositionProcessor) Apply(ev Event) {
	root, ok := ev.Payload.(map[string]any)
	if !ok {
		return
	}
	if batch, ok := root["Position"].([]any); ok {
		for _, elem := range batch {
			if obj, ok := elem.(map[string]any); ok {
				p.overlay(obj)
			}
		}
		return
	}
	p.overlay(root)
}

func (p *PositionProcessor) overlay(update map[string]any) {
	if ts := stringField(update, "Timestamp"); ts != "" {
		p.current.Timestamp = ts
	}
	entries, ok := update["Entries"].(map[string]any)
	if !ok {
		return
	}
	for car, attrs := range entries {
		p.current.Entries[car] = deepCopyValue(attrs)
	}
}

// Latest returns the current merged snapshot. Callers must treat the
// entries map as read-only.
func (p *PositionProcessor) Latest() PositionSnapshot { return p.current }
