package livetiming

// RosterProcessor accumulates the driver list. The payload is an object
// keyed by racing number, each value a partial driver record; records
// deep-merge so later patches (team colour changes, mid-season swaps) only
// touch the fields they carry.
type RosterProcessor struct {
	merge *MergeProcessor
}

// NewRosterProcessor returns an empty roster processor.
func NewRosterProcessor() *RosterProcessor {
	return &RosterProcessor{merge: NewMergeProcessor(TopicDriverList)}
}

// Topic returns the canonical driver-list topic.
func (p *RosterProcessor) Topic() string { return TopicDriverList }

// Apply deep-merges the incoming driver map into the roster.
func (p *RosterProcessor) Apply(ev Event) { p.merge.Apply(ev) }

// Latest returns the accumulated roster object.
func (p *RosterProcessor) Latest() any { return p.merge.Latest() }

// NameFor resolves a racing number to a display name, preferring the full
// name, then the broadcast name, then the three-letter code. Returns ""
// when the driver is unknown or carries none of the three.
func (p *RosterProcessor) NameFor(driver string) string {
	entry, ok := objectField(p.merge.Latest(), driver)
	if !ok {
		return ""
	}
	if name := stringField(entry, "FullName"); name != "" {
		return name
	}
	if name := stringField(entry, "BroadcastName"); name != "" {
		return name
	}
	return stringField(entry, "Tla")
}
