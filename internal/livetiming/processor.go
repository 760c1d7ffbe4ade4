package livetiming

// Processor is one per-topic state machine. Apply must be best-effort: a
// payload whose shape does not match the topic is absorbed as partial data,
// never an error, so one bad event cannot halt ingestion of the stream.
type Processor interface {
	Topic() string
	Apply(ev Event)
}

// MergeProcessor is the generic patch-accumulating processor used for every
// topic without bespoke accumulation rules. It deep-merges each payload
// into a single root state value for the topic.
type MergeProcessor struct {
	topic string
	state any
}

// NewMergeProcessor returns an empty merge processor for the given
// canonical topic.
func NewMergeProcessor(topic string) *MergeProcessor {
	return &MergeProcessor{topic: topic}
}

// Topic returns the canonical topic this processor accumulates.
func (p *MergeProcessor) Topic() string { return p.topic }

// Apply merges the event payload into the accumulated state.
func (p *MergeProcessor) Apply(ev Event) {
	p.state = mergeValue(p.state, ev.Payload)
}

// Latest returns the live accumulated state value, nil before the first
// event. Callers must treat it as read-only.
func (p *MergeProcessor) Latest() any { return p.state }

// objectField returns state[key] as an object when both the state and the
// field are object-shaped.
func objectField(state any, key string) (map[string]any, bool) {
	obj, ok := state.(map[string]any)
	if !ok {
		return nil, false
	}
	field, ok := obj[key].(map[string]any)
	return field, ok
}

// stringField returns the string at obj[key], or "" when absent or not a
// string.
func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}
