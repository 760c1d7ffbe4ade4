package livetiming

import "time"

// Session owns the full set of per-topic processors for one timing session.
// It is the single writer of processor state: Ingest normalises each raw
// event once and fans it out. A Session must be driven by exactly one
// goroutine; readers wanting a consistent analytical view should build an
// analysis index rather than poll live state.
type Session struct {
	Kind SessionKind

	Timing   *TimingProcessor
	Roster   *RosterProcessor
	Position *PositionProcessor
	PitLane  *PitLaneProcessor

	processors map[string]Processor
	events     int
}

// NewSession creates a session with one processor per topic applicable to
// the given session kind. Topics outside the registry get a generic merge
// processor on first sight, so unknown feed additions still accumulate.
func NewSession(kind SessionKind) *Session {
	s := &Session{
		Kind:       kind,
		Timing:     NewTimingProcessor(),
		Roster:     NewRosterProcessor(),
		Position:   NewPositionProcessor(),
		PitLane:    NewPitLaneProcessor(),
		processors: make(map[string]Processor),
	}
	s.processors[TopicTimingData] = s.Timing
	s.processors[TopicDriverList] = s.Roster
	s.processors[TopicPosition] = s.Position
	s.processors[TopicPitLaneTimeCollection] = s.PitLane
	for topic := range TopicsForSession(kind) {
		if _, ok := s.processors[topic]; !ok {
			s.processors[topic] = NewMergeProcessor(topic)
		}
	}
	return s
}

// Ingest normalises one raw event and applies it to the topic's processor.
// Ingestion is best-effort and never fails: unexpected payload shapes are
// absorbed as partial data.
func (s *Session) Ingest(topic string, payload any, ts time.Time) {
	s.IngestEvent(Normalize(topic, payload, ts))
}

// IngestJSON decodes raw JSON and ingests it. The only possible error is
// ErrMalformedEvent; the session state is untouched in that case.
func (s *Session) IngestJSON(topic string, raw []byte, ts time.Time) error {
	ev, err := NormalizeJSON(topic, raw, ts)
	if err != nil {
		return err
	}
	s.IngestEvent(ev)
	return nil
}

// IngestEvent applies an already-normalised event.
func (s *Session) IngestEvent(ev Event) {
	proc, ok := s.processors[ev.Topic]
	if !ok {
		proc = NewMergeProcessor(ev.Topic)
		s.processors[ev.Topic] = proc
	}
	proc.Apply(ev)
	s.events++
}

// EventCount reports how many events have been ingested.
func (s *Session) EventCount() int { return s.events }

// Topics returns the canonical names of every topic that has a processor,
// whether pre-registered for the session kind or adopted on first sight.
func (s *Session) Topics() []string {
	topics := make([]string, 0, len(s.processors))
	for topic := range s.processors {
		topics = append(topics, topic)
	}
	return topics
}

// Latest returns the accumulated state for a topic: the timing lines map,
// the roster object, the position snapshot, the latest pit times, or the
// merged state object for generic topics. Nil when the topic has never
// been seen and is not registered for this session kind.
func (s *Session) Latest(topic string) any {
	if def := Lookup(topic); def != nil {
		topic = def.Topic
	}
	switch proc := s.processors[topic].(type) {
	case nil:
		return nil
	case *TimingProcessor:
		return proc.Latest()
	case *RosterProcessor:
		return proc.Latest()
	case *PositionProcessor:
		return proc.Latest()
	case *PitLaneProcessor:
		return proc.Latest()
	case *MergeProcessor:
		return proc.Latest()
	default:
		return nil
	}
}

// TrackGreen reports whether the accumulated track status is green
// (all clear). Unknown or never-reported status counts as green.
func (s *Session) TrackGreen() bool {
	status, ok := s.Latest(TopicTrackStatus).(map[string]any)
	if !ok {
		return true
	}
	value := stringField(status, "Status")
	return value == "" || value == "1"
}
