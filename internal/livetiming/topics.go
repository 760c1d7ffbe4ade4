// Package livetiming implements the ingestion and merge layer for a live
// motorsport timing feed: it normalises raw topic/payload events and fans
// them out to per-topic state processors that accumulate session state.
package livetiming

// SessionKind identifies the kind of session a capture was taken from,
// e.g. Practice, Qualifying, Race.
type SessionKind string

const (
	SessionKindPractice   SessionKind = "Practice"
	SessionKindQualifying SessionKind = "Qualifying"
	SessionKindRace       SessionKind = "Race"
	SessionKindSprint     SessionKind = "Sprint"
)

// Canonical topic names carried by the feed. Compressed stream variants
// (the ".z" suffixed aliases) resolve to these.
const (
	TopicHeartbeat             = "Heartbeat"
	TopicSessionInfo           = "SessionInfo"
	TopicSessionData           = "SessionData"
	TopicTrackStatus           = "TrackStatus"
	TopicDriverList            = "DriverList"
	TopicWeatherData           = "WeatherData"
	TopicTimingData            = "TimingData"
	TopicTimingAppData         = "TimingAppData"
	TopicTimingStats           = "TimingStats"
	TopicRaceControlMessages   = "RaceControlMessages"
	TopicPitLaneTimeCollection = "PitLaneTimeCollection"
	TopicExtrapolatedClock     = "ExtrapolatedClock"
	TopicTopThree              = "TopThree"
	TopicCarData               = "CarData"
	TopicPosition              = "Position"
	TopicLapCount              = "LapCount"
	TopicChampionshipPredict   = "ChampionshipPrediction"
)

// TopicDefinition describes one canonical topic: its stream aliases, whether
// the stream delivers a compressed payload, and whether the topic only
// appears in race-type sessions.
type TopicDefinition struct {
	Topic      string
	Aliases    []string
	Compressed bool
	RaceOnly   bool
}

var topicDefinitions = []TopicDefinition{
	{Topic: TopicHeartbeat},
	{Topic: TopicSessionInfo},
	{Topic: TopicSessionData},
	{Topic: TopicTrackStatus},
	{Topic: TopicDriverList},
	{Topic: TopicWeatherData},
	{Topic: TopicTimingData},
	{Topic: TopicTimingAppData},
	{Topic: TopicTimingStats},
	{Topic: TopicRaceControlMessages},
	{Topic: TopicPitLaneTimeCollection},
	{Topic: TopicExtrapolatedClock},
	{Topic: TopicTopThree},
	{Topic: TopicCarData, Aliases: []string{"CarData.z"}, Compressed: true},
	{Topic: TopicPosition, Aliases: []string{"Position.z"}, Compressed: true},
	{Topic: TopicLapCount, RaceOnly: true},
	{Topic: TopicChampionshipPredict, RaceOnly: true},
}

// topicIndex maps both canonical names and aliases to their definition.
var topicIndex = func() map[string]*TopicDefinition {
	idx := make(map[string]*TopicDefinition, len(topicDefinitions)*2)
	for i := range topicDefinitions {
		def := &topicDefinitions[i]
		idx[def.Topic] = def
		for _, alias := range def.Aliases {
			idx[alias] = def
		}
	}
	return idx
}()

// Lookup resolves a canonical topic name or any registered alias to its
// definition. Returns nil for unknown names. Lookup is idempotent:
// Lookup(Lookup(x).Topic) yields the same definition as Lookup(x).
func Lookup(nameOrAlias string) *TopicDefinition {
	return topicIndex[nameOrAlias]
}

// TopicsForSession returns the set of canonical topic names expected for a
// session of the given kind. Race and Sprint sessions carry the race-only
// extension topics on top of the base set.
func TopicsForSession(kind SessionKind) map[string]bool {
	race := kind == SessionKindRace || kind == SessionKindSprint
	topics := make(map[string]bool, len(topicDefinitions))
	for _, def := range topicDefinitions {
		if def.RaceOnly && !race {
			continue
		}
		topics[def.Topic] = true
	}
	return topics
}
