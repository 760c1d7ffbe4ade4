package livetiming

import "testing"

func TestLookupResolvesAliases(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		topic    string
		found    bool
		compress bool
	}{
		{"canonical name", "TimingData", "TimingData", true, false},
		{"compressed alias", "CarData.z", "CarData", true, true},
		{"compressed position alias", "Position.z", "Position", true, true},
		{"canonical of compressed", "CarData", "CarData", true, true},
		{"unknown", "TyreStintSeries", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := Lookup(tt.query)
			if (def != nil) != tt.found {
				t.Fatalf("Lookup(%q) found=%v, want %v", tt.query, def != nil, tt.found)
			}
			if def == nil {
				return
			}
			if def.Topic != tt.topic {
				t.Errorf("Lookup(%q).Topic = %q, want %q", tt.query, def.Topic, tt.topic)
			}
			if def.Compressed != tt.compress {
				t.Errorf("Lookup(%q).Compressed = %v, want %v", tt.query, def.Compressed, tt.compress)
			}
		})
	}
}

func TestLookupIdempotent(t *testing.T) {
	for _, query := range []string{"TimingData", "CarData.z", "Position.z", "DriverList"} {
		def := Lookup(query)
		if def == nil {
			t.Fatalf("Lookup(%q) = nil", query)
		}
		if again := Lookup(def.Topic); again != def {
			t.Errorf("Lookup(Lookup(%q).Topic) returned a different definition", query)
		}
	}
}

func TestTopicsForSession(t *testing.T) {
	practice := TopicsForSession(SessionKindPractice)
	race := TopicsForSession(SessionKindRace)
	sprint := TopicsForSession(SessionKindSprint)

	if practice[TopicLapCount] {
		t.Error("LapCount should not apply to practice sessions")
	}
	if !race[TopicLapCount] || !sprint[TopicLapCount] {
		t.Error("LapCount should apply to race and sprint sessions")
	}
	for _, topic := range []string{TopicTimingData, TopicDriverList, TopicTrackStatus, TopicPosition} {
		if !practice[topic] || !race[topic] {
			t.Errorf("base topic %s missing from a session kind", topic)
		}
	}
	if len(race) <= len(practice) {
		t.Errorf("race set (%d) should extend the base set (%d)", len(race), len(practice))
	}
}
