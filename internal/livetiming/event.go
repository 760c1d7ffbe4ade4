package livetiming

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrMalformedEvent indicates a raw payload that could not be decoded as
// structured JSON. It is the only error the normaliser produces; everything
// else in the ingestion layer degrades to absent fields instead of failing.
var ErrMalformedEvent = errors.New("malformed event payload")

// Event is a normalised feed event: canonical topic, decoded payload and
// capture timestamp. Events are immutable once constructed; callers must
// supply them to a Session in non-decreasing timestamp order.
type Event struct {
	Topic     string
	Payload   any
	Timestamp time.Time
}

// Normalize canonicalises a raw (topic, payload, timestamp) triple. The
// topic is resolved through the registry so compressed-stream aliases like
// "CarData.z" map to their canonical name; unknown topics pass through
// unchanged so future feed additions survive normalisation.
func Normalize(topic string, payload any, ts time.Time) Event {
	if def := Lookup(topic); def != nil {
		topic = def.Topic
	} else {
		// Unknown compressed alias: strip the suffix so the generic
		// merge path still files both streams under one topic.
		topic = strings.TrimSuffix(topic, ".z")
	}
	return Event{Topic: topic, Payload: payload, Timestamp: ts}
}

// NormalizeJSON decodes raw JSON and normalises it in one step. A payload
// that is not valid JSON yields ErrMalformedEvent.
func NormalizeJSON(topic string, raw []byte, ts time.Time) (Event, error) {
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Event{}, fmt.Errorf("%w: topic %s: %v", ErrMalformedEvent, topic, err)
	}
	return Normalize(topic, payload, ts), nil
}
