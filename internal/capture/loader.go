package capture

import (
	"bufio"
	"bytes"
	"compress/flate"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pitwall-data/pitwall/internal/livetiming"
	"github.com/pitwall-data/pitwall/internal/monitoring"
)

// maxLineBytes bounds a single capture line. Position and car telemetry
// batches are large but well under this.
const maxLineBytes = 8 << 20

// ReadFile loads a capture log from disk. See ReadLog.
func ReadFile(path string) ([]RawEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture file: %w", err)
	}
	defer f.Close()
	return ReadLog(f)
}

// ReadLog parses a captured live-timing log: one JSON array per line,
// ["Topic", payload, "timestamp"]. Payloads of compressed-stream topics
// arrive as base64 deflate strings and are inflated here, so downstream
// consumers always see plain JSON. Malformed lines are logged and skipped;
// a capture with a few bad lines still replays.
func ReadLog(r io.Reader) ([]RawEvent, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	var events []RawEvent
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		ev, err := parseLine(line)
		if err != nil {
			monitoring.Logf("capture: skipping line %d: %v", lineNo, err)
			continue
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return events, fmt.Errorf("failed to read capture log: %w", err)
	}
	return events, nil
}

func parseLine(line []byte) (RawEvent, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(line, &parts); err != nil {
		return RawEvent{}, fmt.Errorf("not a JSON array: %v", err)
	}
	if len(parts) < 3 {
		return RawEvent{}, fmt.Errorf("expected [topic, payload, timestamp], got %d elements", len(parts))
	}

	var topic string
	if err := json.Unmarshal(parts[0], &topic); err != nil {
		return RawEvent{}, fmt.Errorf("topic is not a string: %v", err)
	}

	var stamp string
	if err := json.Unmarshal(parts[2], &stamp); err != nil {
		return RawEvent{}, fmt.Errorf("timestamp is not a string: %v", err)
	}
	ts, err := time.Parse(time.RFC3339Nano, stamp)
	if err != nil {
		return RawEvent{}, fmt.Errorf("bad timestamp %q: %v", stamp, err)
	}

	payload := parts[1]
	if def := livetiming.Lookup(topic); def != nil && def.Compressed {
		payload, err = inflatePayload(parts[1])
		if err != nil {
			return RawEvent{}, fmt.Errorf("topic %s: %v", topic, err)
		}
	}

	return RawEvent{Topic: topic, Payload: payload, Timestamp: ts}, nil
}

// inflatePayload decodes a compressed-stream payload: a JSON string holding
// base64-encoded raw deflate data.
func inflatePayload(raw json.RawMessage) (json.RawMessage, error) {
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil, fmt.Errorf("compressed payload is not a string: %v", err)
	}
	compressed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("bad base64 payload: %v", err)
	}
	fr := flate.NewReader(bytes.NewReader(compressed))
	defer fr.Close()
	inflated, err := io.ReadAll(fr)
	if err != nil {
		return nil, fmt.Errorf("failed to inflate payload: %v", err)
	}
	return json.RawMessage(inflated), nil
}
