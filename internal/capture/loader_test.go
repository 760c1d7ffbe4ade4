package capture

import (
	"bytes"
	"compress/flate"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitwall-data/pitwall/internal/monitoring"
)

func muteLogs(t *testing.T) {
	t.Helper()
	monitoring.SetLogger(func(string, ...any) {})
	t.Cleanup(func() { monitoring.SetLogger(nil) })
}

// deflateB64 compresses payload with raw deflate and base64-encodes it,
// matching the wire encoding of compressed-stream topics.
func deflateB64(t *testing.T, payload string) string {
	t.Helper()
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	require.NoError(t, err)
	_, err = w.Write([]byte(payload))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestReadLogPlainTopics(t *testing.T) {
	log := strings.Join([]string{
		`["TimingData", {"Lines": {"1": {"Position": "1"}}}, "2024-05-26T14:00:00.123Z"]`,
		``,
		`["TrackStatus", {"Status": "1"}, "2024-05-26T14:00:01Z"]`,
	}, "\n")

	events, err := ReadLog(strings.NewReader(log))
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, "TimingData", events[0].Topic)
	assert.Equal(t, time.Date(2024, 5, 26, 14, 0, 0, 123000000, time.UTC), events[0].Timestamp.UTC())
	assert.JSONEq(t, `{"Lines": {"1": {"Position": "1"}}}`, string(events[0].Payload))
	assert.Equal(t, "TrackStatus", events[1].Topic)
}

func TestReadLogInflatesCompressedTopics(t *testing.T) {
	payload := `{"Entries": [{"Cars": {"1": {"Channels": {"0": 280}}}}]}`
	line := fmt.Sprintf(`["CarData.z", %q, "2024-05-26T14:00:00Z"]`, deflateB64(t, payload))

	events, err := ReadLog(strings.NewReader(line))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "CarData.z", events[0].Topic)
	assert.JSONEq(t, payload, string(events[0].Payload))
}

func TestReadLogSkipsMalformedLines(t *testing.T) {
	muteLogs(t)
	log := strings.Join([]string{
		`not json at all`,
		`["TimingData"]`,
		`[42, {}, "2024-05-26T14:00:00Z"]`,
		`["TimingData", {}, "yesterday"]`,
		`["CarData.z", "!!!not base64!!!", "2024-05-26T14:00:00Z"]`,
		`["TimingData", {"Lines": {}}, "2024-05-26T14:00:05Z"]`,
	}, "\n")

	events, err := ReadLog(strings.NewReader(log))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "TimingData", events[0].Topic)
}

func TestReadLogPayloadKeptRaw(t *testing.T) {
	line := `["WeatherData", {"AirTemp": "24.1"}, "2024-05-26T14:00:00Z"]`
	events, err := ReadLog(strings.NewReader(line))
	require.NoError(t, err)
	require.Len(t, events, 1)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(events[0].Payload, &payload))
	assert.Equal(t, "24.1", payload["AirTemp"])
}
