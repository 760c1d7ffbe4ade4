package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitwall-data/pitwall/internal/livetiming"
)

func reportSession() *livetiming.Session {
	s := livetiming.NewSession(livetiming.SessionKindRace)
	s.Ingest("DriverList", map[string]any{
		"1": map[string]any{"FullName": "Max Verstappen"},
	}, time.Date(2024, 5, 26, 13, 59, 0, 0, time.UTC))

	ts := time.Date(2024, 5, 26, 14, 0, 0, 0, time.UTC)
	for lap := 1; lap <= 3; lap++ {
		for driver, lapTime := range map[string]string{"1": "1:30.000", "44": "1:31.000"} {
			s.Ingest("TimingData", map[string]any{"Lines": map[string]any{driver: map[string]any{
				"NumberOfLaps": float64(lap),
				"LastLapTime":  map[string]any{"Value": lapTime},
				"GapToLeader":  "+1.5",
			}}}, ts)
			ts = ts.Add(time.Second)
		}
		ts = ts.Add(90 * time.Second)
	}
	return s
}

func TestRenderProducesChartPage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, reportSession()))

	html := buf.String()
	assert.Contains(t, html, "<html>")
	assert.Contains(t, html, "Lap times")
	assert.Contains(t, html, "Gap to leader")
	// rostered drivers are labelled with their name, the rest by number
	assert.Contains(t, html, "1 Max Verstappen")
	assert.Contains(t, html, "44")
}

func TestRenderEmptySession(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, livetiming.NewSession(livetiming.SessionKindRace)))
	assert.Contains(t, buf.String(), "Lap times")
}

func TestSeriesNameFallsBackToNumber(t *testing.T) {
	s := livetiming.NewSession(livetiming.SessionKindRace)
	assert.Equal(t, "16", seriesName(s.Roster, "16"))

	s.Ingest("DriverList", map[string]any{"16": map[string]any{"Tla": "LEC"}}, time.Now())
	assert.Equal(t, "16 LEC", seriesName(s.Roster, "16"))
}
