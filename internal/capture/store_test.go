package capture

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), "capture.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleEvents() []RawEvent {
	base := time.Date(2024, 5, 26, 14, 0, 0, 0, time.UTC)
	return []RawEvent{
		{Topic: "TrackStatus", Payload: json.RawMessage(`{"Status": "1"}`), Timestamp: base},
		{Topic: "TimingData", Payload: json.RawMessage(`{"Lines": {"1": {"NumberOfLaps": 1}}}`), Timestamp: base.Add(time.Second)},
		{Topic: "TimingData", Payload: json.RawMessage(`{"Lines": {"1": {"NumberOfLaps": 2}}}`), Timestamp: base.Add(95 * time.Second)},
	}
}

func TestStoreSaveAndLoadRoundTrip(t *testing.T) {
	store := testStore(t)

	meta, err := store.SaveSession("Race", "monaco", sampleEvents())
	require.NoError(t, err)
	assert.NotEmpty(t, meta.ID)
	assert.Equal(t, 3, meta.Events)

	events, err := store.Events(meta.ID)
	require.NoError(t, err)
	require.Len(t, events, 3)
	for i, want := range sampleEvents() {
		assert.Equal(t, want.Topic, events[i].Topic)
		assert.JSONEq(t, string(want.Payload), string(events[i].Payload))
		assert.True(t, want.Timestamp.Equal(events[i].Timestamp), "event %d timestamp", i)
	}
}

func TestStoreSessionsNewestFirst(t *testing.T) {
	store := testStore(t)

	first, err := store.SaveSession("Race", "first", sampleEvents()[:1])
	require.NoError(t, err)
	// created_at must differ for the ordering to be observable
	time.Sleep(2 * time.Millisecond)
	second, err := store.SaveSession("Qualifying", "second", sampleEvents())
	require.NoError(t, err)

	sessions, err := store.Sessions()
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, second.ID, sessions[0].ID)
	assert.Equal(t, "Qualifying", sessions[0].Kind)
	assert.Equal(t, 3, sessions[0].Events)
	assert.Equal(t, first.ID, sessions[1].ID)
	assert.Equal(t, 1, sessions[1].Events)
}

func TestStoreEventsUnknownSession(t *testing.T) {
	store := testStore(t)
	events, err := store.Events("no-such-session")
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestStoreReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "capture.db")

	store, err := OpenStore(path)
	require.NoError(t, err)
	meta, err := store.SaveSession("Race", "persisted", sampleEvents())
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := OpenStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	events, err := reopened.Events(meta.ID)
	require.NoError(t, err)
	assert.Len(t, events, 3)
}
