package engine_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/world-clocks/internal/engine"
)

func TestExportICS_PinnedSnapshot(t *testing.T) {
	cities, err := engine.DefaultCities()
	require.NoError(t, err)

	fc := clockwork.NewFakeClockAt(time.Date(2025, 1, 15, 1, 0, 0, 0, time.UTC))
	r := engine.NewRefresher(fc, cities, time.Second)
	snap := r.Pin(14, 30)

	stamp := time.Date(2025, 1, 15, 1, 0, 5, 0, time.FixedZone("CET", 3600))
	data, err := engine.ExportICS(snap, stamp)
	require.NoError(t, err)

	cal, err := ical.NewDecoder(bytes.NewReader(data)).Decode()
	require.NoError(t, err)

	events := cal.Events()
	require.Len(t, events, 1)
	ev := events[0]

	start, err := ev.DateTimeStart(time.UTC)
	require.NoError(t, err)
	assert.True(t, time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC).Equal(start), "14:30 IST is 09:00 UTC")

	summary, err := ev.Props.Text(ical.PropSummary)
	require.NoError(t, err)
	assert.Contains(t, summary, "14:30")

	desc, err := ev.Props.Text(ical.PropDescription)
	require.NoError(t, err)
	assert.Contains(t, desc, "Kolkata (India), IST: 2:30:00 PM")
	assert.Contains(t, desc, "New York (USA), EST: 4:00:00 AM")

	uid, err := ev.Props.Text(ical.PropUID)
	require.NoError(t, err)
	assert.NotEmpty(t, uid)

	// Same reference instant, same UID.
	again, err := engine.ExportICS(snap, stamp.Add(time.Hour))
	require.NoError(t, err)
	cal2, err := ical.NewDecoder(bytes.NewReader(again)).Decode()
	require.NoError(t, err)
	uid2, err := cal2.Events()[0].Props.Text(ical.PropUID)
	require.NoError(t, err)
	assert.Equal(t, uid, uid2)
}
