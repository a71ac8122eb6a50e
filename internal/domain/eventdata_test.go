package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEventDataIsMixed(t *testing.T) {
	testCases := []struct {
		name    string
		genders []string
		want    bool
	}{
		{name: "men and women", genders: []string{"M", "W"}, want: true},
		{name: "men only", genders: []string{"M"}, want: false},
		{name: "women only", genders: []string{"W"}, want: false},
		{name: "empty", genders: nil, want: false},
		{name: "unknown codes are ignored", genders: []string{"M", "A"}, want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			event := EventData{GenderCodes: tc.genders}
			require.Equal(t, tc.want, event.IsMixed())
		})
	}
}

func TestEventDataWindow(t *testing.T) {
	event := EventData{StartDate: "2026-01-10", EndDate: "2026-01-12"}

	start, end, err := event.Window()
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), start)
	require.Equal(t, time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC), end)

	event.EndDate = "12.01.2026"
	_, _, err = event.Window()
	require.Error(t, err)
}

func TestEventDataExtraRoundTrip(t *testing.T) {
	raw := `{
		"eventId": 42,
		"seasonCode": "2026",
		"name": "Coupe du Soleil",
		"place": "Verbier",
		"nationCode": "SUI",
		"startDate": "2026-01-10",
		"endDate": "2026-01-12",
		"genderCodes": ["M", "W"],
		"contactInfo": {"email": "oc@example.com"},
		"competitions": [],
		"timingProvider": "swisstiming",
		"liveStream": {"url": "https://example.com/live"}
	}`

	var event EventData
	require.NoError(t, json.Unmarshal([]byte(raw), &event))

	require.Equal(t, 42, event.EventID)
	require.Equal(t, "Verbier", event.Place)
	require.Len(t, event.Extra, 2)
	require.Contains(t, event.Extra, "timingProvider")
	require.Contains(t, event.Extra, "liveStream")

	out, err := json.Marshal(event)
	require.NoError(t, err)

	var roundTripped map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &roundTripped))
	require.JSONEq(t, `"swisstiming"`, string(roundTripped["timingProvider"]))
	require.JSONEq(t, `{"url": "https://example.com/live"}`, string(roundTripped["liveStream"]))
}

func TestEventDataNoExtraFields(t *testing.T) {
	raw := `{"eventId": 7, "seasonCode": "2026", "name": "Slalom", "competitions": []}`

	var event EventData
	require.NoError(t, json.Unmarshal([]byte(raw), &event))
	require.Nil(t, event.Extra)
}
