package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleEvent() EventData {
	return EventData{
		EventID:     42,
		SeasonCode:  "2026",
		Name:        "Coupe du Soleil",
		Place:       "Verbier",
		NationCode:  "SUI",
		StartDate:   "2026-01-10",
		EndDate:     "2026-01-12",
		GenderCodes: []string{"M", "W"},
		ContactInfo: ContactInfo{Email: "oc@example.com", Phone: "+41 27 000 00 00"},
		Competitions: []Competition{
			{
				ID:             100,
				Codex:          "1234",
				Name:           "Slalom",
				Date:           "2026-01-10",
				CategoryCode:   "FIS",
				GenderCode:     "M",
				DisciplineCode: "SL",
				Jury: []JuryMember{
					{Function: "TD", LastName: "Favre", FirstName: "Luc", NationCode: "SUI"},
				},
				Schedule: []ScheduleEntry{
					{Name: "Run 1", Time: "09:30", Status: "scheduled"},
				},
			},
			{
				ID:             101,
				Codex:          "1235",
				Name:           "Giant Slalom",
				Date:           "2026-01-11",
				CategoryCode:   "FIS",
				GenderCode:     "W",
				DisciplineCode: "GS",
			},
		},
	}
}

func TestDiffEventDataIdentical(t *testing.T) {
	local := sampleEvent()
	remote := sampleEvent()

	require.Empty(t, DiffEventData(local, remote))
}

func TestDiffEventDataScalarField(t *testing.T) {
	local := sampleEvent()
	remote := sampleEvent()
	remote.Place = "Zermatt"

	diffs := DiffEventData(local, remote)
	require.Len(t, diffs, 1)
	require.Equal(t, FieldDiff{
		Field:    "place",
		OldValue: "Verbier",
		NewValue: "Zermatt",
	}, diffs[0])
}

func TestDiffEventDataGenderCodes(t *testing.T) {
	local := sampleEvent()
	remote := sampleEvent()
	remote.GenderCodes = []string{"W"}

	diffs := DiffEventData(local, remote)
	require.Len(t, diffs, 1)
	require.Equal(t, "genderCodes", diffs[0].Field)
	require.Equal(t, "M, W", diffs[0].OldValue)
	require.Equal(t, "W", diffs[0].NewValue)
}

func TestDiffEventDataGenderCodesKeepSnapshotOrder(t *testing.T) {
	local := sampleEvent()
	remote := sampleEvent()
	remote.GenderCodes = []string{"W", "M"}

	diffs := DiffEventData(local, remote)
	require.Len(t, diffs, 1)
	require.Equal(t, "M, W", diffs[0].OldValue)
	require.Equal(t, "W, M", diffs[0].NewValue)
}

func TestDiffEventDataRescheduledFlag(t *testing.T) {
	local := sampleEvent()
	remote := sampleEvent()
	remote.Competitions[0].HasBeenRescheduled = true

	diffs := DiffEventData(local, remote)
	require.Len(t, diffs, 1)
	require.Equal(t, "competitions[1234].hasBeenRescheduled", diffs[0].Field)
	require.Equal(t, "Non", diffs[0].OldValue)
	require.Equal(t, "Oui", diffs[0].NewValue)
}

func TestDiffEventDataCompetitionAddedAndRemoved(t *testing.T) {
	local := sampleEvent()
	remote := sampleEvent()
	remote.Competitions = remote.Competitions[:1]
	remote.Competitions = append(remote.Competitions, Competition{
		ID: 102, Codex: "1236", Name: "Super-G", GenderCode: "W", DisciplineCode: "SG",
	})

	diffs := DiffEventData(local, remote)
	require.Len(t, diffs, 2)
	require.Equal(t, "competitions[1235] removed", diffs[0].Field)
	require.Empty(t, diffs[0].NewValue)
	require.Equal(t, "competitions[1236] added", diffs[1].Field)
	require.Empty(t, diffs[1].OldValue)
}

func TestDiffEventDataJuryRename(t *testing.T) {
	local := sampleEvent()
	remote := sampleEvent()
	remote.Competitions[0].Jury = []JuryMember{
		{Function: "TD", LastName: "Meier", FirstName: "Anna", NationCode: "SUI"},
	}

	diffs := DiffEventData(local, remote)
	require.Len(t, diffs, 2)
	require.Equal(t, "competitions[1234].jury[TD Favre Luc] removed", diffs[0].Field)
	require.Equal(t, "competitions[1234].jury[TD Meier Anna] added", diffs[1].Field)
}

func TestDiffEventDataJuryNationChange(t *testing.T) {
	local := sampleEvent()
	remote := sampleEvent()
	remote.Competitions[0].Jury[0].NationCode = "AUT"

	diffs := DiffEventData(local, remote)
	require.Len(t, diffs, 1)
	require.Equal(t, "competitions[1234].jury[TD Favre Luc].nationCode", diffs[0].Field)
	require.Equal(t, "SUI", diffs[0].OldValue)
	require.Equal(t, "AUT", diffs[0].NewValue)
}

func TestDiffEventDataSchedule(t *testing.T) {
	local := sampleEvent()
	remote := sampleEvent()
	remote.Competitions[0].Schedule[0].Time = "10:00"
	remote.Competitions[0].Schedule = append(remote.Competitions[0].Schedule,
		ScheduleEntry{Name: "Run 2", Time: "13:00", Status: "scheduled"})

	diffs := DiffEventData(local, remote)
	require.Len(t, diffs, 2)
	require.Equal(t, FieldDiff{
		Field:    "competitions[1234].schedule[0].time",
		OldValue: "09:30",
		NewValue: "10:00",
	}, diffs[0])
	require.Equal(t, "competitions[1234].schedule[1] added", diffs[1].Field)
}

func TestEventDiffHasChanges(t *testing.T) {
	empty := EventDiff{}
	require.False(t, empty.HasChanges())

	withDiff := EventDiff{Differences: []FieldDiff{{Field: "name"}}}
	require.True(t, withDiff.HasChanges())
}
