package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FieldDiff is one human-reviewable difference between the stored event data
// and the upstream snapshot.
type FieldDiff struct {
	Field    string `json:"field"`
	OldValue string `json:"oldValue"`
	NewValue string `json:"newValue"`
}

// EventDiff carries the full difference list plus the complete remote
// snapshot. Applying it is all-or-nothing: either the whole remote snapshot
// replaces the stored one, or nothing changes.
type EventDiff struct {
	Differences []FieldDiff `json:"differences"`
	Remote      EventData   `json:"remote"`
}

func (d *EventDiff) HasChanges() bool {
	return len(d.Differences) > 0
}

// DiffEventData walks a fixed list of fields on both snapshots and reports
// every mismatch. Competitions are matched by id; jury members by the
// function+lastName+firstName composite; schedule entries by position. A
// renamed jury member or a reordered schedule therefore shows up as a
// remove+add pair, which mirrors upstream behavior.
func DiffEventData(local, remote EventData) []FieldDiff {
	var diffs []FieldDiff

	diffs = appendScalarDiff(diffs, "name", local.Name, remote.Name)
	diffs = appendScalarDiff(diffs, "place", local.Place, remote.Place)
	diffs = appendScalarDiff(diffs, "nationCode", local.NationCode, remote.NationCode)
	diffs = appendScalarDiff(diffs, "startDate", local.StartDate, remote.StartDate)
	diffs = appendScalarDiff(diffs, "endDate", local.EndDate, remote.EndDate)
	if !structurallyEqual(local.GenderCodes, remote.GenderCodes) {
		diffs = append(diffs, FieldDiff{
			Field:    "genderCodes",
			OldValue: formatValue(local.GenderCodes),
			NewValue: formatValue(remote.GenderCodes),
		})
	}

	diffs = appendScalarDiff(diffs, "contactInfo.email", local.ContactInfo.Email, remote.ContactInfo.Email)
	diffs = appendScalarDiff(diffs, "contactInfo.phone", local.ContactInfo.Phone, remote.ContactInfo.Phone)
	diffs = appendScalarDiff(diffs, "contactInfo.address", local.ContactInfo.Address, remote.ContactInfo.Address)
	diffs = appendScalarDiff(diffs, "contactInfo.website", local.ContactInfo.Website, remote.ContactInfo.Website)

	diffs = append(diffs, diffCompetitions(local.Competitions, remote.Competitions)...)

	return diffs
}

func diffCompetitions(local, remote []Competition) []FieldDiff {
	var diffs []FieldDiff

	localByID := make(map[int]Competition, len(local))
	for _, comp := range local {
		localByID[comp.ID] = comp
	}
	remoteByID := make(map[int]Competition, len(remote))
	for _, comp := range remote {
		remoteByID[comp.ID] = comp
	}

	// Removed first, then per-field updates, then additions, each in a
	// stable order so the diff list is deterministic.
	for _, comp := range local {
		if _, ok := remoteByID[comp.ID]; !ok {
			diffs = append(diffs, FieldDiff{
				Field:    fmt.Sprintf("competitions[%v] removed", comp.Codex),
				OldValue: formatValue(comp),
				NewValue: "",
			})
		}
	}

	for _, localComp := range local {
		remoteComp, ok := remoteByID[localComp.ID]
		if !ok {
			continue
		}
		diffs = append(diffs, diffCompetition(localComp, remoteComp)...)
	}

	for _, comp := range remote {
		if _, ok := localByID[comp.ID]; !ok {
			diffs = append(diffs, FieldDiff{
				Field:    fmt.Sprintf("competitions[%v] added", comp.Codex),
				OldValue: "",
				NewValue: formatValue(comp),
			})
		}
	}

	return diffs
}

func diffCompetition(local, remote Competition) []FieldDiff {
	prefix := fmt.Sprintf("competitions[%v].", local.Codex)

	var diffs []FieldDiff
	diffs = appendScalarDiff(diffs, prefix+"codex", local.Codex, remote.Codex)
	diffs = appendScalarDiff(diffs, prefix+"name", local.Name, remote.Name)
	diffs = appendScalarDiff(diffs, prefix+"date", local.Date, remote.Date)
	diffs = appendScalarDiff(diffs, prefix+"categoryCode", local.CategoryCode, remote.CategoryCode)
	diffs = appendScalarDiff(diffs, prefix+"genderCode", local.GenderCode, remote.GenderCode)
	diffs = appendScalarDiff(diffs, prefix+"disciplineCode", local.DisciplineCode, remote.DisciplineCode)
	if local.HasBeenRescheduled != remote.HasBeenRescheduled {
		diffs = append(diffs, FieldDiff{
			Field:    prefix + "hasBeenRescheduled",
			OldValue: formatValue(local.HasBeenRescheduled),
			NewValue: formatValue(remote.HasBeenRescheduled),
		})
	}

	diffs = append(diffs, diffJury(prefix, local.Jury, remote.Jury)...)
	diffs = append(diffs, diffSchedule(prefix, local.Schedule, remote.Schedule)...)

	return diffs
}

func juryKey(m JuryMember) string {
	return m.Function + "|" + m.LastName + "|" + m.FirstName
}

func diffJury(prefix string, local, remote []JuryMember) []FieldDiff {
	var diffs []FieldDiff

	localByKey := make(map[string]JuryMember, len(local))
	for _, member := range local {
		localByKey[juryKey(member)] = member
	}
	remoteByKey := make(map[string]JuryMember, len(remote))
	for _, member := range remote {
		remoteByKey[juryKey(member)] = member
	}

	for _, member := range local {
		key := juryKey(member)
		remoteMember, ok := remoteByKey[key]
		if !ok {
			diffs = append(diffs, FieldDiff{
				Field:    fmt.Sprintf("%vjury[%v %v %v] removed", prefix, member.Function, member.LastName, member.FirstName),
				OldValue: formatValue(member),
				NewValue: "",
			})
			continue
		}
		diffs = appendScalarDiff(diffs,
			fmt.Sprintf("%vjury[%v %v %v].nationCode", prefix, member.Function, member.LastName, member.FirstName),
			member.NationCode, remoteMember.NationCode)
	}

	for _, member := range remote {
		if _, ok := localByKey[juryKey(member)]; !ok {
			diffs = append(diffs, FieldDiff{
				Field:    fmt.Sprintf("%vjury[%v %v %v] added", prefix, member.Function, member.LastName, member.FirstName),
				OldValue: "",
				NewValue: formatValue(member),
			})
		}
	}

	return diffs
}

func diffSchedule(prefix string, local, remote []ScheduleEntry) []FieldDiff {
	var diffs []FieldDiff

	shared := len(local)
	if len(remote) < shared {
		shared = len(remote)
	}

	for i := 0; i < shared; i++ {
		entryPrefix := fmt.Sprintf("%vschedule[%v].", prefix, i)
		diffs = appendScalarDiff(diffs, entryPrefix+"name", local[i].Name, remote[i].Name)
		diffs = appendScalarDiff(diffs, entryPrefix+"time", local[i].Time, remote[i].Time)
		diffs = appendScalarDiff(diffs, entryPrefix+"status", local[i].Status, remote[i].Status)
	}
	for i := shared; i < len(local); i++ {
		diffs = append(diffs, FieldDiff{
			Field:    fmt.Sprintf("%vschedule[%v] removed", prefix, i),
			OldValue: formatValue(local[i]),
			NewValue: "",
		})
	}
	for i := shared; i < len(remote); i++ {
		diffs = append(diffs, FieldDiff{
			Field:    fmt.Sprintf("%vschedule[%v] added", prefix, i),
			OldValue: "",
			NewValue: formatValue(remote[i]),
		})
	}

	return diffs
}

func appendScalarDiff[T comparable](diffs []FieldDiff, field string, oldValue, newValue T) []FieldDiff {
	if oldValue == newValue {
		return diffs
	}

	return append(diffs, FieldDiff{
		Field:    field,
		OldValue: formatValue(oldValue),
		NewValue: formatValue(newValue),
	})
}

func structurallyEqual(a, b any) bool {
	aJSON, errA := json.Marshal(a)
	bJSON, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}

	return string(aJSON) == string(bJSON)
}

// formatValue renders a value for display in the review list. Booleans come
// out as Oui/Non, string slices joined in snapshot order, anything nested as
// JSON.
func formatValue(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case bool:
		if value {
			return "Oui"
		}
		return "Non"
	case string:
		return value
	case []string:
		return strings.Join(value, ", ")
	case int, int64, uint, float64:
		return fmt.Sprintf("%v", value)
	default:
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(data)
	}
}
