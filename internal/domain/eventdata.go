package domain

import (
	"encoding/json"
	"time"
)

const eventDateLayout = "2006-01-02"

// EventData mirrors the federation event schema. Fields the upstream adds
// that this struct does not know about survive round trips through Extra.
type EventData struct {
	EventID      int           `json:"eventId"`
	SeasonCode   string        `json:"seasonCode"`
	Name         string        `json:"name"`
	Place        string        `json:"place"`
	NationCode   string        `json:"nationCode"`
	StartDate    string        `json:"startDate"`
	EndDate      string        `json:"endDate"`
	GenderCodes  []string      `json:"genderCodes"`
	ContactInfo  ContactInfo   `json:"contactInfo"`
	Competitions []Competition `json:"competitions"`

	Extra map[string]json.RawMessage `json:"-"`
}

type ContactInfo struct {
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Website string `json:"website"`
}

type Competition struct {
	ID                 int             `json:"id"`
	Codex              string          `json:"codex"`
	Name               string          `json:"name"`
	Date               string          `json:"date"`
	CategoryCode       string          `json:"categoryCode"`
	GenderCode         string          `json:"genderCode"`
	DisciplineCode     string          `json:"disciplineCode"`
	HasBeenRescheduled bool            `json:"hasBeenRescheduled"`
	Jury               []JuryMember    `json:"jury"`
	Schedule           []ScheduleEntry `json:"schedule"`
}

type JuryMember struct {
	Function   string `json:"function"`
	LastName   string `json:"lastName"`
	FirstName  string `json:"firstName"`
	NationCode string `json:"nationCode"`
}

type ScheduleEntry struct {
	Name   string `json:"name"`
	Time   string `json:"time"`
	Status string `json:"status"`
}

var knownEventFields = []string{
	"eventId", "seasonCode", "name", "place", "nationCode",
	"startDate", "endDate", "genderCodes", "contactInfo", "competitions",
}

func (e *EventData) UnmarshalJSON(data []byte) error {
	type alias EventData

	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, field := range knownEventFields {
		delete(raw, field)
	}
	if len(raw) > 0 {
		a.Extra = raw
	}

	*e = EventData(a)

	return nil
}

func (e EventData) MarshalJSON() ([]byte, error) {
	type alias EventData

	data, err := json.Marshal(alias(e))
	if err != nil {
		return nil, err
	}
	if len(e.Extra) == 0 {
		return data, nil
	}

	var merged map[string]json.RawMessage
	if err = json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for field, value := range e.Extra {
		if _, known := merged[field]; !known {
			merged[field] = value
		}
	}

	return json.Marshal(merged)
}

// Window returns the event date range as concrete times.
func (e *EventData) Window() (time.Time, time.Time, error) {
	start, err := time.Parse(eventDateLayout, e.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := time.Parse(eventDateLayout, e.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	return start, end, nil
}

// IsMixed reports whether the event carries both men's and women's races.
func (e *EventData) IsMixed() bool {
	var men, women bool
	for _, code := range e.GenderCodes {
		switch code {
		case GenderMen:
			men = true
		case GenderWomen:
			women = true
		}
	}

	return men && women
}
