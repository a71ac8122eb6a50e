package domain

import "time"

const (
	GenderMen   = "M"
	GenderWomen = "W"
)

type Inscription struct {
	ID        uint      `json:"id"`
	CreatedBy uint      `json:"created_by"`
	EventData EventData `json:"event_data"`

	Status      Status  `json:"status"`
	MenStatus   *Status `json:"men_status,omitempty"`
	WomenStatus *Status `json:"women_status,omitempty"`

	EmailSentAt      *time.Time `json:"email_sent_at,omitempty"`
	MenEmailSentAt   *time.Time `json:"men_email_sent_at,omitempty"`
	WomenEmailSentAt *time.Time `json:"women_email_sent_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EffectiveStatus resolves the status governing edits for the given gender
// bucket. The gender-specific override only applies on mixed events; for a
// single-gender event or an empty gender the overall status wins.
func (i *Inscription) EffectiveStatus(gender string) Status {
	if gender == "" || !i.EventData.IsMixed() {
		return i.Status
	}

	switch gender {
	case GenderMen:
		if i.MenStatus != nil {
			return *i.MenStatus
		}
	case GenderWomen:
		if i.WomenStatus != nil {
			return *i.WomenStatus
		}
	}

	return i.Status
}

// CanEdit reports whether mutations touching the given gender bucket are
// still permitted. Once the entry form went out the bucket is locked.
func (i *Inscription) CanEdit(gender string) bool {
	return i.EffectiveStatus(gender) != StatusEmailSent
}

type InscriptionCompetitor struct {
	ID            uint       `json:"id"`
	InscriptionID uint       `json:"inscription_id"`
	CompetitorID  uint       `json:"competitor_id"`
	CodexNumber   string     `json:"codex_number"`
	AddedBy       uint       `json:"added_by"`
	CreatedAt     time.Time  `json:"created_at"`
	Competitor    Competitor `json:"competitor"`
}

type InscriptionCoach struct {
	ID            uint      `json:"id"`
	InscriptionID uint      `json:"inscription_id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Gender        string    `json:"gender"`
	Team          string    `json:"team"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	AddedBy       uint      `json:"added_by"`
	CreatedAt     time.Time `json:"created_at"`
}

// CompetitorEntry groups the codices a competitor is entered on within one
// inscription.
type CompetitorEntry struct {
	Inscription Inscription `json:"inscription"`
	Codices     []string    `json:"codices"`
}
