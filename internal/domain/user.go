package domain

import "time"

type User struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ActivityEntry is one audit line for a user: an inscription they created or
// a competitor they entered on a codex.
type ActivityEntry struct {
	Kind          string    `json:"kind"` // "inscription_created" or "competitor_added"
	InscriptionID uint      `json:"inscription_id"`
	EventName     string    `json:"event_name,omitempty"`
	CompetitorID  uint      `json:"competitor_id,omitempty"`
	CodexNumber   string    `json:"codex_number,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}
