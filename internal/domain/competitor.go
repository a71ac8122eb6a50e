package domain

import "time"

// Competitor is a read-mostly row imported from the federation points list.
// It is never created through the API, only refreshed in bulk.
type Competitor struct {
	CompetitorID uint   `json:"competitorid"`
	FisCode      string `json:"fiscode"`
	LastName     string `json:"lastname"`
	FirstName    string `json:"firstname"`
	NationCode   string `json:"nationcode"`
	Gender       string `json:"gender"`
	BirthDate    string `json:"birthdate"`
	SkiClub      string `json:"skiclub"`

	SLPoints *float64 `json:"slpoints,omitempty"`
	GSPoints *float64 `json:"gspoints,omitempty"`
	SGPoints *float64 `json:"sgpoints,omitempty"`
	DHPoints *float64 `json:"dhpoints,omitempty"`
	ACPoints *float64 `json:"acpoints,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}
