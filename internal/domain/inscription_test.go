package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func statusPtr(s Status) *Status {
	return &s
}

func TestEffectiveStatus(t *testing.T) {
	testCases := []struct {
		name        string
		inscription Inscription
		gender      string
		want        Status
	}{
		{
			name: "single-gender event ignores gender overrides",
			inscription: Inscription{
				Status:    StatusOpen,
				MenStatus: statusPtr(StatusEmailSent),
				EventData: EventData{GenderCodes: []string{GenderMen}},
			},
			gender: GenderMen,
			want:   StatusOpen,
		},
		{
			name: "empty gender always resolves the overall status",
			inscription: Inscription{
				Status:      StatusValidated,
				WomenStatus: statusPtr(StatusEmailSent),
				EventData:   EventData{GenderCodes: []string{GenderMen, GenderWomen}},
			},
			gender: "",
			want:   StatusValidated,
		},
		{
			name: "mixed event with men override",
			inscription: Inscription{
				Status:    StatusOpen,
				MenStatus: statusPtr(StatusEmailSent),
				EventData: EventData{GenderCodes: []string{GenderMen, GenderWomen}},
			},
			gender: GenderMen,
			want:   StatusEmailSent,
		},
		{
			name: "mixed event with women override",
			inscription: Inscription{
				Status:      StatusValidated,
				WomenStatus: statusPtr(StatusCancelled),
				EventData:   EventData{GenderCodes: []string{GenderMen, GenderWomen}},
			},
			gender: GenderWomen,
			want:   StatusCancelled,
		},
		{
			name: "mixed event without override falls back to overall",
			inscription: Inscription{
				Status:    StatusValidated,
				EventData: EventData{GenderCodes: []string{GenderMen, GenderWomen}},
			},
			gender: GenderMen,
			want:   StatusValidated,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.inscription.EffectiveStatus(tc.gender))
		})
	}
}

func TestCanEdit(t *testing.T) {
	mixed := EventData{GenderCodes: []string{GenderMen, GenderWomen}}

	testCases := []struct {
		name        string
		inscription Inscription
		gender      string
		want        bool
	}{
		{
			name:        "open inscription is editable",
			inscription: Inscription{Status: StatusOpen, EventData: mixed},
			gender:      "",
			want:        true,
		},
		{
			name:        "email_sent locks the inscription",
			inscription: Inscription{Status: StatusEmailSent, EventData: mixed},
			gender:      "",
			want:        false,
		},
		{
			name: "locked men bucket leaves women editable",
			inscription: Inscription{
				Status:    StatusValidated,
				MenStatus: statusPtr(StatusEmailSent),
				EventData: mixed,
			},
			gender: GenderWomen,
			want:   true,
		},
		{
			name: "locked men bucket blocks men edits",
			inscription: Inscription{
				Status:    StatusValidated,
				MenStatus: statusPtr(StatusEmailSent),
				EventData: mixed,
			},
			gender: GenderMen,
			want:   false,
		},
		{
			name:        "cancelled stays editable",
			inscription: Inscription{Status: StatusCancelled, EventData: mixed},
			gender:      "",
			want:        true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.inscription.CanEdit(tc.gender))
		})
	}
}
