package request

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAddCoachRequestValidate(t *testing.T) {
	valid := AddCoachRequest{
		FirstName: "Luc",
		LastName:  "Favre",
		Gender:    "M",
		StartDate: "2026-01-10",
		EndDate:   "2026-01-12",
	}

	testCases := []struct {
		name    string
		mutate  func(req *AddCoachRequest)
		wantErr bool
	}{
		{name: "valid", mutate: func(req *AddCoachRequest) {}},
		{name: "team is optional", mutate: func(req *AddCoachRequest) { req.Team = "SC Verbier" }},
		{name: "missing first name", mutate: func(req *AddCoachRequest) { req.FirstName = "" }, wantErr: true},
		{name: "unknown gender", mutate: func(req *AddCoachRequest) { req.Gender = "X" }, wantErr: true},
		{name: "wrong date format", mutate: func(req *AddCoachRequest) { req.StartDate = "10.01.2026" }, wantErr: true},
		{name: "missing end date", mutate: func(req *AddCoachRequest) { req.EndDate = "" }, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := valid
			tc.mutate(&req)

			err := req.Validate()
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestAddCoachRequestWindow(t *testing.T) {
	req := AddCoachRequest{StartDate: "2026-01-10", EndDate: "2026-01-12"}

	start, end, err := req.Window()
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), start)
	require.Equal(t, time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC), end)
}

func TestSaveCompetitorsRequestValidate(t *testing.T) {
	req := SaveCompetitorsRequest{CompetitorIDs: []uint{1}, CodexNumbers: []string{"1234"}}
	require.NoError(t, req.Validate())

	req = SaveCompetitorsRequest{CodexNumbers: []string{"1234"}}
	require.Error(t, req.Validate())

	req = SaveCompetitorsRequest{CompetitorIDs: []uint{1}}
	require.Error(t, req.Validate())
}
