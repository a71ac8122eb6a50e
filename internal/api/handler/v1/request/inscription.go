package request

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

const coachDateLayout = "2006-01-02"

var errInvalidCoachDate = errors.New("dates must use the YYYY-MM-DD format")

type CreateInscriptionRequest struct {
	Codex      string `json:"codex"`
	SeasonCode string `json:"seasonCode"`
}

func (req *CreateInscriptionRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Codex, validation.Required),
		validation.Field(&req.SeasonCode, validation.Required),
	)
}

type AddCoachRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Gender    string `json:"gender"`
	Team      string `json:"team"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

func (req *AddCoachRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.FirstName, validation.Required),
		validation.Field(&req.LastName, validation.Required),
		validation.Field(&req.Gender, validation.Required, validation.In("M", "W")),
		validation.Field(&req.StartDate, validation.Required, validation.Date(coachDateLayout)),
		validation.Field(&req.EndDate, validation.Required, validation.Date(coachDateLayout)),
	)
}

// Window parses the validity dates. Validate has already checked the format.
func (req *AddCoachRequest) Window() (time.Time, time.Time, error) {
	start, err := time.Parse(coachDateLayout, req.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, errInvalidCoachDate
	}
	end, err := time.Parse(coachDateLayout, req.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, errInvalidCoachDate
	}

	return start, end, nil
}

type SaveCompetitorsRequest struct {
	CompetitorIDs []uint   `json:"competitorIds"`
	CodexNumbers  []string `json:"codexNumbers"`
}

func (req *SaveCompetitorsRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.CompetitorIDs, validation.Required),
		validation.Field(&req.CodexNumbers, validation.Required),
	)
}

type ContactInscriptionRequest struct {
	InscriptionID uint   `json:"inscriptionId"`
	Message       string `json:"message"`
}

func (req *ContactInscriptionRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.InscriptionID, validation.Required),
	)
}
