package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type OrganizationContactPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type UpdateOrganizationRequest struct {
	Name                string                       `json:"name"`
	Country             string                       `json:"country"`
	BaseURL             string                       `json:"base_url"`
	NotificationSubject string                       `json:"notification_subject"`
	Contacts            []OrganizationContactPayload `json:"contacts"`
}

func (req *UpdateOrganizationRequest) Validate() error {
	if err := validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required),
		validation.Field(&req.Country, validation.Required, validation.Length(2, 3)),
	); err != nil {
		return err
	}

	for _, contact := range req.Contacts {
		if err := validation.ValidateStruct(
			&contact,
			validation.Field(&contact.Email, validation.Required, is.Email),
		); err != nil {
			return err
		}
	}

	return nil
}
