package domain

import "time"

// Organization is the tenant configuration. Created by platform operators,
// mutated only by super-admins, never deleted.
type Organization struct {
	ID      uint   `json:"id"`
	Code    string `json:"code"`
	Name    string `json:"name"`
	Country string `json:"country"`
	BaseURL string `json:"base_url"`

	NotificationSubject string                `json:"notification_subject"`
	Contacts            []OrganizationContact `json:"contacts"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type OrganizationContact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// NotificationRecipients returns the contact emails notifications go to.
func (o *Organization) NotificationRecipients() []string {
	emails := make([]string, 0, len(o.Contacts))
	for _, contact := range o.Contacts {
		if contact.Email != "" {
			emails = append(emails, contact.Email)
		}
	}

	return emails
}
