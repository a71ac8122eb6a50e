package domain

type Status string

const (
	StatusOpen      Status = "open"
	StatusValidated Status = "validated"
	StatusEmailSent Status = "email_sent"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusValidated, StatusEmailSent, StatusCancelled:
		return true
	}

	return false
}

// CanTransition reports whether from may move to to. email_sent is only ever
// reached as a side effect of a successful entry-form dispatch, and cancelled
// is reachable from anywhere. Rolling email_sent back to validated is reserved
// for support tooling and allowed here so that path stays expressible.
func CanTransition(from, to Status) bool {
	if from == to {
		return false
	}

	switch to {
	case StatusCancelled:
		return true
	case StatusValidated:
		return from == StatusOpen || from == StatusEmailSent
	case StatusOpen:
		return from == StatusValidated
	case StatusEmailSent:
		return from == StatusValidated
	}

	return false
}
