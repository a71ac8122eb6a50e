package response

import "github.com/valais-ski/fis-inscriptions-api/internal/domain"

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}
