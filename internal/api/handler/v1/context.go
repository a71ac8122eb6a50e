package v1

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/valais-ski/fis-inscriptions-api/internal/api/handler/v1/response"
	"github.com/valais-ski/fis-inscriptions-api/internal/api/middleware"
	"github.com/valais-ski/fis-inscriptions-api/internal/domain"
)

type UserService interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
}

func getUserFromContext(ctx *gin.Context, svc UserService) (domain.User, *response.Err) {
	value, exists := ctx.Get(middleware.ContextKeyUserID)
	if !exists {
		return domain.User{}, response.ErrUnauthorized("authentication required")
	}

	userID, ok := value.(uint)
	if !ok {
		return domain.User{}, response.ErrUnauthorized("authentication required")
	}

	user, err := svc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		return domain.User{}, response.ErrUnauthorized("unknown user")
	}

	return user, nil
}
