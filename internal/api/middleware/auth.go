package middleware

import (
	"context"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/valais-ski/fis-inscriptions-api/internal/api/handler/v1/response"
	"github.com/valais-ski/fis-inscriptions-api/internal/domain"
	"github.com/valais-ski/fis-inscriptions-api/internal/pkg/jwthelper"
)

// ContextKeyUserID is where VerifyJWT stores the authenticated user's id.
const ContextKeyUserID = "userID"

type Authenticator struct {
	signingKey []byte
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
	}
}

func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			response.RenderErr(ctx, response.ErrUnauthorized("missing or malformed authorization header"))
			return
		}

		claims, err := jwthelper.ParseToken(a.signingKey, token)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized("invalid token"))
			return
		}

		ctx.Set(ContextKeyUserID, claims.UserID)
		ctx.Next()
	}
}

type AuthorizerUserService interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
}

type Authorizer struct {
	svc AuthorizerUserService
}

func NewAuthorizer(svc AuthorizerUserService) *Authorizer {
	return &Authorizer{
		svc: svc,
	}
}

// RequireRole gates a route group behind a minimum role. It runs after
// VerifyJWT, so a missing user id means the chain is misconfigured and is
// treated as unauthenticated.
func (a *Authorizer) RequireRole(min domain.Role) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		value, exists := ctx.Get(ContextKeyUserID)
		if !exists {
			response.RenderErr(ctx, response.ErrUnauthorized("authentication required"))
			return
		}
		userID, ok := value.(uint)
		if !ok {
			response.RenderErr(ctx, response.ErrUnauthorized("authentication required"))
			return
		}

		user, err := a.svc.GetUser(ctx.Request.Context(), userID)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized("unknown user"))
			return
		}

		if !user.Role.AtLeast(min) {
			response.RenderErr(ctx, response.ErrPermissionDenied(
				fmt.Errorf("user %v does not have the %v role", user.ID, min)))
			return
		}

		ctx.Next()
	}
}
