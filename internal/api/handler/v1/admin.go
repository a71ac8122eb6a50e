package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/valais-ski/fis-inscriptions-api/internal/api/handler/v1/request"
	"github.com/valais-ski/fis-inscriptions-api/internal/api/handler/v1/response"
	"github.com/valais-ski/fis-inscriptions-api/internal/domain"
	"github.com/valais-ski/fis-inscriptions-api/internal/service"
)

type AdminService interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id uint) (domain.User, error)
	UpdateUser(ctx context.Context, user domain.User) (domain.User, error)
	UpdateRole(ctx context.Context, actor domain.User, targetID uint, role domain.Role) (domain.User, error)
	DeleteUser(ctx context.Context, actor domain.User, targetID uint) error
	UserActivity(ctx context.Context, userID uint) ([]domain.ActivityEntry, error)
}

type AdminHandler struct {
	svc  AdminService
	uSvc UserService
}

func NewAdminHandler(svc AdminService, uSvc UserService) *AdminHandler {
	return &AdminHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleListUsers godoc
// @Summary      List all users
// @Tags         admin
// @Produce      json
// @Success      200 {object} []domain.User
// @Failure      500 {object} response.Err
// @Security     Bearer
// @Router       /admin/users [get]
func (h *AdminHandler) HandleListUsers(ctx *gin.Context) {
	users, err := h.svc.ListUsers(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListUsers -> h.svc.ListUsers -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, users)
}

// HandleUpdateUser godoc
// @Summary      Update a user's profile
// @Tags         admin
// @Produce      json
// @Param        userID  path int                       true "user ID"
// @Param        request body request.UpdateUserRequest true "request body"
// @Success      200 {object} domain.User
// @Failure      400 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Security     Bearer
// @Router       /admin/users/{userID} [patch]
func (h *AdminHandler) HandleUpdateUser(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "userID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var req request.UpdateUserRequest
	if err = ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err = req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	updated, err := h.svc.UpdateUser(ctx.Request.Context(), domain.User{
		ID:    id,
		Email: req.Email,
		Name:  req.Name,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", id))
			return
		}

		err = fmt.Errorf("v1.HandleUpdateUser -> h.svc.UpdateUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleUpdateRole godoc
// @Summary      Change a user's role
// @Description  Actors cannot weaken their own access: an admin must stay at
// @Description  least admin, a super-admin must stay super-admin.
// @Tags         admin
// @Produce      json
// @Param        userID  path int                       true "user ID"
// @Param        request body request.UpdateRoleRequest true "request body"
// @Success      200 {object} domain.User
// @Failure      400 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Security     Bearer
// @Router       /admin/users/{userID}/role [patch]
func (h *AdminHandler) HandleUpdateRole(ctx *gin.Context) {
	actor, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	id, err := parseIDParam(ctx, "userID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var req request.UpdateRoleRequest
	if err = ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err = req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	updated, err := h.svc.UpdateRole(ctx.Request.Context(), actor, id, domain.Role(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", id))
		case errors.Is(err, service.ErrInvalidRole), errors.Is(err, service.ErrSelfRoleChange):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleUpdateRole -> h.svc.UpdateRole -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleDeleteUser godoc
// @Summary      Soft-delete a user
// @Tags         admin
// @Produce      json
// @Param        userID path int true "user ID"
// @Success      200 {object} response.MessageResponse
// @Failure      400 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Security     Bearer
// @Router       /admin/users/{userID} [delete]
func (h *AdminHandler) HandleDeleteUser(ctx *gin.Context) {
	actor, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	id, err := parseIDParam(ctx, "userID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = h.svc.DeleteUser(ctx.Request.Context(), actor, id); err != nil {
		switch {
		case errors.Is(err, service.ErrSelfDeletion):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.Is(err, service.ErrUserNotFound):
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", id))
		default:
			err = fmt.Errorf("v1.HandleDeleteUser -> h.svc.DeleteUser -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, response.MessageResponse{Message: "user deleted"})
}

// HandleUserActivity godoc
// @Summary      List a user's activity trail
// @Tags         admin
// @Produce      json
// @Param        userID path int true "user ID"
// @Success      200 {object} []domain.ActivityEntry
// @Failure      400 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Security     Bearer
// @Router       /admin/users/{userID}/activity [get]
func (h *AdminHandler) HandleUserActivity(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "userID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	entries, err := h.svc.UserActivity(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", id))
			return
		}

		err = fmt.Errorf("v1.HandleUserActivity -> h.svc.UserActivity -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, entries)
}
