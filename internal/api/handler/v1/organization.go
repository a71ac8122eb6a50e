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
	"github.com/valais-ski/fis-inscriptions-api/internal/repository"
)

type OrganizationService interface {
	GetOrganization(ctx context.Context, code string) (domain.Organization, error)
	UpdateOrganization(ctx context.Context, org domain.Organization) (domain.Organization, error)
}

type OrganizationHandler struct {
	svc OrganizationService
}

func NewOrganizationHandler(svc OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{
		svc: svc,
	}
}

// HandleGetOrganization godoc
// @Summary      Get an organization's configuration
// @Tags         organizations
// @Produce      json
// @Param        code path string true "organization code"
// @Success      200 {object} domain.Organization
// @Failure      403 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Security     Bearer
// @Router       /organizations/{code} [get]
func (h *OrganizationHandler) HandleGetOrganization(ctx *gin.Context) {
	code := ctx.Param("code")

	org, err := h.svc.GetOrganization(ctx.Request.Context(), code)
	if err != nil {
		if errors.Is(err, repository.ErrOrganizationNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("organization", "code", code))
			return
		}

		err = fmt.Errorf("v1.HandleGetOrganization -> h.svc.GetOrganization -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, org)
}

// HandleUpdateOrganization godoc
// @Summary      Update an organization's configuration
// @Tags         organizations
// @Produce      json
// @Param        code    path string                            true "organization code"
// @Param        request body request.UpdateOrganizationRequest true "request body"
// @Success      200 {object} domain.Organization
// @Failure      400 {object} response.Err
// @Failure      403 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Security     Bearer
// @Router       /organizations/{code} [patch]
func (h *OrganizationHandler) HandleUpdateOrganization(ctx *gin.Context) {
	code := ctx.Param("code")

	var req request.UpdateOrganizationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	contacts := make([]domain.OrganizationContact, 0, len(req.Contacts))
	for _, contact := range req.Contacts {
		contacts = append(contacts, domain.OrganizationContact{
			Name:  contact.Name,
			Email: contact.Email,
			Role:  contact.Role,
		})
	}

	updated, err := h.svc.UpdateOrganization(ctx.Request.Context(), domain.Organization{
		Code:                code,
		Name:                req.Name,
		Country:             req.Country,
		BaseURL:             req.BaseURL,
		NotificationSubject: req.NotificationSubject,
		Contacts:            contacts,
	})
	if err != nil {
		if errors.Is(err, repository.ErrOrganizationNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("organization", "code", code))
			return
		}

		err = fmt.Errorf("v1.HandleUpdateOrganization -> h.svc.UpdateOrganization -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, updated)
}
