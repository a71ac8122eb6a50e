package v1

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/valais-ski/fis-inscriptions-api/internal/api/handler/v1/response"
	"github.com/valais-ski/fis-inscriptions-api/internal/domain"
	"github.com/valais-ski/fis-inscriptions-api/internal/service"
)

type CompetitorService interface {
	SearchCompetitors(ctx context.Context, query string) ([]domain.Competitor, error)
	ListInscriptions(ctx context.Context, competitorID uint) ([]domain.CompetitorEntry, error)
	ImportCSV(ctx context.Context, r io.Reader) (int64, error)
}

type CompetitorHandler struct {
	svc CompetitorService
}

func NewCompetitorHandler(svc CompetitorService) *CompetitorHandler {
	return &CompetitorHandler{
		svc: svc,
	}
}

// HandleSearchCompetitors godoc
// @Summary      Search competitors by name
// @Tags         competitors
// @Produce      json
// @Param        search query string true "query, at least 7 characters"
// @Success      200 {object} []domain.Competitor
// @Failure      400 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /competitors [get]
func (h *CompetitorHandler) HandleSearchCompetitors(ctx *gin.Context) {
	competitors, err := h.svc.SearchCompetitors(ctx.Request.Context(), ctx.Query("search"))
	if err != nil {
		if errors.Is(err, service.ErrSearchTooShort) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleSearchCompetitors -> h.svc.SearchCompetitors -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, competitors)
}

// HandleListCompetitorInscriptions godoc
// @Summary      List the inscriptions a competitor is entered on
// @Tags         competitors
// @Produce      json
// @Param        competitorID path int true "competitor ID"
// @Success      200 {object} []domain.CompetitorEntry
// @Failure      400 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /competitors/{competitorID}/inscriptions [get]
func (h *CompetitorHandler) HandleListCompetitorInscriptions(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "competitorID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	entries, err := h.svc.ListInscriptions(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrCompetitorNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("competitor", "ID", id))
			return
		}

		err = fmt.Errorf("v1.HandleListCompetitorInscriptions -> h.svc.ListInscriptions -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, entries)
}

// HandleImportCompetitors godoc
// @Summary      Bulk refresh the competitor table from a points-list CSV
// @Tags         admin
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "points list CSV"
// @Success      200 {object} response.ImportResponse
// @Failure      400 {object} response.Err
// @Failure      500 {object} response.Err
// @Security     Bearer
// @Router       /admin/competitors/import [post]
func (h *CompetitorHandler) HandleImportCompetitors(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("csv file is required")))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		err = fmt.Errorf("v1.HandleImportCompetitors -> fileHeader.Open -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}
	defer file.Close()

	affected, err := h.svc.ImportCSV(ctx.Request.Context(), file)
	if err != nil {
		if errors.Is(err, service.ErrEmptyImport) || errors.Is(err, service.ErrMalformedImport) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleImportCompetitors -> h.svc.ImportCSV -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.ImportResponse{RowsAffected: affected})
}
