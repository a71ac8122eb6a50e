package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/valais-ski/fis-inscriptions-api/internal/api/handler/v1/request"
	"github.com/valais-ski/fis-inscriptions-api/internal/api/handler/v1/response"
	"github.com/valais-ski/fis-inscriptions-api/internal/domain"
	"github.com/valais-ski/fis-inscriptions-api/internal/service"
)

type InscriptionService interface {
	CreateInscription(ctx context.Context, userID uint, codex, seasonCode string) (domain.Inscription, error)
	ListInscriptions(ctx context.Context) ([]domain.Inscription, error)
	GetInscription(ctx context.Context, id uint) (domain.Inscription, error)
	UpdateStatus(ctx context.Context, id uint, to domain.Status, gender string) (domain.Inscription, error)
	CancelInscription(ctx context.Context, id uint, gender string) (domain.Inscription, error)
	DeleteInscription(ctx context.Context, id uint, deletedBy uint) error
	RestoreInscription(ctx context.Context, id uint) (domain.Inscription, error)
	RollbackStatus(ctx context.Context, id uint, gender string) (domain.Inscription, error)
	DiffEventData(ctx context.Context, id uint) (domain.EventDiff, error)
	ApplyEventData(ctx context.Context, id uint) (domain.Inscription, error)
	AddCoach(ctx context.Context, coach domain.InscriptionCoach) (domain.InscriptionCoach, error)
	ListCoaches(ctx context.Context, inscriptionID uint) ([]domain.InscriptionCoach, error)
	RemoveCoach(ctx context.Context, inscriptionID, coachID, deletedBy uint) error
	SaveCompetitors(ctx context.Context, inscriptionID uint, competitorIDs []uint, codexNumbers []string, addedBy uint) ([]domain.InscriptionCompetitor, error)
	ListCompetitors(ctx context.Context, inscriptionID uint) ([]domain.InscriptionCompetitor, error)
	CheckCodex(ctx context.Context, number, seasonCode string, excludeID uint) (bool, error)
	ContactInscription(ctx context.Context, id uint, message string) error
}

type InscriptionHandler struct {
	svc  InscriptionService
	uSvc UserService
}

func NewInscriptionHandler(svc InscriptionService, uSvc UserService) *InscriptionHandler {
	return &InscriptionHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

func parseIDParam(ctx *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %v: %v", name, ctx.Param(name))
	}

	return uint(id), nil
}

// HandleListInscriptions godoc
// @Summary      List all inscriptions
// @Tags         inscriptions
// @Produce      json
// @Success      200 {object} []domain.Inscription
// @Failure      500 {object} response.Err
// @Router       /inscriptions [get]
func (h *InscriptionHandler) HandleListInscriptions(ctx *gin.Context) {
	inscriptions, err := h.svc.ListInscriptions(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListInscriptions -> h.svc.ListInscriptions -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, inscriptions)
}

// HandleCreateInscription godoc
// @Summary      Create an inscription from a federation event
// @Tags         inscriptions
// @Produce      json
// @Param        request body request.CreateInscriptionRequest true "request body"
// @Success      201 {object} domain.Inscription
// @Failure      400 {object} response.Err
// @Failure      401 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Security     Bearer
// @Router       /inscriptions [post]
func (h *InscriptionHandler) HandleCreateInscription(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateInscriptionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	created, err := h.svc.CreateInscription(ctx.Request.Context(), user.ID, req.Codex, req.SeasonCode)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "codex", req.Codex))
			return
		}

		err = fmt.Errorf("v1.HandleCreateInscription -> h.svc.CreateInscription -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleGetInscription godoc
// @Summary      Get one inscription
// @Tags         inscriptions
// @Produce      json
// @Param        inscriptionID path int true "inscription ID"
// @Success      200 {object} domain.Inscription
// @Failure      400 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /inscriptions/{inscriptionID} [get]
func (h *InscriptionHandler) HandleGetInscription(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "inscriptionID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	inscription, err := h.svc.GetInscription(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrInscriptionNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("inscription", "ID", id))
			return
		}

		err = fmt.Errorf("v1.HandleGetInscription -> h.svc.GetInscription -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, inscription)
}

// HandleUpdateStatus godoc
// @Summary      Update the inscription status
// @Description  Only open and validated can be requested here. email_sent is
// @Description  reached exclusively through the entry-form dispatch.
// @Tags         inscriptions
// @Produce      json
// @Param        inscriptionID path  int    true  "inscription ID"
// @Param        status        query string true  "target status (open|validated)"
// @Param        gender        query string false "gender bucket (M|W) for mixed events"
// @Success      200 {object} domain.Inscription
// @Failure      400 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      409 {object} response.Err
// @Failure      500 {object} response.Err
// @Security     Bearer
// @Router       /inscriptions/{inscriptionID}/status [patch]
func (h *InscriptionHandler) HandleUpdateStatus(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "inscriptionID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	status := domain.Status(ctx.Query("status"))
	if status != domain.StatusOpen && status != domain.StatusValidated {
		response.RenderErr(ctx, response.ErrBadRequest(
			fmt.Errorf("status must be %v or %v", domain.StatusOpen, domain.StatusValidated)))
		return
	}

	updated, err := h.svc.UpdateStatus(ctx.Request.Context(), id, status, ctx.Query("gender"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInscriptionNotFound):
			response.RenderErr(ctx, response.ErrNotFound("inscription", "ID", id))
		case errors.Is(err, service.ErrInscriptionLocked):
			response.RenderErr(ctx, response.ErrConflict(
				fmt.Errorf("inscription %v is locked: entry form already sent", id)))
		case errors.Is(err, service.ErrInvalidStatusChange):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleUpdateStatus -> h.svc.UpdateStatus -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleCancelInscription godoc
// @Summary      Cancel an inscription
// @Description  Cancellation reaches every state including email_sent; only an
// @Description  already cancelled inscription (or bucket) refuses it. Only the
// @Description  creator or an admin may cancel.
// @Tags         inscriptions
// @Produce      json
// @Param        inscriptionID path  int    true  "inscription ID"
// @Param        gender        query string false "gender bucket (M|W) for mixed events"
// @Success      200 {object} domain.Inscription
// @Failure      400 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Security     Bearer
// @Router       /inscriptions/{inscriptionID}/cancel [post]
func (h *InscriptionHandler) HandleCancelInscription(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	id, err := parseIDParam(ctx, "inscriptionID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	inscription, err := h.svc.GetInscription(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrInscriptionNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("inscription", "ID", id))
			return
		}

		err = fmt.Errorf("v1.HandleCancelInscription -> h.svc.GetInscription -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	if inscription.CreatedBy != user.ID && !user.Role.AtLeast(domain.RoleAdmin) {
		response.RenderErr(ctx, response.ErrNotFound("inscription", "ID", id))
		return
	}

	updated, err := h.svc.CancelInscription(ctx.Request.Context(), id, ctx.Query("gender"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInscriptionNotFound):
			response.RenderErr(ctx, response.ErrNotFound("inscription", "ID", id))
		case errors.Is(err, service.ErrInvalidStatusChange):
			response.RenderErr(ctx, response.ErrBadRequest(
				fmt.Errorf("inscription %v is already cancelled", id)))
		default:
			err = fmt.Errorf("v1.HandleCancelInscription -> h.svc.CancelInscription -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleDeleteInscription godoc
// @Summary      Soft-delete an inscription
// @Description  Only the creator or an admin may delete. Anyone else gets the
// @Description  same 404 as for a missing inscription.
// @Tags         inscriptions
// @Produce      json
// @Param        inscriptionID path int true "inscription ID"
// @Success      200 {object} response.MessageResponse
// @Failure      400 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Security     Bearer
// @Router       /inscriptions/{inscriptionID} [delete]
func (h *InscriptionHandler) HandleDeleteInscription(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	id, err := parseIDParam(ctx, "inscriptionID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	inscription, err := h.svc.GetInscription(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrInscriptionNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("inscription", "ID", id))
			return
		}

		err = fmt.Errorf("v1.HandleDeleteInscription -> h.svc.GetInscription -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	if inscription.CreatedBy != user.ID && !user.Role.AtLeast(domain.RoleAdmin) {
		response.RenderErr(ctx, response.ErrNotFound("inscription", "ID", id))
		return
	}

	if err = h.svc.DeleteInscription(ctx.Request.Context(), id, user.ID); err != nil {
		if errors.Is(err, service.ErrInscriptionNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("inscription", "ID", id))
			return
		}

		err = fmt.Errorf("v1.HandleDeleteInscription -> h.svc.DeleteInscription -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.MessageResponse{Message: "inscription deleted"})
}

// HandleDiffEventData godoc
// @Summary      Compare the stored event data with the upstream snapshot
// @Tags         inscriptions
// @Produce      json
// @Param        inscriptionID path int true "inscription ID"
// @Success      200 {object} domain.EventDiff
// @Failure      400 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Security     Bearer
// @Router       /inscriptions/{inscriptionID}/event-data/diff [get]
func (h *InscriptionHandler) HandleDiffEventData(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "inscriptionID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	diff, err := h.svc.DiffEventData(ctx.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInscriptionNotFound):
			response.RenderErr(ctx, response.ErrNotFound("inscription", "ID", id))
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "inscription ID", id))
		default:
			err = fmt.Errorf("v1.HandleDiffEventData -> h.svc.DiffEventData -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, diff)
}

// HandleApplyEventData godoc
// @Summary      Persist the upstream event data snapshot
// @Description  All-or-nothing: the complete remote snapshot replaces the
// @Description  stored one. Refused when nothing differs.
// @Tags         inscriptions
// @Produce      json
// @Param        inscriptionID path int true "inscription ID"
// @Success      200 {object} domain.Inscription
// @Failure      400 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      409 {object} response.Err
// @Failure      500 {object} response.Err
// @Security     Bearer
// @Router       /inscriptions/{inscriptionID}/event-data [put]
func (h *InscriptionHandler) HandleApplyEventData(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "inscriptionID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	updated, err := h.svc.ApplyEventData(ctx.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInscriptionNotFound):
			response.RenderErr(ctx, response.ErrNotFound("inscription", "ID", id))
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "inscription ID", id))
		case errors.Is(err, service.ErrEventDataCurrent):
			response.RenderErr(ctx, response.ErrConflict(err))
		case errors.Is(err, service.ErrInscriptionLocked):
			response.RenderErr(ctx, response.ErrConflict(
				fmt.Errorf("inscription %v is locked: entry form already sent", id)))
		default:
			err = fmt.Errorf("v1.HandleApplyEventData -> h.svc.ApplyEventData -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleListCoaches godoc
// @Summary      List the coaches of an inscription
// @Tags         coaches
// @Produce      json
// @Param        inscriptionID path int true "inscription ID"
// @Success      200 {object} []domain.InscriptionCoach
// @Failure      400 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Security     Bearer
// @Router       /inscriptions/{inscriptionID}/coaches [get]
func (h *InscriptionHandler) HandleListCoaches(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "inscriptionID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	coaches, err := h.svc.ListCoaches(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrInscriptionNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("inscription", "ID", id))
			return
		}

		err = fmt.Errorf("v1.HandleListCoaches -> h.svc.ListCoaches -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, coaches)
}

// HandleAddCoach godoc
// @Summary      Add a coach to an inscription
// @Tags         coaches
// @Produce      json
// @Param        inscriptionID path int true "inscription ID"
// @Param        request body request.AddCoachRequest true "request body"
// @Success      201 {object} domain.InscriptionCoach
// @Failure      400 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      409 {object} response.Err
// @Failure      500 {object} response.Err
// @Security     Bearer
// @Router       /inscriptions/{inscriptionID}/coaches [post]
func (h *InscriptionHandler) HandleAddCoach(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	id, err := parseIDParam(ctx, "inscriptionID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var req request.AddCoachRequest
	if err = ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err = req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	start, end, err := req.Window()
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	created, err := h.svc.AddCoach(ctx.Request.Context(), domain.InscriptionCoach{
		InscriptionID: id,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Gender:        req.Gender,
		Team:          req.Team,
		StartDate:     start,
		EndDate:       end,
		AddedBy:       user.ID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInscriptionNotFound):
			response.RenderErr(ctx, response.ErrNotFound("inscription", "ID", id))
		case errors.Is(err, service.ErrInscriptionLocked):
			response.RenderErr(ctx, response.ErrConflict(
				fmt.Errorf("inscription %v is locked: entry form already sent", id)))
		case errors.Is(err, service.ErrCoachDateOrder),
			errors.Is(err, service.ErrCoachStartBeforeEvent),
			errors.Is(err, service.ErrCoachEndAfterEvent):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleAddCoach -> h.svc.AddCoach -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleRemoveCoach godoc
// @Summary      Remove a coach from an inscription
// @Tags         coaches
// @Produce      json
// @Param        inscriptionID path int true "inscription ID"
// @Param        coachID       path int true "coach ID"
// @Success      200 {object} response.MessageResponse
// @Failure      400 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      409 {object} response.Err
// @Failure      500 {object} response.Err
// @Security     Bearer
// @Router       /inscriptions/{inscriptionID}/coaches/{coachID} [delete]
func (h *InscriptionHandler) HandleRemoveCoach(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	id, err := parseIDParam(ctx, "inscriptionID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	coachID, err := parseIDParam(ctx, "coachID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = h.svc.RemoveCoach(ctx.Request.Context(), id, coachID, user.ID); err != nil {
		switch {
		case errors.Is(err, service.ErrInscriptionNotFound):
			response.RenderErr(ctx, response.ErrNotFound("inscription", "ID", id))
		case errors.Is(err, service.ErrCoachNotFound):
			response.RenderErr(ctx, response.ErrNotFound("coach", "ID", coachID))
		case errors.Is(err, service.ErrInscriptionLocked):
			response.RenderErr(ctx, response.ErrConflict(
				fmt.Errorf("inscription %v is locked: entry form already sent", id)))
		default:
			err = fmt.Errorf("v1.HandleRemoveCoach -> h.svc.RemoveCoach -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, response.MessageResponse{Message: "coach deleted"})
}

// HandleSaveCompetitors godoc
// @Summary      Replace the competitor links for a codex set
// @Description  Existing links on the submitted codices are removed, then the
// @Description  cross product of competitors and codices is inserted.
// @Tags         competitors
// @Produce      json
// @Param        inscriptionID path int true "inscription ID"
// @Param        request body request.SaveCompetitorsRequest true "request body"
// @Success      200 {object} []domain.InscriptionCompetitor
// @Failure      400 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      409 {object} response.Err
// @Failure      500 {object} response.Err
// @Security     Bearer
// @Router       /inscriptions/{inscriptionID}/save-competitors [post]
func (h *InscriptionHandler) HandleSaveCompetitors(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	id, err := parseIDParam(ctx, "inscriptionID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var req request.SaveCompetitorsRequest
	if err = ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err = req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	links, err := h.svc.SaveCompetitors(ctx.Request.Context(), id, req.CompetitorIDs, req.CodexNumbers, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInscriptionNotFound):
			response.RenderErr(ctx, response.ErrNotFound("inscription", "ID", id))
		case errors.Is(err, service.ErrInscriptionLocked):
			response.RenderErr(ctx, response.ErrConflict(
				fmt.Errorf("inscription %v is locked: entry form already sent", id)))
		case errors.Is(err, service.ErrEmptyLinkSet),
			errors.Is(err, service.ErrUnknownCodex),
			errors.Is(err, service.ErrCompetitorNotFound):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleSaveCompetitors -> h.svc.SaveCompetitors -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, links)
}

// HandleListInscriptionCompetitors godoc
// @Summary      List the competitor links of an inscription
// @Tags         competitors
// @Produce      json
// @Param        inscriptionID path int true "inscription ID"
// @Success      200 {object} []domain.InscriptionCompetitor
// @Failure      400 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Security     Bearer
// @Router       /inscriptions/{inscriptionID}/competitors [get]
func (h *InscriptionHandler) HandleListInscriptionCompetitors(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "inscriptionID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	links, err := h.svc.ListCompetitors(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrInscriptionNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("inscription", "ID", id))
			return
		}

		err = fmt.Errorf("v1.HandleListInscriptionCompetitors -> h.svc.ListCompetitors -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, links)
}

// HandleCheckCodex godoc
// @Summary      Check whether a codex is already used this season
// @Tags         inscriptions
// @Produce      json
// @Param        number     query string true  "codex number"
// @Param        seasonCode query string false "season code"
// @Param        excludeId  query int    false "inscription to ignore"
// @Success      200 {object} response.CodexCheckResponse
// @Failure      400 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /codex/check [post]
func (h *InscriptionHandler) HandleCheckCodex(ctx *gin.Context) {
	number := ctx.Query("number")
	if number == "" {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("number is required")))
		return
	}

	var excludeID uint
	if raw := ctx.Query("excludeId"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid excludeId: %v", raw)))
			return
		}
		excludeID = uint(parsed)
	}

	isDuplicate, err := h.svc.CheckCodex(ctx.Request.Context(), number, ctx.Query("seasonCode"), excludeID)
	if err != nil {
		err = fmt.Errorf("v1.HandleCheckCodex -> h.svc.CheckCodex -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.CodexCheckResponse{IsDuplicate: isDuplicate})
}

// HandleContactInscription godoc
// @Summary      Notify the organization contacts about an inscription
// @Tags         inscriptions
// @Produce      json
// @Param        request body request.ContactInscriptionRequest true "request body"
// @Success      200 {object} response.MessageResponse
// @Failure      400 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Security     Bearer
// @Router       /contact-inscription [post]
func (h *InscriptionHandler) HandleContactInscription(ctx *gin.Context) {
	var req request.ContactInscriptionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.svc.ContactInscription(ctx.Request.Context(), req.InscriptionID, req.Message); err != nil {
		switch {
		case errors.Is(err, service.ErrInscriptionNotFound):
			response.RenderErr(ctx, response.ErrNotFound("inscription", "ID", req.InscriptionID))
		case errors.Is(err, service.ErrOrganizationNotFound):
			response.RenderErr(ctx, response.ErrNotFound("organization", "inscription ID", req.InscriptionID))
		default:
			err = fmt.Errorf("v1.HandleContactInscription -> h.svc.ContactInscription -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, response.MessageResponse{Message: "notification sent"})
}

// HandleRestoreInscription godoc
// @Summary      Restore a soft-deleted inscription
// @Tags         admin
// @Produce      json
// @Param        inscriptionID path int true "inscription ID"
// @Success      200 {object} domain.Inscription
// @Failure      400 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Security     Bearer
// @Router       /admin/inscriptions/{inscriptionID}/restore [post]
func (h *InscriptionHandler) HandleRestoreInscription(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "inscriptionID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	restored, err := h.svc.RestoreInscription(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrInscriptionNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("inscription", "ID", id))
			return
		}

		err = fmt.Errorf("v1.HandleRestoreInscription -> h.svc.RestoreInscription -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, restored)
}

// HandleRollbackStatus godoc
// @Summary      Roll an email_sent inscription back to validated
// @Tags         admin
// @Produce      json
// @Param        inscriptionID path  int    true  "inscription ID"
// @Param        gender        query string false "gender bucket (M|W) for mixed events"
// @Success      200 {object} domain.Inscription
// @Failure      400 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Security     Bearer
// @Router       /admin/inscriptions/{inscriptionID}/rollback-status [patch]
func (h *InscriptionHandler) HandleRollbackStatus(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "inscriptionID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	updated, err := h.svc.RollbackStatus(ctx.Request.Context(), id, ctx.Query("gender"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInscriptionNotFound):
			response.RenderErr(ctx, response.ErrNotFound("inscription", "ID", id))
		case errors.Is(err, service.ErrInvalidStatusChange):
			response.RenderErr(ctx, response.ErrBadRequest(
				fmt.Errorf("inscription %v has no entry form dispatch to roll back", id)))
		default:
			err = fmt.Errorf("v1.HandleRollbackStatus -> h.svc.RollbackStatus -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, updated)
}
