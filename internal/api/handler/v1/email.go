package v1

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/valais-ski/fis-inscriptions-api/internal/api/handler/v1/response"
	"github.com/valais-ski/fis-inscriptions-api/internal/domain"
	"github.com/valais-ski/fis-inscriptions-api/internal/service"
)

// Entry forms are small; anything bigger than this is not a form.
const maxPDFSize = 10 << 20

type EntryFormService interface {
	SendEntryForm(ctx context.Context, id uint, gender string, to []string, subject string, pdf []byte, filename string) (domain.Inscription, error)
}

type EmailHandler struct {
	svc  EntryFormService
	uSvc UserService
}

func NewEmailHandler(svc EntryFormService, uSvc UserService) *EmailHandler {
	return &EmailHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleSendInscriptionPDF godoc
// @Summary      Email the entry-form PDF to the race organizers
// @Description  Multipart form: pdf file, to (JSON array of addresses),
// @Description  inscriptionId, subject, optional gender. A successful send
// @Description  locks the inscription (or gender bucket) behind email_sent.
// @Tags         email
// @Accept       multipart/form-data
// @Produce      json
// @Param        pdf           formData file   true  "entry form PDF"
// @Param        to            formData string true  "JSON array of recipients"
// @Param        inscriptionId formData int    true  "inscription ID"
// @Param        subject       formData string true  "email subject"
// @Param        gender        formData string false "gender bucket (M|W)"
// @Success      200 {object} domain.Inscription
// @Failure      400 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      409 {object} response.Err
// @Failure      500 {object} response.Err
// @Security     Bearer
// @Router       /send-inscription-pdf [post]
func (h *EmailHandler) HandleSendInscriptionPDF(ctx *gin.Context) {
	if _, respErr := getUserFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	id, err := strconv.ParseUint(ctx.PostForm("inscriptionId"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(
			fmt.Errorf("invalid inscriptionId: %v", ctx.PostForm("inscriptionId"))))
		return
	}

	subject := ctx.PostForm("subject")
	if subject == "" {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("subject is required")))
		return
	}

	var to []string
	if err = json.Unmarshal([]byte(ctx.PostForm("to")), &to); err != nil || len(to) == 0 {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("to must be a non-empty JSON array of addresses")))
		return
	}

	fileHeader, err := ctx.FormFile("pdf")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("pdf file is required")))
		return
	}
	if fileHeader.Size > maxPDFSize {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("pdf file is too large")))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		err = fmt.Errorf("v1.HandleSendInscriptionPDF -> fileHeader.Open -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}
	defer file.Close()

	pdf, err := io.ReadAll(file)
	if err != nil {
		err = fmt.Errorf("v1.HandleSendInscriptionPDF -> io.ReadAll -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	updated, err := h.svc.SendEntryForm(ctx.Request.Context(),
		uint(id), ctx.PostForm("gender"), to, subject, pdf, fileHeader.Filename)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInscriptionNotFound):
			response.RenderErr(ctx, response.ErrNotFound("inscription", "ID", id))
		case errors.Is(err, service.ErrInscriptionLocked):
			response.RenderErr(ctx, response.ErrConflict(
				fmt.Errorf("inscription %v is locked: entry form already sent", id)))
		case errors.Is(err, service.ErrInvalidStatusChange):
			response.RenderErr(ctx, response.ErrBadRequest(
				fmt.Errorf("inscription %v must be validated before sending the entry form", id)))
		default:
			err = fmt.Errorf("v1.HandleSendInscriptionPDF -> h.svc.SendEntryForm -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, updated)
}
