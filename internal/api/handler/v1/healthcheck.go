package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/valais-ski/fis-inscriptions-api/internal/api/handler/v1/response"
)

// HandleHealthcheck godoc
// @Summary      Report service liveness
// @Tags         healthcheck
// @Produce      json
// @Success      200 {object} response.MessageResponse
// @Router       /healthcheck [get]
func HandleHealthcheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, response.MessageResponse{Message: "ok"})
}
