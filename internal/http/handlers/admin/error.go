package admin

import (
	handlershared "github.com/Umair-Web/BTOBPortal/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

const msgBadRequest = "invalid request body"

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

func respondServiceError(c *gin.Context, err error) {
	handlershared.RespondServiceError(c, err)
}
