package admin

import (
	"github.com/Umair-Web/BTOBPortal/internal/authz"
	handlershared "github.com/Umair-Web/BTOBPortal/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getActor(c *gin.Context) (*authz.Actor, bool) {
	return handlershared.GetActor(c)
}

func parseID(c *gin.Context, name, invalidMsg string) (uint, bool) {
	return handlershared.ParseUintParam(c, name, invalidMsg)
}
