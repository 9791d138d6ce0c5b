package shared

import (
	"strconv"
	"strings"

	"github.com/Umair-Web/BTOBPortal/internal/authz"
	"github.com/Umair-Web/BTOBPortal/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ActorContextKey 鉴权中间件写入的当前主体键
const ActorContextKey = "actor"

// GetActor 从上下文读取当前主体，缺失时返回 401
func GetActor(c *gin.Context) (*authz.Actor, bool) {
	value, exists := c.Get(ActorContextKey)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "unauthorized", nil)
		return nil, false
	}
	actor, ok := value.(*authz.Actor)
	if !ok || !actor.Authenticated() {
		RespondError(c, response.CodeUnauthorized, "unauthorized", nil)
		return nil, false
	}
	return actor, true
}

// ParseUintParam 解析路径中的正整数 ID
func ParseUintParam(c *gin.Context, name, invalidMsg string) (uint, bool) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		RespondError(c, response.CodeBadRequest, invalidMsg, nil)
		return 0, false
	}
	return uint(id), true
}
