package shared

import (
	"errors"

	"github.com/Umair-Web/BTOBPortal/internal/http/response"
	"github.com/Umair-Web/BTOBPortal/internal/logger"
	"github.com/Umair-Web/BTOBPortal/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MappedError 业务错误到接口响应的映射规则
type MappedError struct {
	Target error
	Code   int
	Msg    string
}

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, msg string, err error) {
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.Error(c, appErr.Code, appErr.Message)
}

// StatusForKind 业务错误分类对应的状态码
func StatusForKind(kind service.ErrorKind) int {
	switch kind {
	case service.KindValidation, service.KindConflict:
		return response.CodeBadRequest
	case service.KindAuthorization:
		return response.CodeUnauthorized
	case service.KindNotFound:
		return response.CodeNotFound
	default:
		return response.CodeInternal
	}
}

// RespondServiceError 按分类输出业务错误；依赖失败只返回通用信息并记录原因
func RespondServiceError(c *gin.Context, err error) {
	kind := service.KindOf(err)
	code := StatusForKind(kind)
	var logged error
	if kind == service.KindDependency {
		logged = err
	}
	RespondError(c, code, service.PublicMessage(err), logged)
}

// RespondMappedError 优先按规则表匹配，未命中时按分类兜底
func RespondMappedError(c *gin.Context, err error, rules []MappedError) {
	for _, rule := range rules {
		if errors.Is(err, rule.Target) {
			RespondError(c, rule.Code, rule.Msg, nil)
			return
		}
	}
	RespondServiceError(c, err)
}
