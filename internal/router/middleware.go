package router

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/Umair-Web/BTOBPortal/internal/authz"
	"github.com/Umair-Web/BTOBPortal/internal/config"
	handlershared "github.com/Umair-Web/BTOBPortal/internal/http/handlers/shared"
	"github.com/Umair-Web/BTOBPortal/internal/http/response"
	"github.com/Umair-Web/BTOBPortal/internal/logger"
	"github.com/Umair-Web/BTOBPortal/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDKey = "request_id"
const requestIDHeader = "X-Request-ID"
const msgUnauthorized = "unauthorized"

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{
			"Content-Type",
			"Content-Length",
			"Accept-Encoding",
			"Authorization",
			"Cache-Control",
			"X-Requested-With",
			"X-CSRF-Token",
		}
	}
	methodsHeader := strings.Join(allowedMethods, ", ")
	headersHeader := strings.Join(allowedHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowedOrigin := resolveAllowedOrigin(origin, allowedOrigins, cfg.AllowCredentials)
		if allowedOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			if allowedOrigin != "*" {
				c.Writer.Header().Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", headersHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", methodsHeader)
		if cfg.MaxAge > 0 {
			c.Writer.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	if len(allowedOrigins) == 0 {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware 请求 ID 中间件
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware 结构化请求日志中间件
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	sugar := logger.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log := sugar.With(
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		if len(c.Errors) > 0 {
			log.Errorw("request", "errors", c.Errors.String())
			return
		}
		log.Infow("request")
	}
}

func getRequestID(c *gin.Context) string {
	value, ok := c.Get(requestIDKey)
	if !ok {
		return ""
	}
	if requestID, ok := value.(string); ok {
		return requestID
	}
	return ""
}

// ActorResolver 由令牌解析当前主体
type ActorResolver interface {
	ParseUserJWT(tokenString string) (*service.UserJWTClaims, error)
	ResolveActor(ctx context.Context, claims *service.UserJWTClaims) (*authz.Actor, error)
}

// RoleEnforcer 按角色判定路由授权
type RoleEnforcer interface {
	EnforceRole(role, obj, act string) (bool, error)
}

// UserJWTAuthMiddleware 用户 JWT 鉴权中间件
// 令牌校验通过后重新读取用户角色，角色变更即时生效
func UserJWTAuthMiddleware(resolver ActorResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if resolver == nil {
			logger.Errorw("auth_resolver_unavailable")
			response.Unauthorized(c, msgUnauthorized)
			c.Abort()
			return
		}
		tokenString, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Unauthorized(c, msgUnauthorized)
			c.Abort()
			return
		}

		claims, err := resolver.ParseUserJWT(tokenString)
		if err != nil || claims == nil || claims.UserID == 0 {
			response.Unauthorized(c, msgUnauthorized)
			c.Abort()
			return
		}

		actor, err := resolver.ResolveActor(c.Request.Context(), claims)
		if err != nil {
			if !errors.Is(err, authz.ErrUnauthenticated) {
				handlershared.RequestLog(c).Errorw("auth_resolve_actor_failed",
					"user_id", claims.UserID,
					"error", err,
				)
			}
			response.Unauthorized(c, msgUnauthorized)
			c.Abort()
			return
		}

		c.Set(handlershared.ActorContextKey, actor)
		c.Set("user_id", actor.UserID)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// RBACMiddleware 路由级角色鉴权中间件，拒绝时统一返回 401
func RBACMiddleware(enforcer RoleEnforcer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if enforcer == nil {
			logger.Errorw("rbac_service_unavailable")
			response.Unauthorized(c, msgUnauthorized)
			c.Abort()
			return
		}

		value, exists := c.Get(handlershared.ActorContextKey)
		actor, _ := value.(*authz.Actor)
		if !exists || !actor.Authenticated() {
			response.Unauthorized(c, msgUnauthorized)
			c.Abort()
			return
		}

		resource := c.FullPath()
		if strings.TrimSpace(resource) == "" {
			resource = c.Request.URL.Path
		}

		allowed, err := enforcer.EnforceRole(actor.Role, resource, c.Request.Method)
		if err != nil {
			logger.Errorw("rbac_enforce_failed",
				"user_id", actor.UserID,
				"role", actor.Role,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err,
			)
			response.Unauthorized(c, msgUnauthorized)
			c.Abort()
			return
		}
		if !allowed {
			logger.Warnw("rbac_permission_denied",
				"user_id", actor.UserID,
				"role", actor.Role,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"resource", authz.NormalizeObject(resource),
			)
			response.Unauthorized(c, msgUnauthorized)
			c.Abort()
			return
		}

		c.Next()
	}
}
