package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Umair-Web/BTOBPortal/internal/authz"
	"github.com/Umair-Web/BTOBPortal/internal/cache"
	"github.com/Umair-Web/BTOBPortal/internal/config"
	"github.com/Umair-Web/BTOBPortal/internal/constants"
	adminhandlers "github.com/Umair-Web/BTOBPortal/internal/http/handlers/admin"
	publichandlers "github.com/Umair-Web/BTOBPortal/internal/http/handlers/public"
	"github.com/Umair-Web/BTOBPortal/internal/logger"
	"github.com/Umair-Web/BTOBPortal/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "b2b"
	}
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		Message:       "too many login attempts, retry in %d seconds",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// 静态文件服务（上传的图片）
	if c.Storage != nil {
		r.Static(c.Storage.PublicPrefix(), c.Storage.Root())
	}

	health := func(ctx *gin.Context) {
		if err := cache.Ping(ctx.Request.Context()); err != nil {
			logger.Warnw("health_redis_unreachable", "error", err)
			ctx.JSON(503, gin.H{"status": "degraded", "redis": "unreachable"})
			return
		}
		ctx.JSON(200, gin.H{"status": "ok"})
	}
	r.GET("/health", health)

	userAuth := UserJWTAuthMiddleware(c.UserAuthService)
	rbac := RBACMiddleware(c.AuthzService)

	apiV1 := r.Group("/api/v1")
	{
		apiV1.GET("/health", health)

		// 认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/signup", publicHandler.Signup)
			auth.POST("/login", RateLimitMiddleware(cache.Client(), loginRule, KeyByIPAndJSONField("email")), publicHandler.Login)
		}

		// 公开商品目录
		apiV1.GET("/products", publicHandler.GetProducts)
		apiV1.GET("/products/:id", publicHandler.GetProduct)
		apiV1.GET("/categories", publicHandler.GetCategories)

		// 登录用户接口
		user := apiV1.Group("")
		user.Use(userAuth)
		{
			user.GET("/me", publicHandler.GetCurrentUser)

			user.GET("/cart", publicHandler.GetCart)
			user.POST("/cart/items", publicHandler.AddCartItem)
			user.PUT("/cart/items", publicHandler.UpdateCartItem)
			user.DELETE("/cart/items", publicHandler.DeleteCartItem)
			user.DELETE("/cart", publicHandler.ClearCart)
			user.POST("/cart/checkout", publicHandler.Checkout)

			user.POST("/orders", publicHandler.CreateOrder)
			user.GET("/orders", publicHandler.ListOrders)
			user.GET("/orders/:id", publicHandler.GetOrder)

			user.POST("/quotations", publicHandler.GenerateQuotation)
			user.POST("/quotations/records", publicHandler.RecordQuotation)
			user.GET("/quotations", publicHandler.ListQuotations)

			// 配送员接口
			user.PUT("/orders/items/:id", rbac, publicHandler.UpdateOrderItemDelivery)
			user.GET("/delivery/orders", rbac, publicHandler.ListDeliveryOrders)
		}

		// 管理员接口
		admin := apiV1.Group("/admin")
		admin.Use(userAuth, rbac)
		{
			admin.POST("/products", adminHandler.CreateProduct)
			admin.PUT("/products/:id", adminHandler.UpdateProduct)
			admin.DELETE("/products/:id", adminHandler.DeleteProduct)
			admin.POST("/products/:id/colors", adminHandler.AddColorVariant)
			admin.DELETE("/products/:id/colors/:color", adminHandler.RemoveColorVariant)
			admin.DELETE("/products/:id/images", adminHandler.RemoveProductImage)

			admin.POST("/upload", adminHandler.UploadImages)
			admin.POST("/uploads/previews", adminHandler.AcquirePreview)
			admin.POST("/uploads/previews/:id/commit", adminHandler.CommitPreview)
			admin.DELETE("/uploads/previews/:id", adminHandler.ReleasePreview)
		}
	}

	warnUnseededRoutes(r, c.AuthzService)
	return r
}

// protectedRoute 受角色保护的路由
type protectedRoute struct {
	Method string
	Object string
}

// protectedRouteCatalog 列出需要路由级授权的接口（管理端与配送端）
func protectedRouteCatalog(engine *gin.Engine) []protectedRoute {
	if engine == nil {
		return []protectedRoute{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]protectedRoute, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !isProtectedPath(item.Path) {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, protectedRoute{Method: method, Object: object})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Object == items[j].Object {
			return items[i].Method < items[j].Method
		}
		return items[i].Object < items[j].Object
	})
	return items
}

func isProtectedPath(path string) bool {
	switch {
	case strings.HasPrefix(path, "/api/v1/admin/"):
		return true
	case path == "/api/v1/delivery/orders", path == "/api/v1/orders/items/:id":
		return true
	default:
		return false
	}
}

// warnUnseededRoutes 启动时检查受保护路由是否被任一预置角色授权
func warnUnseededRoutes(engine *gin.Engine, enforcer RoleEnforcer) {
	if enforcer == nil {
		return
	}
	roles := []string{constants.RoleAdmin, constants.RoleDelivery, constants.RoleUser}
	for _, route := range protectedRouteCatalog(engine) {
		granted := false
		for _, role := range roles {
			allowed, err := enforcer.EnforceRole(role, route.Object, route.Method)
			if err != nil {
				logger.Warnw("rbac_route_check_failed", "method", route.Method, "object", route.Object, "error", err)
				return
			}
			if allowed {
				granted = true
				break
			}
		}
		if !granted {
			logger.Warnw("rbac_route_unseeded", "method", route.Method, "object", route.Object)
		}
	}
}
