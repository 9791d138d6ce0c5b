package public

import "github.com/Umair-Web/BTOBPortal/internal/provider"

// Handler 前台接口处理器入口
// 说明：该处理器用于游客、登录用户与配送员侧 API。
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
