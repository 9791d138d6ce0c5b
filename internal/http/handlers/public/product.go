package public

import (
	"strings"

	"github.com/Umair-Web/BTOBPortal/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetProducts 商品列表，可按分类过滤
func (h *Handler) GetProducts(c *gin.Context) {
	category := strings.TrimSpace(c.Query("category"))
	products, err := h.ProductService.List(c.Request.Context(), category)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, products)
}

// GetProduct 商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := parseID(c, "id", "invalid product id")
	if !ok {
		return
	}
	product, err := h.ProductService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, product)
}

// GetCategories 分类列表
func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.ProductService.Categories(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, categories)
}
