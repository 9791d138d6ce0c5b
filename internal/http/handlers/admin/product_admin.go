package admin

import (
	"net/url"
	"strings"

	"github.com/Umair-Web/BTOBPortal/internal/http/response"
	"github.com/Umair-Web/BTOBPortal/internal/models"
	"github.com/Umair-Web/BTOBPortal/internal/service"

	"github.com/gin-gonic/gin"
)

// ProductRequest 创建/更新商品请求
type ProductRequest struct {
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	Price         models.Money `json:"price"`
	Stock         int          `json:"stock"`
	Category      string       `json:"category"`
	Images        []string     `json:"images"`
	ColorVariants []string     `json:"color_variants"`
}

func (r ProductRequest) toInput() service.ProductInput {
	return service.ProductInput{
		Name:          r.Name,
		Description:   r.Description,
		Price:         r.Price,
		Stock:         r.Stock,
		Category:      r.Category,
		Images:        r.Images,
		ColorVariants: r.ColorVariants,
	}
}

// ColorVariantRequest 新增颜色请求
type ColorVariantRequest struct {
	Color string `json:"color"`
}

// RemoveImageRequest 移除图片请求
type RemoveImageRequest struct {
	URL string `json:"url"`
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, msgBadRequest, err)
		return
	}
	product, err := h.ProductService.Create(c.Request.Context(), actor, req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, product)
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "invalid product id")
	if !ok {
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, msgBadRequest, err)
		return
	}
	product, err := h.ProductService.Update(c.Request.Context(), actor, id, req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, product)
}

// DeleteProduct 删除商品，图片尽力清理
func (h *Handler) DeleteProduct(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "invalid product id")
	if !ok {
		return
	}
	if err := h.ProductService.Delete(c.Request.Context(), actor, id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// AddColorVariant 新增颜色
func (h *Handler) AddColorVariant(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "invalid product id")
	if !ok {
		return
	}
	var req ColorVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, msgBadRequest, err)
		return
	}
	product, err := h.ProductService.AddColorVariant(c.Request.Context(), actor, id, req.Color)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, product)
}

// RemoveColorVariant 移除颜色
func (h *Handler) RemoveColorVariant(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "invalid product id")
	if !ok {
		return
	}
	color, err := url.PathUnescape(c.Param("color"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid color variant", nil)
		return
	}
	product, err := h.ProductService.RemoveColorVariant(c.Request.Context(), actor, id, color)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, product)
}

// RemoveProductImage 按 URL 移除商品图片
func (h *Handler) RemoveProductImage(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "invalid product id")
	if !ok {
		return
	}
	imageURL := strings.TrimSpace(c.Query("url"))
	if imageURL == "" {
		var req RemoveImageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, response.CodeBadRequest, msgBadRequest, err)
			return
		}
		imageURL = strings.TrimSpace(req.URL)
	}
	if imageURL == "" {
		respondError(c, response.CodeBadRequest, "image url is required", nil)
		return
	}
	product, err := h.ProductService.RemoveImage(c.Request.Context(), actor, id, imageURL)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, product)
}
