package public

import (
	"strconv"
	"strings"

	"github.com/Umair-Web/BTOBPortal/internal/http/response"
	"github.com/Umair-Web/BTOBPortal/internal/service"

	"github.com/gin-gonic/gin"
)

// CartItemRequest 购物车项请求
type CartItemRequest struct {
	ProductID    uint   `json:"product_id" binding:"required"`
	ColorVariant string `json:"color_variant"`
	Quantity     int    `json:"quantity"`
}

// CheckoutRequest 购物车结算请求
type CheckoutRequest struct {
	OrderNumber string `json:"order_number"`
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	view, err := h.CartService.Get(c.Request.Context(), actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, view)
}

// AddCartItem 加入购物车，数量缺省为 1
func (h *Handler) AddCartItem(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, msgBadRequest, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	view, err := h.CartService.AddItem(c.Request.Context(), actor, service.AddCartItemInput{
		ProductID:    req.ProductID,
		ColorVariant: req.ColorVariant,
		Quantity:     req.Quantity,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, view)
}

// UpdateCartItem 修改购物车行数量
func (h *Handler) UpdateCartItem(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, msgBadRequest, err)
		return
	}
	view, err := h.CartService.UpdateQuantity(c.Request.Context(), actor, service.UpdateCartItemInput{
		ProductID:    req.ProductID,
		ColorVariant: req.ColorVariant,
		Quantity:     req.Quantity,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, view)
}

// DeleteCartItem 删除购物车行；参数可来自查询串或请求体
func (h *Handler) DeleteCartItem(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	var req CartItemRequest
	if raw := strings.TrimSpace(c.Query("product_id")); raw != "" {
		productID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || productID == 0 {
			respondError(c, response.CodeBadRequest, "invalid product id", nil)
			return
		}
		req.ProductID = uint(productID)
		req.ColorVariant = c.Query("color_variant")
	} else if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, msgBadRequest, err)
		return
	}
	view, err := h.CartService.RemoveItem(c.Request.Context(), actor, req.ProductID, req.ColorVariant)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, view)
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	view, err := h.CartService.Clear(c.Request.Context(), actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, view)
}

// Checkout 以采购单号将购物车下单，成功后清空购物车
func (h *Handler) Checkout(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, msgBadRequest, err)
		return
	}
	order, err := h.CartService.Checkout(c.Request.Context(), actor, req.OrderNumber)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, order)
}
