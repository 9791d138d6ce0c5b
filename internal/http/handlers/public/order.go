package public

import (
	"github.com/Umair-Web/BTOBPortal/internal/http/response"
	"github.com/Umair-Web/BTOBPortal/internal/models"
	"github.com/Umair-Web/BTOBPortal/internal/service"

	"github.com/gin-gonic/gin"
)

// OrderItemRequest 订单项请求
type OrderItemRequest struct {
	ProductID    uint   `json:"product_id"`
	Quantity     int    `json:"quantity"`
	ColorVariant string `json:"color_variant"`
}

// CreateOrderRequest 创建订单请求
type CreateOrderRequest struct {
	OrderNumber string             `json:"order_number"`
	Items       []OrderItemRequest `json:"items"`
	TotalAmount models.Money       `json:"total_amount"`
}

// CreateOrder 创建订单
func (h *Handler) CreateOrder(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, msgBadRequest, err)
		return
	}

	items := make([]service.PlaceOrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.PlaceOrderItem{
			ProductID:    item.ProductID,
			Quantity:     item.Quantity,
			ColorVariant: item.ColorVariant,
		})
	}
	order, err := h.OrderService.PlaceOrder(c.Request.Context(), actor, service.PlaceOrderInput{
		OrderNumber: req.OrderNumber,
		Items:       items,
		TotalAmount: req.TotalAmount,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, order)
}

// ListOrders 订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	orders, err := h.OrderService.ListOrders(c.Request.Context(), actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, orders)
}

// GetOrder 订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "invalid order id")
	if !ok {
		return
	}
	order, err := h.OrderService.GetOrder(c.Request.Context(), actor, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}
