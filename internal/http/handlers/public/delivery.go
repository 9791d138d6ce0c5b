package public

import (
	"github.com/Umair-Web/BTOBPortal/internal/http/response"
	"github.com/Umair-Web/BTOBPortal/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateDeliveryRequest 交付状态更新请求，字段名与订单项响应一致；status/comments 为旧字段
type UpdateDeliveryRequest struct {
	DeliveryStatus   string  `json:"delivery_status"`
	DeliveryComments *string `json:"delivery_comments"`
	Status           string  `json:"status"`
	Comments         *string `json:"comments"`
}

func (r UpdateDeliveryRequest) toInput() service.UpdateDeliveryInput {
	input := service.UpdateDeliveryInput{Status: r.DeliveryStatus, Comments: r.DeliveryComments}
	if input.Status == "" {
		input.Status = r.Status
	}
	if input.Comments == nil {
		input.Comments = r.Comments
	}
	return input
}

// UpdateOrderItemDelivery 更新订单行交付状态
func (h *Handler) UpdateOrderItemDelivery(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "invalid order item id")
	if !ok {
		return
	}
	var req UpdateDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, msgBadRequest, err)
		return
	}
	item, err := h.DeliveryService.UpdateItem(c.Request.Context(), actor, id, req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, item)
}

// ListDeliveryOrders 交付视图：全部订单及客户信息
func (h *Handler) ListDeliveryOrders(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	orders, err := h.DeliveryService.ListOrders(c.Request.Context(), actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, orders)
}
