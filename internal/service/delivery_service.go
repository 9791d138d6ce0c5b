package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Umair-Web/BTOBPortal/internal/authz"
	"github.com/Umair-Web/BTOBPortal/internal/constants"
	"github.com/Umair-Web/BTOBPortal/internal/logger"
	"github.com/Umair-Web/BTOBPortal/internal/models"
	"github.com/Umair-Web/BTOBPortal/internal/repository"

	"gorm.io/gorm"
)

// DeliveryService 订单项交付跟踪服务
type DeliveryService struct {
	orderRepo repository.OrderRepository
	guard     RoleGuard
}

// NewDeliveryService 创建交付服务
func NewDeliveryService(orderRepo repository.OrderRepository, guard RoleGuard) *DeliveryService {
	return &DeliveryService{orderRepo: orderRepo, guard: guard}
}

// UpdateDeliveryInput 交付状态更新输入
type UpdateDeliveryInput struct {
	Status   string
	Comments *string
}

// UpdateItem 覆盖订单项的交付状态与备注（允许任意状态跳转，后写覆盖先写）
func (s *DeliveryService) UpdateItem(ctx context.Context, actor *authz.Actor, itemID uint, input UpdateDeliveryInput) (*models.OrderItem, error) {
	if err := s.guard.Require(actor, constants.RoleDelivery); err != nil {
		return nil, err
	}
	status, ok := normalizeDeliveryStatus(input.Status)
	if !ok {
		return nil, ErrInvalidDeliveryStatus
	}
	if itemID == 0 {
		return nil, ErrOrderItemNotFound
	}

	item, err := s.orderRepo.GetItemByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrOrderItemNotFound
	}

	var comments *string
	if input.Comments != nil {
		comments = optionalString(*input.Comments)
	}
	if err := s.orderRepo.UpdateItemDelivery(itemID, status, comments); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderItemNotFound
		}
		return nil, err
	}

	previous := item.DeliveryStatus
	item.DeliveryStatus = status
	item.DeliveryComments = comments
	logger.SW("actor_id", actor.UserID, "actor_role", actor.Role).Infow("delivery_status_updated",
		"order_id", item.OrderID,
		"item_id", item.ID,
		"from", previous,
		"to", status,
		"has_comments", comments != nil,
	)
	return item, nil
}

// ListOrders 交付视图：全部订单及下单人信息
func (s *DeliveryService) ListOrders(ctx context.Context, actor *authz.Actor) ([]models.Order, error) {
	if err := s.guard.Require(actor, constants.RoleDelivery); err != nil {
		return nil, err
	}
	orders, _, err := s.orderRepo.List(repository.OrderListFilter{WithUser: true})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func normalizeDeliveryStatus(raw string) (string, bool) {
	value := strings.ToUpper(strings.TrimSpace(raw))
	for _, status := range constants.DeliveryStatuses {
		if status == value {
			return status, true
		}
	}
	return "", false
}
