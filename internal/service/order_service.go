package service

import (
	"context"
	"strings"

	"github.com/Umair-Web/BTOBPortal/internal/authz"
	"github.com/Umair-Web/BTOBPortal/internal/constants"
	"github.com/Umair-Web/BTOBPortal/internal/logger"
	"github.com/Umair-Web/BTOBPortal/internal/models"
	"github.com/Umair-Web/BTOBPortal/internal/repository"

	"gorm.io/gorm"
)

// OrderService 采购单服务
type OrderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	guard       RoleGuard
}

// NewOrderService 创建采购单服务
func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, guard RoleGuard) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		guard:       guard,
	}
}

// PlaceOrderItem 下单明细输入
type PlaceOrderItem struct {
	ProductID    uint
	Quantity     int
	ColorVariant string
}

// PlaceOrderInput 下单输入；TotalAmount 仅作参考，实际以商品单价快照为准
type PlaceOrderInput struct {
	OrderNumber string
	Items       []PlaceOrderItem
	TotalAmount models.Money
}

// PlaceOrder 按采购单号创建订单及明细
func (s *OrderService) PlaceOrder(ctx context.Context, actor *authz.Actor, input PlaceOrderInput) (*models.Order, error) {
	orderNumber := strings.TrimSpace(input.OrderNumber)
	if orderNumber == "" {
		return nil, ErrOrderNumberRequired
	}
	if err := s.guard.Require(actor); err != nil {
		return nil, err
	}
	if len(input.Items) == 0 {
		return nil, ErrOrderItemsRequired
	}
	for _, item := range input.Items {
		if item.ProductID == 0 {
			return nil, ErrProductNotFound
		}
		if item.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
	}

	exists, err := s.orderRepo.ExistsByOrderNumber(orderNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrOrderNumberExists
	}

	items := input.Items
	var order *models.Order
	err = models.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products, err := s.productRepo.WithTx(tx).ListByIDs(collectProductIDs(items))
		if err != nil {
			return err
		}
		productMap := make(map[uint]models.Product, len(products))
		for _, product := range products {
			productMap[product.ID] = product
		}

		total := models.Money{}
		orderItems := make([]models.OrderItem, 0, len(items))
		for _, item := range items {
			product, ok := productMap[item.ProductID]
			if !ok {
				return ErrProductNotFound
			}
			orderItems = append(orderItems, models.OrderItem{
				ProductID:      product.ID,
				Quantity:       item.Quantity,
				Price:          product.Price,
				ColorVariant:   optionalString(item.ColorVariant),
				DeliveryStatus: constants.DeliveryStatusNotStarted,
			})
			total = total.Plus(product.Price.Times(item.Quantity))
		}

		created := &models.Order{
			OrderNumber: orderNumber,
			UserID:      actor.UserID,
			TotalAmount: total,
		}
		if err := s.orderRepo.WithTx(tx).Create(created, orderItems); err != nil {
			return err
		}
		order = created
		return nil
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrOrderNumberExists
		}
		return nil, err
	}

	logger.Infow("order_placed",
		"order_id", order.ID,
		"order_number", order.OrderNumber,
		"user_id", order.UserID,
		"item_count", len(order.Items),
		"total_amount", order.TotalAmount.String(),
	)
	return order, nil
}

// ListOrders 订单列表：交付角色查看全部订单（含下单人），其余用户仅查看自己的订单
func (s *OrderService) ListOrders(ctx context.Context, actor *authz.Actor) ([]models.Order, error) {
	if err := s.guard.Require(actor); err != nil {
		return nil, err
	}
	filter := repository.OrderListFilter{UserID: actor.UserID}
	if s.canSeeAllOrders(actor) {
		filter = repository.OrderListFilter{WithUser: true}
	}
	orders, _, err := s.orderRepo.List(filter)
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder 获取单个订单
func (s *OrderService) GetOrder(ctx context.Context, actor *authz.Actor, orderID uint) (*models.Order, error) {
	if err := s.guard.Require(actor); err != nil {
		return nil, err
	}
	if orderID == 0 {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.UserID != actor.UserID && !s.canSeeAllOrders(actor) {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *OrderService) canSeeAllOrders(actor *authz.Actor) bool {
	return s.guard.Require(actor, constants.RoleDelivery) == nil
}

func collectProductIDs(items []PlaceOrderItem) []uint {
	seen := make(map[uint]struct{}, len(items))
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}

func optionalString(raw string) *string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}
	return &value
}
