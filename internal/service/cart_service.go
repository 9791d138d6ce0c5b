package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Umair-Web/BTOBPortal/internal/authz"
	"github.com/Umair-Web/BTOBPortal/internal/cart"
	"github.com/Umair-Web/BTOBPortal/internal/constants"
	"github.com/Umair-Web/BTOBPortal/internal/logger"
	"github.com/Umair-Web/BTOBPortal/internal/models"
	"github.com/Umair-Web/BTOBPortal/internal/repository"
)

// CartView 购物车视图（用于响应）
type CartView struct {
	Items     []cart.Line  `json:"items"`
	Total     models.Money `json:"total"`
	ItemCount int          `json:"item_count"`
}

// AddCartItemInput 加购输入
type AddCartItemInput struct {
	ProductID    uint
	ColorVariant string
	Quantity     int
}

// UpdateCartItemInput 修改数量输入
type UpdateCartItemInput struct {
	ProductID    uint
	ColorVariant string
	Quantity     int
}

// CartService 购物车服务
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	orders      *OrderService
	guard       RoleGuard
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository, orders *OrderService, guard RoleGuard) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		orders:      orders,
		guard:       guard,
	}
}

// Get 获取当前用户购物车
func (s *CartService) Get(ctx context.Context, actor *authz.Actor) (*CartView, error) {
	if err := s.guard.Require(actor); err != nil {
		return nil, err
	}
	store, err := s.cartRepo.Load(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return buildCartView(store), nil
}

// Lines 获取当前用户购物车行
func (s *CartService) Lines(ctx context.Context, actor *authz.Actor) ([]cart.Line, error) {
	if err := s.guard.Require(actor); err != nil {
		return nil, err
	}
	store, err := s.cartRepo.Load(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return store.Lines(), nil
}

// AddItem 加入购物车：快照商品名称、单价与首图
func (s *CartService) AddItem(ctx context.Context, actor *authz.Actor, input AddCartItemInput) (*CartView, error) {
	if err := s.guard.Require(actor); err != nil {
		return nil, err
	}
	if input.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	product, err := s.loadProduct(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product.Stock < input.Quantity {
		return nil, ErrInsufficientStock
	}
	color, err := resolveCartColor(product, input.ColorVariant)
	if err != nil {
		return nil, err
	}

	line := cart.Line{
		ProductID:    product.ID,
		Name:         product.Name,
		Price:        product.Price,
		Quantity:     input.Quantity,
		ColorVariant: color,
		Image:        product.PrimaryImage(),
	}
	store, err := s.mutate(ctx, actor.UserID, func(store *cart.Store) error {
		store.AddItem(line)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return buildCartView(store), nil
}

// UpdateQuantity 修改数量，数量被限制在 [1, 库存] 区间内
func (s *CartService) UpdateQuantity(ctx context.Context, actor *authz.Actor, input UpdateCartItemInput) (*CartView, error) {
	if err := s.guard.Require(actor); err != nil {
		return nil, err
	}
	product, err := s.loadProduct(input.ProductID)
	if err != nil {
		return nil, err
	}
	// 已在购物车中的行按原颜色定位，不再校验商品当前颜色集合
	color := strings.TrimSpace(input.ColorVariant)
	if color == "" {
		if color, err = resolveCartColor(product, ""); err != nil {
			return nil, err
		}
	}
	quantity := clampCartQuantity(input.Quantity, product.Stock)

	store, err := s.mutate(ctx, actor.UserID, func(store *cart.Store) error {
		if !store.UpdateQuantity(product.ID, color, quantity) {
			return ErrCartItemNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return buildCartView(store), nil
}

// RemoveItem 删除购物车行
func (s *CartService) RemoveItem(ctx context.Context, actor *authz.Actor, productID uint, colorVariant string) (*CartView, error) {
	if err := s.guard.Require(actor); err != nil {
		return nil, err
	}
	color := strings.TrimSpace(colorVariant)
	store, err := s.mutate(ctx, actor.UserID, func(store *cart.Store) error {
		if color == "" {
			color = firstLineColor(store, productID)
		}
		if !store.RemoveItem(productID, color) {
			return ErrCartItemNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return buildCartView(store), nil
}

// Clear 清空购物车
func (s *CartService) Clear(ctx context.Context, actor *authz.Actor) (*CartView, error) {
	if err := s.guard.Require(actor); err != nil {
		return nil, err
	}
	store, err := s.mutate(ctx, actor.UserID, func(store *cart.Store) error {
		store.Clear()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return buildCartView(store), nil
}

// Checkout 以购物车内容下单，仅在下单成功后清空购物车
func (s *CartService) Checkout(ctx context.Context, actor *authz.Actor, orderNumber string) (*models.Order, error) {
	if strings.TrimSpace(orderNumber) == "" {
		return nil, ErrOrderNumberRequired
	}
	lines, err := s.Lines(ctx, actor)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrCartEmpty
	}

	items := make([]PlaceOrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, PlaceOrderItem{
			ProductID:    line.ProductID,
			Quantity:     line.Quantity,
			ColorVariant: line.ColorVariant,
		})
	}
	order, err := s.orders.PlaceOrder(ctx, actor, PlaceOrderInput{
		OrderNumber: orderNumber,
		Items:       items,
	})
	if err != nil {
		return nil, err
	}

	// 只扣除已下单的行，下单期间新加入的商品保留
	if _, err := s.mutate(ctx, actor.UserID, func(store *cart.Store) error {
		for _, line := range lines {
			current, ok := store.Find(line.ProductID, line.ColorVariant)
			if !ok {
				continue
			}
			if current.Quantity > line.Quantity {
				store.UpdateQuantity(line.ProductID, line.ColorVariant, current.Quantity-line.Quantity)
				continue
			}
			store.RemoveItem(line.ProductID, line.ColorVariant)
		}
		return nil
	}); err != nil {
		logger.Warnw("cart_clear_after_checkout_failed",
			"user_id", actor.UserID,
			"order_id", order.ID,
			"error", err,
		)
	}
	return order, nil
}

func (s *CartService) mutate(ctx context.Context, userID uint, fn repository.CartMutation) (*cart.Store, error) {
	store, err := s.cartRepo.Mutate(ctx, userID, fn)
	if err != nil {
		if errors.Is(err, repository.ErrCartBusy) {
			return nil, wrapCause(ErrCartBusy, err)
		}
		return nil, err
	}
	return store, nil
}

func (s *CartService) loadProduct(productID uint) (*models.Product, error) {
	if productID == 0 {
		return nil, ErrProductNotFound
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// resolveCartColor 空颜色取商品首个颜色，无颜色商品使用 Default
func resolveCartColor(product *models.Product, raw string) (string, error) {
	color := strings.TrimSpace(raw)
	if len(product.ColorVariants) == 0 {
		if color == "" || color == constants.CartDefaultColorVariant {
			return constants.CartDefaultColorVariant, nil
		}
		return "", ErrColorVariantInvalid
	}
	if color == "" {
		return product.ColorVariants[0], nil
	}
	if !product.ColorVariants.Contains(color) {
		return "", ErrColorVariantInvalid
	}
	return color, nil
}

func clampCartQuantity(quantity, stock int) int {
	if stock > 0 && quantity > stock {
		quantity = stock
	}
	if quantity < 1 {
		quantity = 1
	}
	return quantity
}

func firstLineColor(store *cart.Store, productID uint) string {
	for _, line := range store.Lines() {
		if line.ProductID == productID {
			return line.ColorVariant
		}
	}
	return ""
}

func buildCartView(store *cart.Store) *CartView {
	lines := store.Lines()
	if lines == nil {
		lines = []cart.Line{}
	}
	return &CartView{
		Items:     lines,
		Total:     store.Total(),
		ItemCount: store.ItemCount(),
	}
}
