package service

import (
	"context"
	"strings"

	"github.com/Umair-Web/BTOBPortal/internal/authz"
	"github.com/Umair-Web/BTOBPortal/internal/constants"
	"github.com/Umair-Web/BTOBPortal/internal/logger"
	"github.com/Umair-Web/BTOBPortal/internal/models"
	"github.com/Umair-Web/BTOBPortal/internal/repository"
)

// ProductService 商品目录服务
type ProductService struct {
	productRepo repository.ProductRepository
	guard       RoleGuard
	cleaner     *ImageCleaner
}

// NewProductService 创建商品服务
func NewProductService(productRepo repository.ProductRepository, guard RoleGuard, cleaner *ImageCleaner) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		guard:       guard,
		cleaner:     cleaner,
	}
}

// ProductInput 创建/更新商品输入
type ProductInput struct {
	Name          string
	Description   string
	Price         models.Money
	Stock         int
	Category      string
	Images        []string
	ColorVariants []string
}

// List 商品列表，category 为空时返回全部
func (s *ProductService) List(ctx context.Context, category string) ([]models.Product, error) {
	products, _, err := s.productRepo.List(repository.ProductListFilter{
		Category: strings.TrimSpace(category),
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

// Get 获取商品
func (s *ProductService) Get(ctx context.Context, id uint) (*models.Product, error) {
	if id == 0 {
		return nil, ErrProductNotFound
	}
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// Categories 分类列表
func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	return s.productRepo.ListCategories()
}

// Create 创建商品
func (s *ProductService) Create(ctx context.Context, actor *authz.Actor, input ProductInput) (*models.Product, error) {
	if err := s.guard.Require(actor, constants.RoleAdmin); err != nil {
		return nil, err
	}
	product := &models.Product{}
	if err := applyProductInput(product, input); err != nil {
		return nil, err
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	logger.Infow("product_created", "product_id", product.ID, "actor_id", actor.UserID)
	return product, nil
}

// Update 整体更新商品；不再引用的图片会被尽力清理
func (s *ProductService) Update(ctx context.Context, actor *authz.Actor, id uint, input ProductInput) (*models.Product, error) {
	if err := s.guard.Require(actor, constants.RoleAdmin); err != nil {
		return nil, err
	}
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	previousImages := append(models.StringArray{}, product.Images...)
	if err := applyProductInput(product, input); err != nil {
		return nil, err
	}
	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}

	var dropped []string
	for _, image := range previousImages {
		if !product.Images.Contains(image) {
			dropped = append(dropped, image)
		}
	}
	s.cleaner.Dispatch(ctx, product.ID, dropped)
	logger.Infow("product_updated", "product_id", product.ID, "actor_id", actor.UserID)
	return product, nil
}

// AddColorVariant 添加颜色
func (s *ProductService) AddColorVariant(ctx context.Context, actor *authz.Actor, id uint, color string) (*models.Product, error) {
	if err := s.guard.Require(actor, constants.RoleAdmin); err != nil {
		return nil, err
	}
	value := strings.TrimSpace(color)
	if value == "" {
		return nil, ErrColorVariantRequired
	}
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.ColorVariants.Contains(value) {
		return nil, ErrColorVariantDuplicate
	}
	product.ColorVariants = product.ColorVariants.With(value)
	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// RemoveColorVariant 删除颜色
func (s *ProductService) RemoveColorVariant(ctx context.Context, actor *authz.Actor, id uint, color string) (*models.Product, error) {
	if err := s.guard.Require(actor, constants.RoleAdmin); err != nil {
		return nil, err
	}
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.ColorVariants.Contains(color) {
		return nil, ErrColorVariantNotFound
	}
	product.ColorVariants = product.ColorVariants.Without(color)
	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// RemoveImage 删除商品图片并尽力清理文件
func (s *ProductService) RemoveImage(ctx context.Context, actor *authz.Actor, id uint, url string) (*models.Product, error) {
	if err := s.guard.Require(actor, constants.RoleAdmin); err != nil {
		return nil, err
	}
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.Images.Contains(url) {
		return nil, ErrProductImageNotFound
	}
	product.Images = product.Images.Without(url)
	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	s.cleaner.Dispatch(ctx, product.ID, []string{url})
	return product, nil
}

// Delete 删除商品；图片清理失败不影响删除结果
func (s *ProductService) Delete(ctx context.Context, actor *authz.Actor, id uint) error {
	if err := s.guard.Require(actor, constants.RoleAdmin); err != nil {
		return err
	}
	product, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.productRepo.Delete(product.ID); err != nil {
		return err
	}
	logger.Infow("product_deleted", "product_id", product.ID, "actor_id", actor.UserID, "image_count", len(product.Images))
	s.cleaner.Dispatch(ctx, product.ID, product.Images)
	return nil
}

func applyProductInput(product *models.Product, input ProductInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return ErrProductNameRequired
	}
	if !input.Price.Decimal.IsPositive() {
		return ErrProductPriceInvalid
	}
	if input.Stock < 0 {
		return ErrProductStockInvalid
	}
	colors := normalizeStringSet(input.ColorVariants)
	if _, dup := colors.FirstDuplicate(); dup {
		return ErrColorVariantDuplicate
	}
	images := normalizeStringSet(input.Images)
	if _, dup := images.FirstDuplicate(); dup {
		return ErrProductImageDuplicate
	}

	product.Name = name
	product.Description = strings.TrimSpace(input.Description)
	product.Price = models.NewMoneyFromDecimal(input.Price.Decimal)
	product.Stock = input.Stock
	product.Category = strings.TrimSpace(input.Category)
	product.Images = images
	product.ColorVariants = colors
	return nil
}

// normalizeStringSet 去除首尾空白并丢弃空值，保留重复项交由调用方判断
func normalizeStringSet(values []string) models.StringArray {
	out := make(models.StringArray, 0, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}
