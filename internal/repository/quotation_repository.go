package repository

import (
	"github.com/Umair-Web/BTOBPortal/internal/models"

	"gorm.io/gorm"
)

// QuotationRepository 报价单记录数据访问接口
type QuotationRepository interface {
	Create(quotation *models.Quotation) error
	List(filter QuotationListFilter) ([]models.Quotation, int64, error)
}

// GormQuotationRepository GORM 实现
type GormQuotationRepository struct {
	db *gorm.DB
}

// NewQuotationRepository 创建报价单仓库
func NewQuotationRepository(db *gorm.DB) *GormQuotationRepository {
	return &GormQuotationRepository{db: db}
}

// Create 写入报价单记录
func (r *GormQuotationRepository) Create(quotation *models.Quotation) error {
	return r.db.Create(quotation).Error
}

// List 报价单记录列表
func (r *GormQuotationRepository) List(filter QuotationListFilter) ([]models.Quotation, int64, error) {
	query := r.db.Model(&models.Quotation{})
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var quotations []models.Quotation
	if err := query.Order("created_at DESC").Order("id DESC").Find(&quotations).Error; err != nil {
		return nil, 0, err
	}
	return quotations, total, nil
}
