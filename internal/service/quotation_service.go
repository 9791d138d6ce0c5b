package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/Umair-Web/BTOBPortal/internal/authz"
	"github.com/Umair-Web/BTOBPortal/internal/cart"
	"github.com/Umair-Web/BTOBPortal/internal/config"
	"github.com/Umair-Web/BTOBPortal/internal/constants"
	"github.com/Umair-Web/BTOBPortal/internal/logger"
	"github.com/Umair-Web/BTOBPortal/internal/models"
	"github.com/Umair-Web/BTOBPortal/internal/pdf"
	"github.com/Umair-Web/BTOBPortal/internal/repository"
)

const (
	defaultQuotationCompany  = "B2B Portal"
	defaultQuotationCurrency = "PKR"
)

// DocumentRenderer 报价单文档渲染能力
type DocumentRenderer interface {
	RenderQuotation(ctx context.Context, doc pdf.QuotationDocument) ([]byte, error)
}

// QuotationResult 报价单生成结果
type QuotationResult struct {
	Number   string
	Document []byte
	Record   *models.Quotation
}

// RecordQuotationInput 客户端已渲染报价单的记录输入
type RecordQuotationInput struct {
	QuotationNumber string
	Items           []cart.Line
}

// QuotationService 报价单服务
type QuotationService struct {
	quotationRepo repository.QuotationRepository
	renderer      DocumentRenderer
	guard         RoleGuard
	companyName   string
	currency      string
	now           func() time.Time
}

// NewQuotationService 创建报价单服务
func NewQuotationService(quotationRepo repository.QuotationRepository, renderer DocumentRenderer, guard RoleGuard, cfg config.QuotationConfig) *QuotationService {
	company := strings.TrimSpace(cfg.CompanyName)
	if company == "" {
		company = defaultQuotationCompany
	}
	currency := strings.TrimSpace(cfg.Currency)
	if currency == "" {
		currency = defaultQuotationCurrency
	}
	return &QuotationService{
		quotationRepo: quotationRepo,
		renderer:      renderer,
		guard:         guard,
		companyName:   company,
		currency:      currency,
		now:           time.Now,
	}
}

// Generate 渲染报价单并写入审计记录。
// 渲染失败不写记录；记录失败时仍返回已渲染的文档与 ErrQuotationRecordFailed。
func (s *QuotationService) Generate(ctx context.Context, actor *authz.Actor, lines []cart.Line) (*QuotationResult, error) {
	if err := s.guard.Require(actor); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrCartEmpty
	}

	now := s.now()
	number, err := generateQuotationNumber(now)
	if err != nil {
		return nil, wrapCause(ErrQuotationRenderFailed, err)
	}
	total := sumLines(lines)

	doc := s.buildDocument(number, now, actor.Email, lines, total)
	content, err := s.renderer.RenderQuotation(ctx, doc)
	if err != nil {
		logger.Errorw("quotation_render_failed",
			"quotation_number", number,
			"user_id", actor.UserID,
			"error", err,
		)
		return nil, wrapCause(ErrQuotationRenderFailed, err)
	}

	result := &QuotationResult{Number: number, Document: content}
	record := &models.Quotation{
		QuotationNumber: number,
		UserID:          actor.UserID,
		Items:           buildQuotationItems(lines),
		TotalAmount:     total,
	}
	if err := s.quotationRepo.Create(record); err != nil {
		logger.Errorw("quotation_record_failed",
			"quotation_number", number,
			"user_id", actor.UserID,
			"error", err,
		)
		return result, wrapCause(ErrQuotationRecordFailed, err)
	}
	result.Record = record
	logger.Infow("quotation_generated",
		"quotation_number", number,
		"user_id", actor.UserID,
		"line_count", len(lines),
		"total_amount", total.String(),
	)
	return result, nil
}

// Record 记录客户端渲染的报价单
func (s *QuotationService) Record(ctx context.Context, actor *authz.Actor, input RecordQuotationInput) (*models.Quotation, error) {
	if err := s.guard.Require(actor); err != nil {
		return nil, err
	}
	number := strings.TrimSpace(input.QuotationNumber)
	if number == "" {
		return nil, ErrQuotationNumberRequired
	}
	if len(input.Items) == 0 {
		return nil, ErrQuotationItemsRequired
	}
	for _, line := range input.Items {
		if line.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
	}

	record := &models.Quotation{
		QuotationNumber: number,
		UserID:          actor.UserID,
		Items:           buildQuotationItems(input.Items),
		TotalAmount:     sumLines(input.Items),
	}
	if err := s.quotationRepo.Create(record); err != nil {
		return nil, wrapCause(ErrQuotationRecordFailed, err)
	}
	return record, nil
}

// List 当前用户的报价单记录
func (s *QuotationService) List(ctx context.Context, actor *authz.Actor, page, pageSize int) ([]models.Quotation, int64, error) {
	if err := s.guard.Require(actor); err != nil {
		return nil, 0, err
	}
	return s.quotationRepo.List(repository.QuotationListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   actor.UserID,
	})
}

func (s *QuotationService) buildDocument(number string, at time.Time, email string, lines []cart.Line, total models.Money) pdf.QuotationDocument {
	rows := make([]pdf.QuotationRow, 0, len(lines))
	for i, line := range lines {
		rows = append(rows, pdf.QuotationRow{
			Index:     i + 1,
			Product:   line.Name,
			Color:     line.ColorVariant,
			Quantity:  line.Quantity,
			UnitPrice: line.Price.Format(s.currency),
			Total:     line.Subtotal().Format(s.currency),
		})
	}
	return pdf.QuotationDocument{
		Company:       s.companyName,
		Title:         constants.QuotationTitle,
		Number:        number,
		Date:          at.Format("2006-01-02"),
		CustomerEmail: email,
		Rows:          rows,
		GrandTotal:    total.Format(s.currency),
	}
}

// generateQuotationNumber 格式 QT-<毫秒时间戳>-<0..999>，不做唯一性校验
func generateQuotationNumber(at time.Time) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%d-%d", constants.QuotationNumberPrefix, at.UnixMilli(), n.Int64()), nil
}

func sumLines(lines []cart.Line) models.Money {
	total := models.Money{}
	for _, line := range lines {
		total = total.Plus(line.Subtotal())
	}
	return total
}

func buildQuotationItems(lines []cart.Line) models.JSON {
	items := make([]map[string]interface{}, 0, len(lines))
	for _, line := range lines {
		items = append(items, map[string]interface{}{
			"product_id":    line.ProductID,
			"name":          line.Name,
			"price":         line.Price.String(),
			"quantity":      line.Quantity,
			"color_variant": line.ColorVariant,
			"image":         line.Image,
			"subtotal":      line.Subtotal().String(),
		})
	}
	return models.JSON{"items": items}
}
