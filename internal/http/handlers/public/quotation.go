package public

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Umair-Web/BTOBPortal/internal/cart"
	handlershared "github.com/Umair-Web/BTOBPortal/internal/http/handlers/shared"
	"github.com/Umair-Web/BTOBPortal/internal/http/response"
	"github.com/Umair-Web/BTOBPortal/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	headerQuotationNumber      = "X-Quotation-Number"
	headerQuotationRecordError = "X-Quotation-Record-Error"
)

// RecordQuotationRequest 客户端渲染报价单的记录请求
type RecordQuotationRequest struct {
	QuotationNumber string      `json:"quotation_number"`
	Items           []cart.Line `json:"items"`
}

// GenerateQuotation 按当前购物车生成 PDF 报价单并记录
// 记录失败时仍返回文档，并通过响应头告知
func (h *Handler) GenerateQuotation(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	lines, err := h.CartService.Lines(c.Request.Context(), actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	result, err := h.QuotationService.Generate(c.Request.Context(), actor, lines)
	if err != nil {
		if result == nil || !errors.Is(err, service.ErrQuotationRecordFailed) {
			respondWithMappedError(c, err, quotationErrorRules)
			return
		}
		handlershared.RequestLog(c).Errorw("quotation_record_failed",
			"quotation_number", result.Number,
			"error", err,
		)
		c.Header(headerQuotationRecordError, service.ErrQuotationRecordFailed.Msg)
	}

	c.Header(headerQuotationNumber, result.Number)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "quotation-"+result.Number+".pdf"))
	c.Data(http.StatusOK, "application/pdf", result.Document)
}

// RecordQuotation 记录客户端已生成的报价单
func (h *Handler) RecordQuotation(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	var req RecordQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, msgBadRequest, err)
		return
	}
	record, err := h.QuotationService.Record(c.Request.Context(), actor, service.RecordQuotationInput{
		QuotationNumber: req.QuotationNumber,
		Items:           req.Items,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, record)
}

// ListQuotations 当前用户的报价单记录
func (h *Handler) ListQuotations(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	records, total, err := h.QuotationService.List(c.Request.Context(), actor, page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, records, pagination)
}
