// Package pdf 将报价单渲染为 PDF。
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/Umair-Web/BTOBPortal/internal/config"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
)

const defaultDPI = 150

// Renderer 基于 wkhtmltopdf 的报价单渲染器
type Renderer struct {
	dpi uint
}

// NewRenderer 创建渲染器
func NewRenderer(cfg config.QuotationConfig) *Renderer {
	if bin := strings.TrimSpace(cfg.WkhtmltopdfBin); bin != "" {
		wkhtmltopdf.SetPath(bin)
	}
	dpi := cfg.DPI
	if dpi == 0 {
		dpi = defaultDPI
	}
	return &Renderer{dpi: dpi}
}

// RenderQuotation 渲染报价单 PDF
func (r *Renderer) RenderQuotation(ctx context.Context, doc QuotationDocument) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	html, err := RenderQuotationHTML(doc)
	if err != nil {
		return nil, err
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("create pdf generator: %w", err)
	}
	pdfg.Dpi.Set(r.dpi)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)
	pdfg.Title.Set(doc.Title + " " + doc.Number)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(html))
	page.FooterRight.Set("[page]/[topage]")
	page.FooterFontSize.Set(8)
	page.EnableLocalFileAccess.Set(true)
	pdfg.AddPage(page)

	if err := pdfg.CreateContext(ctx); err != nil {
		return nil, fmt.Errorf("create pdf: %w", err)
	}
	return pdfg.Bytes(), nil
}
