package pdf

import (
	"bytes"
	"fmt"
	"html/template"
)

const quotationTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{.Title}} {{.Number}}</title>
<style>
	body { font-family: Helvetica, Arial, sans-serif; font-size: 12px; color: #222; margin: 24px; }
	.letterhead { font-size: 22px; font-weight: bold; margin-bottom: 4px; }
	.title { font-size: 18px; letter-spacing: 2px; margin: 12px 0; }
	.meta td { padding: 2px 12px 2px 0; }
	table.items { width: 100%; border-collapse: collapse; margin-top: 16px; }
	table.items th, table.items td { border: 1px solid #999; padding: 6px; text-align: left; }
	table.items th { background: #eee; }
	td.num { text-align: right; }
	.total { margin-top: 12px; text-align: right; font-size: 14px; font-weight: bold; }
</style>
</head>
<body>
	<div class="letterhead">{{.Company}}</div>
	<div class="title">{{.Title}}</div>
	<table class="meta">
		<tr><td>Quotation #</td><td>{{.Number}}</td></tr>
		<tr><td>Date</td><td>{{.Date}}</td></tr>
		<tr><td>Customer</td><td>{{.CustomerEmail}}</td></tr>
	</table>
	<table class="items">
		<thead>
			<tr><th>#</th><th>Product</th><th>Color</th><th>Quantity</th><th>Unit Price</th><th>Total</th></tr>
		</thead>
		<tbody>
		{{range .Rows}}
			<tr>
				<td>{{.Index}}</td>
				<td>{{.Product}}</td>
				<td>{{.Color}}</td>
				<td class="num">{{.Quantity}}</td>
				<td class="num">{{.UnitPrice}}</td>
				<td class="num">{{.Total}}</td>
			</tr>
		{{end}}
		</tbody>
	</table>
	<div class="total">Grand Total: {{.GrandTotal}}</div>
</body>
</html>`

var quotationTmpl = template.Must(template.New("quotation").Parse(quotationTemplate))

// QuotationRow 报价单明细行（金额已按币种格式化）
type QuotationRow struct {
	Index     int
	Product   string
	Color     string
	Quantity  int
	UnitPrice string
	Total     string
}

// QuotationDocument 报价单渲染数据
type QuotationDocument struct {
	Company       string
	Title         string
	Number        string
	Date          string
	CustomerEmail string
	Rows          []QuotationRow
	GrandTotal    string
}

// RenderQuotationHTML 生成报价单 HTML
func RenderQuotationHTML(doc QuotationDocument) ([]byte, error) {
	var buf bytes.Buffer
	if err := quotationTmpl.Execute(&buf, doc); err != nil {
		return nil, fmt.Errorf("execute quotation template: %w", err)
	}
	return buf.Bytes(), nil
}
