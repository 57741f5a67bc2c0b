package invoice

import (
	"bytes"
	"fmt"
	"html/template"

	"tailorder-be/internal/utils"
)

var invoiceTmpl = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"money": utils.FormatMoney,
	"inc":   func(i int) int { return i + 1 },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body {
    width: 794px;
    margin: 0 auto;
    font-family: 'Helvetica Neue', Arial, sans-serif;
    font-size: {{.Layout.FontSizePx}}px;
    color: #222;
  }
  .header { display: flex; justify-content: space-between; align-items: center;
    border-bottom: 2px solid #222; padding: 16px 0; }
  .header h1 { font-size: 24px; letter-spacing: 8px; margin: 0; }
  .biz { text-align: right; line-height: 1.5; }
  .meta { margin: 12px 0; line-height: 1.6; }
  table { width: 100%; border-collapse: collapse; }
  th, td { border: 1px solid #888; padding: {{.Layout.RowPaddingPx}}px 4px;
    text-align: center; }
  th { background: #f0f0f0; }
  td.num { text-align: right; padding-right: 6px; }
  .summary { margin-top: 10px; width: 100%; }
  .summary td { border: none; text-align: right; padding: 2px 6px; }
  .summary .grand { font-weight: bold; font-size: 1.15em; }
  .footer { margin-top: 24px; border-top: 1px solid #888; padding-top: 8px;
    font-size: 11px; line-height: 1.6; color: #444; }
</style>
</head>
<body>
  <div class="header">
    <h1>ORDER INVOICE</h1>
    <div class="biz">
      <strong>{{.Business.Name}}</strong><br>
      {{if .Business.Owner}}Owner: {{.Business.Owner}}<br>{{end}}
      {{if .Business.RegNo}}Reg. No. {{.Business.RegNo}}<br>{{end}}
      {{if .Business.Phone}}Tel. {{.Business.Phone}}<br>{{end}}
      {{.Business.Address}}
    </div>
  </div>

  <div class="meta">
    <strong>Order {{.OrderID}}</strong> &mdash; issued on {{.IssuedOn}}<br>
    Customer: {{.CustomerName}}{{if .Phone}} / {{.Phone}}{{end}}<br>
    {{if .Address}}Ship to: {{.Address}}<br>{{end}}
    {{if .PaymentMethod}}Payment: {{.PaymentMethod}}<br>{{end}}
    Order date: {{.OrderDate}}
  </div>

  <table>
    <thead>
      <tr>
        <th>#</th><th>Item</th><th>Size</th><th>Color</th>
        <th>Qty</th><th>Unit Price</th><th>Amount</th><th>Remarks</th>
      </tr>
    </thead>
    <tbody>
      {{range $i, $row := .Rows}}
      <tr>
        <td>{{inc $i}}</td>
        <td>{{$row.Label}}</td>
        <td>{{$row.Size}}</td>
        <td>{{$row.Color}}</td>
        <td>{{$row.Quantity}}</td>
        <td class="num">{{money $row.UnitPrice}}</td>
        <td class="num">{{money $row.Total}}</td>
        <td>{{$row.Remarks}}</td>
      </tr>
      {{end}}
    </tbody>
  </table>

  <table class="summary">
    <tr><td>Total quantity</td><td>{{.TotalQuantity}} EA</td></tr>
    <tr><td>Supply amount</td><td>{{money .GrandTotal}}</td></tr>
    <tr><td>VAT (10%)</td><td>{{money .VAT}}</td></tr>
    <tr class="grand"><td>Total incl. VAT</td><td>{{money .TotalWithVAT}}</td></tr>
  </table>

  <div class="footer">
    {{if .Business.BankName}}Bank transfer: {{.Business.BankName}} {{.Business.BankAccount}}{{if .Business.Owner}} ({{.Business.Owner}}){{end}}<br>{{end}}
    {{if .Business.Footer}}{{.Business.Footer}}{{end}}
  </div>
</body>
</html>
`))

// RenderHTML emits the self-contained printable document. Output is
// byte-identical for identical documents.
func RenderHTML(doc *Document) (string, error) {
	var buf bytes.Buffer
	if err := invoiceTmpl.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("render invoice: %w", err)
	}
	return buf.String(), nil
}
