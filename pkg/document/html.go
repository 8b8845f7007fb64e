package document

import (
	"bytes"
	"fmt"
	"html/template"
)

var receiptTemplate = template.Must(template.New("receipt").Funcs(template.FuncMap{
	"labelSpan": func(cols int) int {
		if cols > 1 {
			return cols - 1
		}
		return 1
	},
}).Parse(receiptHTML))

// HTML serializes the document to a standalone HTML page. The output depends
// only on the document value, so equal documents give identical bytes.
func (d Document) HTML() ([]byte, error) {
	var buf bytes.Buffer
	if err := receiptTemplate.Execute(&buf, d); err != nil {
		return nil, fmt.Errorf("document: execute template: %w", err)
	}
	return buf.Bytes(), nil
}

// receiptHTML is the page layout for receipts.
const receiptHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8" />
<title>{{.Title}}</title>
<style>
.receipt-preview { margin-top: 30px; padding: 25px; border: 1px solid #eee; border-radius: 8px; background: #fff; }
.receipt-header { text-align: center; margin-bottom: 25px; }
.header-container { display: flex; align-items: center; }
.receipt-logo { flex: 1; font-size: 24px; font-weight: 700; color: #2c3e50; margin-bottom: 5px; }
.receipt-title { font-size: 18px; color: #7f8c8d; }
.receipt-info { display: flex; justify-content: space-between; margin-bottom: 30px; }
.receipt-details { width: 100%; border-collapse: collapse; }
.receipt-details th { text-align: left; padding: 10px; background: #f8f9fa; border-bottom: 1px solid #ddd; }
.receipt-details td { padding: 15px 10px; border-bottom: 1px solid #eee; }
.receipt-details tfoot td.label { text-align: right; }
.receipt-footer { margin-top: 30px; text-align: center; color: #7f8c8d; font-size: 14px; }
.payment-details { margin-bottom: 20px; }
.payment-details h4 { margin-top: 0; }
.notes { margin-bottom: 20px; font-style: italic; }
.thank-you { font-weight: 700; color: #2c3e50; margin-bottom: 10px; font-size: 16px; }
</style>
</head>
<body>
<div class="receipt-preview">
  <div class="receipt-header">
    <div class="header-container">
      {{- if .Header.LogoURL}}
      <img src="{{.Header.LogoURL}}" alt="Logo" width="200px"/>
      {{- end}}
      <div class="receipt-logo">{{.Header.BusinessName}}</div>
    </div>
    {{- if .Header.Heading}}
    <h3 style="margin: 0; padding: 0">{{.Header.Heading}}</h3>
    {{- end}}
    <div class="receipt-title">{{.Header.Title}}</div>
  </div>
  <div class="receipt-info">
    <div>
      {{- range .Header.Details}}
      <div><strong>{{.Label}}</strong> <span>{{.Value}}</span></div>
      {{- end}}
    </div>
    <div>
      {{- range .Header.Party}}
      <div><strong>{{.Label}}</strong> <span>{{.Value}}</span></div>
      {{- end}}
    </div>
  </div>
  <table class="receipt-details" border="1" cellspacing="0" cellpadding="6" width="100%">
    <thead>
      <tr>
        {{- range .Table.Columns}}
        <th>{{.}}</th>
        {{- end}}
      </tr>
    </thead>
    <tbody>
      {{- range .Table.Rows}}
      <tr>
        {{- range .}}
        <td>{{.}}</td>
        {{- end}}
      </tr>
      {{- end}}
    </tbody>
    <tfoot>
      {{- $span := labelSpan (len .Table.Columns)}}
      {{- range .Table.Totals}}
      <tr>
        <td class="label" colspan="{{$span}}"><strong>{{.Label}}</strong></td>
        <td>{{.Value}}</td>
      </tr>
      {{- end}}
    </tfoot>
  </table>
  <div class="receipt-footer">
    <div class="payment-details">
      <h4>{{.Footer.PaymentTitle}}</h4>
      {{- range .Footer.Payment}}
      <div><strong>{{.Label}}</strong> <span>{{.Value}}</span></div>
      {{- end}}
    </div>
    {{- if .Footer.Notes}}
    <div class="notes">{{.Footer.Notes}}</div>
    {{- end}}
    <div class="thank-you">{{.Footer.ThankYou}}</div>
    {{- range .Footer.Lines}}
    <div>{{.Label}} <span>{{.Value}}</span></div>
    {{- end}}
  </div>
</div>
</body>
</html>
`
