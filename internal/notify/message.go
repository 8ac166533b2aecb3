package notify

import (
	"bytes"
	"fmt"
	"storefront-checkout/internal/model"
	"text/template"
)

var orderTmpl = template.Must(template.New("order").Funcs(template.FuncMap{
	"money":    func(amount int64, currency string) string { return fmt.Sprintf("%d %s", amount, currency) },
	"delivery": func(d string) string { return model.DeliveryType(d).Label() },
	"payment":  func(p string) string { return model.PaymentMethod(p).Label() },
}).Parse(`NEW ORDER #{{.Order.ID}}

Items:
{{range .Order.Items}}• {{.Title}}{{if .Variant}} ({{.Variant}}){{end}} - {{money .Price $.Currency}} x {{.Qty}}
{{end}}
Total: {{money .Order.Total .Currency}}

Name: {{.Order.FullName}}
Phone: {{.Order.Phone}}
City: {{.Order.City}}
Delivery: {{delivery .Order.DeliveryType}} - {{.Order.DeliveryPoint}}
Payment: {{payment .Order.Payment}}
Comment: {{.Order.Comment}}
{{- if .Order.Username}}

Telegram: @{{.Order.Username}}
{{- end}}
`))

// RenderOrder builds the operator notification text for a committed order.
func RenderOrder(order *model.Order, currency string) (string, error) {
	var buf bytes.Buffer
	err := orderTmpl.Execute(&buf, struct {
		Order    *model.Order
		Currency string
	}{order, currency})
	if err != nil {
		return "", fmt.Errorf("render order %d: %w", order.ID, err)
	}
	return buf.String(), nil
}
