// Package notification renders and dispatches customer-facing order messages.
package notification

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/ordering"
)

// TemplateKind identifies one of the fixed notification templates
type TemplateKind string

const (
	TemplateOrderReceived TemplateKind = "order_received"
	TemplateProcessing    TemplateKind = "processing"
	TemplateShipped       TemplateKind = "shipped"
	TemplateDelivered     TemplateKind = "delivered"
)

const orderReceivedText = `Hi {{.CustomerName}},

Thank you for your order! We have received order {{.OrderNumber}} and will begin
preparing it shortly.

{{template "items" .Items}}
Total: PKR {{.Total.StringFixed 2}}

You can confirm your order details here:
{{.ConfirmURL}}

We will email you again when your order is on its way.
`

const processingText = `Hi {{.CustomerName}},

Good news! Order {{.OrderNumber}} is now being processed.

{{template "items" .Items}}
Total: PKR {{.Total.StringFixed 2}}

We will let you know as soon as it ships.
`

const shippedText = `Hi {{.CustomerName}},

Order {{.OrderNumber}} has shipped!

Courier: {{.Courier}}
Tracking number: {{.TrackingNumber}}
Track your parcel: {{.TrackingURL}}

{{template "items" .Items}}
Total: PKR {{.Total.StringFixed 2}}
`

const deliveredText = `Hi {{.CustomerName}},

Order {{.OrderNumber}} has been delivered. We hope you love it!

{{template "items" .Items}}
How did we do? Leave a review:
{{.ReviewURL}}

Something wrong with your order? Open a support claim:
{{.ClaimURL}}
`

const itemsText = `{{define "items"}}Your items:
{{range .}}  {{.ProductName}}{{if .VariantDetails}} ({{.VariantDetails}}){{end}} x{{.Quantity}} = PKR {{.TotalPrice.StringFixed 2}}
{{end}}{{end}}`

// templateData is the substitution payload shared by all four templates
type templateData struct {
	CustomerName   string
	OrderNumber    string
	Items          []ordering.OrderItemInfo
	Total          decimal.Decimal
	Courier        string
	TrackingNumber string
	TrackingURL    string
	ConfirmURL     string
	ReviewURL      string
	ClaimURL       string
}

// Renderer renders the fixed notification templates
type Renderer struct {
	templates map[TemplateKind]*template.Template
}

// NewRenderer parses the built-in templates
func NewRenderer() (*Renderer, error) {
	sources := map[TemplateKind]string{
		TemplateOrderReceived: orderReceivedText,
		TemplateProcessing:    processingText,
		TemplateShipped:       shippedText,
		TemplateDelivered:     deliveredText,
	}

	templates := make(map[TemplateKind]*template.Template, len(sources))
	for kind, src := range sources {
		tmpl, err := template.New(string(kind)).Parse(src)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", kind, err)
		}
		if _, err := tmpl.Parse(itemsText); err != nil {
			return nil, fmt.Errorf("failed to parse items block for %s: %w", kind, err)
		}
		templates[kind] = tmpl
	}

	return &Renderer{templates: templates}, nil
}

// Render renders the template of the given kind with the supplied data
func (r *Renderer) Render(kind TemplateKind, data templateData) (string, error) {
	tmpl, ok := r.templates[kind]
	if !ok {
		return "", fmt.Errorf("unknown template kind: %s", kind)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", kind, err)
	}
	return buf.String(), nil
}

// subject returns the email subject line for a template kind
func subject(kind TemplateKind, orderNumber string) string {
	switch kind {
	case TemplateOrderReceived:
		return fmt.Sprintf("Order %s received", orderNumber)
	case TemplateProcessing:
		return fmt.Sprintf("Order %s is being processed", orderNumber)
	case TemplateShipped:
		return fmt.Sprintf("Order %s has shipped", orderNumber)
	case TemplateDelivered:
		return fmt.Sprintf("Order %s has been delivered", orderNumber)
	default:
		return fmt.Sprintf("Update on order %s", orderNumber)
	}
}
