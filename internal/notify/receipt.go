package notify

import (
	"fmt"
	"strings"

	domain "github.com/megatonytrader/express-entregas-zap/internal/entity"
)

const receiptRule = "--------------------------------"

// Receipt renders an order as plain text for thermal printing.
func Receipt(companyTitle string, o domain.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\nCOMPROVANTE DE PEDIDO\n%s\n", companyTitle, receiptRule)
	fmt.Fprintf(&b, "Pedido:   #%s\n", shortID(o.ID))
	fmt.Fprintf(&b, "Data:     %s\n", o.CreatedAt.Format("02/01/2006 15:04"))
	fmt.Fprintf(&b, "Status:   %s\n%s\n", o.Status.Label(), receiptRule)
	fmt.Fprintf(&b, "Cliente:  %s\n", o.CustomerName)
	fmt.Fprintf(&b, "Telefone: %s\n", o.CustomerPhone)
	fmt.Fprintf(&b, "Endereco: %s\n%s\n", o.DeliveryAddress, receiptRule)
	for _, it := range o.Items {
		fmt.Fprintf(&b, "%dx %-20s %s\n", it.Quantity, it.ProductName,
			domain.FormatBRL(it.SubtotalCents()))
	}
	fmt.Fprintf(&b, "%s\nTOTAL %26s\n%s\n", receiptRule,
		domain.FormatBRL(o.TotalCents), receiptRule)
	b.WriteString("Obrigado pela preferência!\n")
	return b.String()
}
