// Package notify composes the WhatsApp deep links the storefront hands to
// the browser. Opening the link is all the delivery there is: no
// confirmation comes back and none is awaited.
package notify

import (
	"fmt"
	"net/url"
	"strings"

	domain "github.com/megatonytrader/express-entregas-zap/internal/entity"
)

// Link builds wa.me://-style deep link for a pre-filled message. Everything
// that is not a digit is stripped from the phone.
func Link(phone, message string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	return "https://wa.me/" + digits.String() + "?text=" + url.QueryEscape(message)
}

func shortID(orderID string) string {
	if len(orderID) > 8 {
		return orderID[:8]
	}
	return orderID
}

type PlacedOrder struct {
	OrderID          string
	CustomerName     string
	CustomerPhone    string
	DeliveryAddress  string
	PaymentMethod    string
	SubtotalCents    int64
	DeliveryFeeCents int64
	TotalCents       int64
	Items            []domain.OrderItem
}

// PlacedMessage is the merchant hand-off body sent right after checkout.
func PlacedMessage(o PlacedOrder) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🛍️ *Novo Pedido #%s*\n\n", shortID(o.OrderID))
	fmt.Fprintf(&b, "👤 *Cliente:* %s\n", o.CustomerName)
	fmt.Fprintf(&b, "📱 *Telefone:* %s\n\n", o.CustomerPhone)
	b.WriteString("📦 *Itens do Pedido:*\n")
	for _, it := range o.Items {
		fmt.Fprintf(&b, "• %dx %s - %s\n", it.Quantity, it.ProductName,
			domain.FormatBRL(it.SubtotalCents()))
	}
	fmt.Fprintf(&b, "\n💰 *Subtotal:* %s\n", domain.FormatBRL(o.SubtotalCents))
	fmt.Fprintf(&b, "🚚 *Taxa de Entrega:* %s\n", domain.FormatBRL(o.DeliveryFeeCents))
	fmt.Fprintf(&b, "💵 *Total:* %s\n\n", domain.FormatBRL(o.TotalCents))
	fmt.Fprintf(&b, "📍 *Endereço de Entrega:*\n%s\n\n", o.DeliveryAddress)
	fmt.Fprintf(&b, "💳 *Forma de Pagamento:* %s\n\n", o.PaymentMethod)
	b.WriteString("✅ Aguardando confirmação!")
	return b.String()
}

// StatusMessage tells the customer their order moved forward.
func StatusMessage(customerName, orderID string, status domain.Status) string {
	var line string
	switch status {
	case domain.StatusPreparing:
		line = "Pedido em preparo"
	case domain.StatusDelivering:
		line = "Pedido saiu para entrega"
	case domain.StatusDelivered:
		line = "Pedido entregue"
	default:
		line = status.Label()
	}
	return fmt.Sprintf("Olá %s! 🚀\n\nSeu pedido #%s está agora: *%s*\n\nObrigado pela preferência!",
		customerName, shortID(orderID), line)
}

// RejectionMessage carries the mandatory reason to the customer.
func RejectionMessage(customerName, orderID, reason string) string {
	return fmt.Sprintf("Olá %s! 😔\n\nInfelizmente precisamos rejeitar seu pedido #%s.\n\n*Motivo:* %s\n\nPedimos desculpas pelo inconveniente.",
		customerName, shortID(orderID), reason)
}
