package notify

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/megatonytrader/express-entregas-zap/internal/entity"
)

func TestLink_StripsNonDigits(t *testing.T) {
	link := Link("+55 (11) 99876-5432", "oi")
	assert.True(t, strings.HasPrefix(link, "https://wa.me/5511998765432?text="), link)
}

func TestLink_EscapesMessage(t *testing.T) {
	link := Link("5511998765432", "Novo Pedido #abc\n\nTotal: R$ 35.00 & troco")

	raw := strings.TrimPrefix(link, "https://wa.me/5511998765432?text=")
	assert.NotContains(t, raw, " ")
	assert.NotContains(t, raw, "\n")
	assert.NotContains(t, raw, "&")

	decoded, err := url.QueryUnescape(raw)
	require.NoError(t, err)
	assert.Contains(t, decoded, "R$ 35.00 & troco")
}

func TestPlacedMessage(t *testing.T) {
	msg := PlacedMessage(PlacedOrder{
		OrderID:          "a1b2c3d4-0000-0000-0000-000000000000",
		CustomerName:     "Maria Silva",
		CustomerPhone:    "11998765432",
		DeliveryAddress:  "Rua das Flores, 123 - Centro",
		PaymentMethod:    "money",
		SubtotalCents:    3000,
		DeliveryFeeCents: 500,
		TotalCents:       3500,
		Items: []domain.OrderItem{
			{ProductName: "X-Burger", UnitPriceCents: 1500, Quantity: 2},
		},
	})

	assert.Contains(t, msg, "*Novo Pedido #a1b2c3d4*")
	assert.Contains(t, msg, "Maria Silva")
	assert.Contains(t, msg, "• 2x X-Burger - R$ 30.00")
	assert.Contains(t, msg, "*Subtotal:* R$ 30.00")
	assert.Contains(t, msg, "*Taxa de Entrega:* R$ 5.00")
	assert.Contains(t, msg, "*Total:* R$ 35.00")
	assert.Contains(t, msg, "Rua das Flores, 123 - Centro")
}

func TestStatusMessage(t *testing.T) {
	msg := StatusMessage("João", "a1b2c3d4e5", domain.StatusDelivering)
	assert.Contains(t, msg, "Olá João!")
	assert.Contains(t, msg, "#a1b2c3d4")
	assert.Contains(t, msg, "*Pedido saiu para entrega*")
}

func TestRejectionMessage(t *testing.T) {
	msg := RejectionMessage("João", "a1b2c3d4e5", "Sem estoque")
	assert.Contains(t, msg, "*Motivo:* Sem estoque")
	assert.Contains(t, msg, "#a1b2c3d4")
}

func TestShortID_ShortInputUnchanged(t *testing.T) {
	assert.Equal(t, "abc", shortID("abc"))
}
