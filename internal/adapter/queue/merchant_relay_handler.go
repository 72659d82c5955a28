package queue

import (
	"context"
	"log/slog"

	domain "github.com/megatonytrader/express-entregas-zap/internal/entity"
	"github.com/megatonytrader/express-entregas-zap/internal/notify"
	"github.com/megatonytrader/express-entregas-zap/internal/usecase"
)

// MerchantRelayHandler consumes order.placed events and records the
// composed WhatsApp hand-off link. The link is a one-way notification: it
// is logged for the merchant console to pick up, and nothing waits for a
// reply.
type MerchantRelayHandler struct {
	settings usecase.SettingsRepo
	log      *slog.Logger
}

func NewMerchantRelayHandler(settings usecase.SettingsRepo, log *slog.Logger) *MerchantRelayHandler {
	return &MerchantRelayHandler{settings: settings, log: log}
}

// HandlePlaced is intended for the JSON adapter (queue.JSONHandler[OrderPlacedMsg]).
func (h *MerchantRelayHandler) HandlePlaced(ctx context.Context, msg usecase.OrderPlacedMsg) error {
	enabled, err := h.settings.Get(ctx, "whatsapp_notifications")
	if err != nil {
		return err
	}
	if enabled == "false" {
		return nil
	}
	number, err := h.settings.Get(ctx, "whatsapp_number")
	if err != nil {
		return err
	}
	if number == "" {
		// Nothing to relay to; drop rather than requeue forever.
		h.log.Warn("merchant whatsapp number not configured, dropping relay",
			"order_id", msg.OrderID)
		return nil
	}

	items := make([]domain.OrderItem, 0, len(msg.Items))
	for _, it := range msg.Items {
		items = append(items, domain.OrderItem{
			ProductName:    it.ProductName,
			UnitPriceCents: it.UnitPriceCents,
			Quantity:       it.Quantity,
		})
	}
	order := notify.PlacedOrder{
		OrderID:          msg.OrderID,
		CustomerName:     msg.CustomerName,
		CustomerPhone:    msg.CustomerPhone,
		DeliveryAddress:  msg.DeliveryAddress,
		PaymentMethod:    msg.PaymentMethod,
		SubtotalCents:    msg.SubtotalCents,
		DeliveryFeeCents: msg.DeliveryFeeCents,
		TotalCents:       msg.TotalCents,
		Items:            items,
	}
	link := notify.Link(number, notify.PlacedMessage(order))
	h.log.Info("merchant relay ready", "order_id", msg.OrderID, "whatsapp_url", link)
	return nil
}
