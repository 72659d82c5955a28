package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/megatonytrader/express-entregas-zap/internal/cart"
	domain "github.com/megatonytrader/express-entregas-zap/internal/entity"
	"github.com/megatonytrader/express-entregas-zap/internal/notify"
)

var (
	ErrDuplicate       = errors.New("duplicate idempotency key")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrMerchantMissing = errors.New("merchant whatsapp number not configured")
)

const settingWhatsAppNumber = "whatsapp_number"

type CheckoutInput struct {
	UserID         string
	IdempotencyKey string
	CustomerName   string
	CustomerPhone  string
	Street         string
	Number         string
	Complement     string
	Neighborhood   string
	Payment        string // "money" | "card"
	Lines          []cart.Line
}

type CheckoutOutput struct {
	OrderID     string
	TotalCents  int64
	Status      string
	WhatsAppURL string
}

type Checkout struct {
	orders           OrderRepo
	settings         SettingsRepo
	idem             IdempotencyStore
	out              OutboxRepo
	relay            RelayQueue
	deliveryFeeCents int64
	log              *slog.Logger
}

func NewCheckout(orders OrderRepo, settings SettingsRepo, idem IdempotencyStore,
	out OutboxRepo, relay RelayQueue, deliveryFeeCents int64, log *slog.Logger) *Checkout {
	return &Checkout{
		orders:           orders,
		settings:         settings,
		idem:             idem,
		out:              out,
		relay:            relay,
		deliveryFeeCents: deliveryFeeCents,
		log:              log,
	}
}

func paymentLabel(payment string) string {
	if payment == "card" {
		return "Cartão na Entrega"
	}
	return "Dinheiro"
}

func fullAddress(in CheckoutInput) string {
	addr := in.Street + ", " + in.Number
	if in.Complement != "" {
		addr += " - " + in.Complement
	}
	return addr + " - " + in.Neighborhood
}

func (uc *Checkout) Execute(ctx context.Context, in CheckoutInput) (CheckoutOutput, error) {
	if len(in.Lines) == 0 {
		return CheckoutOutput{}, ErrEmptyCart
	}

	waNumber, err := uc.settings.Get(ctx, settingWhatsAppNumber)
	if err != nil || waNumber == "" {
		return CheckoutOutput{}, ErrMerchantMissing
	}

	// Fast path: a retried submission gets the original order back.
	locked := false
	if in.IdempotencyKey != "" {
		if id, ok, _ := uc.idem.Recall(ctx, in.CustomerPhone, in.IdempotencyKey); ok {
			return CheckoutOutput{OrderID: id, Status: string(domain.StatusPending)}, nil
		}
		ok, err := uc.idem.TryLock(ctx, in.CustomerPhone, in.IdempotencyKey)
		if err != nil {
			return CheckoutOutput{}, err
		}
		if !ok {
			return CheckoutOutput{}, ErrDuplicate
		}
		locked = true
	}
	// A failed write must stay manually retryable: the lock only outlives
	// this call once the order is committed.
	unlock := func() {
		if !locked {
			return
		}
		if err := uc.idem.Unlock(ctx, in.CustomerPhone, in.IdempotencyKey); err != nil {
			uc.log.Warn("idempotency unlock failed",
				"key", in.IdempotencyKey, "err", err)
		}
	}

	var subtotal int64
	items := make([]domain.OrderItem, 0, len(in.Lines))
	for _, l := range in.Lines {
		subtotal += l.LineTotalCents()
		unit := l.UnitPriceCents
		for _, a := range l.AddOns {
			unit += a.PriceCents
		}
		items = append(items, domain.OrderItem{
			ProductID:      l.ProductID,
			ProductName:    l.ProductName,
			ProductImage:   l.ProductImage,
			UnitPriceCents: unit,
			Quantity:       l.Quantity,
		})
	}
	total := subtotal + uc.deliveryFeeCents

	order := &domain.Order{
		ID:              uuid.NewString(),
		UserID:          in.UserID,
		CustomerName:    in.CustomerName,
		CustomerPhone:   in.CustomerPhone,
		DeliveryAddress: fullAddress(in),
		PaymentMethod:   paymentLabel(in.Payment),
		TotalCents:      total,
		Status:          domain.StatusPending,
		CreatedAt:       time.Now().UTC(),
		Items:           items,
	}
	if err := order.Validate(); err != nil {
		unlock()
		return CheckoutOutput{}, err
	}
	if err := uc.orders.Create(ctx, order); err != nil {
		unlock()
		return CheckoutOutput{}, fmt.Errorf("create order: %w", err)
	}

	// Change-feed event goes through the outbox; the drainer publishes it.
	payload, _ := json.Marshal(OrderChangedMsg{
		Kind:            ChangeInsert,
		OrderID:         order.ID,
		UserID:          order.UserID,
		CustomerName:    order.CustomerName,
		CustomerPhone:   order.CustomerPhone,
		DeliveryAddress: order.DeliveryAddress,
		PaymentMethod:   order.PaymentMethod,
		TotalCents:      order.TotalCents,
		Status:          string(order.Status),
		CreatedAt:       order.CreatedAt,
	})
	if err := uc.out.InsertOrderChanged(ctx, order.ID, payload); err != nil {
		// The order is committed; the boards catch up from the next
		// snapshot re-seed instead of failing the checkout.
		uc.log.Warn("outbox insert failed, feed event dropped",
			"order_id", order.ID, "err", err)
	}

	// Merchant relay is fire and forget: a broker hiccup must not fail the
	// order that is already committed.
	relayMsg := OrderPlacedMsg{
		OrderID:          order.ID,
		CustomerName:     order.CustomerName,
		CustomerPhone:    order.CustomerPhone,
		DeliveryAddress:  order.DeliveryAddress,
		PaymentMethod:    order.PaymentMethod,
		SubtotalCents:    subtotal,
		DeliveryFeeCents: uc.deliveryFeeCents,
		TotalCents:       total,
	}
	for _, it := range items {
		relayMsg.Items = append(relayMsg.Items, PlacedItem{
			ProductName:    it.ProductName,
			UnitPriceCents: it.UnitPriceCents,
			Quantity:       it.Quantity,
		})
	}
	if err := uc.relay.PublishPlaced(ctx, relayMsg); err != nil {
		uc.log.Warn("merchant relay publish failed", "order_id", order.ID, "err", err)
	}

	if in.IdempotencyKey != "" {
		_ = uc.idem.Remember(ctx, in.CustomerPhone, in.IdempotencyKey, order.ID)
	}

	waMsg := notify.PlacedMessage(notify.PlacedOrder{
		OrderID:          order.ID,
		CustomerName:     order.CustomerName,
		CustomerPhone:    order.CustomerPhone,
		DeliveryAddress:  order.DeliveryAddress,
		PaymentMethod:    order.PaymentMethod,
		SubtotalCents:    subtotal,
		DeliveryFeeCents: uc.deliveryFeeCents,
		TotalCents:       total,
		Items:            items,
	})
	return CheckoutOutput{
		OrderID:     order.ID,
		TotalCents:  total,
		Status:      string(domain.StatusPending),
		WhatsAppURL: notify.Link(waNumber, waMsg),
	}, nil
}
