package realtime

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	domain "github.com/megatonytrader/express-entregas-zap/internal/entity"
	"github.com/megatonytrader/express-entregas-zap/internal/usecase"
)

var ordersReceived = promauto.NewCounter(prometheus.CounterOpts{
	Name: "orders_received_total",
	Help: "New orders that landed on the admin board via the change feed",
})

// ItemsLoader fetches the line snapshot for one order so the board can show
// the full view, not just the changed row.
type ItemsLoader interface {
	OrderItems(ctx context.Context, orderID string) ([]domain.OrderItem, error)
}

func orderFromEvent(ev usecase.OrderChangedMsg, items []domain.OrderItem) domain.Order {
	return domain.Order{
		ID:              ev.OrderID,
		UserID:          ev.UserID,
		CustomerName:    ev.CustomerName,
		CustomerPhone:   ev.CustomerPhone,
		DeliveryAddress: ev.DeliveryAddress,
		PaymentMethod:   ev.PaymentMethod,
		TotalCents:      ev.TotalCents,
		Status:          domain.Status(ev.Status),
		RejectionReason: ev.RejectionReason,
		CreatedAt:       ev.CreatedAt,
		Items:           items,
	}
}

// AdminSync reconciles the merchant's all-orders board. A brand-new pending
// order rings the repeating alert and bumps the unread counter until the
// merchant acknowledges or accepts it.
type AdminSync struct {
	Board    *Board
	Notifier Notifier

	items ItemsLoader
	log   *slog.Logger

	mu     sync.Mutex
	unread int
}

func NewAdminSync(items ItemsLoader, notifier Notifier, log *slog.Logger) *AdminSync {
	return &AdminSync{Board: NewBoard(), Notifier: notifier, items: items, log: log}
}

func (s *AdminSync) Handle(ctx context.Context, ev usecase.OrderChangedMsg) error {
	items, err := s.items.OrderItems(ctx, ev.OrderID)
	if err != nil {
		// Show the order without its lines rather than dropping the event.
		s.log.Warn("order items load failed", "order_id", ev.OrderID, "err", err)
		items = nil
	}
	order := orderFromEvent(ev, items)
	isNew := s.Board.Upsert(order)

	// Effects key off the event's status, not a diff against prior local
	// state: the initial snapshot may not have seen this order at all.
	switch order.Status {
	case domain.StatusPending:
		if ev.Kind == usecase.ChangeInsert && isNew {
			ordersReceived.Inc()
			s.mu.Lock()
			s.unread++
			s.mu.Unlock()
			s.Notifier.StartAlertLoop()
			s.Notifier.Toast("Novo Pedido Recebido!",
				order.CustomerName+" - "+domain.FormatBRL(order.TotalCents))
		}
	case domain.StatusPreparing:
		// Accepting the order silences the new-order alert.
		s.Notifier.StopAlertLoop()
	}
	return nil
}

// Unread is the count of new orders not yet acknowledged.
func (s *AdminSync) Unread() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unread
}

// Acknowledge clears the unread counter and the alert loop.
func (s *AdminSync) Acknowledge() {
	s.mu.Lock()
	s.unread = 0
	s.mu.Unlock()
	s.Notifier.StopAlertLoop()
}

// CustomerSync reconciles one customer's order list and surfaces status
// changes as a one-shot chime plus toast.
type CustomerSync struct {
	Board    *Board
	Notifier Notifier

	userID string
	items  ItemsLoader
	log    *slog.Logger
}

func NewCustomerSync(userID string, items ItemsLoader, notifier Notifier, log *slog.Logger) *CustomerSync {
	return &CustomerSync{Board: NewBoard(), Notifier: notifier, userID: userID, items: items, log: log}
}

func (s *CustomerSync) Handle(ctx context.Context, ev usecase.OrderChangedMsg) error {
	if s.userID != "" && ev.UserID != s.userID {
		return nil
	}
	items, err := s.items.OrderItems(ctx, ev.OrderID)
	if err != nil {
		s.log.Warn("order items load failed", "order_id", ev.OrderID, "err", err)
		items = nil
	}
	order := orderFromEvent(ev, items)
	s.Board.Upsert(order)

	switch order.Status {
	case domain.StatusPreparing:
		s.Notifier.PlayChime()
		s.Notifier.Toast("Pedido Aceito!", "Seu pedido está sendo preparado.")
	case domain.StatusDelivering:
		s.Notifier.PlayChime()
		s.Notifier.Toast("Pedido Saiu para Entrega!", "Seu pedido está a caminho.")
	case domain.StatusDelivered:
		s.Notifier.PlayChime()
		s.Notifier.Toast("Pedido Entregue!", "Obrigado pela preferência!")
	case domain.StatusRejected:
		reason := order.RejectionReason
		if reason == "" {
			reason = "Entre em contato para mais informações."
		}
		s.Notifier.PlayChime()
		s.Notifier.Toast("Pedido Rejeitado", reason)
	}
	return nil
}
