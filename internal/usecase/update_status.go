package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	domain "github.com/megatonytrader/express-entregas-zap/internal/entity"
	"github.com/megatonytrader/express-entregas-zap/internal/notify"
)

// ErrTransitionLost means the guarded update matched zero rows: another
// admin session moved the order first. The caller should reload and retry
// against the fresh status.
var ErrTransitionLost = errors.New("order status changed concurrently")

type UpdateStatusInput struct {
	OrderID string
	To      domain.Status
	Reason  string // required for rejections
}

type UpdateStatusOutput struct {
	Order domain.Order
	// WhatsAppURL is the pre-filled customer notification for this
	// transition; empty for transitions that do not message the customer.
	WhatsAppURL string
}

type UpdateStatus struct {
	orders OrderRepo
	out    OutboxRepo
	log    *slog.Logger
}

func NewUpdateStatus(orders OrderRepo, out OutboxRepo, log *slog.Logger) *UpdateStatus {
	return &UpdateStatus{orders: orders, out: out, log: log}
}

func (uc *UpdateStatus) Execute(ctx context.Context, in UpdateStatusInput) (UpdateStatusOutput, error) {
	if !in.To.Valid() {
		return UpdateStatusOutput{}, domain.ErrInvalidTransition
	}
	reason := strings.TrimSpace(in.Reason)
	if in.To == domain.StatusRejected && reason == "" {
		return UpdateStatusOutput{}, domain.ErrReasonRequired
	}

	order, err := uc.orders.GetByID(ctx, in.OrderID)
	if err != nil {
		return UpdateStatusOutput{}, err
	}
	if !order.Status.CanTransition(in.To) {
		return UpdateStatusOutput{}, fmt.Errorf("%w: %s -> %s",
			domain.ErrInvalidTransition, order.Status, in.To)
	}

	// The local view is only a guess until the guarded write confirms it;
	// zero rows affected means a racing admin won and nothing changed here.
	ok, err := uc.orders.UpdateStatusIf(ctx, in.OrderID, order.Status, in.To, reason)
	if err != nil {
		return UpdateStatusOutput{}, err
	}
	if !ok {
		return UpdateStatusOutput{}, ErrTransitionLost
	}
	order.Status = in.To
	order.RejectionReason = reason

	payload, _ := json.Marshal(OrderChangedMsg{
		Kind:            ChangeUpdate,
		OrderID:         order.ID,
		UserID:          order.UserID,
		CustomerName:    order.CustomerName,
		CustomerPhone:   order.CustomerPhone,
		DeliveryAddress: order.DeliveryAddress,
		PaymentMethod:   order.PaymentMethod,
		TotalCents:      order.TotalCents,
		Status:          string(order.Status),
		RejectionReason: order.RejectionReason,
		CreatedAt:       order.CreatedAt,
	})
	if err := uc.out.InsertOrderChanged(ctx, order.ID, payload); err != nil {
		uc.log.Warn("outbox insert failed, feed event dropped",
			"order_id", order.ID, "err", err)
	}

	var waURL string
	switch in.To {
	case domain.StatusRejected:
		waURL = notify.Link(order.CustomerPhone,
			notify.RejectionMessage(order.CustomerName, order.ID, reason))
	case domain.StatusPreparing, domain.StatusDelivering, domain.StatusDelivered:
		waURL = notify.Link(order.CustomerPhone,
			notify.StatusMessage(order.CustomerName, order.ID, in.To))
	}
	return UpdateStatusOutput{Order: *order, WhatsAppURL: waURL}, nil
}
