package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/megatonytrader/express-entregas-zap/internal/entity"
)

func updateFixture(status domain.Status) (*UpdateStatus, *fakeOrderRepo, *fakeOutbox) {
	orders := newFakeOrderRepo()
	orders.orders["o1"] = &domain.Order{
		ID:            "o1",
		CustomerName:  "Maria",
		CustomerPhone: "11998765432",
		TotalCents:    3500,
		Status:        status,
	}
	outbox := &fakeOutbox{}
	return NewUpdateStatus(orders, outbox, slog.Default()), orders, outbox
}

func TestUpdateStatus_AcceptPendingOrder(t *testing.T) {
	uc, orders, outbox := updateFixture(domain.StatusPending)

	out, err := uc.Execute(context.Background(), UpdateStatusInput{
		OrderID: "o1", To: domain.StatusPreparing,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPreparing, out.Order.Status)
	assert.Equal(t, domain.StatusPreparing, orders.orders["o1"].Status)
	assert.Contains(t, out.WhatsAppURL, "https://wa.me/11998765432")

	require.Len(t, outbox.payloads, 1)
	assert.Equal(t, []string{"o1"}, outbox.keys)
	var ev OrderChangedMsg
	require.NoError(t, json.Unmarshal(outbox.payloads[0], &ev))
	assert.Equal(t, ChangeUpdate, ev.Kind)
	assert.Equal(t, string(domain.StatusPreparing), ev.Status)
}

func TestUpdateStatus_RejectRequiresReason(t *testing.T) {
	uc, orders, _ := updateFixture(domain.StatusPending)

	_, err := uc.Execute(context.Background(), UpdateStatusInput{
		OrderID: "o1", To: domain.StatusRejected, Reason: "   ",
	})
	assert.ErrorIs(t, err, domain.ErrReasonRequired)
	assert.Equal(t, domain.StatusPending, orders.orders["o1"].Status)
}

func TestUpdateStatus_RejectWithReason(t *testing.T) {
	uc, orders, outbox := updateFixture(domain.StatusPending)

	out, err := uc.Execute(context.Background(), UpdateStatusInput{
		OrderID: "o1", To: domain.StatusRejected, Reason: "Sem estoque",
	})
	require.NoError(t, err)

	assert.Equal(t, "Sem estoque", out.Order.RejectionReason)
	assert.Equal(t, domain.StatusRejected, orders.orders["o1"].Status)
	assert.Contains(t, out.WhatsAppURL, "wa.me")

	var ev OrderChangedMsg
	require.NoError(t, json.Unmarshal(outbox.payloads[0], &ev))
	assert.Equal(t, "Sem estoque", ev.RejectionReason)
}

func TestUpdateStatus_IllegalTransition(t *testing.T) {
	uc, _, outbox := updateFixture(domain.StatusDelivered)

	_, err := uc.Execute(context.Background(), UpdateStatusInput{
		OrderID: "o1", To: domain.StatusPreparing,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Empty(t, outbox.payloads)
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	uc, _, _ := updateFixture(domain.StatusPending)

	_, err := uc.Execute(context.Background(), UpdateStatusInput{
		OrderID: "o1", To: domain.Status("cancelled"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestUpdateStatus_UnknownOrder(t *testing.T) {
	uc, _, _ := updateFixture(domain.StatusPending)

	_, err := uc.Execute(context.Background(), UpdateStatusInput{
		OrderID: "missing", To: domain.StatusPreparing,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateStatus_LostRace(t *testing.T) {
	uc, orders, outbox := updateFixture(domain.StatusPending)
	orders.updateOK = false

	_, err := uc.Execute(context.Background(), UpdateStatusInput{
		OrderID: "o1", To: domain.StatusPreparing,
	})
	assert.ErrorIs(t, err, ErrTransitionLost)
	assert.Empty(t, outbox.payloads, "no event for a write that did not happen")
}
