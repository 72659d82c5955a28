package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_CanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		ok       bool
	}{
		{StatusPending, StatusPreparing, true},
		{StatusPending, StatusRejected, true},
		{StatusPreparing, StatusDelivering, true},
		{StatusDelivering, StatusDelivered, true},

		{StatusPending, StatusDelivering, false},
		{StatusPending, StatusDelivered, false},
		{StatusPreparing, StatusPending, false},
		{StatusPreparing, StatusRejected, false},
		{StatusDelivering, StatusPreparing, false},
		{StatusDelivered, StatusDelivering, false},
		{StatusRejected, StatusPending, false},
		{StatusRejected, StatusPreparing, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.from.CanTransition(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestStatus_Valid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusRejected.Valid())
	assert.False(t, Status("cancelled").Valid())
	assert.False(t, Status("").Valid())
}

func TestStatus_Label(t *testing.T) {
	assert.Equal(t, "Pendente", StatusPending.Label())
	assert.Equal(t, "Entregue", StatusDelivered.Label())
	assert.Equal(t, "Rejeitado", StatusRejected.Label())
}

func TestOrder_Validate(t *testing.T) {
	o := Order{TotalCents: 3500, Status: StatusPending}
	assert.NoError(t, o.Validate())

	o.TotalCents = 0
	assert.ErrorIs(t, o.Validate(), ErrInvalidTotal)

	o.TotalCents = 3500
	o.Status = Status("bogus")
	assert.ErrorIs(t, o.Validate(), ErrInvalidTransition)

	o.Status = StatusRejected
	assert.ErrorIs(t, o.Validate(), ErrReasonRequired)

	o.RejectionReason = "Fora da área de entrega"
	assert.NoError(t, o.Validate())
}

func TestOrderItem_SubtotalCents(t *testing.T) {
	it := OrderItem{UnitPriceCents: 1250, Quantity: 3}
	assert.Equal(t, int64(3750), it.SubtotalCents())
}

func TestFormatBRL(t *testing.T) {
	assert.Equal(t, "R$ 35.00", FormatBRL(3500))
	assert.Equal(t, "R$ 0.05", FormatBRL(5))
	assert.Equal(t, "R$ 12.34", FormatBRL(1234))
	assert.Equal(t, "-R$ 1.50", FormatBRL(-150))
}
