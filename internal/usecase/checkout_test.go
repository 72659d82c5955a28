package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/megatonytrader/express-entregas-zap/internal/cart"
	domain "github.com/megatonytrader/express-entregas-zap/internal/entity"
)

type fakeOrderRepo struct {
	created []*domain.Order
	orders  map[string]*domain.Order

	createErr error
	updateOK  bool
	updateErr error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[string]*domain.Order{}, updateOK: true}
}

func (f *fakeOrderRepo) Create(_ context.Context, o *domain.Order) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, o)
	cp := *o
	f.orders[o.ID] = &cp
	return nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrderRepo) ListAll(context.Context) ([]domain.Order, error) { return nil, nil }

func (f *fakeOrderRepo) ListByUser(context.Context, string) ([]domain.Order, error) {
	return nil, nil
}
func (f *fakeOrderRepo) OrderItems(context.Context, string) ([]domain.OrderItem, error) {
	return nil, nil
}

func (f *fakeOrderRepo) UpdateStatusIf(_ context.Context, id string, from, to domain.Status, reason string) (bool, error) {
	if f.updateErr != nil {
		return false, f.updateErr
	}
	if !f.updateOK {
		return false, nil
	}
	if o, ok := f.orders[id]; ok && o.Status == from {
		o.Status = to
		o.RejectionReason = reason
		return true, nil
	}
	return false, nil
}

type fakeSettings struct {
	values map[string]string
}

func (f *fakeSettings) Get(_ context.Context, key string) (string, error) {
	return f.values[key], nil
}

func (f *fakeSettings) GetMany(_ context.Context, keys []string) (map[string]string, error) {
	out := map[string]string{}
	for _, k := range keys {
		if v, ok := f.values[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (f *fakeSettings) Set(_ context.Context, key, value string) error {
	f.values[key] = value
	return nil
}

type fakeIdem struct {
	locked     map[string]bool
	remembered map[string]string
}

func newFakeIdem() *fakeIdem {
	return &fakeIdem{locked: map[string]bool{}, remembered: map[string]string{}}
}

func (f *fakeIdem) TryLock(_ context.Context, scope, key string) (bool, error) {
	k := scope + "/" + key
	if f.locked[k] {
		return false, nil
	}
	f.locked[k] = true
	return true, nil
}

func (f *fakeIdem) Unlock(_ context.Context, scope, key string) error {
	delete(f.locked, scope+"/"+key)
	return nil
}

func (f *fakeIdem) Remember(_ context.Context, scope, key, value string) error {
	f.remembered[scope+"/"+key] = value
	return nil
}

func (f *fakeIdem) Recall(_ context.Context, scope, key string) (string, bool, error) {
	v, ok := f.remembered[scope+"/"+key]
	return v, ok, nil
}

type fakeOutbox struct {
	keys     []string
	payloads [][]byte
	err      error
}

func (f *fakeOutbox) InsertOrderChanged(_ context.Context, orderID string, payload []byte) error {
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, orderID)
	f.payloads = append(f.payloads, payload)
	return nil
}

type fakeRelay struct {
	msgs []OrderPlacedMsg
	err  error
}

func (f *fakeRelay) PublishPlaced(_ context.Context, msg OrderPlacedMsg) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msg)
	return nil
}

func checkoutFixture() (*Checkout, *fakeOrderRepo, *fakeOutbox, *fakeRelay, *fakeIdem) {
	orders := newFakeOrderRepo()
	outbox := &fakeOutbox{}
	relay := &fakeRelay{}
	idem := newFakeIdem()
	settings := &fakeSettings{values: map[string]string{"whatsapp_number": "+55 11 99876-5432"}}
	uc := NewCheckout(orders, settings, idem, outbox, relay, 500, slog.Default())
	return uc, orders, outbox, relay, idem
}

func checkoutInput() CheckoutInput {
	return CheckoutInput{
		UserID:        "sess-1",
		CustomerName:  "Maria Silva",
		CustomerPhone: "11998765432",
		Street:        "Rua das Flores",
		Number:        "123",
		Neighborhood:  "Centro",
		Payment:       "money",
		Lines: []cart.Line{
			{
				ID: "l1", ProductID: "p1", ProductName: "X-Burger",
				UnitPriceCents: 1000, Quantity: 2,
				AddOns: []domain.AddOn{{ID: "a1", Name: "Bacon", PriceCents: 300}},
			},
			{ID: "l2", ProductID: "p2", ProductName: "Refrigerante", UnitPriceCents: 500, Quantity: 1},
		},
	}
}

func TestCheckout_Execute(t *testing.T) {
	uc, orders, outbox, relay, _ := checkoutFixture()

	out, err := uc.Execute(context.Background(), checkoutInput())
	require.NoError(t, err)

	// (1000+300)*2 + 500 + delivery 500
	assert.Equal(t, int64(3600), out.TotalCents)
	assert.Equal(t, string(domain.StatusPending), out.Status)
	assert.True(t, strings.HasPrefix(out.WhatsAppURL, "https://wa.me/5511998765432?text="), out.WhatsAppURL)

	require.Len(t, orders.created, 1)
	o := orders.created[0]
	assert.NotEmpty(t, o.ID)
	assert.Equal(t, "Rua das Flores, 123 - Centro", o.DeliveryAddress)
	assert.Equal(t, "Dinheiro", o.PaymentMethod)
	require.Len(t, o.Items, 2)
	assert.Equal(t, int64(1300), o.Items[0].UnitPriceCents, "add-on prices folded into the snapshot")

	require.Len(t, outbox.payloads, 1)
	var ev OrderChangedMsg
	require.NoError(t, json.Unmarshal(outbox.payloads[0], &ev))
	assert.Equal(t, ChangeInsert, ev.Kind)
	assert.Equal(t, o.ID, ev.OrderID)
	assert.Equal(t, string(domain.StatusPending), ev.Status)

	require.Len(t, relay.msgs, 1)
	assert.Equal(t, int64(3100), relay.msgs[0].SubtotalCents)
	assert.Equal(t, int64(500), relay.msgs[0].DeliveryFeeCents)
}

func TestCheckout_EmptyCart(t *testing.T) {
	uc, _, _, _, _ := checkoutFixture()

	in := checkoutInput()
	in.Lines = nil
	_, err := uc.Execute(context.Background(), in)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckout_MerchantNumberMissing(t *testing.T) {
	orders := newFakeOrderRepo()
	settings := &fakeSettings{values: map[string]string{}}
	uc := NewCheckout(orders, settings, newFakeIdem(), &fakeOutbox{}, &fakeRelay{}, 500, slog.Default())

	_, err := uc.Execute(context.Background(), checkoutInput())
	assert.ErrorIs(t, err, ErrMerchantMissing)
	assert.Empty(t, orders.created)
}

func TestCheckout_IdempotentRetryReturnsOriginalOrder(t *testing.T) {
	uc, orders, _, _, _ := checkoutFixture()

	in := checkoutInput()
	in.IdempotencyKey = "key-1"

	first, err := uc.Execute(context.Background(), in)
	require.NoError(t, err)

	second, err := uc.Execute(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, first.OrderID, second.OrderID)
	assert.Len(t, orders.created, 1, "retry must not create a second order")
}

func TestCheckout_ConcurrentDuplicateRejected(t *testing.T) {
	uc, orders, _, _, idem := checkoutFixture()

	in := checkoutInput()
	in.IdempotencyKey = "key-1"

	// Simulate an in-flight sibling holding the lock with no result yet.
	ok, err := idem.TryLock(context.Background(), in.CustomerPhone, in.IdempotencyKey)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = uc.Execute(context.Background(), in)
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Empty(t, orders.created)
}

func TestCheckout_RelayFailureDoesNotFailOrder(t *testing.T) {
	orders := newFakeOrderRepo()
	settings := &fakeSettings{values: map[string]string{"whatsapp_number": "5511998765432"}}
	relay := &fakeRelay{err: errors.New("broker down")}
	uc := NewCheckout(orders, settings, newFakeIdem(), &fakeOutbox{}, relay, 500, slog.Default())

	out, err := uc.Execute(context.Background(), checkoutInput())
	require.NoError(t, err)
	assert.NotEmpty(t, out.OrderID)
	assert.Len(t, orders.created, 1)
}

func TestCheckout_RetryAfterWriteFailureSucceeds(t *testing.T) {
	uc, orders, _, _, _ := checkoutFixture()

	in := checkoutInput()
	in.IdempotencyKey = "key-1"

	orders.createErr = errors.New("db down")
	_, err := uc.Execute(context.Background(), in)
	require.Error(t, err)
	require.Empty(t, orders.created)

	// The failed attempt must not hold the key hostage for the TTL.
	orders.createErr = nil
	out, err := uc.Execute(context.Background(), in)
	require.NoError(t, err)
	assert.NotEmpty(t, out.OrderID)
	assert.Len(t, orders.created, 1)
}

func TestCheckout_OutboxKeyedByOrderID(t *testing.T) {
	uc, orders, outbox, _, _ := checkoutFixture()

	_, err := uc.Execute(context.Background(), checkoutInput())
	require.NoError(t, err)

	require.Len(t, outbox.keys, 1)
	assert.Equal(t, orders.created[0].ID, outbox.keys[0])
}

func TestCheckout_OutboxFailureDoesNotFailOrder(t *testing.T) {
	orders := newFakeOrderRepo()
	settings := &fakeSettings{values: map[string]string{"whatsapp_number": "5511998765432"}}
	outbox := &fakeOutbox{err: errors.New("db hiccup")}
	uc := NewCheckout(orders, settings, newFakeIdem(), outbox, &fakeRelay{}, 500, slog.Default())

	out, err := uc.Execute(context.Background(), checkoutInput())
	require.NoError(t, err)
	assert.NotEmpty(t, out.OrderID)
	assert.Len(t, orders.created, 1)
}

func TestCheckout_CardPaymentLabel(t *testing.T) {
	uc, orders, _, _, _ := checkoutFixture()

	in := checkoutInput()
	in.Payment = "card"
	_, err := uc.Execute(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "Cartão na Entrega", orders.created[0].PaymentMethod)
}
