package queue

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/megatonytrader/express-entregas-zap/internal/usecase"
)

type stubSettings struct {
	values map[string]string
}

func (s *stubSettings) Get(_ context.Context, key string) (string, error) {
	return s.values[key], nil
}

func (s *stubSettings) GetMany(_ context.Context, keys []string) (map[string]string, error) {
	out := map[string]string{}
	for _, k := range keys {
		out[k] = s.values[k]
	}
	return out, nil
}

func (s *stubSettings) Set(_ context.Context, key, value string) error {
	s.values[key] = value
	return nil
}

func placedMsg() usecase.OrderPlacedMsg {
	return usecase.OrderPlacedMsg{
		OrderID:       "o1",
		CustomerName:  "Maria",
		CustomerPhone: "11998765432",
		TotalCents:    3500,
		Items:         []usecase.PlacedItem{{ProductName: "X-Burger", UnitPriceCents: 1500, Quantity: 2}},
	}
}

func TestMerchantRelay_AcksWhenConfigured(t *testing.T) {
	h := NewMerchantRelayHandler(&stubSettings{values: map[string]string{
		"whatsapp_number": "5511912345678",
	}}, slog.Default())

	assert.NoError(t, h.HandlePlaced(context.Background(), placedMsg()))
}

func TestMerchantRelay_DisabledIsSilentAck(t *testing.T) {
	h := NewMerchantRelayHandler(&stubSettings{values: map[string]string{
		"whatsapp_notifications": "false",
		"whatsapp_number":        "5511912345678",
	}}, slog.Default())

	assert.NoError(t, h.HandlePlaced(context.Background(), placedMsg()))
}

func TestMerchantRelay_MissingNumberDropsWithoutError(t *testing.T) {
	h := NewMerchantRelayHandler(&stubSettings{values: map[string]string{}}, slog.Default())

	// Requeueing forever would wedge the queue; the drop must ACK.
	require.NoError(t, h.HandlePlaced(context.Background(), placedMsg()))
}
