package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/megatonytrader/express-entregas-zap/internal/adapter/repo"
)

func TestOutboxMessage_KeyedByOrderID(t *testing.T) {
	row := repo.OutboxRow{ID: 7, Key: "order-123", Payload: []byte(`{"orderId":"order-123"}`)}

	msg := outboxMessage("orders.changed", row)

	assert.Equal(t, "orders.changed", msg.Topic)
	require.NotNil(t, msg.Key)
	key, err := msg.Key.Encode()
	require.NoError(t, err)
	assert.Equal(t, "order-123", string(key), "same order must land on the same partition")

	val, err := msg.Value.Encode()
	require.NoError(t, err)
	assert.Equal(t, string(row.Payload), string(val))
}

func TestOutboxMessage_NoKeyForLegacyRows(t *testing.T) {
	msg := outboxMessage("orders.changed", repo.OutboxRow{ID: 8, Payload: []byte(`{}`)})
	assert.Nil(t, msg.Key)
}
