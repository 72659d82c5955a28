// Package realtime keeps live order lists in sync with the order change
// feed. Each board is owned by one consuming view (the admin console or a
// customer's order screen) and is rebuilt from scratch on resubscribe; an
// incoming event is always the authoritative replacement for its order,
// never a delta, so redelivery is harmless.
package realtime

import (
	"sync"

	domain "github.com/megatonytrader/express-entregas-zap/internal/entity"
)

// Board is a newest-first order list reconciled by upsert.
type Board struct {
	mu     sync.Mutex
	orders []domain.Order
}

func NewBoard() *Board { return &Board{} }

// Reset replaces the whole list with an initial snapshot (already sorted
// newest first by the repo query).
func (b *Board) Reset(orders []domain.Order) {
	b.mu.Lock()
	b.orders = append([]domain.Order(nil), orders...)
	b.mu.Unlock()
}

// Upsert replaces the order in place when it is already listed, preserving
// its position; unknown orders are prepended. Returns whether the order was
// new to this board.
func (b *Board) Upsert(o domain.Order) (isNew bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.orders {
		if b.orders[i].ID == o.ID {
			b.orders[i] = o
			return false
		}
	}
	b.orders = append([]domain.Order{o}, b.orders...)
	return true
}

func (b *Board) Orders() []domain.Order {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.Order, len(b.orders))
	copy(out, b.orders)
	return out
}

func (b *Board) Get(id string) (domain.Order, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, o := range b.orders {
		if o.ID == id {
			return o, true
		}
	}
	return domain.Order{}, false
}

func (b *Board) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.orders)
}
