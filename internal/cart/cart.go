// Package cart holds the shopping cart for one storefront session: a flat
// list of lines, each one product configuration (product + chosen add-ons)
// with a quantity. Adding the same configuration twice merges into the
// existing line instead of appending a duplicate.
package cart

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"

	domain "github.com/megatonytrader/express-entregas-zap/internal/entity"
)

// Feedback tells the caller which user-visible notification a mutation
// should produce. Plain quantity edits return FeedbackNone so +/- taps
// don't spam the customer.
type Feedback int

const (
	FeedbackNone Feedback = iota
	FeedbackItemAdded
	FeedbackQuantityUpdated
	FeedbackItemRemoved
	FeedbackCleared
)

type Line struct {
	ID             string         `json:"id"`
	ProductID      string         `json:"product_id"`
	ProductName    string         `json:"product_name"`
	UnitPriceCents int64          `json:"unit_price_cents"`
	ProductImage   string         `json:"product_image,omitempty"`
	Quantity       int            `json:"quantity"`
	AddOns         []domain.AddOn `json:"add_ons,omitempty"`
}

// fingerprint identifies a purchasable configuration: the product plus the
// set of selected add-on IDs, order-insensitive. Add-on prices are not part
// of the identity (two adds of the same product+extras merge even if the
// catalog price moved between them).
func (l Line) fingerprint() string {
	ids := make([]string, 0, len(l.AddOns))
	for _, a := range l.AddOns {
		ids = append(ids, a.ID)
	}
	sort.Strings(ids)
	return l.ProductID + "|" + strings.Join(ids, ",")
}

// LineTotalCents is (unit price + add-on prices) x quantity.
func (l Line) LineTotalCents() int64 {
	unit := l.UnitPriceCents
	for _, a := range l.AddOns {
		unit += a.PriceCents
	}
	return unit * int64(l.Quantity)
}

// Engine owns the in-memory line list for one session and mirrors it to a
// Store after every mutation. The in-memory state stays authoritative when
// the mirror write fails; persistence is best effort.
type Engine struct {
	sessionID string
	lines     []Line
	store     Store
	log       *slog.Logger
}

// NewEngine loads the session's cart from the store. Malformed stored data
// is discarded wholesale and the session starts with an empty cart.
func NewEngine(ctx context.Context, sessionID string, store Store, log *slog.Logger) *Engine {
	e := &Engine{sessionID: sessionID, store: store, log: log}
	lines, err := store.Load(ctx, sessionID)
	if err != nil {
		log.Warn("cart load failed, starting empty", "session_id", sessionID, "err", err)
		return e
	}
	e.lines = lines
	return e
}

func (e *Engine) Lines() []Line {
	out := make([]Line, len(e.lines))
	copy(out, e.lines)
	return out
}

// ItemCount is the sum of line quantities, recomputed per call.
func (e *Engine) ItemCount() int {
	n := 0
	for _, l := range e.lines {
		n += l.Quantity
	}
	return n
}

// TotalCents sums (unit + add-ons) x quantity over all lines.
func (e *Engine) TotalCents() int64 {
	var total int64
	for _, l := range e.lines {
		total += l.LineTotalCents()
	}
	return total
}

// AddItem merges into an existing line with the same fingerprint, otherwise
// appends a fresh line. A non-positive quantity is treated as 1.
func (e *Engine) AddItem(ctx context.Context, line Line) Feedback {
	if line.Quantity < 1 {
		line.Quantity = 1
	}
	fp := line.fingerprint()
	for i := range e.lines {
		if e.lines[i].fingerprint() == fp {
			e.lines[i].Quantity += line.Quantity
			e.persist(ctx)
			return FeedbackQuantityUpdated
		}
	}
	line.ID = uuid.NewString()
	e.lines = append(e.lines, line)
	e.persist(ctx)
	return FeedbackItemAdded
}

// RemoveItem deletes the line with the given ID. Removing an absent line is
// a no-op, not an error.
func (e *Engine) RemoveItem(ctx context.Context, lineID string) Feedback {
	for i := range e.lines {
		if e.lines[i].ID == lineID {
			e.lines = append(e.lines[:i], e.lines[i+1:]...)
			e.persist(ctx)
			break
		}
	}
	return FeedbackItemRemoved
}

// UpdateQuantity sets the line quantity. Anything below 1 removes the line.
func (e *Engine) UpdateQuantity(ctx context.Context, lineID string, qty int) Feedback {
	if qty < 1 {
		return e.RemoveItem(ctx, lineID)
	}
	for i := range e.lines {
		if e.lines[i].ID == lineID {
			e.lines[i].Quantity = qty
			e.persist(ctx)
			break
		}
	}
	return FeedbackNone
}

// Clear empties the cart and erases the durable mirror.
func (e *Engine) Clear(ctx context.Context) Feedback {
	e.lines = nil
	if err := e.store.Erase(ctx, e.sessionID); err != nil {
		e.log.Warn("cart erase failed", "session_id", e.sessionID, "err", err)
	}
	return FeedbackCleared
}

func (e *Engine) persist(ctx context.Context) {
	if err := e.store.Save(ctx, e.sessionID, e.lines); err != nil {
		e.log.Warn("cart persist failed", "session_id", e.sessionID, "err", err)
	}
}
