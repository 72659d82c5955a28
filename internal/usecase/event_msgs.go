package usecase

import "time"

type ChangeKind string

const (
	ChangeInsert ChangeKind = "insert"
	ChangeUpdate ChangeKind = "update"
)

// OrderChangedMsg is the change-feed payload: the full post-change order
// row, published after every insert and status update. Consumers treat it
// as the authoritative replacement for that order, never as a delta.
type OrderChangedMsg struct {
	Kind            ChangeKind `json:"kind"`
	OrderID         string     `json:"orderId"`
	UserID          string     `json:"userId,omitempty"`
	CustomerName    string     `json:"customerName"`
	CustomerPhone   string     `json:"customerPhone"`
	DeliveryAddress string     `json:"deliveryAddress"`
	PaymentMethod   string     `json:"paymentMethod"`
	TotalCents      int64      `json:"totalCents"`
	Status          string     `json:"status"`
	RejectionReason string     `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

type PlacedItem struct {
	ProductName    string `json:"productName"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	Quantity       int    `json:"quantity"`
}

// OrderPlacedMsg goes to the merchant relay queue; the relay consumer turns
// it into the WhatsApp hand-off message.
type OrderPlacedMsg struct {
	OrderID          string       `json:"orderId"`
	CustomerName     string       `json:"customerName"`
	CustomerPhone    string       `json:"customerPhone"`
	DeliveryAddress  string       `json:"deliveryAddress"`
	PaymentMethod    string       `json:"paymentMethod"`
	SubtotalCents    int64        `json:"subtotalCents"`
	DeliveryFeeCents int64        `json:"deliveryFeeCents"`
	TotalCents       int64        `json:"totalCents"`
	Items            []PlacedItem `json:"items"`
}
