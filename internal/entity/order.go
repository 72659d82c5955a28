package domain

import (
	"errors"
	"time"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusPreparing  Status = "preparing"
	StatusDelivering Status = "delivering"
	StatusDelivered  Status = "delivered"
	StatusRejected   Status = "rejected"
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrReasonRequired    = errors.New("rejection reason required")
	ErrInvalidTotal      = errors.New("invalid order total")
)

// nextStatuses encodes the forward-only lifecycle. Rejection is only
// reachable from pending and is terminal.
var nextStatuses = map[Status][]Status{
	StatusPending:    {StatusPreparing, StatusRejected},
	StatusPreparing:  {StatusDelivering},
	StatusDelivering: {StatusDelivered},
	StatusDelivered:  {},
	StatusRejected:   {},
}

func (s Status) Valid() bool {
	_, ok := nextStatuses[s]
	return ok
}

func (s Status) CanTransition(to Status) bool {
	for _, n := range nextStatuses[s] {
		if n == to {
			return true
		}
	}
	return false
}

// Label returns the customer-facing Portuguese label for a status.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pendente"
	case StatusPreparing:
		return "Preparando"
	case StatusDelivering:
		return "Entregando"
	case StatusDelivered:
		return "Entregue"
	case StatusRejected:
		return "Rejeitado"
	}
	return string(s)
}

// OrderItem is a snapshot taken at checkout time, decoupled from the live
// catalog so historical orders survive product edits.
type OrderItem struct {
	ProductID      string
	ProductName    string
	ProductImage   string
	UnitPriceCents int64
	Quantity       int
}

func (it OrderItem) SubtotalCents() int64 {
	return it.UnitPriceCents * int64(it.Quantity)
}

type Order struct {
	ID              string
	UserID          string
	CustomerName    string
	CustomerPhone   string
	DeliveryAddress string
	PaymentMethod   string
	TotalCents      int64
	Status          Status
	RejectionReason string
	CreatedAt       time.Time
	Items           []OrderItem
}

func (o *Order) Validate() error {
	if o.TotalCents <= 0 {
		return ErrInvalidTotal
	}
	if !o.Status.Valid() {
		return ErrInvalidTransition
	}
	if o.Status == StatusRejected && o.RejectionReason == "" {
		return ErrReasonRequired
	}
	return nil
}
