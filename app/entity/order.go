package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order payment statuses mirrored from the provider charge lifecycle.
const (
	OrderStatusUnpaid   = "unpaid"
	OrderStatusPending  = "pending"
	OrderStatusPaid     = "paid"
	OrderStatusFailed   = "failed"
	OrderStatusRefunded = "refunded"
)

// Order is owned by the platform store; the gateway mutates it only through
// repository transition calls and never holds it across requests.
type Order struct {
	ID       string
	UserID   string
	Total    decimal.Decimal
	Currency string

	Status string

	// TransactionID is the provider-assigned charge id. Set exactly once
	// per successful charge creation, overwritten only by reconciliation.
	TransactionID *string

	PaidAt    *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (o *Order) IsPaid() bool {
	return o.Status == OrderStatusPaid
}

// OrderNote is an append-only audit entry on an order.
type OrderNote struct {
	ID        uint64
	OrderID   string
	Note      string
	CreatedAt time.Time
}
