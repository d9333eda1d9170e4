package model

import (
	"time"

	"github.com/google/uuid"
)

// PaymentMethod is the payment option chosen on the first checkout step.
type PaymentMethod string

const (
	PaymentUnset PaymentMethod = ""
	PaymentCard  PaymentMethod = "card"
	PaymentCash  PaymentMethod = "cash"
)

// Valid reports whether m is one of the supported payment options.
func (m PaymentMethod) Valid() bool {
	return m == PaymentCard || m == PaymentCash
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	m := PaymentMethod(raw)
	if !m.Valid() {
		return PaymentUnset, ErrUnknownPayment
	}
	return m, nil
}

// Order is the draft order filled in during checkout and sent to the shop API.
// Items and Total are only authoritative right after a snapshot.
type Order struct {
	Payment PaymentMethod `json:"payment"`
	Email   string        `json:"email"`
	Phone   string        `json:"phone"`
	Address string        `json:"address"`
	Total   float64       `json:"total"`
	Items   []string      `json:"items"`
}

// EmptyOrder returns the draft order template.
func EmptyOrder() Order {
	return Order{Items: []string{}}
}

// Clone returns a deep copy of the order.
func (o Order) Clone() Order {
	c := o
	c.Items = append(make([]string, 0, len(o.Items)), o.Items...)
	return c
}

// OrderResult is returned by the shop API for an accepted order.
type OrderResult struct {
	ID    string  `json:"id"`
	Total float64 `json:"total"`
}

// PlacedOrder is an order persisted by the shop API.
type PlacedOrder struct {
	ID        uuid.UUID     `json:"id" db:"id"`
	Payment   PaymentMethod `json:"payment" db:"payment"`
	Email     string        `json:"email" db:"email"`
	Phone     string        `json:"phone" db:"phone"`
	Address   string        `json:"address" db:"address"`
	Total     float64       `json:"total" db:"total"`
	CreatedAt time.Time     `json:"createdAt" db:"created_at"`
	Items     []string      `json:"items" db:"-"`
}

// OrderItem is a line of a placed order. Position keeps the basket order.
type OrderItem struct {
	OrderID   uuid.UUID `json:"-" db:"order_id"`
	Position  int       `json:"position" db:"position"`
	ProductID string    `json:"productId" db:"product_id"`
}
