package model

import (
	"time"

	"gorm.io/gorm"
)

// Order is a customer's order. An order with no payment assigned is the
// customer's open shopping cart; assigning a payment plus a completion
// timestamp closes it for good.
//
// OpenMarker enforces the cart invariant at the database level in a form
// every supported driver expresses: it is true while the order is open and
// NULL once completed, and the composite unique index on
// (customer_id, open_marker) admits at most one open row per customer. NULL
// markers never collide, so completed orders accumulate freely. Two requests
// racing to create a cart cannot both succeed.
type Order struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	CustomerID    uint       `json:"customer_id" gorm:"not null;uniqueIndex:uidx_open_order_per_customer"`
	PaymentID     *uint      `json:"payment_id" gorm:"index"`
	OpenMarker    *bool      `json:"-" gorm:"uniqueIndex:uidx_open_order_per_customer"`
	CreatedAt     time.Time  `json:"created_date"`
	CompletedDate *time.Time `json:"completed_date"`

	// Relations
	Payment   *Payment        `json:"payment_type,omitempty" gorm:"foreignKey:PaymentID"`
	LineItems []OrderLineItem `json:"lineitems,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate stamps the open marker on rows created without a payment, so
// the uniqueness guard holds no matter which code path inserts the order
func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.PaymentID == nil && o.OpenMarker == nil {
		open := true
		o.OpenMarker = &open
	}
	return nil
}

// IsOpen reports whether the order still functions as a cart
func (o *Order) IsOpen() bool {
	return o.PaymentID == nil
}

// OrderLineItem joins one product to one order
type OrderLineItem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	OrderID   uint      `json:"order_id" gorm:"index;not null"`
	ProductID uint      `json:"product_id" gorm:"index;not null"`
	CreatedAt time.Time `json:"-"`

	// Relations
	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
