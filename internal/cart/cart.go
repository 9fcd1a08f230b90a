// Package cart implements the order lifecycle: an open order acts as the
// customer's shopping cart until a payment is attached, which closes it
// permanently. The single-open-order invariant is backed by a unique index on
// the orders open marker, not by application-level checks alone.
package cart

import (
	"errors"
	"strings"
	"time"

	"bangazon-api/internal/model"

	"gorm.io/gorm"
)

// View is an open order together with its computed size
type View struct {
	model.Order
	Size int `json:"size"`
}

// OpenOrder returns the customer's open order, creating one if none exists.
// A request that loses the creation race re-reads the winner's row, so
// concurrent calls converge on a single cart.
func OpenOrder(db *gorm.DB, customerID uint) (*model.Order, error) {
	var order model.Order
	err := db.Where("customer_id = ? AND payment_id IS NULL", customerID).First(&order).Error
	if err == nil {
		return &order, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	order = model.Order{CustomerID: customerID}
	if err := db.Create(&order).Error; err != nil {
		if isUniqueViolation(err) {
			if err := db.Where("customer_id = ? AND payment_id IS NULL", customerID).First(&order).Error; err != nil {
				return nil, err
			}
			return &order, nil
		}
		return nil, err
	}
	return &order, nil
}

// AddItem puts a product in the customer's cart, lazily creating the open
// order on first add. The target is open by construction.
func AddItem(db *gorm.DB, customerID, productID uint) (*model.OrderLineItem, error) {
	var product model.Product
	if err := db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	order, err := OpenOrder(db, customerID)
	if err != nil {
		return nil, err
	}
	return insertItem(db, order.ID, productID)
}

// AddItemToOrder inserts a line item into a specific order owned by the
// customer. Line-item mutation on a non-open order is rejected.
func AddItemToOrder(db *gorm.DB, customerID, orderID, productID uint) (*model.OrderLineItem, error) {
	order, err := Order(db, customerID, orderID)
	if err != nil {
		return nil, err
	}
	if !order.IsOpen() {
		return nil, ErrOrderCompleted
	}

	var product model.Product
	if err := db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return insertItem(db, order.ID, productID)
}

func insertItem(db *gorm.DB, orderID, productID uint) (*model.OrderLineItem, error) {
	item := model.OrderLineItem{OrderID: orderID, ProductID: productID}
	if err := db.Create(&item).Error; err != nil {
		return nil, err
	}
	if err := db.Preload("Product").First(&item, item.ID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// RemoveItem deletes one line item from the customer's own open order
func RemoveItem(db *gorm.DB, customerID, lineItemID uint) error {
	var item model.OrderLineItem
	err := db.Joins("JOIN orders ON orders.id = order_line_items.order_id").
		Where("order_line_items.id = ? AND orders.customer_id = ?", lineItemID, customerID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLineItemNotFound
		}
		return err
	}

	var order model.Order
	if err := db.First(&order, item.OrderID).Error; err != nil {
		return err
	}
	if !order.IsOpen() {
		return ErrOrderCompleted
	}
	return db.Delete(&model.OrderLineItem{}, item.ID).Error
}

// ClearOrderItems deletes every line item of the customer's own open order,
// keeping the (now empty) order as the cart
func ClearOrderItems(db *gorm.DB, customerID, orderID uint) error {
	var order model.Order
	err := db.Where("id = ? AND customer_id = ? AND payment_id IS NULL", orderID, customerID).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}
	return db.Where("order_id = ?", order.ID).Delete(&model.OrderLineItem{}).Error
}

// ClearCart deletes the open order's line items and then the order itself.
// This is the explicit "clear" contract, distinct from removing single items.
func ClearCart(db *gorm.DB, customerID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var order model.Order
		err := tx.Where("customer_id = ? AND payment_id IS NULL", customerID).First(&order).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoOpenOrder
			}
			return err
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&model.OrderLineItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Order{}, order.ID).Error
	})
}

// Complete attaches the customer's payment to the order and stamps the
// completion time in one conditional update. The WHERE payment_id IS NULL
// guard makes double-completion impossible under concurrent requests: the
// second writer matches zero rows.
func Complete(db *gorm.DB, customerID, orderID, paymentID uint) (*model.Order, error) {
	var order model.Order
	err := db.Where("id = ? AND customer_id = ?", orderID, customerID).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if !order.IsOpen() {
		return nil, ErrOrderCompleted
	}

	var payment model.Payment
	err = db.Where("id = ? AND customer_id = ?", paymentID, customerID).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	// Server clock, never client-supplied. Clearing the open marker releases
	// the per-customer uniqueness slot for the next cart.
	now := time.Now()
	result := db.Model(&model.Order{}).
		Where("id = ? AND customer_id = ? AND payment_id IS NULL", orderID, customerID).
		Updates(map[string]interface{}{"payment_id": paymentID, "completed_date": now, "open_marker": nil})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrOrderCompleted
	}

	order.PaymentID = &paymentID
	order.OpenMarker = nil
	order.CompletedDate = &now
	order.Payment = &payment
	return &order, nil
}

// Cart returns the customer's open order with its line items and size.
// "No open order" is a distinct condition from an open order with zero items.
func Cart(db *gorm.DB, customerID uint) (*View, error) {
	var order model.Order
	err := db.Preload("LineItems.Product").Preload("LineItems.Product.Category").
		Where("customer_id = ? AND payment_id IS NULL", customerID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoOpenOrder
		}
		return nil, err
	}
	if order.LineItems == nil {
		order.LineItems = []model.OrderLineItem{}
	}
	return &View{Order: order, Size: len(order.LineItems)}, nil
}

// Orders lists the customer's orders, optionally filtered by the payment used
func Orders(db *gorm.DB, customerID uint, paymentID *uint) ([]model.Order, error) {
	query := db.Preload("LineItems.Product").Preload("Payment").
		Where("customer_id = ?", customerID)
	if paymentID != nil {
		query = query.Where("payment_id = ?", *paymentID)
	}

	var orders []model.Order
	if err := query.Order("id").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Order fetches one of the customer's orders with its items and payment
func Order(db *gorm.DB, customerID, orderID uint) (*model.Order, error) {
	var order model.Order
	err := db.Preload("LineItems.Product").Preload("Payment").
		Where("id = ? AND customer_id = ?", orderID, customerID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// LineItems lists the line items of one of the customer's orders
func LineItems(db *gorm.DB, customerID, orderID uint) ([]model.OrderLineItem, error) {
	order, err := Order(db, customerID, orderID)
	if err != nil {
		return nil, err
	}
	if order.LineItems == nil {
		return []model.OrderLineItem{}, nil
	}
	return order.LineItems, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "UNIQUE constraint")
}
