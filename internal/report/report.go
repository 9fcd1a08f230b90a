// Package report holds the read-only aggregations. Every query is a pure
// projection over current rows and is safe to recompute on each call.
package report

import (
	"time"

	"bangazon-api/internal/model"

	"gorm.io/gorm"
)

// PriceThreshold splits the catalog into the expensive and inexpensive
// report buckets
const PriceThreshold = 1000.0

// OrderSummary is one row of the incomplete/completed order reports
type OrderSummary struct {
	OrderID       uint       `json:"order_id"`
	CustomerName  string     `json:"customer_name"`
	TotalCost     float64    `json:"total_cost"`
	MerchantName  string     `json:"merchant_name,omitempty"`
	CompletedDate *time.Time `json:"completed_date,omitempty"`
}

// SellerName is one row of the favorite sellers report
type SellerName struct {
	FavoriteID uint   `json:"favorite_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Username   string `json:"username"`
}

// IncompleteOrders lists orders with neither payment nor completion date,
// with the running total of their line-item prices
func IncompleteOrders(db *gorm.DB) ([]OrderSummary, error) {
	var rows []OrderSummary
	err := db.Table("orders").
		Select("orders.id AS order_id, users.username AS customer_name, COALESCE(SUM(products.price), 0) AS total_cost").
		Joins("JOIN customers ON customers.id = orders.customer_id").
		Joins("JOIN users ON users.id = customers.user_id").
		Joins("LEFT JOIN order_line_items ON order_line_items.order_id = orders.id").
		Joins("LEFT JOIN products ON products.id = order_line_items.product_id").
		Where("orders.payment_id IS NULL AND orders.completed_date IS NULL").
		Group("orders.id, users.username").
		Order("orders.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []OrderSummary{}
	}
	return rows, nil
}

// CompletedOrders lists orders with both payment and completion date set,
// enriched with the payment's display fields
func CompletedOrders(db *gorm.DB) ([]OrderSummary, error) {
	var rows []OrderSummary
	err := db.Table("orders").
		Select("orders.id AS order_id, users.username AS customer_name, COALESCE(SUM(products.price), 0) AS total_cost, payments.merchant_name AS merchant_name, orders.completed_date AS completed_date").
		Joins("JOIN customers ON customers.id = orders.customer_id").
		Joins("JOIN users ON users.id = customers.user_id").
		Joins("JOIN payments ON payments.id = orders.payment_id").
		Joins("LEFT JOIN order_line_items ON order_line_items.order_id = orders.id").
		Joins("LEFT JOIN products ON products.id = order_line_items.product_id").
		Where("orders.payment_id IS NOT NULL AND orders.completed_date IS NOT NULL").
		Group("orders.id, users.username, payments.merchant_name, orders.completed_date").
		Order("orders.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []OrderSummary{}
	}
	return rows, nil
}

// ExpensiveProducts lists products at or above the price threshold
func ExpensiveProducts(db *gorm.DB) ([]model.Product, error) {
	var products []model.Product
	err := db.Where("price >= ?", PriceThreshold).Order("price DESC").Find(&products).Error
	return products, err
}

// InexpensiveProducts lists products below the price threshold
func InexpensiveProducts(db *gorm.DB) ([]model.Product, error) {
	var products []model.Product
	err := db.Where("price < ?", PriceThreshold).Order("price").Find(&products).Error
	return products, err
}

// FavoriteSellers lists the display names of one customer's favorite sellers
func FavoriteSellers(db *gorm.DB, customerID uint) ([]SellerName, error) {
	var rows []SellerName
	err := db.Table("favorites").
		Select("favorites.id AS favorite_id, users.first_name AS first_name, users.last_name AS last_name, users.username AS username").
		Joins("JOIN customers ON customers.id = favorites.seller_id").
		Joins("JOIN users ON users.id = customers.user_id").
		Where("favorites.customer_id = ?", customerID).
		Order("favorites.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []SellerName{}
	}
	return rows, nil
}
