// Package catalog implements product queries: conjunctive optional filters,
// price sorting, and the derived read-time values (number_sold,
// average_rating) that are computed on every read and never persisted.
package catalog

import (
	"errors"
	"fmt"

	"bangazon-api/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound = errors.New("product not found")
	ErrInvalid  = errors.New("invalid product")
)

// Sold count means line items on orders that have a payment assigned,
// irrespective of completion date. Open-order line items never count.
const soldCountExpr = "(SELECT COUNT(*) FROM order_line_items li JOIN orders o ON o.id = li.order_id WHERE li.product_id = products.id AND o.payment_id IS NOT NULL)"

// Filter holds the optional product list filters. All supplied filters are
// combined with AND.
type Filter struct {
	StoreID    *uint
	CategoryID *uint
	MinPrice   *float64
	MaxPrice   *float64
	Quantity   *int
	NumberSold *int
	Location   string
	SoldOnly   bool
	Direction  string // "asc" or "desc" by price; empty = default order
}

// List returns products matching the filter, with derived values attached
func List(db *gorm.DB, f Filter) ([]model.Product, error) {
	query := db.Model(&model.Product{}).Preload("Category").Preload("Store")

	if f.StoreID != nil {
		query = query.Where("store_id = ?", *f.StoreID)
	}
	if f.CategoryID != nil {
		query = query.Where("category_id = ?", *f.CategoryID)
	}
	if f.MinPrice != nil {
		query = query.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		query = query.Where("price <= ?", *f.MaxPrice)
	}
	if f.Quantity != nil {
		query = query.Where("quantity >= ?", *f.Quantity)
	}
	if f.NumberSold != nil {
		query = query.Where(soldCountExpr+" >= ?", *f.NumberSold)
	}
	if f.SoldOnly {
		query = query.Where(soldCountExpr + " > 0")
	}
	if f.Location != "" {
		query = query.Where("LOWER(location) LIKE LOWER(?)", "%"+f.Location+"%")
	}

	switch f.Direction {
	case "asc":
		query = query.Order("price")
	case "desc":
		query = query.Order("price DESC")
	}

	var products []model.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	if err := AttachDerived(db, products); err != nil {
		return nil, err
	}
	return products, nil
}

// Get fetches one product with derived values attached
func Get(db *gorm.DB, id uint) (*model.Product, error) {
	var product model.Product
	err := db.Preload("Category").Preload("Store").First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	page := []model.Product{product}
	if err := AttachDerived(db, page); err != nil {
		return nil, err
	}
	return &page[0], nil
}

// AttachDerived fills number_sold and average_rating for a page of products
// with two grouped queries instead of one pair per row
func AttachDerived(db *gorm.DB, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]uint, len(products))
	for i := range products {
		ids[i] = products[i].ID
	}

	type soldRow struct {
		ProductID uint
		Sold      int
	}
	var sold []soldRow
	err := db.Model(&model.OrderLineItem{}).
		Select("order_line_items.product_id AS product_id, COUNT(*) AS sold").
		Joins("JOIN orders ON orders.id = order_line_items.order_id").
		Where("order_line_items.product_id IN ? AND orders.payment_id IS NOT NULL", ids).
		Group("order_line_items.product_id").
		Scan(&sold).Error
	if err != nil {
		return err
	}

	type ratingRow struct {
		ProductID uint
		Average   float64
	}
	var ratings []ratingRow
	err = db.Model(&model.ProductRating{}).
		Select("product_id, AVG(rating) AS average").
		Where("product_id IN ?", ids).
		Group("product_id").
		Scan(&ratings).Error
	if err != nil {
		return err
	}

	soldByID := make(map[uint]int, len(sold))
	for _, r := range sold {
		soldByID[r.ProductID] = r.Sold
	}
	// Missing rating rows leave the zero value: a product with no ratings
	// reports an average of 0.
	avgByID := make(map[uint]float64, len(ratings))
	for _, r := range ratings {
		avgByID[r.ProductID] = r.Average
	}

	for i := range products {
		products[i].NumberSold = soldByID[products[i].ID]
		products[i].AverageRating = avgByID[products[i].ID]
	}
	return nil
}

// ValidateInput checks the write-time bounds for product fields
func ValidateInput(name string, price float64, quantity int) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if price < model.ProductPriceMin || price > model.ProductPriceMax {
		return fmt.Errorf("%w: price must be between %.0f and %.0f", ErrInvalid, model.ProductPriceMin, model.ProductPriceMax)
	}
	if quantity < 0 {
		return fmt.Errorf("%w: quantity cannot be negative", ErrInvalid)
	}
	return nil
}

// Rate records a customer's 1-5 rating of a product. Re-rating replaces the
// customer's previous value via an upsert on the (product, customer) pair.
func Rate(db *gorm.DB, productID, customerID uint, value int) error {
	if value < 1 || value > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalid)
	}

	var product model.Product
	if err := db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	rating := model.ProductRating{ProductID: productID, CustomerID: customerID, Rating: value}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}, {Name: "customer_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "updated_at"}),
	}).Create(&rating).Error
}

// Recommend records a recommendation of a product to another customer.
// Repeat recommendations are allowed; there is no uniqueness on the triple.
func Recommend(db *gorm.DB, productID, recommenderID, recipientID uint) (*model.Recommendation, error) {
	var product model.Product
	if err := db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var recipient model.Customer
	if err := db.First(&recipient, recipientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: recipient customer not found", ErrInvalid)
		}
		return nil, err
	}

	rec := model.Recommendation{
		ProductID:     productID,
		RecommenderID: recommenderID,
		CustomerID:    recipientID,
	}
	if err := db.Create(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}
