package model

import (
	"time"

	"gorm.io/gorm"
)

// Price and quantity bounds enforced at write time.
const (
	ProductPriceMin = 0.0
	ProductPriceMax = 17500.0
)

// Product represents an item listed for sale
type Product struct {
	ID          uint           `json:"id" gorm:"primarykey"`
	Name        string         `json:"name" gorm:"type:varchar(100);not null"`
	Price       float64        `json:"price" gorm:"not null"`
	Description string         `json:"description" gorm:"type:varchar(255)"`
	Quantity    int            `json:"quantity" gorm:"not null;default:0"`
	Location    string         `json:"location" gorm:"type:varchar(100)"`
	ImagePath   string         `json:"image_path,omitempty" gorm:"type:varchar(255)"`
	CategoryID  uint           `json:"category_id" gorm:"index;not null"`
	CustomerID  uint           `json:"customer_id" gorm:"index;not null"`
	StoreID     *uint          `json:"store_id,omitempty" gorm:"index"`
	CreatedAt   time.Time      `json:"created_date"`
	UpdatedAt   time.Time      `json:"-"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Derived read-time values, never persisted
	NumberSold    int     `json:"number_sold" gorm:"-"`
	AverageRating float64 `json:"average_rating" gorm:"-"`
	IsLiked       bool    `json:"is_liked" gorm:"-"`

	// Relations
	Category *ProductCategory `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Store    *Store           `json:"store,omitempty" gorm:"foreignKey:StoreID"`
}

// ProductCategory groups products for filtering
type ProductCategory struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

// ProductRating is a single customer's rating of a product. One rating per
// customer per product; re-rating replaces the previous value.
type ProductRating struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	ProductID  uint      `json:"product_id" gorm:"uniqueIndex:uidx_product_rating;not null"`
	CustomerID uint      `json:"customer_id" gorm:"uniqueIndex:uidx_product_rating;not null"`
	Rating     int       `json:"rating" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"-"`
}
