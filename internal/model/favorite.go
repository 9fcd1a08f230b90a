package model

import (
	"time"
)

// Favorite bookmarks another customer as a favorite seller. The pair is
// unique so a racing double-favorite collapses to one row.
type Favorite struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	CustomerID uint      `json:"customer_id" gorm:"uniqueIndex:uidx_favorite_seller;not null"`
	SellerID   uint      `json:"seller_id" gorm:"uniqueIndex:uidx_favorite_seller;not null"`
	CreatedAt  time.Time `json:"created_at"`

	// Relations
	Seller *Customer `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
}

// FavoriteProduct is a user's "like" of a product, independent of the
// seller-favorite relation
type FavoriteProduct struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex:uidx_favorite_product;not null"`
	ProductID uint      `json:"product_id" gorm:"uniqueIndex:uidx_favorite_product;not null"`
	CreatedAt time.Time `json:"created_at"`
}
