package model

import (
	"time"
)

// Store is a seller's storefront. A customer may own any number of stores.
type Store struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	Description string    `json:"description" gorm:"type:text"`
	SellerID    uint      `json:"seller_id" gorm:"index;not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"-"`

	// Relations
	Seller *Customer `json:"seller,omitempty" gorm:"foreignKey:SellerID"`

	// Derived read-time value, never persisted
	ItemsForSale int `json:"items_for_sale" gorm:"-"`
}
