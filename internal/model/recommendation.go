package model

import (
	"time"
)

// Recommendation records one customer recommending a product to another
type Recommendation struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	ProductID     uint      `json:"product_id" gorm:"index;not null"`
	RecommenderID uint      `json:"recommender_id" gorm:"index;not null"`
	CustomerID    uint      `json:"customer_id" gorm:"index;not null"`
	CreatedAt     time.Time `json:"created_at"`

	// Relations
	Product     *Product  `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Recommender *Customer `json:"recommender,omitempty" gorm:"foreignKey:RecommenderID"`
}

// All returns every model in migration order
func All() []interface{} {
	return []interface{}{
		&User{},
		&Customer{},
		&ProductCategory{},
		&Store{},
		&Product{},
		&Payment{},
		&Order{},
		&OrderLineItem{},
		&ProductRating{},
		&Favorite{},
		&FavoriteProduct{},
		&Recommendation{},
	}
}
