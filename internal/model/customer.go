package model

import (
	"time"
)

// Customer is the commerce profile backing a User. Every authenticated
// identity owns exactly one customer row.
type Customer struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	PhoneNumber string    `json:"phone_number" gorm:"type:varchar(30)"`
	Address     string    `json:"address" gorm:"type:varchar(255)"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
