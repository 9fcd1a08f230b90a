package model

import (
	"time"
)

// Payment is a stored payment type belonging to a customer
type Payment struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	MerchantName   string    `json:"merchant_name" gorm:"type:varchar(100);not null"`
	AccountNumber  string    `json:"account_number" gorm:"type:varchar(50);not null"`
	ExpirationDate string    `json:"expiration_date" gorm:"type:varchar(20)"`
	CustomerID     uint      `json:"customer_id" gorm:"index;not null"`
	CreatedAt      time.Time `json:"create_date"`
	UpdatedAt      time.Time `json:"-"`
}
