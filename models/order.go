package models

import (
	"time"

	"gorm.io/gorm"
)

// Customer is the shipping snapshot captured when the order is placed. It is
// not linked to the user's profile.
type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address"`
	City    string `json:"city"`
	Pincode string `json:"pincode"`
}

// OrderItem is a line snapshot. It is written once with the order and never
// touched by catalog changes.
type OrderItem struct {
	ProductID  string  `json:"product"`
	Name       string  `json:"name"`
	Brand      string  `json:"brand"`
	Price      float64 `json:"price"`
	FinalPrice float64 `json:"finalPrice"`
	Discount   float64 `json:"discount"`
	Quantity   int     `json:"quantity"`
	Image      string  `json:"image"`
}

type Order struct {
	ID            string      `gorm:"primaryKey;size:26" json:"id"`
	UserID        string      `gorm:"size:26;index;not null" json:"user"`
	Customer      Customer    `gorm:"embedded;embeddedPrefix:customer_" json:"customer"`
	Items         []OrderItem `gorm:"serializer:json;type:text" json:"items"`
	PaymentMethod string      `json:"paymentMethod"`
	Subtotal      float64     `json:"subtotal"`
	DeliveryFee   float64     `json:"deliveryFee"`
	PlatformFee   float64     `json:"platformFee"`
	Total         float64     `json:"total"`
	Status        Status      `gorm:"size:20;default:Placed;index" json:"status"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = NewID()
	}
	return nil
}

func (o Order) ShortRef() string {
	return ShortRef(o.ID)
}
