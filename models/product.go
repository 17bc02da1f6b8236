package models

import (
	"time"

	"github.com/Vidhyalakshmi16/svm-mobiles/pricing"
	"gorm.io/gorm"
)

type Product struct {
	ID          string    `gorm:"primaryKey;size:26" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Brand       string    `json:"brand"`
	CategoryID  *string   `gorm:"size:26;index" json:"categoryId"`
	Category    *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Price       float64   `gorm:"not null" json:"price"`
	Discount    float64   `json:"discount"`   // Percent
	FinalPrice  float64   `json:"finalPrice"` // Derived, see Reprice
	Cost        float64   `json:"cost"`
	Profit      float64   `json:"profit"` // Derived, see Reprice
	Stock       int       `json:"stock"`
	Sold        int       `json:"sold"`
	Color       string    `json:"color"`
	Description string    `gorm:"type:text" json:"description"`
	Images      []string  `gorm:"serializer:json" json:"images"` // First is the primary image
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Reprice recomputes FinalPrice and Profit from Price, Discount and Cost.
func (p *Product) Reprice() {
	p.FinalPrice = pricing.FinalPrice(p.Price, p.Discount)
	p.Profit = pricing.Profit(p.FinalPrice, p.Cost)
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = NewID()
	}
	return nil
}

// BeforeSave keeps the derived fields in step with whatever is written.
func (p *Product) BeforeSave(tx *gorm.DB) error {
	p.Reprice()
	return nil
}
