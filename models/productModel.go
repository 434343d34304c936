package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const DefaultProductImage = "https://images.unsplash.com/photo-1564419320461-6870880221ad?auto=format&fit=crop&q=80&w=1000"

type Vendor struct {
	ID       string  `json:"id" gorm:"primaryKey;size:64"`
	UserID   string  `json:"user_id" gorm:"index;size:64"`
	ShopName string  `json:"shop_name"`
	Address  string  `json:"address"`
	Rating   float64 `json:"rating"`
	IsOpen   bool    `json:"is_open"`
	ImageURL string  `json:"image_url"`
}

func (v Vendor) GetID() string { return v.ID }

type Product struct {
	ID          string          `json:"id" gorm:"primaryKey;size:64"`
	VendorID    string          `json:"vendor_id" gorm:"index;size:64"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(12,2)"`
	Stock       int             `json:"stock"`
	ImageURL    string          `json:"image_url"`
	IsAvailable bool            `json:"is_available"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (p Product) GetID() string { return p.ID }

type ProductData struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" binding:"gte=0"`
	ImageURL    string          `json:"image_url"`
}
