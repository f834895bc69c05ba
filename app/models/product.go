package models

import (
	"strconv"
	"time"
)

type Product struct {
	ID          uint      `gorm:"primaryKey"                   json:"id"`
	Title       *string   `gorm:"size:255;not null"            json:"title"`
	Price       *float64  `gorm:"type:numeric(12,2);not null"  json:"price"`
	Sold        *int      `gorm:"default:0"                    json:"sold"`
	Image       *string   `gorm:"size:1024"                    json:"image"`
	Description *string   `gorm:"type:text"                    json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime"               json:"created_at"`
}

func (Product) TableName() string { return "products" }

func (p Product) SearchText() string {
	var price *string
	if p.Price != nil {
		s := strconv.FormatFloat(*p.Price, 'f', 2, 64)
		price = &s
	}
	return join(p.Title, p.Description, price)
}
