package models

import "time"

// Food is a row of the foods table. Required columns are pointers so a
// missing value reaches the database as NULL and is rejected there.
type Food struct {
	ID        uint      `gorm:"primaryKey"        json:"id"`
	Name      *string   `gorm:"size:100;not null" json:"name"`
	Descr     *string   `gorm:"size:100;not null" json:"descr"`
	Price     *Text     `gorm:"size:100;not null" json:"price"`
	Qty       *int      `json:"qty"`
	CreatedAt time.Time `gorm:"autoCreateTime"    json:"created_at"`
}

func (Food) TableName() string { return "foods" }

// SearchText is the text the food list filters on.
func (f Food) SearchText() string {
	return join(f.Name, f.Descr, (*string)(f.Price))
}
