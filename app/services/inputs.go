package services

import "github.com/shashiranjanraj/bizadmin/app/models"

// Entity fields are not validated here. A missing required column is sent
// as NULL and rejected by the database.

type FoodInput struct {
	Name  *string      `json:"name"`
	Descr *string      `json:"descr"`
	Price *models.Text `json:"price"`
	Qty   *int         `json:"qty"`
}

func (in FoodInput) Model() *models.Food {
	return &models.Food{Name: in.Name, Descr: in.Descr, Price: in.Price, Qty: in.Qty}
}

func (in FoodInput) Fields() map[string]any {
	return map[string]any{"name": in.Name, "descr": in.Descr, "price": in.Price, "qty": in.Qty}
}

type LeadInput struct {
	LeadName    *string `json:"lead_name"`
	LeadPhone   *string `json:"lead_phone"`
	LeadEmail   *string `json:"lead_email"`
	LeadAddress *string `json:"lead_address"`
	LeadNotes   *string `json:"lead_notes"`
}

func (in LeadInput) Model() *models.Lead {
	return &models.Lead{
		LeadName:    in.LeadName,
		LeadPhone:   in.LeadPhone,
		LeadEmail:   in.LeadEmail,
		LeadAddress: in.LeadAddress,
		LeadNotes:   in.LeadNotes,
	}
}

func (in LeadInput) Fields() map[string]any {
	return map[string]any{
		"lead_name":    in.LeadName,
		"lead_phone":   in.LeadPhone,
		"lead_email":   in.LeadEmail,
		"lead_address": in.LeadAddress,
		"lead_notes":   in.LeadNotes,
	}
}

type ProductInput struct {
	Title       *string  `json:"title"`
	Price       *float64 `json:"price"`
	Sold        *int     `json:"sold"`
	Image       *string  `json:"image"`
	Description *string  `json:"description"`
}

// Model leaves a missing sold count to the column default.
func (in ProductInput) Model() *models.Product {
	return &models.Product{
		Title:       in.Title,
		Price:       in.Price,
		Sold:        in.Sold,
		Image:       in.Image,
		Description: in.Description,
	}
}

func (in ProductInput) Fields() map[string]any {
	sold := in.Sold
	if sold == nil {
		sold = models.Ptr(0)
	}
	return map[string]any{
		"title":       in.Title,
		"price":       in.Price,
		"sold":        sold,
		"image":       in.Image,
		"description": in.Description,
	}
}
