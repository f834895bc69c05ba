package seeders

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/bizadmin/app/models"
	"github.com/shashiranjanraj/bizadmin/config"
	"github.com/shashiranjanraj/bizadmin/pkg/auth"
)

func init() {
	Register("admin", SeedAdmin)
	Register("samples", SeedSamples)
}

// SeedAdmin creates ADMIN_EMAIL with ADMIN_PASSWORD when both are set and
// the account does not exist yet.
func SeedAdmin(ctx context.Context, db *gorm.DB) error {
	email, password := config.AdminEmail(), config.AdminPassword()
	if password == "" {
		return nil
	}
	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return db.Create(&models.User{Name: "Administrator", Email: email, Password: hash, Role: auth.RoleAdmin}).Error
}

// SeedSamples inserts demo rows into empty tables only.
func SeedSamples(ctx context.Context, db *gorm.DB) error {
	p := models.Ptr[string]
	price := func(s string) *models.Text { t := models.Text(s); return &t }

	foods := []models.Food{
		{Name: p("Apple"), Descr: p("Crisp red apple"), Price: price("0.50"), Qty: models.Ptr(120)},
		{Name: p("Banana"), Descr: p("Ripe bananas"), Price: price("0.25"), Qty: models.Ptr(80)},
	}
	leads := []models.Lead{
		{LeadName: p("Acme Foods"), LeadEmail: p("buyer@acme.test"), LeadPhone: p("+1 555 0100")},
	}
	products := []models.Product{
		{Title: p("Fruit basket"), Price: models.Ptr(24.90), Sold: models.Ptr(12), Description: p("Seasonal fruit")},
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := seedIfEmpty(tx, &models.Food{}, &foods); err != nil {
			return err
		}
		if err := seedIfEmpty(tx, &models.Lead{}, &leads); err != nil {
			return err
		}
		return seedIfEmpty(tx, &models.Product{}, &products)
	})
}

func seedIfEmpty(tx *gorm.DB, model, rows any) error {
	var n int64
	if err := tx.Model(model).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	return tx.Create(rows).Error
}
