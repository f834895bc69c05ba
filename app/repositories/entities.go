// Package repositories holds the data access for every table.
package repositories

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/bizadmin/app/models"
	"github.com/shashiranjanraj/bizadmin/pkg/orm"
)

func NewFoodRepository(db *gorm.DB) *orm.Repository[models.Food] {
	return orm.NewRepository[models.Food](db)
}

func NewLeadRepository(db *gorm.DB) *orm.Repository[models.Lead] {
	return orm.NewRepository[models.Lead](db)
}

func NewProductRepository(db *gorm.DB) *orm.Repository[models.Product] {
	return orm.NewRepository[models.Product](db)
}
