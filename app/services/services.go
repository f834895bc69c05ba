package services

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/bizadmin/app/models"
	"github.com/shashiranjanraj/bizadmin/app/repositories"
	"github.com/shashiranjanraj/bizadmin/pkg/cache"
	"github.com/shashiranjanraj/bizadmin/pkg/event"
)

type (
	FoodService = EntityService[models.Food]
	LeadService = EntityService[models.Lead]
)

func NewFoodService(db *gorm.DB, store cache.Store, bus *event.Bus) *FoodService {
	return NewEntityService(repositories.NewFoodRepository(db), "food", store, bus)
}

func NewLeadService(db *gorm.DB, store cache.Store, bus *event.Bus) *LeadService {
	return NewEntityService(repositories.NewLeadRepository(db), "lead", store, bus)
}

// Services is every service the HTTP layer needs, built on one database.
type Services struct {
	Foods    *FoodService
	Leads    *LeadService
	Products *ProductService
	Chat     *ChatService
	Auth     *AuthService
}

// New builds the services on db with the process-wide cache, event bus,
// storage disk and the configured chat provider.
func New(db *gorm.DB) *Services {
	return &Services{
		Foods:    NewFoodService(db, cache.Default, event.Default),
		Leads:    NewLeadService(db, cache.Default, event.Default),
		Products: NewProductService(repositories.NewProductRepository(db), cache.Default, event.Default, nil),
		Chat:     NewChatService(repositories.NewChatRepository(db), NewProvider(), cache.Default, event.Default),
		Auth:     NewAuthService(repositories.NewUserRepository(db)),
	}
}
