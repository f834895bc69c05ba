package controllers

import (
	"github.com/shashiranjanraj/bizadmin/app/models"
	"github.com/shashiranjanraj/bizadmin/app/services"
)

type (
	FoodController = EntityController[models.Food, services.FoodInput]
	LeadController = EntityController[models.Lead, services.LeadInput]
)

func NewFoodController(svc *services.FoodService) *FoodController {
	return NewEntityController[models.Food, services.FoodInput](svc, "Food", "Foods")
}

func NewLeadController(svc *services.LeadService) *LeadController {
	return NewEntityController[models.Lead, services.LeadInput](svc, "Lead", "Leads")
}
