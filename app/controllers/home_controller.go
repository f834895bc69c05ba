package controllers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/bizadmin/app/services"
	"github.com/shashiranjanraj/bizadmin/pkg/ctx"
	"github.com/shashiranjanraj/bizadmin/pkg/database"
)

type HomeController struct {
	db *gorm.DB
}

func NewHomeController(db *gorm.DB) *HomeController {
	return &HomeController{db: db}
}

// Index reports the connected database as plain text.
func (hc *HomeController) Index(c *ctx.Context) {
	c.String(http.StatusOK, "The database name is: %s", database.CurrentDatabase(c.Context(), hc.db))
}

type AuthController struct {
	svc *services.AuthService
}

func NewAuthController(svc *services.AuthService) *AuthController {
	return &AuthController{svc: svc}
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (ac *AuthController) Login(c *ctx.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	tok, err := ac.svc.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	c.Success("Logged in successfully", tok)
	return nil
}
