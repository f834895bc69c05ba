package services

import (
	"context"
	"time"

	"github.com/shashiranjanraj/bizadmin/app/repositories"
	"github.com/shashiranjanraj/bizadmin/pkg/auth"
	"github.com/shashiranjanraj/bizadmin/pkg/errs"
)

type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService(users *repositories.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// Token is the result of a successful login.
type Token struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login checks the credentials and issues a JWT carrying the user's role.
// Unknown emails and wrong passwords fail the same way.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Token, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil || !auth.CheckPassword(u.Password, password) {
		return nil, errs.Unauthorized("Invalid credentials")
	}

	tok, exp, err := auth.GenerateToken(u.ID, u.Role)
	if err != nil {
		return nil, err
	}
	return &Token{Token: tok, ExpiresAt: exp}, nil
}
