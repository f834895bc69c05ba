package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/bizadmin/app/models"
	"github.com/shashiranjanraj/bizadmin/pkg/metrics"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail returns (nil, nil) when no account matches.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	defer metrics.ObserveDBQuery("users", "select", time.Now())
	var u models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	defer metrics.ObserveDBQuery("users", "insert", time.Now())
	return r.db.WithContext(ctx).Create(u).Error
}
