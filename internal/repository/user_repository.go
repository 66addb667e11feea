package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"kanban/internal/model"
)

// UserRepository handles CRUD for users.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user. Duplicate nicknames or emails yield ErrConflict.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", translate(err))
	}
	return nil
}

func (r *UserRepository) FindByNickname(ctx context.Context, nickname string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("nickname = ?", nickname).First(&user).Error; err != nil {
		return nil, fmt.Errorf("find user: %w", translate(err))
	}
	return &user, nil
}

func (r *UserRepository) FindByIdx(ctx context.Context, idx uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, idx).Error; err != nil {
		return nil, fmt.Errorf("find user: %w", translate(err))
	}
	return &user, nil
}
