package repository

import (
	"backend/internal/model"
	"context"

	"gorm.io/gorm"
)

// UserRepository defines the interface for data access of User entities
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	UpdateRefreshToken(ctx context.Context, userID uint, token string) error
	// RotateRefreshToken atomically swaps the stored refresh token from
	// presented to next. It returns false when the stored token no longer
	// matches presented, i.e. the presented token is stale or reused.
	RotateRefreshToken(ctx context.Context, userID uint, presented, next string) (bool, error)
	UpdateAvatar(ctx context.Context, userID uint, avatarURL string) error
	MarkVerified(ctx context.Context, userID uint) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new instance of UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return GetDB(ctx, r.db).Create(user).Error
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := GetDB(ctx, r.db).First(&user, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := GetDB(ctx, r.db).First(&user, "username = ?", username).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateRefreshToken(ctx context.Context, userID uint, token string) error {
	return GetDB(ctx, r.db).Model(&model.User{}).
		Where("id = ?", userID).
		Update("refresh_token", token).Error
}

func (r *userRepository) RotateRefreshToken(ctx context.Context, userID uint, presented, next string) (bool, error) {
	// Single conditional UPDATE: the storage engine serializes concurrent
	// rotations, so only one caller can win with the same presented token.
	res := GetDB(ctx, r.db).Model(&model.User{}).
		Where("id = ? AND refresh_token = ?", userID, presented).
		Update("refresh_token", next)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *userRepository) UpdateAvatar(ctx context.Context, userID uint, avatarURL string) error {
	return GetDB(ctx, r.db).Model(&model.User{}).
		Where("id = ?", userID).
		Update("avatar", avatarURL).Error
}

func (r *userRepository) MarkVerified(ctx context.Context, userID uint) error {
	return GetDB(ctx, r.db).Model(&model.User{}).
		Where("id = ?", userID).
		Update("is_verified", true).Error
}
