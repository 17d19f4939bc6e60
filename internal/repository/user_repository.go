package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard/internal/model"
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByToken(ctx context.Context, token string) (*model.User, error)
	// ConfirmByToken marks the holder of token as confirmed and clears the
	// token in one conditional update. It returns gorm.ErrRecordNotFound when
	// no user holds the token.
	ConfirmByToken(ctx context.Context, token string) error
	// ResetPasswordByToken replaces the password hash of the token holder and
	// clears the token in one conditional update.
	ResetPasswordByToken(ctx context.Context, token, passwordHash string) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByToken(ctx context.Context, token string) (*model.User, error) {
	var user model.User
	if token == "" {
		return nil, gorm.ErrRecordNotFound
	}
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ConfirmByToken(ctx context.Context, token string) error {
	return r.consumeToken(ctx, token, map[string]interface{}{"confirmed": true})
}

func (r *userRepository) ResetPasswordByToken(ctx context.Context, token, passwordHash string) error {
	return r.consumeToken(ctx, token, map[string]interface{}{"password_hash": passwordHash})
}

// consumeToken applies updates to the token holder only if the token is
// still present, so two concurrent submissions cannot both succeed.
func (r *userRepository) consumeToken(ctx context.Context, token string, updates map[string]interface{}) error {
	if token == "" {
		return gorm.ErrRecordNotFound
	}
	updates["token"] = gorm.Expr("NULL")
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("token = ?", token).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
