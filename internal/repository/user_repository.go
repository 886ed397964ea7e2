package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/epcorn/pestops-contracts/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (*model.User, error) {
	var saved model.User
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO users (username, email, initials, password_hash, role)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, username, email, initials, password_hash, role, created_at
	`,
		user.Username,
		user.Email,
		user.Initials,
		user.PasswordHash,
		string(user.Role),
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, username, email, initials, password_hash, role, created_at
		FROM users WHERE username = ? LIMIT 1
	`, username).Scan(&user).Error
	if err != nil {
		return nil, err
	}
	if user.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, username, email, initials, password_hash, role, created_at
		FROM users WHERE id = ? LIMIT 1
	`, id).Scan(&user).Error
	if err != nil {
		return nil, err
	}
	if user.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &user, nil
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, username, email, initials, role, created_at
		FROM users ORDER BY username ASC
	`).Scan(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) ListInitials(ctx context.Context) ([]string, error) {
	var initials []string
	err := r.db.WithContext(ctx).Raw(`
		SELECT initials FROM users WHERE initials <> '' ORDER BY initials ASC
	`).Scan(&initials).Error
	if err != nil {
		return nil, err
	}
	return initials, nil
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Exec(`DELETE FROM users WHERE id = ?`, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
