package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/epcorn/pestops-contracts/internal/auth"
	"github.com/epcorn/pestops-contracts/internal/model"
)

type UserService struct {
	users  UserStore
	tokens *auth.Manager
	now    func() time.Time
}

func NewUserService(users UserStore, tokens *auth.Manager) *UserService {
	return &UserService{users: users, tokens: tokens, now: time.Now}
}

type RegisterInput struct {
	Username string
	Email    string
	Initials string
	Password string
	Role     model.Role
}

func (s *UserService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	if input.Username == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}
	if input.Role == "" {
		input.Role = model.RoleSales
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return s.users.Create(ctx, model.User{
		Username:     input.Username,
		Email:        strings.TrimSpace(input.Email),
		Initials:     strings.ToUpper(strings.TrimSpace(input.Initials)),
		PasswordHash: string(hash),
		Role:         input.Role,
	})
}

type LoginResult struct {
	User  model.User
	Token string
}

func (s *UserService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(*user, s.now())
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: *user, Token: token}, nil
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) Initials(ctx context.Context) ([]string, error) {
	return s.users.ListInitials(ctx)
}

func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.users.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}
