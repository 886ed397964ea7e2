package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/epcorn/pestops-contracts/internal/auth"
	"github.com/epcorn/pestops-contracts/internal/model"
)

type fakeUserStore struct {
	users map[uuid.UUID]model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[uuid.UUID]model.User{}}
}

func (f *fakeUserStore) Create(_ context.Context, user model.User) (*model.User, error) {
	user.ID = uuid.New()
	f.users[user.ID] = user
	return &user, nil
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &user, nil
}

func (f *fakeUserStore) List(_ context.Context) ([]model.User, error) {
	result := make([]model.User, 0, len(f.users))
	for _, user := range f.users {
		result = append(result, user)
	}
	return result, nil
}

func (f *fakeUserStore) ListInitials(_ context.Context) ([]string, error) {
	var result []string
	for _, user := range f.users {
		if user.Initials != "" {
			result = append(result, user.Initials)
		}
	}
	return result, nil
}

func (f *fakeUserStore) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	if _, ok := f.users[id]; !ok {
		return false, nil
	}
	delete(f.users, id)
	return true, nil
}

func newUserFixture() (*UserService, *fakeUserStore) {
	store := newFakeUserStore()
	tokens := auth.NewManager("test-secret", time.Hour)
	return NewUserService(store, tokens), store
}

func TestRegisterHashesPassword(t *testing.T) {
	svc, store := newUserFixture()

	user, err := svc.Register(context.Background(), RegisterInput{
		Username: "ravi",
		Email:    "ravi@example.com",
		Initials: "rk",
		Password: "s3cret",
	})
	require.NoError(t, err)

	stored := store.users[user.ID]
	assert.NotEqual(t, "s3cret", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret")))
	assert.Equal(t, "RK", stored.Initials)
	assert.Equal(t, model.RoleSales, stored.Role)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newUserFixture()

	_, err := svc.Register(context.Background(), RegisterInput{Username: "", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Register(context.Background(), RegisterInput{Username: "x", Password: ""})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestLogin(t *testing.T) {
	svc, _ := newUserFixture()

	user, err := svc.Register(context.Background(), RegisterInput{
		Username: "ravi",
		Password: "s3cret",
		Role:     model.RoleAdmin,
	})
	require.NoError(t, err)

	result, err := svc.Login(context.Background(), "ravi", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, result.User.ID)
	assert.NotEmpty(t, result.Token)

	_, err = svc.Login(context.Background(), "ravi", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "nobody", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
