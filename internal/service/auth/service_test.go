package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiloazul/tailor-api/internal/model"
	"github.com/hiloazul/tailor-api/internal/repository"
	"github.com/hiloazul/tailor-api/pkg/auth"
	"github.com/hiloazul/tailor-api/pkg/security"
)

type fakeUserRepo struct {
	repository.UserRepository
	users map[uuid.UUID]*model.User
}

func (r *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s not found", id)
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user %s not found", email)
}

func setup(t *testing.T) (*Service, *model.User) {
	t.Helper()

	hasher := security.NewBcryptHasher(4)
	hash, err := hasher.Hash("correct-horse")
	require.NoError(t, err)

	user := &model.User{
		Email:        "ana@tailor.local",
		PasswordHash: hash,
		Role:         model.UserRoleStaff,
		Active:       true,
	}
	user.ID = uuid.New()

	repo := &fakeUserRepo{users: map[uuid.UUID]*model.User{user.ID: user}}
	jwtSvc := auth.NewJWTService("test-secret", 15*time.Minute, 24*time.Hour)
	return NewService(repo, jwtSvc, hasher), user
}

func TestLogin(t *testing.T) {
	svc, user := setup(t)

	resp, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    user.Email,
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.NotEmpty(t, resp.Tokens.AccessToken)
	assert.NotEmpty(t, resp.Tokens.RefreshToken)

	claims, err := svc.ValidateToken(resp.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestLoginRejections(t *testing.T) {
	svc, user := setup(t)

	_, err := svc.Login(context.Background(), &model.LoginRequest{Email: user.Email, Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), &model.LoginRequest{Email: "nobody@tailor.local", Password: "correct-horse"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	user.Active = false
	_, err = svc.Login(context.Background(), &model.LoginRequest{Email: user.Email, Password: "correct-horse"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefresh(t *testing.T) {
	svc, user := setup(t)

	resp, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    user.Email,
		Password: "correct-horse",
	})
	require.NoError(t, err)

	pair, err := svc.Refresh(context.Background(), &model.RefreshRequest{RefreshToken: resp.Tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)

	// An access token is not accepted in the refresh slot.
	_, err = svc.Refresh(context.Background(), &model.RefreshRequest{RefreshToken: resp.Tokens.AccessToken})
	assert.Error(t, err)

	// Deactivation cuts refresh off immediately.
	user.Active = false
	_, err = svc.Refresh(context.Background(), &model.RefreshRequest{RefreshToken: resp.Tokens.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
