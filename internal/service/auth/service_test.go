package auth

import (
	"context"
	"testing"

	"github.com/rkmmedclinic/clinic-backend-go/internal/domain/auth"
	"github.com/rkmmedclinic/clinic-backend-go/internal/domain/user"
	"github.com/rkmmedclinic/clinic-backend-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSecret    = "test-secret-key-for-jwt"
	testAccessExp = "1h"
)

type fakeUserRepository struct {
	users map[string]user.User
}

func newFakeUserRepository(users ...user.User) *fakeUserRepository {
	repo := &fakeUserRepository{users: make(map[string]user.User)}
	for _, u := range users {
		repo.users[u.Email] = u
	}
	return repo
}

func (r *fakeUserRepository) GetByEmail(_ context.Context, email string) (user.User, error) {
	u, ok := r.users[email]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepository) GetByID(_ context.Context, id string) (user.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *fakeUserRepository) ListAdminEmails(_ context.Context) ([]string, error) {
	var emails []string
	for _, u := range r.users {
		if u.IsAdmin() && u.Active {
			emails = append(emails, u.Email)
		}
	}
	return emails, nil
}

func newTestUser(t *testing.T, email, password string, role user.Role, active bool) user.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	return user.User{
		ID:           "user-" + email,
		Name:         "Test User",
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Active:       active,
	}
}

func TestLogin_Success(t *testing.T) {
	ctx := context.Background()
	admin := newTestUser(t, "admin@clinic.test", "password123", user.RoleAdmin, true)
	svc := NewAuthService(newFakeUserRepository(admin), jwt.NewJWTService(testSecret, testAccessExp))

	resp, err := svc.Login(ctx, auth.LoginRequest{Email: "admin@clinic.test", Password: "password123"})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, admin.ID, resp.UserID)
	assert.Equal(t, string(user.RoleAdmin), resp.Role)
	assert.Greater(t, resp.ExpiresAt, int64(0))
}

func TestLogin_WrongPassword(t *testing.T) {
	ctx := context.Background()
	staff := newTestUser(t, "staff@clinic.test", "password123", user.RoleStaff, true)
	svc := NewAuthService(newFakeUserRepository(staff), jwt.NewJWTService(testSecret, testAccessExp))

	_, err := svc.Login(ctx, auth.LoginRequest{Email: "staff@clinic.test", Password: "wrong-password"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(newFakeUserRepository(), jwt.NewJWTService(testSecret, testAccessExp))

	_, err := svc.Login(ctx, auth.LoginRequest{Email: "nobody@clinic.test", Password: "password123"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_InactiveUser(t *testing.T) {
	ctx := context.Background()
	inactive := newTestUser(t, "gone@clinic.test", "password123", user.RoleStaff, false)
	svc := NewAuthService(newFakeUserRepository(inactive), jwt.NewJWTService(testSecret, testAccessExp))

	_, err := svc.Login(ctx, auth.LoginRequest{Email: "gone@clinic.test", Password: "password123"})
	assert.ErrorIs(t, err, user.ErrUserInactive)
}
