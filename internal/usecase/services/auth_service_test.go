package services

import (
	"context"
	"testing"
	"time"

	"github.com/bank-suite/cards-service/internal/adapter/http/models"
	"github.com/bank-suite/cards-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthFixture(t *testing.T) (*AuthService, domain.User) {
	t.Helper()

	store := newMemStore()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := store.addUser(domain.User{
		PhoneNumber:  "+79990001122",
		Name:         "Ivan",
		Surname:      "Petrov",
		PasswordHash: string(hash),
		Roles:        []string{domain.RoleUser, domain.RoleAdmin},
	})

	return NewAuthService(&fakeUserRepo{store: store}, "test-secret", time.Hour), user
}

func TestAuthService_Login(t *testing.T) {
	svc, user := newAuthFixture(t)

	response, err := svc.Login(context.Background(), models.LoginRequest{
		PhoneNumber: user.PhoneNumber,
		Password:    "secret123",
	})
	require.NoError(t, err)
	require.NotNil(t, response.Data)
	require.NotEmpty(t, response.Data.Token)

	claims, err := svc.ParseToken(response.Data.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.Subject)
	assert.ElementsMatch(t, user.Roles, claims.Roles)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, user := newAuthFixture(t)

	response, err := svc.Login(context.Background(), models.LoginRequest{
		PhoneNumber: user.PhoneNumber,
		Password:    "wrong-password",
	})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Equal(t, "Invalid credentials", response.Message)
}

func TestAuthService_Login_UnknownPhone(t *testing.T) {
	svc, _ := newAuthFixture(t)

	// Same error as a wrong password so accounts cannot be enumerated.
	response, err := svc.Login(context.Background(), models.LoginRequest{
		PhoneNumber: "+79995556677",
		Password:    "secret123",
	})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Equal(t, "Invalid credentials", response.Message)
}

func TestAuthService_Login_ValidationError(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{PhoneNumber: "abc", Password: ""})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAuthService_ParseToken_WrongSecret(t *testing.T) {
	svc, user := newAuthFixture(t)

	response, err := svc.Login(context.Background(), models.LoginRequest{
		PhoneNumber: user.PhoneNumber,
		Password:    "secret123",
	})
	require.NoError(t, err)

	other := NewAuthService(nil, "other-secret", time.Hour)
	_, err = other.ParseToken(response.Data.Token)
	assert.Error(t, err)
}

func TestAuthService_ParseToken_Expired(t *testing.T) {
	svc, user := newAuthFixture(t)

	// Issue with a negative TTL so the token is already stale.
	store := newMemStore()
	store.addUser(user)
	issuer := NewAuthService(&fakeUserRepo{store: store}, "test-secret", -time.Minute)

	response, err := issuer.Login(context.Background(), models.LoginRequest{
		PhoneNumber: user.PhoneNumber,
		Password:    "secret123",
	})
	require.NoError(t, err)

	_, err = svc.ParseToken(response.Data.Token)
	assert.Error(t, err)
}

func TestAuthService_ParseToken_Garbage(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.ParseToken("not-a-token")
	assert.Error(t, err)
}
