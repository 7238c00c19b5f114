package services

import (
	"context"
	"testing"

	"github.com/bank-suite/cards-service/internal/adapter/http/models"
	"github.com/bank-suite/cards-service/internal/adapter/repository/repo_interfaces"
	"github.com/bank-suite/cards-service/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newUserFixture(t *testing.T) (*UserService, *memStore) {
	t.Helper()
	store := newMemStore()
	return NewUserService(&fakeUserRepo{store: store}), store
}

func validCreateUser() models.CreateUserRequest {
	return models.CreateUserRequest{
		PhoneNumber: "+79990001122",
		Password:    "secret123",
		Name:        "Ivan",
		Surname:     "Petrov",
		Roles:       []string{domain.RoleUser},
	}
}

func TestUserService_Create_HashesPassword(t *testing.T) {
	svc, store := newUserFixture(t)

	response, err := svc.Create(context.Background(), validCreateUser())
	require.NoError(t, err)
	require.NotNil(t, response.Data)

	stored := store.users[response.Data.ID]
	assert.NotEqual(t, "secret123", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret123")))
}

func TestUserService_Create_DuplicatePhone(t *testing.T) {
	svc, _ := newUserFixture(t)

	_, err := svc.Create(context.Background(), validCreateUser())
	require.NoError(t, err)

	response, err := svc.Create(context.Background(), validCreateUser())
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, response.Errors, "phone number already registered")
}

func TestUserService_Create_RejectsUnknownRole(t *testing.T) {
	svc, _ := newUserFixture(t)

	req := validCreateUser()
	req.Roles = []string{"SUPERUSER"}
	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUserService_Patch_RehashesPassword(t *testing.T) {
	svc, store := newUserFixture(t)
	created, err := svc.Create(context.Background(), validCreateUser())
	require.NoError(t, err)

	password := "newsecret"
	name := "Pyotr"
	response, err := svc.Patch(context.Background(), created.Data.ID, models.UserPatch{
		Name:     &name,
		Password: &password,
	})
	require.NoError(t, err)
	assert.Equal(t, "Pyotr", response.Data.Name)

	stored := store.users[created.Data.ID]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("newsecret")))
}

func TestUserService_Patch_EmptyPatchIsNoop(t *testing.T) {
	svc, _ := newUserFixture(t)
	created, err := svc.Create(context.Background(), validCreateUser())
	require.NoError(t, err)

	response, err := svc.Patch(context.Background(), created.Data.ID, models.UserPatch{})
	require.NoError(t, err)
	assert.Equal(t, "user unchanged", response.Message)
}

func TestUserService_Patch_UnknownUser(t *testing.T) {
	svc, _ := newUserFixture(t)

	name := "Pyotr"
	response, err := svc.Patch(context.Background(), uuid.NewString(), models.UserPatch{Name: &name})
	require.ErrorIs(t, err, domain.ErrRecordNotFound)
	assert.Equal(t, "User not found", response.Message)
}

func TestUserService_List(t *testing.T) {
	svc, _ := newUserFixture(t)

	first := validCreateUser()
	second := validCreateUser()
	second.PhoneNumber = "+79990003344"
	second.Name = "Anna"

	_, err := svc.Create(context.Background(), first)
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), second)
	require.NoError(t, err)

	all, err := svc.List(context.Background(), repo_interfaces.UserFilter{Size: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Data.Total)

	byName, err := svc.List(context.Background(), repo_interfaces.UserFilter{Name: "Anna", Size: 10})
	require.NoError(t, err)
	require.Len(t, byName.Data.Users, 1)
	assert.Equal(t, "+79990003344", byName.Data.Users[0].PhoneNumber)
}

func TestUserService_Delete(t *testing.T) {
	svc, store := newUserFixture(t)
	created, err := svc.Create(context.Background(), validCreateUser())
	require.NoError(t, err)

	_, err = svc.Delete(context.Background(), created.Data.ID)
	require.NoError(t, err)
	assert.NotContains(t, store.users, created.Data.ID)

	_, err = svc.Delete(context.Background(), created.Data.ID)
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}
