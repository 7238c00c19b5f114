package models_test

import (
	"testing"

	"github.com/bank-suite/cards-service/internal/adapter/http/models"
	"github.com/bank-suite/cards-service/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCreateCardRequest_Validate(t *testing.T) {
	valid := models.CreateCardRequest{
		CardNumber:       "1234 5678 9012 3456",
		Expiry:           "2030-06",
		Balance:          decimal.NewFromInt(100),
		OwnerPhoneNumber: "+79990001122",
	}
	assert.NoError(t, valid.Validate())

	cases := []struct {
		name   string
		mutate func(*models.CreateCardRequest)
	}{
		{"too few digits", func(r *models.CreateCardRequest) { r.CardNumber = "1234 5678" }},
		{"too many digits", func(r *models.CreateCardRequest) { r.CardNumber = "12345678901234567890" }},
		{"bad expiry", func(r *models.CreateCardRequest) { r.Expiry = "06/2030" }},
		{"negative balance", func(r *models.CreateCardRequest) { r.Balance = decimal.NewFromInt(-1) }},
		{"bad phone", func(r *models.CreateCardRequest) { r.OwnerPhoneNumber = "12345" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := valid
			tc.mutate(&req)
			assert.Error(t, req.Validate())
		})
	}
}

func TestCreateCardRequest_AcceptsSeparators(t *testing.T) {
	req := models.CreateCardRequest{
		CardNumber:       "1234-5678-9012-3456",
		Expiry:           "2030-06",
		Balance:          decimal.Zero,
		OwnerPhoneNumber: "79990001122",
	}
	assert.NoError(t, req.Validate())
}

func TestTransferRequest_Validate(t *testing.T) {
	valid := models.TransferRequest{
		FromCardID: "0b7ff7cc-2fae-468e-8659-05a2956f0a54",
		ToCardID:   "6a4e5d9e-6a83-40b8-b8a0-193b4624f1fc",
		Amount:     decimal.NewFromInt(10),
	}
	assert.NoError(t, valid.Validate())

	same := valid
	same.ToCardID = same.FromCardID
	assert.Error(t, same.Validate())

	zero := valid
	zero.Amount = decimal.Zero
	assert.Error(t, zero.Validate())

	badID := valid
	badID.FromCardID = "not-a-uuid"
	assert.Error(t, badID.Validate())
}

func TestCreateUserRequest_Validate(t *testing.T) {
	valid := models.CreateUserRequest{
		PhoneNumber: "+79990001122",
		Password:    "secret123",
		Name:        "Ivan",
		Surname:     "Petrov",
		Roles:       []string{domain.RoleUser},
	}
	assert.NoError(t, valid.Validate())

	short := valid
	short.Password = "123"
	assert.Error(t, short.Validate())

	noRoles := valid
	noRoles.Roles = nil
	assert.Error(t, noRoles.Validate())

	badRole := valid
	badRole.Roles = []string{"ROOT"}
	assert.Error(t, badRole.Validate())
}

func TestLoginRequest_Validate(t *testing.T) {
	assert.NoError(t, models.LoginRequest{PhoneNumber: "+79990001122", Password: "secret123"}.Validate())
	assert.Error(t, models.LoginRequest{PhoneNumber: "+79990001122", Password: "  "}.Validate())
	assert.Error(t, models.LoginRequest{PhoneNumber: "nope", Password: "secret123"}.Validate())
}

func TestUserPatch_Validate(t *testing.T) {
	empty := ""
	long := make([]byte, 51)
	for i := range long {
		long[i] = 'a'
	}
	longName := string(long)
	shortPassword := "123"

	assert.NoError(t, models.UserPatch{}.Validate())
	assert.Error(t, models.UserPatch{Name: &empty}.Validate())
	assert.Error(t, models.UserPatch{Surname: &longName}.Validate())
	assert.Error(t, models.UserPatch{Password: &shortPassword}.Validate())
}

func TestMapCard_MasksNumber(t *testing.T) {
	card := domain.Card{
		ID:      "card-1",
		PAN:     "1234567890123456",
		Balance: decimal.NewFromFloat(12.5),
		Expiry:  domain.Expiry{Year: 2030, Month: 6},
		Status:  domain.CardStatusActive,
		OwnerID: "user-1",
	}

	mapped := models.MapCard(card)
	assert.Equal(t, "**** **** **** 3456", mapped.CardNumber)
	assert.Equal(t, "12.50", mapped.Balance)
	assert.Equal(t, "2030-06", mapped.Expiry)
}
