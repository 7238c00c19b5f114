package models

import (
	"errors"
	"strings"

	"github.com/bank-suite/cards-service/internal/domain"
	"github.com/google/uuid"
)

type CreateUserRequest struct {
	PhoneNumber string   `json:"phoneNumber"`
	Password    string   `json:"password"`
	Name        string   `json:"name"`
	Surname     string   `json:"surname"`
	Roles       []string `json:"roles"`
}

func (r CreateUserRequest) Validate() error {
	var errs []string

	if !isPhoneNumber(r.PhoneNumber) {
		errs = append(errs, "phoneNumber must contain 10 to 15 digits, optionally starting with +")
	}
	if len(r.Password) < 6 || len(r.Password) > 100 {
		errs = append(errs, "password must be between 6 and 100 characters")
	}
	if strings.TrimSpace(r.Name) == "" || len(r.Name) > 50 {
		errs = append(errs, "name is required and must be at most 50 characters")
	}
	if strings.TrimSpace(r.Surname) == "" || len(r.Surname) > 50 {
		errs = append(errs, "surname is required and must be at most 50 characters")
	}
	if len(r.Roles) == 0 {
		errs = append(errs, "at least one role is required")
	}
	for _, role := range r.Roles {
		if role != domain.RoleAdmin && role != domain.RoleUser {
			errs = append(errs, "role "+role+" is not supported")
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// UserPatch is the wire-level partial-update document for users. A
// supplied password is re-hashed before it reaches storage.
type UserPatch struct {
	Name     *string `json:"name"`
	Surname  *string `json:"surname"`
	Password *string `json:"password"`
}

func (p UserPatch) Validate() error {
	var errs []string

	if p.Name != nil && (strings.TrimSpace(*p.Name) == "" || len(*p.Name) > 50) {
		errs = append(errs, "name must be non-empty and at most 50 characters")
	}
	if p.Surname != nil && (strings.TrimSpace(*p.Surname) == "" || len(*p.Surname) > 50) {
		errs = append(errs, "surname must be non-empty and at most 50 characters")
	}
	if p.Password != nil && (len(*p.Password) < 6 || len(*p.Password) > 100) {
		errs = append(errs, "password must be between 6 and 100 characters")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type UserResponse struct {
	ID          string   `json:"id"`
	PhoneNumber string   `json:"phoneNumber"`
	Name        string   `json:"name"`
	Surname     string   `json:"surname"`
	Roles       []string `json:"roles"`
}

func MapUser(user domain.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		PhoneNumber: user.PhoneNumber,
		Name:        user.Name,
		Surname:     user.Surname,
		Roles:       user.Roles,
	}
}

type UserPage struct {
	Users []UserResponse `json:"users"`
	Page  int            `json:"page"`
	Size  int            `json:"size"`
	Total int64          `json:"total"`
}

func isPhoneNumber(value string) bool {
	trimmed := strings.TrimSpace(value)
	trimmed = strings.TrimPrefix(trimmed, "+")
	if len(trimmed) < 10 || len(trimmed) > 15 {
		return false
	}
	for _, ch := range trimmed {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}

func isUUID(value string) bool {
	_, err := uuid.Parse(strings.TrimSpace(value))
	return err == nil
}
