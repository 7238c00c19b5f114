package models

import (
	"errors"
	"strings"
)

type LoginRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

func (r LoginRequest) Validate() error {
	var errs []string

	if !isPhoneNumber(r.PhoneNumber) {
		errs = append(errs, "phoneNumber must contain 10 to 15 digits, optionally starting with +")
	}
	if strings.TrimSpace(r.Password) == "" {
		errs = append(errs, "password is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
}
