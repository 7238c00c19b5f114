package models

import (
	"errors"
	"strings"

	"github.com/bank-suite/cards-service/internal/domain"
	"github.com/bank-suite/cards-service/internal/pancrypto"
	"github.com/shopspring/decimal"
)

type CreateCardRequest struct {
	// CardNumber arrives in human-entry format: digits optionally
	// separated by spaces or dashes.
	CardNumber       string          `json:"cardNumber"`
	Expiry           string          `json:"expiry"`
	Balance          decimal.Decimal `json:"balance"`
	OwnerPhoneNumber string          `json:"ownerPhoneNumber"`
}

func (r CreateCardRequest) Validate() error {
	var errs []string

	digits := pancrypto.Digits(r.CardNumber)
	if len(digits) < 12 || len(digits) > 19 {
		errs = append(errs, "cardNumber must contain 12 to 19 digits")
	}
	if _, err := domain.ParseExpiry(r.Expiry); err != nil {
		errs = append(errs, "expiry must be in YYYY-MM format")
	}
	if r.Balance.IsNegative() {
		errs = append(errs, "balance must not be negative")
	}
	if !isPhoneNumber(r.OwnerPhoneNumber) {
		errs = append(errs, "ownerPhoneNumber must contain 10 to 15 digits, optionally starting with +")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// CardStatusPatch is the wire-level partial-update document for cards.
// cardStatus is the only recognized key; anything else in the body is
// ignored by encoding/json.
type CardStatusPatch struct {
	CardStatus *string `json:"cardStatus"`
}

type CardResponse struct {
	ID         string `json:"id"`
	CardNumber string `json:"cardNumber"`
	Expiry     string `json:"expiry"`
	Balance    string `json:"balance"`
	Status     string `json:"status"`
	OwnerID    string `json:"ownerId"`
}

// MapCard always masks the PAN; full card numbers never leave the service.
func MapCard(card domain.Card) CardResponse {
	return CardResponse{
		ID:         card.ID,
		CardNumber: pancrypto.Mask(card.PAN),
		Expiry:     card.Expiry.String(),
		Balance:    card.Balance.StringFixed(2),
		Status:     string(card.Status),
		OwnerID:    card.OwnerID,
	}
}

type CardPage struct {
	Cards []CardResponse `json:"cards"`
	Page  int            `json:"page"`
	Size  int            `json:"size"`
	Total int64          `json:"total"`
}

type BalanceResponse struct {
	CardID  string `json:"cardId"`
	Balance string `json:"balance"`
}

type CreateBlockRequestRequest struct {
	CardID string `json:"cardId"`
}

func (r CreateBlockRequestRequest) Validate() error {
	if !isUUID(r.CardID) {
		return errors.New("cardId must be a valid uuid")
	}
	return nil
}

type BlockRequestResponse struct {
	ID        string `json:"id"`
	CardID    string `json:"cardId"`
	UserID    string `json:"userId"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}

func MapBlockRequest(request domain.BlockRequest) BlockRequestResponse {
	return BlockRequestResponse{
		ID:        request.ID,
		CardID:    request.CardID,
		UserID:    request.UserID,
		Status:    string(request.Status),
		CreatedAt: request.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}
