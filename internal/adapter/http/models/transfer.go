package models

import (
	"errors"
	"strings"

	"github.com/bank-suite/cards-service/internal/domain"
	"github.com/shopspring/decimal"
)

type TransferRequest struct {
	FromCardID string          `json:"fromCardId"`
	ToCardID   string          `json:"toCardId"`
	Amount     decimal.Decimal `json:"amount"`
}

func (r TransferRequest) Validate() error {
	var errs []string

	if !isUUID(r.FromCardID) {
		errs = append(errs, "fromCardId must be a valid uuid")
	}
	if !isUUID(r.ToCardID) {
		errs = append(errs, "toCardId must be a valid uuid")
	}
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, "amount must be greater than zero")
	}
	if isUUID(r.FromCardID) && r.FromCardID == r.ToCardID {
		errs = append(errs, "fromCardId and toCardId must differ")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type TransferResponse struct {
	ID         string `json:"id"`
	FromCardID string `json:"fromCardId"`
	ToCardID   string `json:"toCardId"`
	Amount     string `json:"amount"`
	CreatedAt  string `json:"createdAt"`
}

func MapTransfer(transfer domain.Transfer) TransferResponse {
	return TransferResponse{
		ID:         transfer.ID,
		FromCardID: transfer.FromCardID,
		ToCardID:   transfer.ToCardID,
		Amount:     transfer.Amount.StringFixed(2),
		CreatedAt:  transfer.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}
