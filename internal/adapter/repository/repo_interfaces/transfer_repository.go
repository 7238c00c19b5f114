package repo_interfaces

import (
	"context"

	"github.com/bank-suite/cards-service/internal/domain"
	"github.com/shopspring/decimal"
)

type TransferRepository interface {
	// Execute moves amount between two cards of the same owner as one
	// atomic unit: both card rows are locked in ascending id order,
	// the business checks run against the locked rows, both balances
	// change and the append-only transfer record is written, or
	// nothing happens at all.
	Execute(ctx context.Context, fromCardID, toCardID string, amount decimal.Decimal) (domain.Transfer, error)
}
