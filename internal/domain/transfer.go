package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transfer is the append-only record of a completed card-to-card
// transfer. Rows are never updated or deleted.
type Transfer struct {
	ID         string
	FromCardID string
	ToCardID   string
	Amount     decimal.Decimal
	CreatedAt  time.Time
}
