package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bank-suite/cards-service/internal/domain"
	"github.com/bank-suite/cards-service/internal/logger"
	"github.com/shopspring/decimal"
)

type TransferRepository struct {
	db *sql.DB
}

func NewTransferRepository(db *sql.DB) *TransferRepository {
	return &TransferRepository{db: db}
}

type lockedCard struct {
	id      string
	ownerID string
	status  domain.CardStatus
	balance decimal.Decimal
}

// Execute runs the whole transfer as one transaction. Both card rows
// are locked FOR UPDATE in ascending id order so concurrent transfers
// over the same pair cannot deadlock or lose updates, and every business
// check runs against the locked rows.
func (r *TransferRepository) Execute(ctx context.Context, fromCardID, toCardID string, amount decimal.Decimal) (domain.Transfer, error) {
	logger.Info("transfer repository execute", logger.Fields{
		"fromCardId": fromCardID,
		"toCardId":   toCardID,
		"amount":     amount.StringFixed(2),
	})

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Transfer{}, fmt.Errorf("begin transfer transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var from, to lockedCard
	from, to, err = lockCardPair(ctx, tx, fromCardID, toCardID)
	if err != nil {
		return domain.Transfer{}, err
	}

	if from.ownerID != to.ownerID {
		err = domain.ErrDifferentOwners
		return domain.Transfer{}, err
	}
	if from.status == domain.CardStatusBlocked {
		err = domain.ErrSourceCardBlocked
		return domain.Transfer{}, err
	}
	if from.balance.LessThan(amount) {
		err = domain.ErrInsufficientFunds
		return domain.Transfer{}, err
	}

	const debitQuery = `
UPDATE cards
SET balance = balance - $2,
    updated_at = NOW()
WHERE id = $1`
	if _, err = tx.ExecContext(ctx, debitQuery, from.id, amount); err != nil {
		err = fmt.Errorf("debit source card: %w", err)
		return domain.Transfer{}, err
	}

	const creditQuery = `
UPDATE cards
SET balance = balance + $2,
    updated_at = NOW()
WHERE id = $1`
	if _, err = tx.ExecContext(ctx, creditQuery, to.id, amount); err != nil {
		err = fmt.Errorf("credit destination card: %w", err)
		return domain.Transfer{}, err
	}

	transfer := domain.Transfer{
		FromCardID: from.id,
		ToCardID:   to.id,
		Amount:     amount,
	}
	const recordQuery = `
INSERT INTO transfers (from_card_id, to_card_id, amount)
VALUES ($1, $2, $3)
RETURNING id, created_at`
	if err = tx.QueryRowContext(ctx, recordQuery, transfer.FromCardID, transfer.ToCardID, transfer.Amount).
		Scan(&transfer.ID, &transfer.CreatedAt); err != nil {
		err = fmt.Errorf("record transfer: %w", err)
		return domain.Transfer{}, err
	}

	if err = tx.Commit(); err != nil {
		err = fmt.Errorf("commit transfer transaction: %w", err)
		return domain.Transfer{}, err
	}

	logger.Info("transfer repository execute success", logger.Fields{
		"transferId": transfer.ID,
		"fromCardId": transfer.FromCardID,
		"toCardId":   transfer.ToCardID,
	})
	return transfer, nil
}

// lockCardPair locks both rows in ascending id order regardless of
// transfer direction and reports which locked row is which.
func lockCardPair(ctx context.Context, tx *sql.Tx, fromCardID, toCardID string) (lockedCard, lockedCard, error) {
	const query = `
SELECT id, user_id, status, balance
FROM cards
WHERE id = ANY(ARRAY[$1, $2]::uuid[])
ORDER BY id
FOR UPDATE`

	rows, err := tx.QueryContext(ctx, query, fromCardID, toCardID)
	if err != nil {
		return lockedCard{}, lockedCard{}, fmt.Errorf("lock card rows: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]lockedCard, 2)
	for rows.Next() {
		var card lockedCard
		if err := rows.Scan(&card.id, &card.ownerID, &card.status, &card.balance); err != nil {
			return lockedCard{}, lockedCard{}, fmt.Errorf("scan locked card: %w", err)
		}
		byID[card.id] = card
	}
	if err := rows.Err(); err != nil {
		return lockedCard{}, lockedCard{}, fmt.Errorf("iterate locked cards: %w", err)
	}

	from, ok := byID[fromCardID]
	if !ok {
		return lockedCard{}, lockedCard{}, fmt.Errorf("source card: %w", domain.ErrRecordNotFound)
	}
	to, ok := byID[toCardID]
	if !ok {
		return lockedCard{}, lockedCard{}, fmt.Errorf("destination card: %w", domain.ErrRecordNotFound)
	}
	return from, to, nil
}
