package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bank-suite/cards-service/internal/domain"
	"github.com/bank-suite/cards-service/internal/logger"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

type BlockRequestRepository struct {
	db *sql.DB
}

func NewBlockRequestRepository(db *sql.DB) *BlockRequestRepository {
	return &BlockRequestRepository{db: db}
}

func (r *BlockRequestRepository) Create(ctx context.Context, request domain.BlockRequest) (domain.BlockRequest, error) {
	logger.Info("block request repository create", logger.Fields{
		"cardId": request.CardID,
		"userId": request.UserID,
	})

	const query = `
INSERT INTO card_block_requests (card_id, user_id, status)
VALUES ($1, $2, $3)
RETURNING id, created_at`

	if err := r.db.QueryRowContext(ctx, query, request.CardID, request.UserID, request.Status).
		Scan(&request.ID, &request.CreatedAt); err != nil {
		// The partial unique index on (card_id) WHERE status='PENDING'
		// closes the race between two concurrent submissions.
		if isUniqueViolation(err) {
			return domain.BlockRequest{}, domain.ErrRequestAlreadyOpen
		}
		logger.Error("block request repository create failed", err, logger.Fields{"cardId": request.CardID})
		return domain.BlockRequest{}, fmt.Errorf("create block request: %w", err)
	}

	return request, nil
}

func (r *BlockRequestRepository) FindByID(ctx context.Context, id string) (domain.BlockRequest, error) {
	const query = `
SELECT id, card_id, user_id, status, created_at
FROM card_block_requests
WHERE id = $1`

	var request domain.BlockRequest
	if err := r.db.QueryRowContext(ctx, query, id).Scan(
		&request.ID,
		&request.CardID,
		&request.UserID,
		&request.Status,
		&request.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return domain.BlockRequest{}, domain.ErrRecordNotFound
		}
		return domain.BlockRequest{}, fmt.Errorf("find block request: %w", err)
	}
	return request, nil
}

func (r *BlockRequestRepository) ExistsByCardAndStatus(ctx context.Context, cardID string, status domain.BlockRequestStatus) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM card_block_requests WHERE card_id = $1 AND status = $2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, cardID, status).Scan(&exists); err != nil {
		return false, fmt.Errorf("check block request existence: %w", err)
	}
	return exists, nil
}

// Approve flips the request to APPROVED and the card to BLOCKED inside
// one transaction, so other readers observe both changes or neither.
// The request row is locked first, then the card row, giving a fixed
// lock order against concurrent approvals.
func (r *BlockRequestRepository) Approve(ctx context.Context, id string) (domain.BlockRequest, error) {
	logger.Info("block request repository approve", logger.Fields{"requestId": id})

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.BlockRequest{}, fmt.Errorf("begin approve transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var request domain.BlockRequest
	err = tx.QueryRowContext(ctx, `
SELECT id, card_id, user_id, status, created_at
FROM card_block_requests
WHERE id = $1
FOR UPDATE`, id).Scan(&request.ID, &request.CardID, &request.UserID, &request.Status, &request.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			err = domain.ErrRecordNotFound
		} else {
			err = fmt.Errorf("lock block request: %w", err)
		}
		return domain.BlockRequest{}, err
	}

	if request.Status != domain.BlockRequestStatusPending {
		err = domain.ErrRequestProcessed
		return domain.BlockRequest{}, err
	}

	if _, err = tx.ExecContext(ctx, `
UPDATE card_block_requests
SET status = $2
WHERE id = $1`, request.ID, domain.BlockRequestStatusApproved); err != nil {
		err = fmt.Errorf("approve block request: %w", err)
		return domain.BlockRequest{}, err
	}

	if err = applyCardStatus(ctx, tx, request.CardID, domain.CardStatusBlocked); err != nil {
		return domain.BlockRequest{}, err
	}

	if err = tx.Commit(); err != nil {
		err = fmt.Errorf("commit approve transaction: %w", err)
		return domain.BlockRequest{}, err
	}

	request.Status = domain.BlockRequestStatusApproved
	logger.Info("block request repository approve success", logger.Fields{
		"requestId": request.ID,
		"cardId":    request.CardID,
	})
	return request, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolation
	}
	return false
}
