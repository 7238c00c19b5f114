package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/bank-suite/cards-service/internal/adapter/repository/repo_interfaces"
	"github.com/bank-suite/cards-service/internal/domain"
	"github.com/bank-suite/cards-service/internal/logger"
	"github.com/bank-suite/cards-service/internal/pancrypto"
	"github.com/lib/pq"
)

const cardColumns = `id, pan, last_4, expiry_year, expiry_month, balance, status, user_id, created_at, updated_at`

// CardRepository persists cards with the PAN encrypted at rest. The
// codec is applied on every write and read so the rest of the service
// only ever sees plaintext PANs.
type CardRepository struct {
	db    *sql.DB
	codec *pancrypto.Codec
}

func NewCardRepository(db *sql.DB, codec *pancrypto.Codec) *CardRepository {
	return &CardRepository{db: db, codec: codec}
}

func (r *CardRepository) Create(ctx context.Context, card domain.Card) (domain.Card, error) {
	logger.Info("card repository create", logger.Fields{
		"last4":   card.Last4,
		"ownerId": card.OwnerID,
		"status":  card.Status,
	})

	encrypted, err := r.codec.Encrypt(card.PAN)
	if err != nil {
		return domain.Card{}, fmt.Errorf("encrypt card number: %w", err)
	}

	const query = `
INSERT INTO cards (pan, last_4, expiry_year, expiry_month, balance, status, user_id)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, created_at, updated_at`

	if err := r.db.QueryRowContext(
		ctx,
		query,
		encrypted,
		card.Last4,
		card.Expiry.Year,
		int(card.Expiry.Month),
		card.Balance,
		card.Status,
		card.OwnerID,
	).Scan(&card.ID, &card.CreatedAt, &card.UpdatedAt); err != nil {
		logger.Error("card repository create failed", err, logger.Fields{"ownerId": card.OwnerID})
		return domain.Card{}, fmt.Errorf("create card: %w", err)
	}

	return card, nil
}

func (r *CardRepository) FindByID(ctx context.Context, id string) (domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = $1`
	return r.queryCard(ctx, query, id)
}

func (r *CardRepository) FindByIDAndOwner(ctx context.Context, id, ownerID string) (domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = $1 AND user_id = $2`
	return r.queryCard(ctx, query, id, ownerID)
}

func (r *CardRepository) FindAllByID(ctx context.Context, ids []string) ([]domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = ANY($1) ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("find cards by ids: %w", err)
	}
	defer rows.Close()
	return r.collectCards(rows)
}

func (r *CardRepository) List(ctx context.Context, filter repo_interfaces.CardFilter) ([]domain.Card, int64, error) {
	where := make([]string, 0, 3)
	args := make([]any, 0, 5)

	if filter.OwnerID != "" {
		args = append(args, filter.OwnerID)
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Last4 != "" {
		args = append(args, filter.Last4)
		where = append(where, fmt.Sprintf("last_4 = $%d", len(args)))
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM cards`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count cards: %w", err)
	}

	size := filter.Size
	if size <= 0 {
		size = 20
	}
	page := filter.Page
	if page < 0 {
		page = 0
	}
	args = append(args, size, page*size)
	query := `SELECT ` + cardColumns + ` FROM cards` + clause +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list cards: %w", err)
	}
	defer rows.Close()

	cards, err := r.collectCards(rows)
	if err != nil {
		return nil, 0, err
	}
	return cards, total, nil
}

func (r *CardRepository) UpdateStatus(ctx context.Context, id string, status domain.CardStatus) (domain.Card, error) {
	logger.Info("card repository update status", logger.Fields{
		"cardId": id,
		"status": status,
	})

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Card{}, fmt.Errorf("begin status update: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = applyCardStatus(ctx, tx, id, status); err != nil {
		return domain.Card{}, err
	}
	if err = tx.Commit(); err != nil {
		return domain.Card{}, fmt.Errorf("commit status update: %w", err)
	}

	return r.FindByID(ctx, id)
}

func (r *CardRepository) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete card: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete card rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func (r *CardRepository) MarkExpired(ctx context.Context, now time.Time) (int64, error) {
	const query = `
UPDATE cards
SET status = 'EXPIRED',
    updated_at = NOW()
WHERE status = 'ACTIVE'
  AND (expiry_year < $1 OR (expiry_year = $1 AND expiry_month < $2))`

	result, err := r.db.ExecContext(ctx, query, now.Year(), int(now.Month()))
	if err != nil {
		return 0, fmt.Errorf("mark expired cards: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("mark expired rows affected: %w", err)
	}
	if rows > 0 {
		logger.Info("card repository marked expired cards", logger.Fields{"count": rows})
	}
	return rows, nil
}

func (r *CardRepository) queryCard(ctx context.Context, query string, args ...any) (domain.Card, error) {
	card, err := scanCard(r.db.QueryRowContext(ctx, query, args...), r.codec)
	if err == sql.ErrNoRows {
		return domain.Card{}, domain.ErrRecordNotFound
	}
	if err != nil {
		return domain.Card{}, err
	}
	return card, nil
}

func (r *CardRepository) collectCards(rows *sql.Rows) ([]domain.Card, error) {
	cards := make([]domain.Card, 0)
	for rows.Next() {
		card, err := scanCard(rows, r.codec)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cards: %w", err)
	}
	return cards, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner, codec *pancrypto.Codec) (domain.Card, error) {
	var (
		card        domain.Card
		encrypted   string
		expiryYear  int
		expiryMonth int
	)

	if err := row.Scan(
		&card.ID,
		&encrypted,
		&card.Last4,
		&expiryYear,
		&expiryMonth,
		&card.Balance,
		&card.Status,
		&card.OwnerID,
		&card.CreatedAt,
		&card.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return domain.Card{}, err
		}
		return domain.Card{}, fmt.Errorf("scan card: %w", err)
	}

	pan, err := codec.Decrypt(encrypted)
	if err != nil {
		logger.Error("card repository decrypt failed", err, logger.Fields{"cardId": card.ID})
		return domain.Card{}, err
	}

	card.PAN = pan
	card.Expiry = domain.Expiry{Year: expiryYear, Month: time.Month(expiryMonth)}
	return card, nil
}

// applyCardStatus is the single status-mutation statement shared by the
// administrative patch path and block-request approval.
func applyCardStatus(ctx context.Context, tx *sql.Tx, cardID string, status domain.CardStatus) error {
	result, err := tx.ExecContext(ctx, `
UPDATE cards
SET status = $2,
    updated_at = NOW()
WHERE id = $1`, cardID, status)
	if err != nil {
		return fmt.Errorf("update card status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update card status rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}
