package repo_interfaces

import (
	"context"
	"time"

	"github.com/bank-suite/cards-service/internal/domain"
)

// CardFilter narrows card listings. Zero values mean "no constraint".
type CardFilter struct {
	OwnerID string
	Status  *domain.CardStatus
	Last4   string
	Page    int
	Size    int
}

type CardRepository interface {
	Create(ctx context.Context, card domain.Card) (domain.Card, error)
	FindByID(ctx context.Context, id string) (domain.Card, error)
	// FindByIDAndOwner scopes the lookup to the owner: someone else's
	// card is indistinguishable from a missing one.
	FindByIDAndOwner(ctx context.Context, id, ownerID string) (domain.Card, error)
	FindAllByID(ctx context.Context, ids []string) ([]domain.Card, error)
	List(ctx context.Context, filter CardFilter) ([]domain.Card, int64, error)
	UpdateStatus(ctx context.Context, id string, status domain.CardStatus) (domain.Card, error)
	DeleteByID(ctx context.Context, id string) error
	// MarkExpired flips every card whose expiry month has passed to
	// EXPIRED and returns how many rows changed.
	MarkExpired(ctx context.Context, now time.Time) (int64, error)
}
