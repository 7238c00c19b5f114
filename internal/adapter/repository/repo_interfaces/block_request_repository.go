package repo_interfaces

import (
	"context"

	"github.com/bank-suite/cards-service/internal/domain"
)

type BlockRequestRepository interface {
	Create(ctx context.Context, request domain.BlockRequest) (domain.BlockRequest, error)
	FindByID(ctx context.Context, id string) (domain.BlockRequest, error)
	ExistsByCardAndStatus(ctx context.Context, cardID string, status domain.BlockRequestStatus) (bool, error)
	// Approve moves a PENDING request to APPROVED and blocks the
	// associated card in one transaction. A request that is no longer
	// PENDING yields domain.ErrRequestProcessed and changes nothing.
	Approve(ctx context.Context, id string) (domain.BlockRequest, error)
}
