package domain

import "time"

type BlockRequestStatus string

const (
	BlockRequestStatusPending  BlockRequestStatus = "PENDING"
	BlockRequestStatusApproved BlockRequestStatus = "APPROVED"
)

// BlockRequest is a cardholder's request to freeze a card. It is created
// PENDING and moved exactly once to APPROVED; there is no decline state.
// At most one PENDING request exists per card.
type BlockRequest struct {
	ID        string
	CardID    string
	UserID    string
	Status    BlockRequestStatus
	CreatedAt time.Time
}
