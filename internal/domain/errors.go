package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors classify every failure the services can produce.
// Rule-specific errors wrap one of the four base kinds so callers can
// branch with errors.Is on either level.
var (
	ErrRecordNotFound = errors.New("record not found")
	ErrValidation     = errors.New("validation failed")
	ErrForbidden      = errors.New("forbidden operation")
	ErrCrypto         = errors.New("card data unreadable")
)

var (
	ErrDifferentOwners    = fmt.Errorf("%w: cards belong to different users", ErrForbidden)
	ErrSourceCardBlocked  = fmt.Errorf("%w: source card is blocked", ErrForbidden)
	ErrInsufficientFunds  = fmt.Errorf("%w: not enough funds", ErrForbidden)
	ErrCardNotOwned       = fmt.Errorf("%w: card doesn't belong to you", ErrForbidden)
	ErrCardBlocked        = fmt.Errorf("%w: the card is blocked", ErrForbidden)
	ErrRequestAlreadyOpen = fmt.Errorf("%w: request already submitted", ErrForbidden)
	ErrRequestProcessed   = fmt.Errorf("%w: request already processed", ErrForbidden)
)

var ErrInvalidCredentials = errors.New("invalid phone number or password")
