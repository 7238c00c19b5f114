package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type CardStatus string

const (
	CardStatusActive  CardStatus = "ACTIVE"
	CardStatusBlocked CardStatus = "BLOCKED"
	CardStatusExpired CardStatus = "EXPIRED"
)

func ParseCardStatus(value string) (CardStatus, error) {
	switch CardStatus(strings.ToUpper(strings.TrimSpace(value))) {
	case CardStatusActive:
		return CardStatusActive, nil
	case CardStatusBlocked:
		return CardStatusBlocked, nil
	case CardStatusExpired:
		return CardStatusExpired, nil
	default:
		return "", fmt.Errorf("%w: unknown card status %q", ErrValidation, value)
	}
}

// Expiry is the year+month a card stops being valid. The card remains
// usable through the last day of that month.
type Expiry struct {
	Year  int
	Month time.Month
}

// ParseExpiry accepts the YYYY-MM wire format.
func ParseExpiry(value string) (Expiry, error) {
	parts := strings.SplitN(strings.TrimSpace(value), "-", 2)
	if len(parts) != 2 {
		return Expiry{}, fmt.Errorf("%w: expiry must be in YYYY-MM format", ErrValidation)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil || year < 2000 || year > 2999 {
		return Expiry{}, fmt.Errorf("%w: invalid expiry year %q", ErrValidation, parts[0])
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return Expiry{}, fmt.Errorf("%w: invalid expiry month %q", ErrValidation, parts[1])
	}
	return Expiry{Year: year, Month: time.Month(month)}, nil
}

func (e Expiry) String() string {
	return fmt.Sprintf("%04d-%02d", e.Year, int(e.Month))
}

// ExpiredAt reports whether the card is past its validity at the given time.
func (e Expiry) ExpiredAt(t time.Time) bool {
	endOfMonth := time.Date(e.Year, e.Month+1, 1, 0, 0, 0, 0, time.UTC)
	return !t.Before(endOfMonth)
}

// Card holds the PAN in plaintext while in memory. The postgres repository
// encrypts it on write and decrypts it on read; only Last4 is ever shown
// to clients.
type Card struct {
	ID        string
	PAN       string
	Last4     string
	Expiry    Expiry
	Balance   decimal.Decimal
	Status    CardStatus
	OwnerID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CardPatch enumerates the card fields a partial update may change.
// Status is the only recognized key of the wire-level patch document.
type CardPatch struct {
	Status *CardStatus
}

// Apply merges the patch into the card and reports whether anything changed.
func (p CardPatch) Apply(card *Card) bool {
	changed := false
	if p.Status != nil && *p.Status != card.Status {
		card.Status = *p.Status
		changed = true
	}
	return changed
}
