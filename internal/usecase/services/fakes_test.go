package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/bank-suite/cards-service/internal/adapter/repository/repo_interfaces"
	"github.com/bank-suite/cards-service/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// memStore is an in-memory stand-in for the postgres repositories. It
// keeps the same contracts the real repositories honor, including the
// business checks that run inside storage transactions.
type memStore struct {
	cards     map[string]domain.Card
	users     map[string]domain.User
	requests  map[string]domain.BlockRequest
	transfers map[string]domain.Transfer
}

func newMemStore() *memStore {
	return &memStore{
		cards:     make(map[string]domain.Card),
		users:     make(map[string]domain.User),
		requests:  make(map[string]domain.BlockRequest),
		transfers: make(map[string]domain.Transfer),
	}
}

func (m *memStore) addUser(user domain.User) domain.User {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	m.users[user.ID] = user
	return user
}

func (m *memStore) addCard(card domain.Card) domain.Card {
	if card.ID == "" {
		card.ID = uuid.NewString()
	}
	m.cards[card.ID] = card
	return card
}

type fakeCardRepo struct{ store *memStore }

func (r *fakeCardRepo) Create(_ context.Context, card domain.Card) (domain.Card, error) {
	card.ID = uuid.NewString()
	card.CreatedAt = time.Now()
	card.UpdatedAt = card.CreatedAt
	r.store.cards[card.ID] = card
	return card, nil
}

func (r *fakeCardRepo) FindByID(_ context.Context, id string) (domain.Card, error) {
	card, ok := r.store.cards[id]
	if !ok {
		return domain.Card{}, domain.ErrRecordNotFound
	}
	return card, nil
}

func (r *fakeCardRepo) FindByIDAndOwner(_ context.Context, id, ownerID string) (domain.Card, error) {
	card, ok := r.store.cards[id]
	if !ok || card.OwnerID != ownerID {
		return domain.Card{}, domain.ErrRecordNotFound
	}
	return card, nil
}

func (r *fakeCardRepo) FindAllByID(_ context.Context, ids []string) ([]domain.Card, error) {
	found := make([]domain.Card, 0, len(ids))
	for _, id := range ids {
		if card, ok := r.store.cards[id]; ok {
			found = append(found, card)
		}
	}
	return found, nil
}

func (r *fakeCardRepo) List(_ context.Context, filter repo_interfaces.CardFilter) ([]domain.Card, int64, error) {
	matched := make([]domain.Card, 0)
	for _, card := range r.store.cards {
		if filter.OwnerID != "" && card.OwnerID != filter.OwnerID {
			continue
		}
		if filter.Status != nil && card.Status != *filter.Status {
			continue
		}
		if filter.Last4 != "" && card.Last4 != filter.Last4 {
			continue
		}
		matched = append(matched, card)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	start := filter.Page * filter.Size
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.Size
	if filter.Size <= 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *fakeCardRepo) UpdateStatus(_ context.Context, id string, status domain.CardStatus) (domain.Card, error) {
	card, ok := r.store.cards[id]
	if !ok {
		return domain.Card{}, domain.ErrRecordNotFound
	}
	card.Status = status
	card.UpdatedAt = time.Now()
	r.store.cards[id] = card
	return card, nil
}

func (r *fakeCardRepo) DeleteByID(_ context.Context, id string) error {
	if _, ok := r.store.cards[id]; !ok {
		return domain.ErrRecordNotFound
	}
	delete(r.store.cards, id)
	return nil
}

func (r *fakeCardRepo) MarkExpired(_ context.Context, now time.Time) (int64, error) {
	var marked int64
	for id, card := range r.store.cards {
		if card.Status != domain.CardStatusExpired && card.Expiry.ExpiredAt(now) {
			card.Status = domain.CardStatusExpired
			r.store.cards[id] = card
			marked++
		}
	}
	return marked, nil
}

type fakeBlockRequestRepo struct{ store *memStore }

func (r *fakeBlockRequestRepo) Create(_ context.Context, request domain.BlockRequest) (domain.BlockRequest, error) {
	for _, existing := range r.store.requests {
		if existing.CardID == request.CardID && existing.Status == domain.BlockRequestStatusPending {
			return domain.BlockRequest{}, domain.ErrRequestAlreadyOpen
		}
	}
	request.ID = uuid.NewString()
	request.CreatedAt = time.Now()
	r.store.requests[request.ID] = request
	return request, nil
}

func (r *fakeBlockRequestRepo) FindByID(_ context.Context, id string) (domain.BlockRequest, error) {
	request, ok := r.store.requests[id]
	if !ok {
		return domain.BlockRequest{}, domain.ErrRecordNotFound
	}
	return request, nil
}

func (r *fakeBlockRequestRepo) ExistsByCardAndStatus(_ context.Context, cardID string, status domain.BlockRequestStatus) (bool, error) {
	for _, request := range r.store.requests {
		if request.CardID == cardID && request.Status == status {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBlockRequestRepo) Approve(_ context.Context, id string) (domain.BlockRequest, error) {
	request, ok := r.store.requests[id]
	if !ok {
		return domain.BlockRequest{}, domain.ErrRecordNotFound
	}
	if request.Status != domain.BlockRequestStatusPending {
		return domain.BlockRequest{}, domain.ErrRequestProcessed
	}

	card, ok := r.store.cards[request.CardID]
	if !ok {
		return domain.BlockRequest{}, fmt.Errorf("card %s: %w", request.CardID, domain.ErrRecordNotFound)
	}
	card.Status = domain.CardStatusBlocked
	r.store.cards[card.ID] = card

	request.Status = domain.BlockRequestStatusApproved
	r.store.requests[id] = request
	return request, nil
}

type fakeUserRepo struct{ store *memStore }

func (r *fakeUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	for _, existing := range r.store.users {
		if existing.PhoneNumber == user.PhoneNumber {
			return domain.User{}, fmt.Errorf("%w: phone number already registered", domain.ErrValidation)
		}
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.store.users[user.ID] = user
	return user, nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (domain.User, error) {
	user, ok := r.store.users[id]
	if !ok {
		return domain.User{}, domain.ErrRecordNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) FindByPhoneNumber(_ context.Context, phoneNumber string) (domain.User, error) {
	for _, user := range r.store.users {
		if user.PhoneNumber == phoneNumber {
			return user, nil
		}
	}
	return domain.User{}, domain.ErrRecordNotFound
}

func (r *fakeUserRepo) List(_ context.Context, filter repo_interfaces.UserFilter) ([]domain.User, int64, error) {
	matched := make([]domain.User, 0)
	for _, user := range r.store.users {
		if filter.PhoneNumber != "" && user.PhoneNumber != filter.PhoneNumber {
			continue
		}
		if filter.Name != "" && user.Name != filter.Name {
			continue
		}
		matched = append(matched, user)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return matched, int64(len(matched)), nil
}

func (r *fakeUserRepo) Save(_ context.Context, user domain.User) (domain.User, error) {
	if _, ok := r.store.users[user.ID]; !ok {
		return domain.User{}, domain.ErrRecordNotFound
	}
	user.UpdatedAt = time.Now()
	r.store.users[user.ID] = user
	return user, nil
}

func (r *fakeUserRepo) DeleteByID(_ context.Context, id string) error {
	if _, ok := r.store.users[id]; !ok {
		return domain.ErrRecordNotFound
	}
	delete(r.store.users, id)
	return nil
}

type fakeTransferRepo struct{ store *memStore }

func (r *fakeTransferRepo) Execute(_ context.Context, fromCardID, toCardID string, amount decimal.Decimal) (domain.Transfer, error) {
	from, ok := r.store.cards[fromCardID]
	if !ok {
		return domain.Transfer{}, fmt.Errorf("source card: %w", domain.ErrRecordNotFound)
	}
	to, ok := r.store.cards[toCardID]
	if !ok {
		return domain.Transfer{}, fmt.Errorf("destination card: %w", domain.ErrRecordNotFound)
	}

	if from.OwnerID != to.OwnerID {
		return domain.Transfer{}, domain.ErrDifferentOwners
	}
	if from.Status == domain.CardStatusBlocked {
		return domain.Transfer{}, domain.ErrSourceCardBlocked
	}
	if from.Balance.LessThan(amount) {
		return domain.Transfer{}, domain.ErrInsufficientFunds
	}

	from.Balance = from.Balance.Sub(amount)
	to.Balance = to.Balance.Add(amount)
	r.store.cards[from.ID] = from
	r.store.cards[to.ID] = to

	transfer := domain.Transfer{
		ID:         uuid.NewString(),
		FromCardID: fromCardID,
		ToCardID:   toCardID,
		Amount:     amount,
		CreatedAt:  time.Now(),
	}
	r.store.transfers[transfer.ID] = transfer
	return transfer, nil
}
