package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/bank-suite/cards-service/internal/adapter/http/models"
	"github.com/bank-suite/cards-service/internal/adapter/repository/repo_interfaces"
	"github.com/bank-suite/cards-service/internal/commons"
	"github.com/bank-suite/cards-service/internal/domain"
	"github.com/bank-suite/cards-service/internal/logger"
	"github.com/bank-suite/cards-service/internal/pancrypto"
)

type CardService struct {
	cardRepo    repo_interfaces.CardRepository
	requestRepo repo_interfaces.BlockRequestRepository
	userRepo    repo_interfaces.UserRepository
}

func NewCardService(
	cardRepo repo_interfaces.CardRepository,
	requestRepo repo_interfaces.BlockRequestRepository,
	userRepo repo_interfaces.UserRepository,
) *CardService {
	return &CardService{
		cardRepo:    cardRepo,
		requestRepo: requestRepo,
		userRepo:    userRepo,
	}
}

func (s *CardService) Create(ctx context.Context, req models.CreateCardRequest) (commons.Response[models.CardResponse], error) {
	logger.Info("card service create request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		wrapped := fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
		return commons.ErrorResponse[models.CardResponse]("validation failed", err.Error()), wrapped
	}

	owner, err := s.userRepo.FindByPhoneNumber(ctx, req.OwnerPhoneNumber)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.CardResponse]("Owner not found"), err
		}
		return commons.ErrorResponse[models.CardResponse]("failed to create card", "Unable to create card right now"), err
	}

	expiry, err := domain.ParseExpiry(req.Expiry)
	if err != nil {
		return commons.ErrorResponse[models.CardResponse]("validation failed", "expiry must be in YYYY-MM format"), err
	}

	pan := pancrypto.Digits(req.CardNumber)
	card := domain.Card{
		PAN:     pan,
		Last4:   pan[len(pan)-4:],
		Expiry:  expiry,
		Balance: req.Balance,
		Status:  domain.CardStatusActive,
		OwnerID: owner.ID,
	}

	created, err := s.cardRepo.Create(ctx, card)
	if err != nil {
		logger.Error("card service create failed", err, logger.Fields{"ownerId": owner.ID})
		return commons.ErrorResponse[models.CardResponse]("failed to create card", "Unable to create card right now"), err
	}

	logger.Info("card service create success", logger.Fields{
		"cardId":  created.ID,
		"last4":   created.Last4,
		"ownerId": created.OwnerID,
	})
	return commons.SuccessResponse("card created", models.MapCard(created)), nil
}

func (s *CardService) GetOne(ctx context.Context, id string) (commons.Response[models.CardResponse], error) {
	card, err := s.cardRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.CardResponse]("Card not found"), err
		}
		logger.Error("card service get one failed", err, logger.Fields{"cardId": id})
		return commons.ErrorResponse[models.CardResponse]("failed to get card", "Unable to fetch card right now"), err
	}
	return commons.SuccessResponse("card found", models.MapCard(card)), nil
}

// List serves the administrative view over every card.
func (s *CardService) List(ctx context.Context, filter repo_interfaces.CardFilter) (commons.Response[models.CardPage], error) {
	return s.list(ctx, filter)
}

// ListMine serves the cardholder view, always scoped to the principal.
func (s *CardService) ListMine(ctx context.Context, principalID string, filter repo_interfaces.CardFilter) (commons.Response[models.CardPage], error) {
	filter.OwnerID = principalID
	return s.list(ctx, filter)
}

func (s *CardService) list(ctx context.Context, filter repo_interfaces.CardFilter) (commons.Response[models.CardPage], error) {
	cards, total, err := s.cardRepo.List(ctx, filter)
	if err != nil {
		logger.Error("card service list failed", err, nil)
		return commons.ErrorResponse[models.CardPage]("failed to list cards", "Unable to fetch cards right now"), err
	}

	page := models.CardPage{
		Cards: make([]models.CardResponse, 0, len(cards)),
		Page:  filter.Page,
		Size:  filter.Size,
		Total: total,
	}
	for _, card := range cards {
		page.Cards = append(page.Cards, models.MapCard(card))
	}
	return commons.SuccessResponse("cards listed", page), nil
}

// PatchStatus applies the typed status patch to one card. A document
// without the cardStatus key changes nothing and returns the card as is.
func (s *CardService) PatchStatus(ctx context.Context, id string, patch models.CardStatusPatch) (commons.Response[models.CardResponse], error) {
	logger.Info("card service patch status", logger.Fields{"cardId": id})

	card, err := s.cardRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.CardResponse]("Card not found"), err
		}
		return commons.ErrorResponse[models.CardResponse]("failed to patch card", "Unable to patch card right now"), err
	}

	domainPatch, err := toCardPatch(patch)
	if err != nil {
		return commons.ErrorResponse[models.CardResponse]("validation failed", err.Error()), err
	}

	if !domainPatch.Apply(&card) {
		return commons.SuccessResponse("card unchanged", models.MapCard(card)), nil
	}

	updated, err := s.cardRepo.UpdateStatus(ctx, card.ID, card.Status)
	if err != nil {
		logger.Error("card service patch status failed", err, logger.Fields{"cardId": id})
		return commons.ErrorResponse[models.CardResponse]("failed to patch card", "Unable to patch card right now"), err
	}

	logger.Info("card service patch status success", logger.Fields{
		"cardId": updated.ID,
		"status": updated.Status,
	})
	return commons.SuccessResponse("card updated", models.MapCard(updated)), nil
}

// PatchStatusMany applies one status patch to several cards and returns
// the ids that were updated. Missing ids are skipped, matching the
// find-all-then-save semantics of the administrative bulk edit.
func (s *CardService) PatchStatusMany(ctx context.Context, ids []string, patch models.CardStatusPatch) (commons.Response[[]string], error) {
	logger.Info("card service patch status many", logger.Fields{"count": len(ids)})

	domainPatch, err := toCardPatch(patch)
	if err != nil {
		return commons.ErrorResponse[[]string]("validation failed", err.Error()), err
	}

	cards, err := s.cardRepo.FindAllByID(ctx, ids)
	if err != nil {
		return commons.ErrorResponse[[]string]("failed to patch cards", "Unable to patch cards right now"), err
	}

	updated := make([]string, 0, len(cards))
	for _, card := range cards {
		if !domainPatch.Apply(&card) {
			updated = append(updated, card.ID)
			continue
		}
		if _, err := s.cardRepo.UpdateStatus(ctx, card.ID, card.Status); err != nil {
			logger.Error("card service patch status many failed", err, logger.Fields{"cardId": card.ID})
			return commons.ErrorResponse[[]string]("failed to patch cards", "Unable to patch cards right now"), err
		}
		updated = append(updated, card.ID)
	}

	return commons.SuccessResponse("cards updated", updated), nil
}

func (s *CardService) Delete(ctx context.Context, id string) (commons.Response[models.CardResponse], error) {
	logger.Info("card service delete", logger.Fields{"cardId": id})

	card, err := s.cardRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.CardResponse]("Card not found"), err
		}
		return commons.ErrorResponse[models.CardResponse]("failed to delete card", "Unable to delete card right now"), err
	}

	if err := s.cardRepo.DeleteByID(ctx, id); err != nil {
		logger.Error("card service delete failed", err, logger.Fields{"cardId": id})
		return commons.ErrorResponse[models.CardResponse]("failed to delete card", "Unable to delete card right now"), err
	}

	return commons.SuccessResponse("card deleted", models.MapCard(card)), nil
}

// CreateBlockRequest opens a PENDING freeze request on the principal's
// own card. A card someone else owns is rejected, as is a card with a
// request already pending.
func (s *CardService) CreateBlockRequest(ctx context.Context, cardID, principalID string) (commons.Response[models.BlockRequestResponse], error) {
	logger.Info("card service create block request", logger.Fields{
		"cardId": cardID,
		"userId": principalID,
	})

	card, err := s.cardRepo.FindByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.BlockRequestResponse]("Card not found"), err
		}
		return commons.ErrorResponse[models.BlockRequestResponse]("failed to create block request", "Unable to submit request right now"), err
	}

	if card.OwnerID != principalID {
		err := domain.ErrCardNotOwned
		return commons.ErrorResponse[models.BlockRequestResponse](forbiddenMessage(err)), err
	}

	exists, err := s.requestRepo.ExistsByCardAndStatus(ctx, card.ID, domain.BlockRequestStatusPending)
	if err != nil {
		return commons.ErrorResponse[models.BlockRequestResponse]("failed to create block request", "Unable to submit request right now"), err
	}
	if exists {
		err := domain.ErrRequestAlreadyOpen
		return commons.ErrorResponse[models.BlockRequestResponse](forbiddenMessage(err)), err
	}

	request, err := s.requestRepo.Create(ctx, domain.BlockRequest{
		CardID: card.ID,
		UserID: principalID,
		Status: domain.BlockRequestStatusPending,
	})
	if err != nil {
		if errors.Is(err, domain.ErrRequestAlreadyOpen) {
			return commons.ErrorResponse[models.BlockRequestResponse](forbiddenMessage(err)), err
		}
		logger.Error("card service create block request failed", err, logger.Fields{"cardId": cardID})
		return commons.ErrorResponse[models.BlockRequestResponse]("failed to create block request", "Unable to submit request right now"), err
	}

	logger.Info("card service create block request success", logger.Fields{
		"requestId": request.ID,
		"cardId":    request.CardID,
	})
	return commons.SuccessResponse("block request submitted", models.MapBlockRequest(request)), nil
}

// ApproveBlockRequest moves a PENDING request to APPROVED and blocks
// the card, atomically. A second approval of the same request fails
// without touching anything.
func (s *CardService) ApproveBlockRequest(ctx context.Context, requestID string) (commons.Response[models.BlockRequestResponse], error) {
	logger.Info("card service approve block request", logger.Fields{"requestId": requestID})

	request, err := s.requestRepo.Approve(ctx, requestID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			return commons.ErrorResponse[models.BlockRequestResponse]("Block request not found"), err
		case errors.Is(err, domain.ErrRequestProcessed):
			return commons.ErrorResponse[models.BlockRequestResponse](forbiddenMessage(err)), err
		default:
			logger.Error("card service approve block request failed", err, logger.Fields{"requestId": requestID})
			return commons.ErrorResponse[models.BlockRequestResponse]("failed to approve block request", "Unable to approve request right now"), err
		}
	}

	logger.Info("card service approve block request success", logger.Fields{
		"requestId": request.ID,
		"cardId":    request.CardID,
	})
	return commons.SuccessResponse("block request approved", models.MapBlockRequest(request)), nil
}

// GetBalance reads the balance of the principal's own card. The lookup
// is scoped to (card, owner) in a single query so a card belonging to
// someone else is indistinguishable from a missing one.
func (s *CardService) GetBalance(ctx context.Context, cardID, principalID string) (commons.Response[models.BalanceResponse], error) {
	card, err := s.cardRepo.FindByIDAndOwner(ctx, cardID, principalID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.BalanceResponse]("Card not found"), err
		}
		logger.Error("card service get balance failed", err, logger.Fields{"cardId": cardID})
		return commons.ErrorResponse[models.BalanceResponse]("failed to get balance", "Unable to fetch balance right now"), err
	}

	if card.Status == domain.CardStatusBlocked {
		err := domain.ErrCardBlocked
		return commons.ErrorResponse[models.BalanceResponse](forbiddenMessage(err)), err
	}

	return commons.SuccessResponse("balance fetched", models.BalanceResponse{
		CardID:  card.ID,
		Balance: card.Balance.StringFixed(2),
	}), nil
}

func toCardPatch(patch models.CardStatusPatch) (domain.CardPatch, error) {
	if patch.CardStatus == nil {
		return domain.CardPatch{}, nil
	}
	status, err := domain.ParseCardStatus(*patch.CardStatus)
	if err != nil {
		return domain.CardPatch{}, err
	}
	return domain.CardPatch{Status: &status}, nil
}
