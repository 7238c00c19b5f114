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
)

// TransferService moves money between two cards of the same owner.
// Everything past input validation happens inside one storage
// transaction; the service never observes partially applied state.
type TransferService struct {
	transferRepo repo_interfaces.TransferRepository
}

func NewTransferService(transferRepo repo_interfaces.TransferRepository) *TransferService {
	return &TransferService{transferRepo: transferRepo}
}

func (s *TransferService) Transfer(ctx context.Context, req models.TransferRequest) (commons.Response[models.TransferResponse], error) {
	logger.Info("transfer service request", logger.Fields{
		"fromCardId": req.FromCardID,
		"toCardId":   req.ToCardID,
		"amount":     req.Amount.String(),
	})

	if err := req.Validate(); err != nil {
		wrapped := fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
		return commons.ErrorResponse[models.TransferResponse]("validation failed", err.Error()), wrapped
	}

	transfer, err := s.transferRepo.Execute(ctx, req.FromCardID, req.ToCardID, req.Amount)
	if err != nil {
		logger.Error("transfer service execute failed", err, logger.Fields{
			"fromCardId": req.FromCardID,
			"toCardId":   req.ToCardID,
		})
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			return commons.ErrorResponse[models.TransferResponse]("Card not found"), err
		case errors.Is(err, domain.ErrForbidden):
			return commons.ErrorResponse[models.TransferResponse](forbiddenMessage(err)), err
		default:
			return commons.ErrorResponse[models.TransferResponse]("failed to process transfer", "Unable to process transfer right now"), err
		}
	}

	logger.Info("transfer service success", logger.Fields{
		"transferId": transfer.ID,
		"fromCardId": transfer.FromCardID,
		"toCardId":   transfer.ToCardID,
		"amount":     transfer.Amount.StringFixed(2),
	})
	return commons.SuccessResponse("transfer completed", models.MapTransfer(transfer)), nil
}

// forbiddenMessage surfaces the business rule without the sentinel prefix.
func forbiddenMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrDifferentOwners):
		return "Cards belong to different users"
	case errors.Is(err, domain.ErrSourceCardBlocked):
		return "Source card is blocked"
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "Not enough funds"
	case errors.Is(err, domain.ErrCardNotOwned):
		return "Card doesn't belong to you"
	case errors.Is(err, domain.ErrCardBlocked):
		return "The card is blocked"
	case errors.Is(err, domain.ErrRequestAlreadyOpen):
		return "Request already submitted"
	case errors.Is(err, domain.ErrRequestProcessed):
		return "Request already processed"
	default:
		return "Operation is not allowed"
	}
}
