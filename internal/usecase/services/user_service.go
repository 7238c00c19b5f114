package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bank-suite/cards-service/internal/adapter/http/models"
	"github.com/bank-suite/cards-service/internal/adapter/repository/repo_interfaces"
	"github.com/bank-suite/cards-service/internal/commons"
	"github.com/bank-suite/cards-service/internal/domain"
	"github.com/bank-suite/cards-service/internal/logger"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	userRepo repo_interfaces.UserRepository
}

func NewUserService(userRepo repo_interfaces.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) Create(ctx context.Context, req models.CreateUserRequest) (commons.Response[models.UserResponse], error) {
	logger.Info("user service create request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		wrapped := fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
		return commons.ErrorResponse[models.UserResponse]("validation failed", err.Error()), wrapped
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("user service hash password failed", err, nil)
		return commons.ErrorResponse[models.UserResponse]("failed to create user", "Unable to create user right now"), err
	}

	user := domain.User{
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
		Name:         strings.TrimSpace(req.Name),
		Surname:      strings.TrimSpace(req.Surname),
		PasswordHash: string(hash),
		Roles:        req.Roles,
	}

	created, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return commons.ErrorResponse[models.UserResponse]("validation failed", "phone number already registered"), err
		}
		logger.Error("user service create failed", err, logger.Fields{"phoneNumber": user.PhoneNumber})
		return commons.ErrorResponse[models.UserResponse]("failed to create user", "Unable to create user right now"), err
	}

	logger.Info("user service create success", logger.Fields{"userId": created.ID})
	return commons.SuccessResponse("user created", models.MapUser(created)), nil
}

func (s *UserService) GetOne(ctx context.Context, id string) (commons.Response[models.UserResponse], error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.UserResponse]("User not found"), err
		}
		logger.Error("user service get one failed", err, logger.Fields{"userId": id})
		return commons.ErrorResponse[models.UserResponse]("failed to get user", "Unable to fetch user right now"), err
	}
	return commons.SuccessResponse("user found", models.MapUser(user)), nil
}

func (s *UserService) List(ctx context.Context, filter repo_interfaces.UserFilter) (commons.Response[models.UserPage], error) {
	users, total, err := s.userRepo.List(ctx, filter)
	if err != nil {
		logger.Error("user service list failed", err, nil)
		return commons.ErrorResponse[models.UserPage]("failed to list users", "Unable to fetch users right now"), err
	}

	page := models.UserPage{
		Users: make([]models.UserResponse, 0, len(users)),
		Page:  filter.Page,
		Size:  filter.Size,
		Total: total,
	}
	for _, user := range users {
		page.Users = append(page.Users, models.MapUser(user))
	}
	return commons.SuccessResponse("users listed", page), nil
}

// Patch applies the typed user patch. A supplied password is re-hashed
// here so plaintext never reaches the repository.
func (s *UserService) Patch(ctx context.Context, id string, patch models.UserPatch) (commons.Response[models.UserResponse], error) {
	logger.Info("user service patch", logger.Fields{"userId": id})

	if err := patch.Validate(); err != nil {
		wrapped := fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
		return commons.ErrorResponse[models.UserResponse]("validation failed", err.Error()), wrapped
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.UserResponse]("User not found"), err
		}
		return commons.ErrorResponse[models.UserResponse]("failed to patch user", "Unable to patch user right now"), err
	}

	domainPatch := domain.UserPatch{
		Name:    patch.Name,
		Surname: patch.Surname,
	}
	if patch.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
		if err != nil {
			logger.Error("user service patch hash password failed", err, nil)
			return commons.ErrorResponse[models.UserResponse]("failed to patch user", "Unable to patch user right now"), err
		}
		hashed := string(hash)
		domainPatch.PasswordHash = &hashed
	}

	if !domainPatch.Apply(&user) {
		return commons.SuccessResponse("user unchanged", models.MapUser(user)), nil
	}

	saved, err := s.userRepo.Save(ctx, user)
	if err != nil {
		logger.Error("user service patch failed", err, logger.Fields{"userId": id})
		return commons.ErrorResponse[models.UserResponse]("failed to patch user", "Unable to patch user right now"), err
	}

	return commons.SuccessResponse("user updated", models.MapUser(saved)), nil
}

func (s *UserService) Delete(ctx context.Context, id string) (commons.Response[models.UserResponse], error) {
	logger.Info("user service delete", logger.Fields{"userId": id})

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.UserResponse]("User not found"), err
		}
		return commons.ErrorResponse[models.UserResponse]("failed to delete user", "Unable to delete user right now"), err
	}

	if err := s.userRepo.DeleteByID(ctx, id); err != nil {
		logger.Error("user service delete failed", err, logger.Fields{"userId": id})
		return commons.ErrorResponse[models.UserResponse]("failed to delete user", "Unable to delete user right now"), err
	}

	return commons.SuccessResponse("user deleted", models.MapUser(user)), nil
}
