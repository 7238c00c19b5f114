package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bank-suite/cards-service/internal/adapter/http/models"
	"github.com/bank-suite/cards-service/internal/adapter/repository/repo_interfaces"
	"github.com/bank-suite/cards-service/internal/commons"
	"github.com/bank-suite/cards-service/internal/domain"
	"github.com/bank-suite/cards-service/internal/logger"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Claims carried by issued tokens. The bearer middleware turns them
// back into the authenticated principal for the request context.
type Claims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

type AuthService struct {
	userRepo  repo_interfaces.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAuthService(userRepo repo_interfaces.UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

// Login verifies the phone/password pair and issues a signed token.
// Both "unknown phone" and "wrong password" collapse into the same
// error so credentials cannot be probed.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (commons.Response[models.LoginResponse], error) {
	logger.Info("auth service login request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		wrapped := fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
		return commons.ErrorResponse[models.LoginResponse]("validation failed", err.Error()), wrapped
	}

	user, err := s.userRepo.FindByPhoneNumber(ctx, req.PhoneNumber)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.LoginResponse]("Invalid credentials"), domain.ErrInvalidCredentials
		}
		logger.Error("auth service login lookup failed", err, nil)
		return commons.ErrorResponse[models.LoginResponse]("failed to log in", "Unable to log in right now"), err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return commons.ErrorResponse[models.LoginResponse]("Invalid credentials"), domain.ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(s.tokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Roles: user.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		logger.Error("auth service sign token failed", err, nil)
		return commons.ErrorResponse[models.LoginResponse]("failed to log in", "Unable to log in right now"), err
	}

	logger.Info("auth service login success", logger.Fields{"userId": user.ID})
	return commons.SuccessResponse("logged in", models.LoginResponse{
		Token:     signed,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
	}), nil
}

// ParseToken validates a bearer token and returns its claims.
func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
