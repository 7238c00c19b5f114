package repo_interfaces

import (
	"context"

	"github.com/bank-suite/cards-service/internal/domain"
)

type UserFilter struct {
	PhoneNumber string
	Name        string
	Page        int
	Size        int
}

type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByID(ctx context.Context, id string) (domain.User, error)
	FindByPhoneNumber(ctx context.Context, phoneNumber string) (domain.User, error)
	List(ctx context.Context, filter UserFilter) ([]domain.User, int64, error)
	Save(ctx context.Context, user domain.User) (domain.User, error)
	DeleteByID(ctx context.Context, id string) error
}
