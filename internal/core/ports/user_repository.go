package ports

import (
	"context"

	"github.com/targetcar/user-system/internal/core/domain"
)

// UserRepository defines the persistence surface for user records.
type UserRepository interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	// DeleteByEmail is a no-op when the email is absent.
	DeleteByEmail(ctx context.Context, email string) error
}

// AddressRepository defines the persistence surface for address records.
type AddressRepository interface {
	Create(ctx context.Context, address *domain.Address) (*domain.Address, error)
	FindByID(ctx context.Context, id string) (*domain.Address, error)
	FindByUserID(ctx context.Context, userID string) ([]domain.Address, error)
	Update(ctx context.Context, address *domain.Address) (*domain.Address, error)
	DeleteByUserID(ctx context.Context, userID string) error
}

// PhoneRepository defines the persistence surface for phone records.
type PhoneRepository interface {
	Create(ctx context.Context, phone *domain.Phone) (*domain.Phone, error)
	FindByID(ctx context.Context, id string) (*domain.Phone, error)
	FindByUserID(ctx context.Context, userID string) ([]domain.Phone, error)
	Update(ctx context.Context, phone *domain.Phone) (*domain.Phone, error)
	DeleteByUserID(ctx context.Context, userID string) error
}
