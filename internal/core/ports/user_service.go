package ports

import "context"

// UserDTO is the transfer shape for user data crossing the service boundary.
// Pointer fields implement partial-update semantics: nil means "leave the
// stored value unchanged". Password is only ever read on the way in; it is
// never populated on the way out.
type UserDTO struct {
	ID        string
	Name      *string
	Email     *string
	Password  *string
	Addresses []AddressDTO
	Phones    []PhoneDTO
}

// AddressDTO is the transfer shape for address data. Nil fields are left
// unchanged on update.
type AddressDTO struct {
	ID         string
	Street     *string
	Complement *string
	District   *string
	City       *string
	State      *string
	PostalCode *string
}

// PhoneDTO is the transfer shape for phone data. Nil fields are left
// unchanged on update.
type PhoneDTO struct {
	ID     string
	Number *string
	DDD    *string
}

// UserService defines the use-case operations for account management.
// Operations taking an authHeader expect the raw Authorization header value
// ("Bearer <token>") and resolve the acting user from the token subject.
type UserService interface {
	Register(ctx context.Context, input UserDTO) (*UserDTO, error)
	Authenticate(ctx context.Context, input UserDTO) (string, error)
	FindByEmail(ctx context.Context, email string) (*UserDTO, error)
	DeleteByEmail(ctx context.Context, email string) error
	UpdateProfile(ctx context.Context, authHeader string, patch UserDTO) (*UserDTO, error)
	RegisterAddress(ctx context.Context, authHeader string, dto AddressDTO) (*AddressDTO, error)
	RegisterPhone(ctx context.Context, authHeader string, dto PhoneDTO) (*PhoneDTO, error)
	UpdateAddress(ctx context.Context, id string, patch AddressDTO) (*AddressDTO, error)
	UpdatePhone(ctx context.Context, id string, patch PhoneDTO) (*PhoneDTO, error)
}
