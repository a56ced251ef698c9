package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/targetcar/user-system/internal/core/domain"
	"github.com/targetcar/user-system/internal/core/ports"
)

// LoginThrottle abstracts the failed-login counter (Redis). A nil throttle
// disables throttling entirely.
type LoginThrottle interface {
	TooManyAttempts(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// UserService implements registration, authentication and account updates.
type UserService struct {
	users     ports.UserRepository
	addresses ports.AddressRepository
	phones    ports.PhoneRepository
	tokens    *TokenManager
	throttle  LoginThrottle
	logger    zerolog.Logger
}

func NewUserService(
	users ports.UserRepository,
	addresses ports.AddressRepository,
	phones ports.PhoneRepository,
	tokens *TokenManager,
	throttle LoginThrottle,
	logger zerolog.Logger,
) *UserService {
	return &UserService{
		users:     users,
		addresses: addresses,
		phones:    phones,
		tokens:    tokens,
		throttle:  throttle,
		logger:    logger,
	}
}

// Register creates a new account. The email must not be taken; the returned
// DTO never echoes the password.
func (s *UserService) Register(ctx context.Context, input ports.UserDTO) (*ports.UserDTO, error) {
	email := strVal(input.Email)

	taken, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email %s: %w", email, err)
	}
	if taken {
		return nil, fmt.Errorf("email already registered %s: %w", email, domain.ErrEmailTaken)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(strVal(input.Password)), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := userToEntity(input, string(hash))
	user.CreatedAt = now
	user.UpdatedAt = now

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create user %s: %w", email, err)
	}

	s.logger.Info().Str("email", created.Email).Msg("user registered")

	dto := userToDTO(created, nil, nil)
	return &dto, nil
}

// Authenticate verifies the submitted credentials and issues a bearer token.
// Unknown email and wrong password fail identically with
// domain.ErrInvalidCredentials so callers cannot enumerate accounts.
func (s *UserService) Authenticate(ctx context.Context, input ports.UserDTO) (string, error) {
	email := strVal(input.Email)

	if s.throttle != nil {
		blocked, err := s.throttle.TooManyAttempts(ctx, email)
		if err != nil {
			s.logger.Warn().Err(err).Str("email", email).Msg("login throttle check failed, continuing")
		} else if blocked {
			return "", fmt.Errorf("login blocked for %s: %w", email, domain.ErrTooManyAttempts)
		}
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.recordFailure(ctx, email)
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("find user %s: %w", email, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(strVal(input.Password))) != nil {
		s.recordFailure(ctx, email)
		return "", domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, email); err != nil {
			s.logger.Warn().Err(err).Str("email", email).Msg("login throttle reset failed")
		}
	}

	token, err := s.tokens.Generate(user.Email)
	if err != nil {
		return "", fmt.Errorf("issue token for %s: %w", email, err)
	}
	return token, nil
}

func (s *UserService) recordFailure(ctx context.Context, email string) {
	if s.throttle == nil {
		return
	}
	if err := s.throttle.RecordFailure(ctx, email); err != nil {
		s.logger.Warn().Err(err).Str("email", email).Msg("failed to record login failure")
	}
}

// FindByEmail returns the full account view including owned addresses and
// phones, never the password hash.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*ports.UserDTO, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("email %s: %w", email, err)
	}

	addresses, err := s.addresses.FindByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load addresses for %s: %w", email, err)
	}
	phones, err := s.phones.FindByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load phones for %s: %w", email, err)
	}

	dto := userToDTO(user, addresses, phones)
	return &dto, nil
}

// DeleteByEmail removes the account and its owned addresses and phones.
// Deleting an absent email is a no-op: delete is idempotent.
func (s *UserService) DeleteByEmail(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("find user %s: %w", email, err)
	}

	if err := s.addresses.DeleteByUserID(ctx, user.ID); err != nil {
		return fmt.Errorf("delete addresses for %s: %w", email, err)
	}
	if err := s.phones.DeleteByUserID(ctx, user.ID); err != nil {
		return fmt.Errorf("delete phones for %s: %w", email, err)
	}
	if err := s.users.DeleteByEmail(ctx, email); err != nil {
		return fmt.Errorf("delete user %s: %w", email, err)
	}

	s.logger.Info().Str("email", email).Msg("user deleted")
	return nil
}

// UpdateProfile merges non-nil patch fields onto the account identified by
// the token subject. A present password is rehashed; an absent one is left
// untouched.
func (s *UserService) UpdateProfile(ctx context.Context, authHeader string, patch ports.UserDTO) (*ports.UserDTO, error) {
	email, err := s.tokens.SubjectFromHeader(authHeader)
	if err != nil {
		return nil, err
	}

	var hashed string
	if patch.Password != nil {
		h, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		hashed = string(h)
	}

	entity, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("subject %s: %w", email, err)
	}

	merged := mergeUser(patch, *entity, hashed)
	merged.UpdatedAt = time.Now().UTC()

	saved, err := s.users.Update(ctx, &merged)
	if err != nil {
		return nil, fmt.Errorf("update user %s: %w", email, err)
	}

	dto := userToDTO(saved, nil, nil)
	return &dto, nil
}

// RegisterAddress stores a new address owned by the token subject. The owner
// id always comes from the resolved user, never from the client.
func (s *UserService) RegisterAddress(ctx context.Context, authHeader string, dto ports.AddressDTO) (*ports.AddressDTO, error) {
	user, err := s.userFromHeader(ctx, authHeader)
	if err != nil {
		return nil, err
	}

	created, err := s.addresses.Create(ctx, addressToEntity(dto, user.ID))
	if err != nil {
		return nil, fmt.Errorf("create address for %s: %w", user.Email, err)
	}

	out := addressToDTO(*created)
	return &out, nil
}

// RegisterPhone stores a new phone owned by the token subject.
func (s *UserService) RegisterPhone(ctx context.Context, authHeader string, dto ports.PhoneDTO) (*ports.PhoneDTO, error) {
	user, err := s.userFromHeader(ctx, authHeader)
	if err != nil {
		return nil, err
	}

	created, err := s.phones.Create(ctx, phoneToEntity(dto, user.ID))
	if err != nil {
		return nil, fmt.Errorf("create phone for %s: %w", user.Email, err)
	}

	out := phoneToDTO(*created)
	return &out, nil
}

// UpdateAddress merges non-nil patch fields onto the address with the given
// id. The address is looked up by id alone, without an ownership check.
func (s *UserService) UpdateAddress(ctx context.Context, id string, patch ports.AddressDTO) (*ports.AddressDTO, error) {
	entity, err := s.addresses.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("address id %s: %w", id, err)
	}

	merged := mergeAddress(patch, *entity)
	saved, err := s.addresses.Update(ctx, &merged)
	if err != nil {
		return nil, fmt.Errorf("update address %s: %w", id, err)
	}

	out := addressToDTO(*saved)
	return &out, nil
}

// UpdatePhone merges non-nil patch fields onto the phone with the given id.
func (s *UserService) UpdatePhone(ctx context.Context, id string, patch ports.PhoneDTO) (*ports.PhoneDTO, error) {
	entity, err := s.phones.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("phone id %s: %w", id, err)
	}

	merged := mergePhone(patch, *entity)
	saved, err := s.phones.Update(ctx, &merged)
	if err != nil {
		return nil, fmt.Errorf("update phone %s: %w", id, err)
	}

	out := phoneToDTO(*saved)
	return &out, nil
}

func (s *UserService) userFromHeader(ctx context.Context, authHeader string) (*domain.User, error) {
	email, err := s.tokens.SubjectFromHeader(authHeader)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("subject %s: %w", email, err)
	}
	return user, nil
}
