package domain

import "errors"

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrAddressNotFound    = errors.New("address not found")
	ErrPhoneNotFound      = errors.New("phone not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidPostalCode  = errors.New("invalid postal code")
	ErrPostalNotFound     = errors.New("postal code not found")
	ErrTooManyAttempts    = errors.New("too many login attempts")
)
