package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/targetcar/user-system/internal/core/domain"
	"github.com/targetcar/user-system/internal/core/ports"
)

// PostalCodeService validates a raw CEP and delegates the lookup to the
// external directory client. No caching, no retries: a client failure
// propagates to the caller.
type PostalCodeService struct {
	client ports.PostalLookupClient
	logger zerolog.Logger
}

func NewPostalCodeService(client ports.PostalLookupClient, logger zerolog.Logger) *PostalCodeService {
	return &PostalCodeService{client: client, logger: logger}
}

// Lookup normalizes rawCep, validates it and fetches the address data.
// Invalid input fails before any external call.
func (s *PostalCodeService) Lookup(ctx context.Context, rawCep string) (*domain.PostalAddress, error) {
	cep, err := normalizeCep(rawCep)
	if err != nil {
		return nil, err
	}

	result, err := s.client.Fetch(ctx, cep)
	if err != nil {
		return nil, fmt.Errorf("lookup cep %s: %w", cep, err)
	}

	s.logger.Debug().Str("cep", cep).Msg("postal lookup ok")
	return result, nil
}

// normalizeCep strips spaces and hyphens and requires exactly 8 ASCII digits.
func normalizeCep(raw string) (string, error) {
	cep := strings.NewReplacer(" ", "", "-", "").Replace(raw)
	if len(cep) != 8 {
		return "", fmt.Errorf("cep %q must have exactly 8 digits: %w", raw, domain.ErrInvalidPostalCode)
	}
	for _, r := range cep {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("cep %q contains invalid characters: %w", raw, domain.ErrInvalidPostalCode)
		}
	}
	return cep, nil
}
