package ports

import (
	"context"

	"github.com/targetcar/user-system/internal/core/domain"
)

// PostalLookupClient fetches structured address data for an already
// normalized 8-digit CEP from an external directory.
type PostalLookupClient interface {
	Fetch(ctx context.Context, cep string) (*domain.PostalAddress, error)
}

// PostalService validates and normalizes a raw CEP before delegating to the
// lookup client.
type PostalService interface {
	Lookup(ctx context.Context, rawCep string) (*domain.PostalAddress, error)
}
