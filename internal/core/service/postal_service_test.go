package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/targetcar/user-system/internal/core/domain"
)

type stubPostalClient struct {
	calls  []string
	result *domain.PostalAddress
	err    error
}

func (c *stubPostalClient) Fetch(_ context.Context, cep string) (*domain.PostalAddress, error) {
	c.calls = append(c.calls, cep)
	if c.err != nil {
		return nil, c.err
	}
	return c.result, nil
}

func TestPostalCodeService_NormalizesBeforeFetch(t *testing.T) {
	for _, tc := range []struct {
		raw  string
		want string
	}{
		{"01310100", "01310100"},
		{"01310-100", "01310100"},
		{"013 10-100", "01310100"},
	} {
		client := &stubPostalClient{result: &domain.PostalAddress{Cep: "01310-100"}}
		svc := NewPostalCodeService(client, zerolog.Nop())

		if _, err := svc.Lookup(context.Background(), tc.raw); err != nil {
			t.Fatalf("%q: %v", tc.raw, err)
		}
		if len(client.calls) != 1 || client.calls[0] != tc.want {
			t.Fatalf("%q: fetched %v, want [%s]", tc.raw, client.calls, tc.want)
		}
	}
}

func TestPostalCodeService_InvalidInputFailsBeforeFetch(t *testing.T) {
	for _, raw := range []string{
		"1234567",    // too short
		"123456789",  // too long
		"abc12345",   // letters
		"01310_100",  // unsupported separator
		"",
		"--------",
	} {
		client := &stubPostalClient{}
		svc := NewPostalCodeService(client, zerolog.Nop())

		_, err := svc.Lookup(context.Background(), raw)
		if !errors.Is(err, domain.ErrInvalidPostalCode) {
			t.Fatalf("%q: expected ErrInvalidPostalCode, got %v", raw, err)
		}
		if len(client.calls) != 0 {
			t.Fatalf("%q: client called with %v", raw, client.calls)
		}
	}
}

func TestPostalCodeService_ClientErrorPropagates(t *testing.T) {
	client := &stubPostalClient{err: domain.ErrPostalNotFound}
	svc := NewPostalCodeService(client, zerolog.Nop())

	_, err := svc.Lookup(context.Background(), "99999999")
	if !errors.Is(err, domain.ErrPostalNotFound) {
		t.Fatalf("expected ErrPostalNotFound, got %v", err)
	}
}
