package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/targetcar/user-system/internal/core/domain"
)

const (
	defaultBaseURL = "https://viacep.com.br"
	defaultTimeout = 10 * time.Second
)

// ViaCepClient fetches address data from the public ViaCEP directory.
type ViaCepClient struct {
	baseURL string
	http    *http.Client
}

func NewViaCepClient(baseURL string, timeout time.Duration) *ViaCepClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &ViaCepClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Fetch looks up a normalized 8-digit CEP. The directory answers unknown but
// well-formed codes with 200 and an "erro" marker, which maps to
// domain.ErrPostalNotFound.
func (c *ViaCepClient) Fetch(ctx context.Context, cep string) (*domain.PostalAddress, error) {
	url := fmt.Sprintf("%s/ws/%s/json/", c.baseURL, cep)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("viacep request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("viacep call: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return nil, fmt.Errorf("cep %s rejected by directory: %w", cep, domain.ErrInvalidPostalCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("viacep returned status %d", resp.StatusCode)
	}

	var payload struct {
		domain.PostalAddress
		Erro any `json:"erro"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode viacep response: %w", err)
	}
	if payload.Erro != nil {
		return nil, fmt.Errorf("cep %s: %w", cep, domain.ErrPostalNotFound)
	}

	return &payload.PostalAddress, nil
}
