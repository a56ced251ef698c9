package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/targetcar/user-system/internal/api/metrics"
	"github.com/targetcar/user-system/internal/core/domain"
	"github.com/targetcar/user-system/internal/core/ports"
)

// PostalHandler exposes the CEP lookup endpoint.
type PostalHandler struct {
	service ports.PostalService
}

func NewPostalHandler(service ports.PostalService) *PostalHandler {
	return &PostalHandler{service: service}
}

// Lookup handles GET /usuario/endereco/:cep.
func (h *PostalHandler) Lookup(c echo.Context) error {
	result, err := h.service.Lookup(c.Request().Context(), c.Param("cep"))
	if err != nil {
		metrics.PostalLookupsTotal.WithLabelValues(lookupResult(err)).Inc()
		return err
	}

	metrics.PostalLookupsTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, result)
}

func lookupResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidPostalCode):
		return "invalid"
	case errors.Is(err, domain.ErrPostalNotFound):
		return "not_found"
	default:
		return "error"
	}
}
