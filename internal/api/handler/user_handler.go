package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/targetcar/user-system/internal/api/metrics"
	"github.com/targetcar/user-system/internal/core/domain"
	"github.com/targetcar/user-system/internal/core/ports"
)

// UserHandler handles HTTP requests for account operations. Error-to-status
// mapping is done centrally by the API error handler.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Register handles POST /usuario.
func (h *UserHandler) Register(c echo.Context) error {
	var req registerUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	dto, err := h.service.Register(c.Request().Context(), toRegisterDTO(req))
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.Inc()
	return c.JSON(http.StatusOK, toUserResponse(dto))
}

// Login handles POST /usuario/login.
func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, err := h.service.Authenticate(c.Request().Context(), toLoginDTO(req))
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, tokenResponse{Token: token})
}

func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return "throttled"
	default:
		return "error"
	}
}

// FindByEmail handles GET /usuario?email=.
func (h *UserHandler) FindByEmail(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email query parameter is required")
	}

	dto, err := h.service.FindByEmail(c.Request().Context(), email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(dto))
}

// DeleteByEmail handles DELETE /usuario/:email. Deleting an absent email
// still answers 200.
func (h *UserHandler) DeleteByEmail(c echo.Context) error {
	if err := h.service.DeleteByEmail(c.Request().Context(), c.Param("email")); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

// UpdateProfile handles PUT /usuario. The acting user comes from the bearer
// token subject; absent body fields are left unchanged.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	authHeader := c.Request().Header.Get("Authorization")
	dto, err := h.service.UpdateProfile(c.Request().Context(), authHeader, toUserPatch(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(dto))
}

// RegisterAddress handles POST /usuario/endereco for the authenticated user.
func (h *UserHandler) RegisterAddress(c echo.Context) error {
	var req registerAddressRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	authHeader := c.Request().Header.Get("Authorization")
	dto, err := h.service.RegisterAddress(c.Request().Context(), authHeader, toAddressDTO(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAddressResponse(dto))
}

// RegisterPhone handles POST /usuario/telefone for the authenticated user.
func (h *UserHandler) RegisterPhone(c echo.Context) error {
	var req registerPhoneRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	authHeader := c.Request().Header.Get("Authorization")
	dto, err := h.service.RegisterPhone(c.Request().Context(), authHeader, toPhoneDTO(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPhoneResponse(dto))
}

// UpdateAddress handles PUT /usuario/endereco?id=.
func (h *UserHandler) UpdateAddress(c echo.Context) error {
	id := c.QueryParam("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "id query parameter is required")
	}

	var req updateAddressRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	dto, err := h.service.UpdateAddress(c.Request().Context(), id, toAddressPatch(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAddressResponse(dto))
}

// UpdatePhone handles PUT /usuario/telefone?id=.
func (h *UserHandler) UpdatePhone(c echo.Context) error {
	id := c.QueryParam("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "id query parameter is required")
	}

	var req updatePhoneRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	dto, err := h.service.UpdatePhone(c.Request().Context(), id, toPhonePatch(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPhoneResponse(dto))
}
