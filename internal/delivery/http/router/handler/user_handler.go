package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"bazaar/internal/delivery/http/response"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// UserHandler handles account registration and session endpoints.
type UserHandler struct {
	userUsecase usecase.UserUsecase
	logger      *slog.Logger
}

// NewUserHandler is the constructor for UserHandler.
func NewUserHandler(userUsecase usecase.UserUsecase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userUsecase: userUsecase,
		logger:      logger,
	}
}

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Username string `json:"username" validate:"required"`
	FullName string `json:"full_name"`
	Type     string `json:"type"     validate:"required"`
	Company  string `json:"company"`
	Position string `json:"position"`
}

// Register handles POST /register/.
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid request format: "+err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	_, err := h.userUsecase.Register(c.Request().Context(), usecase.RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
		Type:     req.Type,
		Company:  req.Company,
		Position: req.Position,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusCreated, statusTrue)
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /login/. A credential mismatch deliberately returns the
// same terse body whether the account exists or not.
func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid request format: "+err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	out, err := h.userUsecase.Login(c.Request().Context(), usecase.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, map[string]any{"status": "invalid data"})
		}

		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status":        true,
		"message":       fmt.Sprintf("you are now logged in as %s", req.Username),
		"access_token":  out.AccessToken,
		"refresh_token": out.RefreshToken,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshToken handles POST /token_refresh/.
func (h *UserHandler) RefreshToken(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid request format: "+err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	out, err := h.userUsecase.RefreshToken(c.Request().Context(), usecase.RefreshTokenInput{
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"Status":       true,
		"access_token": out.AccessToken,
	})
}

// Logout handles POST /logout/. Revoking an unknown token is a successful noop.
func (h *UserHandler) Logout(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid request format: "+err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.userUsecase.Logout(c.Request().Context(), usecase.LogoutInput{
		RefreshToken: req.RefreshToken,
	}); err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, statusTrue)
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
