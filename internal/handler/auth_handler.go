package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"taskboard/internal/service"
)

// AuthHandler handles account endpoints that do not require a bearer token.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// EmailRequest carries only an email address.
type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// PasswordRequest carries a new password.
type PasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

// Register godoc
// @Summary Register a new user
// @Description Creates an unconfirmed account and emails a confirmation link.
// @Tags users
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if _, err := h.authService.Register(c.Request().Context(), req.Name, req.Email, req.Password); err != nil {
		return errorResponse(err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Msg: "user created, check your email to confirm your account"})
}

// Login godoc
// @Summary Login user
// @Tags users
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return errorResponse(err)
	}

	return c.JSON(http.StatusOK, LoginResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Token: token,
	})
}

// Confirm godoc
// @Summary Confirm an account
// @Tags users
// @Produce json
// @Param token path string true "Confirmation token"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /users/confirm/{token} [get]
func (h *AuthHandler) Confirm(c echo.Context) error {
	if err := h.authService.Confirm(c.Request().Context(), c.Param("token")); err != nil {
		return errorResponseWithStatus(err, http.StatusForbidden)
	}
	return c.JSON(http.StatusOK, MessageResponse{Msg: "account confirmed"})
}

// RequestPasswordReset godoc
// @Summary Request a password reset email
// @Tags users
// @Accept json
// @Produce json
// @Param request body EmailRequest true "Account email"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/reset-password [post]
func (h *AuthHandler) RequestPasswordReset(c echo.Context) error {
	var req EmailRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.authService.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Msg: "we sent an email with the instructions"})
}

// ValidateResetToken godoc
// @Summary Check a password reset token
// @Tags users
// @Produce json
// @Param token path string true "Reset token"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/reset-password/{token} [get]
func (h *AuthHandler) ValidateResetToken(c echo.Context) error {
	if err := h.authService.ValidateResetToken(c.Request().Context(), c.Param("token")); err != nil {
		return errorResponseWithStatus(err, http.StatusNotFound)
	}
	return c.JSON(http.StatusOK, MessageResponse{Msg: "valid token"})
}

// ResetPassword godoc
// @Summary Set a new password
// @Tags users
// @Accept json
// @Produce json
// @Param token path string true "Reset token"
// @Param request body PasswordRequest true "New password"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /users/reset-password/{token} [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req PasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.authService.ResetPassword(c.Request().Context(), c.Param("token"), req.Password); err != nil {
		return errorResponseWithStatus(err, http.StatusBadRequest)
	}
	return c.JSON(http.StatusOK, MessageResponse{Msg: "password updated"})
}
