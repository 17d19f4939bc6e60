package handler

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"taskboard/internal/auth"
	"taskboard/internal/errors"
	"taskboard/internal/service"
)

// UserHandler serves the authenticated user.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CurrentUser loads the user named by the verified bearer token. It runs
// after the JWT middleware; a token for a user that no longer exists is
// rejected.
func (h *UserHandler) CurrentUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := c.Get("user").(*jwt.Token)
		if !ok {
			return errorResponse(errors.ErrUnauthenticated)
		}
		claims, ok := token.Claims.(*auth.Claims)
		if !ok {
			return errorResponse(errors.ErrUnauthenticated)
		}

		user, err := h.userService.GetUser(c.Request().Context(), claims.UserID)
		if err != nil {
			if errors.IsNotFound(err) {
				return errorResponse(errors.ErrUnauthenticated)
			}
			return errorResponse(err)
		}

		c.Set(currentUserKey, user)
		return next(c)
	}
}

// Profile godoc
// @Summary Current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.UserSummary
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/profile [get]
func (h *UserHandler) Profile(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user.Summary())
}
