package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"taskboard/internal/errors"
	"taskboard/internal/model"
)

const currentUserKey = "currentUser"

// MessageResponse is the body of endpoints that only acknowledge.
type MessageResponse struct {
	Msg string `json:"msg"`
}

// errorResponse converts a service error into the API error body.
func errorResponse(err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
}

// errorResponseWithStatus is errorResponse for endpoints whose status is fixed
// regardless of the error family.
func errorResponseWithStatus(err error, status int) error {
	httpErr := errors.MapErrorToHTTP(err)
	if httpErr.StatusCode == http.StatusInternalServerError {
		return errorResponse(err)
	}
	return echo.NewHTTPError(status, httpErr.ToErrorResponse()).SetInternal(err)
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}

	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}
	return nil
}

func parseUUID(value, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid " + field,
			Code:  "INVALID_UUID",
		})
	}
	return id, nil
}

// parseDate accepts a calendar date or an RFC3339 timestamp. An empty value
// yields nil.
func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, errorResponse(errors.ErrInvalidDate)
}

// currentUser returns the user loaded by the CurrentUser middleware.
func currentUser(c echo.Context) (*model.User, error) {
	user, ok := c.Get(currentUserKey).(*model.User)
	if !ok || user == nil {
		return nil, errorResponse(errors.ErrUnauthenticated)
	}
	return user, nil
}
