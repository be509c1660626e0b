package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rhanierex/Gym-Management/internal/membership"
)

// ErrorPayload is the JSON body every failed request carries
type ErrorPayload struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Error codes surfaced to API clients
const (
	CodeInvalidInput  = "INVALID_INPUT"
	CodeNotFound      = "NOT_FOUND"
	CodeExpired       = "MEMBERSHIP_EXPIRED"
	CodeConflict      = "CONFLICT"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeInternalError = "INTERNAL_ERROR"
)

// CustomErrorHandler maps domain errors onto HTTP statuses. Anything not in
// the taxonomy is a 500 with a generic body; the real error only goes to the
// log.
func CustomErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	payload := ErrorPayload{Error: "something went wrong, please try again later", Code: CodeInternalError}

	var (
		validationErr *membership.ValidationError
		notFoundErr   *membership.NotFoundError
		expiredErr    *membership.ExpiredError
		conflictErr   *membership.ConflictError
		httpErr       *echo.HTTPError
	)

	switch {
	case errors.As(err, &validationErr):
		status = http.StatusUnprocessableEntity
		payload = ErrorPayload{Error: validationErr.Error(), Code: CodeInvalidInput}
	case errors.As(err, &notFoundErr):
		status = http.StatusNotFound
		payload = ErrorPayload{Error: notFoundErr.Error(), Code: CodeNotFound}
	case errors.As(err, &expiredErr):
		status = http.StatusForbidden
		payload = ErrorPayload{Error: expiredErr.Error(), Code: CodeExpired}
	case errors.As(err, &conflictErr):
		status = http.StatusConflict
		payload = ErrorPayload{Error: conflictErr.Error(), Code: CodeConflict}
	case errors.As(err, &httpErr):
		status = httpErr.Code
		payload.Code = codeForStatus(status)
		if msg, ok := httpErr.Message.(string); ok && msg != "" {
			payload.Error = msg
		}
	}

	if status >= http.StatusInternalServerError {
		c.Logger().Error(err)
	}

	if writeErr := c.JSON(status, payload); writeErr != nil {
		c.Logger().Error(writeErr)
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return CodeUnauthorized
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return CodeInvalidInput
	case http.StatusConflict:
		return CodeConflict
	default:
		return CodeInternalError
	}
}
