package rest

import (
	"context"
	"errors"
	"net/http"

	"youthPolicyHub/domain"
	jsonres "youthPolicyHub/pkg/response"

	"github.com/labstack/echo/v4"
)

func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNoData),
		errors.Is(err, domain.ErrTotalCountFetch),
		errors.Is(err, domain.ErrPageFetch):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// respondError writes the error envelope. Server errors never echo their cause;
// upstream failures answer with their kind's message.
func respondError(c echo.Context, err error) error {
	status := errorStatus(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		message = http.StatusText(status)
		if kind := domain.Kind(err); kind != nil && status == http.StatusBadGateway {
			message = kind.Error()
		}
	}
	return c.JSON(status, jsonres.Error(domain.ErrorCode(err), message, nil))
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, jsonres.Error("INVALID_REQUEST", message, nil))
}

func currentUser(c echo.Context) (uint, bool) {
	userID, ok := c.Get("user_id").(uint)
	return userID, ok && userID != 0
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, jsonres.Error("UNAUTHORIZED", "unauthorized", nil))
}
