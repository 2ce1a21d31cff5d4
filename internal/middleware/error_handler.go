package middleware

import (
	"errors"
	"net/http"

	"youthPolicyHub/pkg/logger"
	jsonres "youthPolicyHub/pkg/response"

	"github.com/labstack/echo/v4"
)

// ErrorHandler renders errors that escaped a handler in the standard envelope.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Internal server error"

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
	} else {
		logger.Error("Unhandled error", "path", c.Path(), "error", err)
	}

	var sendErr error
	if c.Request().Method == http.MethodHead {
		sendErr = c.NoContent(code)
	} else {
		sendErr = c.JSON(code, jsonres.Error(statusCode(code), message, nil))
	}
	if sendErr != nil {
		logger.Error("Failed to send error response", "error", sendErr)
	}
}

func statusCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "INVALID_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	}
	return "SERVER_ERROR"
}
