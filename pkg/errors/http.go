package errors

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// codeMapping maps error codes to HTTP status codes.
var codeMapping = map[string]int{
	ErrInternal:        http.StatusInternalServerError,
	ErrNotFound:        http.StatusNotFound,
	ErrInvalidArgument: http.StatusBadRequest,
	ErrUnauthenticated: http.StatusUnauthorized,
	ErrUnauthorized:    http.StatusForbidden,
	ErrConflict:        http.StatusConflict,
	ErrRateLimited:     http.StatusTooManyRequests,
	ErrTimeout:         http.StatusGatewayTimeout,
	ErrNotImplemented:  http.StatusNotImplemented,
}

// ToHTTPStatus maps an error code to an HTTP status code.
func ToHTTPStatus(code string) int {
	if status, ok := codeMapping[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ToHTTPError converts an error into an Echo HTTP error.
func ToHTTPError(err error) *echo.HTTPError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if As(err, &appErr) {
		return echo.NewHTTPError(ToHTTPStatus(appErr.Code()), appErr.Error())
	}

	if echoErr, ok := err.(*echo.HTTPError); ok {
		return echoErr
	}

	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
