// Response envelope: {"status": "success" | "error", "message": "...", "data": ...}
package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

type Body struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func Success(ctx echo.Context, code int, message string, data any) error {
	return ctx.JSON(code, Body{
		Status:  StatusSuccess,
		Message: message,
		Data:    data,
	})
}

func Fail(ctx echo.Context, code int, message string) error {
	return ctx.JSON(code, Body{
		Status:  StatusError,
		Message: message,
	})
}

var FailedToReadRequestBody = echo.NewHTTPError(
	http.StatusBadRequest,
	"Failed to read request body",
)

var FailedToDecodeRequestBody = echo.NewHTTPError(
	http.StatusBadRequest,
	"Failed to decode request body",
)
