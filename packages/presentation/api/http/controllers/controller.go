package controller

import (
	"context"
	"errors"
	Error "flashauction/packages/common/errors"
	"flashauction/packages/common/logger"
	"flashauction/packages/presentation/api/http/request"
	RequestBody "flashauction/packages/presentation/data/request"
	"net/http"

	"github.com/labstack/echo/v4"
)

var Logger = logger.NewSource("CONTROLLER", logger.Default)

// Binds request body to dest and validates it.
// Validation failure is returned as *echo.HTTPError with invalidStatus.
func BindAndValidate[T RequestBody.Validator](ctx echo.Context, dest T, invalidStatus int) error {
	reqMeta := request.GetMetadata(ctx)

	Logger.Trace("Binding and validating request...", reqMeta)

	if err := ctx.Bind(dest); err != nil {
		Logger.Error("Failed to bind request", err.Error(), reqMeta)
		return err
	}

	if err := dest.Validate(); err != nil {
		Logger.Error("Request validation failed", err.Error(), reqMeta)
		return echo.NewHTTPError(invalidStatus, err.Error())
	}

	Logger.Trace("Binding and validating request: OK", reqMeta)

	return nil
}

// Message of the store faults shown to the client.
func StoreFaultMessage(e *Error.Store) string {
	return "Unexpected error occurred. Code: " + e.Code + ". " + e.Message
}

// Converts errors of core and infrastructure into *echo.HTTPError.
func ConvertError(err error) *echo.HTTPError {
	if err == nil {
		return nil
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return echo.NewHTTPError(Error.StatusTimeout.Status(), Error.StatusTimeout.Error())
	}

	if ok, status := Error.IsStatusError(err); ok {
		return echo.NewHTTPError(status.Status(), status.Error())
	}

	if storeErr, ok := Error.AsStore(err); ok {
		if storeErr.NotFound {
			return echo.NewHTTPError(Error.StatusNotFound.Status(), Error.StatusNotFound.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, StoreFaultMessage(storeErr))
	}

	return echo.NewHTTPError(Error.StatusInternalError.Status(), Error.StatusInternalError.Error())
}

// Logs err with request metadata and converts it.
func HandleError(ctx echo.Context, msg string, err error) error {
	httpErr := ConvertError(err)

	if httpErr.Code >= http.StatusInternalServerError {
		Logger.Error(msg, err.Error(), request.GetMetadata(ctx))
	} else {
		Logger.Debug(msg+": "+err.Error(), request.GetMetadata(ctx))
	}

	return httpErr
}
