package router

import (
	controller "flashauction/packages/presentation/api/http/controllers"
	"flashauction/packages/presentation/api/http/request"
	"flashauction/packages/presentation/api/http/response"
	"fmt"
	"net/http"

	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
)

func handleHttpError(err error, ctx echo.Context) {
	if ctx.Response().Committed {
		return
	}

	httpErr := controller.ConvertError(err)

	message, ok := httpErr.Message.(string)
	if !ok {
		message = fmt.Sprint(httpErr.Message)
	}

	reqMeta := request.GetMetadata(ctx)

	if httpErr.Code >= http.StatusInternalServerError {
		log.Error(message, err.Error(), reqMeta)

		if hub := sentryecho.GetHubFromContext(ctx); hub != nil {
			hub.CaptureException(err)
		}
	} else {
		log.Debug(message+": "+http.StatusText(httpErr.Code), reqMeta)
	}

	if ctx.Request().Method == http.MethodHead {
		if e := ctx.NoContent(httpErr.Code); e != nil {
			log.Error("Failed to send error response", e.Error(), reqMeta)
		}
		return
	}

	if e := response.Fail(ctx, httpErr.Code, message); e != nil {
		log.Error("Failed to send error response", e.Error(), reqMeta)
	}
}
