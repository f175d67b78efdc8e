package router

import (
	"flashauction/packages/presentation/api/http/response"
	"io"

	"github.com/labstack/echo/v4"
)

type binder struct{}

// Binds only JSON body, params and query are read by controllers explicitly.
func (b *binder) Bind(i any, ctx echo.Context) error {
	body, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return response.FailedToReadRequestBody
	}

	if len(body) == 0 {
		return response.FailedToDecodeRequestBody
	}

	if err := json.Unmarshal(body, i); err != nil {
		return response.FailedToDecodeRequestBody
	}

	return nil
}
