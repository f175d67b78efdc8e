package router

import (
	"flashauction/packages/presentation/api/http/response"

	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
)

type serializer struct{}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func (serializer) Serialize(ctx echo.Context, v any, indent string) error {
	enc := json.NewEncoder(ctx.Response())

	if indent != "" {
		enc.SetIndent("", indent)
	}

	return enc.Encode(v)
}

// Malformed body is a client error, so it's never reported as 500.
func (serializer) Deserialize(ctx echo.Context, v any) error {
	if err := json.NewDecoder(ctx.Request().Body).Decode(v); err != nil {
		return response.FailedToDecodeRequestBody
	}
	return nil
}
