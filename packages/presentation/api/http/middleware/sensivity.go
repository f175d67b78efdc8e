package middleware

import (
	"errors"
	"flashauction/packages/presentation/api/http/request"

	"github.com/labstack/echo/v4"
)

// Sensivity of endpoint defines how loud its rejected requests are logged.
type EndpointSensivity int

const (
	InsignificantEndpoint EndpointSensivity = iota
	DefaultEndpoint
	SensitiveEndpoint
)

func (s EndpointSensivity) Validate() error {
	if s < InsignificantEndpoint || s > SensitiveEndpoint {
		return errors.New("endpoint sensivity doesn't exist")
	}
	return nil
}

const sensivityKey = "endpoint_sensivity"

func Sensivity(s EndpointSensivity) echo.MiddlewareFunc {
	if err := s.Validate(); err != nil {
		log.Panic("Failed to set endpoint sensivity", err.Error(), nil)
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			ctx.Set(sensivityKey, s)
			return next(ctx)
		}
	}
}

// Returns DefaultEndpoint if Sensivity middleware wasn't applied.
func GetSensivity(ctx echo.Context) EndpointSensivity {
	s, ok := ctx.Get(sensivityKey).(EndpointSensivity)
	if !ok {
		log.Trace("Endpoint sensivity isn't set, default is used", request.GetMetadata(ctx))
		return DefaultEndpoint
	}
	return s
}
