package echomw

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/reoring/jsonmodel/middleware"
	"github.com/reoring/jsonmodel/object"
)

// ValidateJSON decodes the request body into an instance of t, stores
// it in the request context on success, or returns 400 with the
// failure payload.
func ValidateJSON(t *object.Type) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			o, err := t.FromReader(c.Request().Body, true)
			if err != nil {
				return c.JSON(http.StatusBadRequest, middleware.ErrorPayload(err))
			}
			ctx := middleware.ContextWithObject(c.Request().Context(), o)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// GetObject fetches the validated object from echo.Context.
func GetObject(c echo.Context) (*object.Object, bool) {
	return middleware.ObjectFromContext(c.Request().Context())
}
