package ginmw

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reoring/jsonmodel/middleware"
	"github.com/reoring/jsonmodel/object"
)

// ValidateJSON decodes the request body into an instance of t, stores
// it in the request context on success, and aborts with 400 and the
// failure payload otherwise.
func ValidateJSON(t *object.Type) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := t.FromReader(c.Request.Body, true)
		if err != nil {
			c.JSON(http.StatusBadRequest, middleware.ErrorPayload(err))
			c.Abort()
			return
		}
		c.Request = c.Request.WithContext(middleware.ContextWithObject(c.Request.Context(), o))
		c.Next()
	}
}

// GetObject fetches the validated object from gin.Context.
func GetObject(c *gin.Context) (*object.Object, bool) {
	return middleware.ObjectFromContext(c.Request.Context())
}
