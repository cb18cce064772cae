package middleware

import (
	"context"
	"errors"

	"github.com/reoring/jsonmodel/jsonschema"
	"github.com/reoring/jsonmodel/object"
)

// ctxKey is the private context key for validated request objects.
type ctxKey struct{}

// ContextWithObject attaches a validated object to the context.
func ContextWithObject(ctx context.Context, o *object.Object) context.Context {
	return context.WithValue(ctx, ctxKey{}, o)
}

// ObjectFromContext retrieves the validated object from the context.
func ObjectFromContext(ctx context.Context) (*object.Object, bool) {
	o, ok := ctx.Value(ctxKey{}).(*object.Object)
	return o, ok
}

// ErrorPayload shapes a decode or validation failure for a JSON
// response. Validation failures carry the offending instance location.
func ErrorPayload(err error) map[string]any {
	payload := map[string]any{"error": err.Error()}
	var ve *jsonschema.ValidationError
	if errors.As(err, &ve) && ve.Path != "" {
		payload["path"] = ve.Path
	}
	return payload
}
