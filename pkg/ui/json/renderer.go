// Package json provides machine-readable JSON output
package json

import (
	"encoding/json"
	"io"

	"github.com/arthur-debert/annexfs/pkg/errors"
)

// Renderer provides JSON output for machine consumption
type Renderer struct {
	encoder *json.Encoder
}

// New creates a new JSON renderer
func New(output io.Writer) (*Renderer, error) {
	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")
	return &Renderer{encoder: encoder}, nil
}

// RenderResult encodes any result value using its json tags.
func (r *Renderer) RenderResult(result interface{}) error {
	return r.encoder.Encode(result)
}

// RenderError renders an error as a JSON object carrying its code, message
// and details.
func (r *Renderer) RenderError(err error) error {
	return r.encoder.Encode(ErrorObject(err))
}

// RenderMessage renders a simple message as JSON
func (r *Renderer) RenderMessage(msg string) error {
	return r.encoder.Encode(map[string]string{"message": msg})
}

// ErrorObject is the document emitted for an error by the structured
// renderers.
func ErrorObject(err error) map[string]interface{} {
	obj := map[string]interface{}{
		"code":    string(errors.GetErrorCode(err)),
		"message": errors.GetErrorMessage(err),
	}
	if details := errors.GetErrorDetails(err); len(details) > 0 {
		obj["details"] = details
	}
	if cause := errors.GetCause(err); cause != nil {
		obj["cause"] = cause.Error()
	}
	return map[string]interface{}{"error": obj}
}
