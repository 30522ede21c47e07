// Package yaml renders results as YAML documents.
package yaml

import (
	"io"

	"github.com/arthur-debert/annexfs/pkg/ui/json"
	"gopkg.in/yaml.v3"
)

// Renderer writes one YAML document per call.
type Renderer struct {
	output io.Writer
}

// New creates a new YAML renderer
func New(output io.Writer) (*Renderer, error) {
	return &Renderer{output: output}, nil
}

func (r *Renderer) encode(v interface{}) error {
	encoder := yaml.NewEncoder(r.output)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	return encoder.Close()
}

// RenderResult encodes any result value using its yaml tags.
func (r *Renderer) RenderResult(result interface{}) error {
	return r.encode(result)
}

// RenderError renders an error with the same fields as the JSON renderer.
func (r *Renderer) RenderError(err error) error {
	return r.encode(json.ErrorObject(err))
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	return r.encode(map[string]string{"message": msg})
}
