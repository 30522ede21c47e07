// Package ui renders annexfs results and errors in the format the user
// asked for: styled terminal text, plain text, JSON or YAML.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/arthur-debert/annexfs/pkg/ui/json"
	"github.com/arthur-debert/annexfs/pkg/ui/text"
	"github.com/arthur-debert/annexfs/pkg/ui/yaml"
)

// Renderer is the common interface for all output renderers.
type Renderer interface {
	// RenderResult renders an *annex.Result, *annex.Status or []annex.Listing.
	RenderResult(result interface{}) error

	// RenderError renders an error with appropriate formatting
	RenderError(err error) error

	// RenderMessage renders a simple message
	RenderMessage(msg string) error
}

// NewRenderer creates a new renderer based on the specified format.
// FormatAuto inspects output when it is a file and falls back to plain
// text otherwise.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	switch format {
	case FormatAuto:
		if file, ok := output.(*os.File); ok {
			return NewRenderer(DetectFormat(file), output)
		}
		return NewRenderer(FormatText, output)
	case FormatTerminal:
		return text.NewStyled(output)
	case FormatText:
		return text.New(output)
	case FormatJSON:
		return json.New(output)
	case FormatYAML:
		return yaml.New(output)
	default:
		return nil, fmt.Errorf("unknown format: %v", format)
	}
}

// IsStructured reports whether the format is meant for machines.
func (f Format) IsStructured() bool {
	return f == FormatJSON || f == FormatYAML
}
