package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Format selects how command results, statuses and errors are printed.
type Format int

const (
	// FormatAuto resolves to FormatTerminal or FormatText once the output
	// stream is known.
	FormatAuto Format = iota
	// FormatTerminal is the styled listing for interactive use.
	FormatTerminal
	// FormatText is the same listing without escape sequences, for logs and
	// pipes.
	FormatText
	// FormatJSON emits one JSON document per result for scripts.
	FormatJSON
	// FormatYAML emits the same document as YAML.
	FormatYAML
)

var formatNames = map[Format]string{
	FormatAuto:     "auto",
	FormatTerminal: "term",
	FormatText:     "text",
	FormatJSON:     "json",
	FormatYAML:     "yaml",
}

// formatAliases lists the extra spellings accepted by --format and the
// format config key.
var formatAliases = map[string]Format{
	"":         FormatAuto,
	"terminal": FormatTerminal,
	"plain":    FormatText,
	"yml":      FormatYAML,
}

// String returns the canonical --format value for f.
func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unknown"
}

// ParseFormat reads a --format value. Case and surrounding blanks are
// ignored.
func ParseFormat(s string) (Format, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if f, ok := formatAliases[key]; ok {
		return f, nil
	}
	for f, name := range formatNames {
		if name == key {
			return f, nil
		}
	}
	return FormatAuto, fmt.Errorf("unknown format: %s", s)
}

// DetectFormat resolves FormatAuto for output. Styling is only used on a
// color-capable terminal and never when NO_COLOR is set.
func DetectFormat(output *os.File) Format {
	if os.Getenv("NO_COLOR") != "" {
		return FormatText
	}
	fd := output.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return FormatText
	}
	if termenv.ColorProfile() == termenv.Ascii {
		return FormatText
	}
	return FormatTerminal
}
