// Package text renders annexfs results as human-readable text, optionally
// styled for a color terminal.
package text

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/arthur-debert/annexfs/pkg/annex"
	"github.com/arthur-debert/annexfs/pkg/errors"
	"github.com/arthur-debert/annexfs/pkg/ui/styles"
	"github.com/dustin/go-humanize"
)

// Renderer writes plain or styled text.
type Renderer struct {
	output io.Writer
	styled bool
}

// New creates a plain text renderer.
func New(output io.Writer) (*Renderer, error) {
	return &Renderer{output: output}, nil
}

// NewStyled creates a renderer that colors its output with the registered
// styles.
func NewStyled(output io.Writer) (*Renderer, error) {
	return &Renderer{output: output, styled: true}, nil
}

func (r *Renderer) style(name, s string) string {
	if !r.styled || s == "" {
		return s
	}
	return styles.Render(name, s)
}

// RenderResult renders an engine result.
func (r *Renderer) RenderResult(result interface{}) error {
	switch v := result.(type) {
	case *annex.Result:
		return r.renderResult(v)
	case *annex.Status:
		return r.renderStatus(v)
	case []annex.Listing:
		return r.renderListings(v)
	default:
		_, err := fmt.Fprintf(r.output, "%+v\n", result)
		return err
	}
}

func (r *Renderer) renderResult(res *annex.Result) error {
	_, err := fmt.Fprintf(r.output, "  %s %s %s\n  %s %s\n",
		r.style("FilePath", res.Path),
		r.style("Muted", "->"),
		r.style("FilePath", res.Entry.Payload),
		r.style("Muted", "entry"),
		r.style("EntryID", entrySummary(res.Entry.ID, string(res.Entry.Kind), res.Size)))
	return err
}

func entrySummary(id, kind string, size int64) string {
	if size > 0 {
		return fmt.Sprintf("%s (%s, %s)", id, kind, humanize.IBytes(uint64(size)))
	}
	return fmt.Sprintf("%s (%s)", id, kind)
}

func (r *Renderer) renderStatus(st *annex.Status) error {
	state := string(st.State)
	switch st.State {
	case annex.PathAnnexed:
		state = r.style("Success", state)
	case annex.PathBroken:
		state = r.style("Error", state)
	default:
		state = r.style("Muted", state)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", r.style("FilePath", st.Path), state)
	if st.Entry != nil {
		fmt.Fprintf(&b, "  entry:   %s\n", r.style("EntryID", st.Entry.ID))
		fmt.Fprintf(&b, "  payload: %s\n", r.style("FilePath", st.Entry.Payload))
		fmt.Fprintf(&b, "  kind:    %s\n", st.Entry.Kind)
		fmt.Fprintf(&b, "  size:    %s\n", humanize.IBytes(uint64(st.Size)))
		fmt.Fprintf(&b, "  state:   %s\n", st.Entry.State)
	}
	_, err := io.WriteString(r.output, b.String())
	return err
}

func (r *Renderer) renderListings(listings []annex.Listing) error {
	if len(listings) == 0 {
		_, err := fmt.Fprintln(r.output, r.style("Muted", "The annex is empty."))
		return err
	}

	var buf bytes.Buffer
	writer := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tKIND\tSIZE\tNAME\tPROBLEM")
	stale := make(map[int]bool)
	for i, l := range listings {
		problem := "-"
		if l.Stale {
			problem = l.Problem
			stale[i+1] = true
		}
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\n",
			l.Entry.ID, l.Entry.Kind, humanize.IBytes(uint64(l.Size)), l.Entry.Name(), problem)
	}
	if err := writer.Flush(); err != nil {
		return err
	}

	// Lines are styled after alignment so escape codes do not skew columns.
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	for i, line := range lines {
		switch {
		case i == 0:
			line = r.style("TableHeader", line)
		case stale[i]:
			line = r.style("Stale", line)
		}
		if _, err := fmt.Fprintln(r.output, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderError renders an error as "CODE - message", followed by its details
// in key order and the underlying cause.
func (r *Renderer) RenderError(err error) error {
	code := errors.GetErrorCode(err)
	var b strings.Builder
	fmt.Fprintf(&b, "%s - %s\n", r.style("Error", string(code)), errors.GetErrorMessage(err))

	details := errors.GetErrorDetails(err)
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "  %s: %v\n", r.style("Muted", k), details[k])
	}
	if cause := errors.GetCause(err); cause != nil {
		fmt.Fprintf(&b, "  %s: %v\n", r.style("Muted", "cause"), cause)
	}
	_, werr := io.WriteString(r.output, b.String())
	return werr
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, r.style("Info", msg))
	return err
}
