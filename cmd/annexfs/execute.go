package annexfs

import (
	"fmt"
	"io"

	"github.com/arthur-debert/annexfs/pkg/errors"
	"github.com/arthur-debert/annexfs/pkg/ui"
	"github.com/spf13/cobra"
)

// Exit codes returned by Execute.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitFatal       = 2
	ExitInterrupted = 130
)

// Execute runs the command line and returns the process exit code. Errors
// are reported on stderr.
func Execute(args []string, stdout, stderr io.Writer) int {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	if err == nil {
		return ExitOK
	}
	return reportError(rootCmd, stderr, err)
}

// ExitCode maps an error to the exit code the process terminates with.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.IsErrorCode(err, errors.ErrInterrupted):
		return ExitInterrupted
	case errors.IsFatal(err):
		return ExitFatal
	default:
		return ExitFailure
	}
}

func reportError(rootCmd *cobra.Command, w io.Writer, err error) int {
	code := ExitCode(err)
	if errors.GetErrorCode(err) == errors.ErrUnknown {
		// Usage errors from cobra and flag parsing.
		fmt.Fprintf(w, MsgUsageError, err)
		return code
	}

	name, _ := rootCmd.PersistentFlags().GetString("format")
	format, perr := ui.ParseFormat(name)
	if perr != nil {
		format = ui.FormatText
	}
	renderer, rerr := ui.NewRenderer(format, w)
	if rerr != nil {
		fmt.Fprintln(w, err)
		return code
	}

	if !format.IsStructured() {
		switch code {
		case ExitInterrupted:
			fmt.Fprintln(w, MsgInterrupted)
		case ExitFatal:
			fmt.Fprintln(w, MsgFatal)
		default:
			fmt.Fprintln(w, MsgNonFatal)
		}
	}
	if rerr := renderer.RenderError(err); rerr != nil {
		fmt.Fprintln(w, err)
	}
	return code
}
