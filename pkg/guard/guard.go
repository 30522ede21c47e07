// Package guard defers user interrupts while a multi-step filesystem
// mutation runs.
//
// Run registers for the interrupt signals, so they are queued instead of
// terminating the process, executes the step group, and releases the
// registration on every exit path. A signal that arrived inside the window
// is reported afterwards as an INTERRUPTED error: it is never lost and never
// observed while the step group is half done.
//
// Chain keeps one registration open across several step groups. A signal
// taken between two groups stops the chain before the next one starts.
package guard

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/arthur-debert/annexfs/pkg/errors"
	"github.com/arthur-debert/annexfs/pkg/logging"
	"github.com/rs/zerolog"
)

// Runner runs step groups inside guarded regions.
type Runner interface {
	Run(step string, body func() error) error
	Chain(steps ...Step) error
}

// Step is one named step group of a Chain.
type Step struct {
	Name string
	Body func() error
}

// Notifier is the pair of functions used to start and stop signal
// delivery. signal.Notify and signal.Stop in production.
type Notifier struct {
	Notify func(c chan<- os.Signal, sig ...os.Signal)
	Stop   func(c chan<- os.Signal)
}

// Guard is the default Runner.
type Guard struct {
	notifier Notifier
	signals  []os.Signal
	logger   zerolog.Logger
}

// New returns a Guard deferring SIGINT and SIGTERM.
func New() *Guard {
	return NewWithNotifier(Notifier{Notify: signal.Notify, Stop: signal.Stop}, os.Interrupt, syscall.SIGTERM)
}

// NewWithNotifier returns a Guard using the given notifier for sigs.
func NewWithNotifier(n Notifier, sigs ...os.Signal) *Guard {
	return &Guard{
		notifier: n,
		signals:  sigs,
		logger:   logging.GetLogger("guard"),
	}
}

// Run executes body with the guard's signals deferred. The returned error is
// body's error, joined with an INTERRUPTED error when a signal arrived.
func (g *Guard) Run(step string, body func() error) error {
	return g.Chain(Step{Name: step, Body: body})
}

// Chain executes steps in order under a single signal registration. It stops
// after the first step that fails or during which a signal arrived, and the
// signal is reported against that step. Later steps never start.
func (g *Guard) Chain(steps ...Step) (err error) {
	ch := make(chan os.Signal, 1)
	g.notifier.Notify(ch, g.signals...)

	current := ""
	defer func() {
		g.notifier.Stop(ch)
		select {
		case sig := <-ch:
			g.deferred(current, sig)
			err = errors.Join(err, Interrupted(current, sig))
		default:
		}
		g.logger.Trace().Str("step", current).Msg("Leaving guarded region")
	}()

	for _, step := range steps {
		current = step.Name
		g.logger.Trace().Str("step", current).Msg("Entering guarded region")
		if err := step.Body(); err != nil {
			return err
		}
		select {
		case sig := <-ch:
			g.deferred(current, sig)
			return Interrupted(current, sig)
		default:
		}
	}
	return nil
}

func (g *Guard) deferred(step string, sig os.Signal) {
	g.logger.Warn().
		Str("step", step).
		Str("signal", sig.String()).
		Msg("Interrupt deferred until step completed")
}

// Interrupted builds the error reported for a deferred signal.
func Interrupted(step string, sig os.Signal) error {
	return errors.Newf(errors.ErrInterrupted, "interrupted by %s during %s", sig, step).
		WithDetail("step", step)
}

// IsInterrupted reports whether err carries a deferred interrupt.
func IsInterrupted(err error) bool {
	return errors.IsErrorCode(err, errors.ErrInterrupted)
}
