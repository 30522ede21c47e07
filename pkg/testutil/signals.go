package testutil

import (
	"os"
	"sync"

	"github.com/arthur-debert/annexfs/pkg/guard"
)

// FakeNotifier stands in for signal.Notify and signal.Stop so tests can
// deliver a signal into whichever guarded region is currently open.
type FakeNotifier struct {
	mu      sync.Mutex
	current chan<- os.Signal
}

// Notifier returns the guard.Notifier backed by f.
func (f *FakeNotifier) Notifier() guard.Notifier {
	return guard.Notifier{
		Notify: func(c chan<- os.Signal, _ ...os.Signal) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.current = c
		},
		Stop: func(c chan<- os.Signal) {
			f.mu.Lock()
			defer f.mu.Unlock()
			if f.current == c {
				f.current = nil
			}
		},
	}
}

// Fire delivers sig to the open region. It reports false when no region
// is open.
func (f *FakeNotifier) Fire(sig os.Signal) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current == nil {
		return false
	}
	select {
	case f.current <- sig:
	default:
	}
	return true
}

// InterruptingGuard is a guard.Runner that fires SIGINT into the step
// named Step, either as the step starts or, with After set, once its body
// has returned. The step always runs to completion. It records every step
// it ran.
type InterruptingGuard struct {
	Step  string
	After bool
	Steps []string

	notifier *FakeNotifier
	guard    *guard.Guard
}

// InterruptAt returns an InterruptingGuard firing as step starts.
func InterruptAt(step string) *InterruptingGuard {
	n := &FakeNotifier{}
	return &InterruptingGuard{
		Step:     step,
		notifier: n,
		guard:    guard.NewWithNotifier(n.Notifier(), os.Interrupt),
	}
}

// InterruptAfter returns an InterruptingGuard firing once step's body has
// returned, before any later step of the chain begins.
func InterruptAfter(step string) *InterruptingGuard {
	g := InterruptAt(step)
	g.After = true
	return g
}

func (g *InterruptingGuard) Run(step string, body func() error) error {
	return g.Chain(guard.Step{Name: step, Body: body})
}

func (g *InterruptingGuard) Chain(steps ...guard.Step) error {
	wrapped := make([]guard.Step, len(steps))
	for i, step := range steps {
		wrapped[i] = guard.Step{Name: step.Name, Body: g.wrap(step)}
	}
	return g.guard.Chain(wrapped...)
}

func (g *InterruptingGuard) wrap(step guard.Step) func() error {
	return func() error {
		g.Steps = append(g.Steps, step.Name)
		if step.Name == g.Step && !g.After {
			g.notifier.Fire(os.Interrupt)
		}
		err := step.Body()
		if step.Name == g.Step && g.After {
			g.notifier.Fire(os.Interrupt)
		}
		return err
	}
}
