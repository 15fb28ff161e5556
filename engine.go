package bleepbloops

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/gradiuscypher/bleepbloops/log"
)

// ErrNoOutput is returned by Run when the graph contains no sink
// module: without one the render loop would spin unpaced, as
// backpressure comes from the output bridge.
var ErrNoOutput = errors.New("graph has no output module")

type (
	// Engine drives block-by-block rendering of a graph. It is the only
	// goroutine that executes render passes; the control path talks to
	// it through published programs and mutation closures, both picked
	// up at block boundaries. A graph can be attached to one engine at a
	// time.
	Engine struct {
		uid      string
		graph    *Graph
		clock    *Clock
		programs chan *program
		log      *logrus.Entry

		// pending mutations accumulate under mu and are drained by the
		// render loop at the next block boundary. A slice instead of a
		// channel: enqueueing must never block the control path, no
		// matter how many edits pile up while the engine is not
		// running.
		mu      sync.Mutex
		pending []mutation
	}

	// Option configures an engine.
	Option func(*Engine)

	mutation func(*program)
)

// WithLogger sets the logger used by the engine. If this option is not
// provided, the package-wide logger is used.
func WithLogger(l *logrus.Logger) Option {
	return func(e *Engine) {
		e.log = l.WithField("engine", e.uid)
	}
}

// NewEngine creates an engine for the graph and attaches to it, so that
// subsequent topology and parameter changes are handed off to the
// render loop.
func NewEngine(g *Graph, options ...Option) *Engine {
	e := &Engine{
		uid:      xid.New().String(),
		graph:    g,
		clock:    g.clock,
		programs: make(chan *program, 1),
	}
	e.log = log.GetLogger().WithField("engine", e.uid)
	for _, option := range options {
		option(e)
	}
	g.mu.Lock()
	g.engine = e
	g.mu.Unlock()
	return e
}

// UID returns the unique id of the engine.
func (e *Engine) UID() string {
	return e.uid
}

// Push enqueues functions to run on the render goroutine at the next
// block boundary. This is how module configuration that is not a
// parameter base, e.g. a filter mode, is mutated safely while the
// engine runs. Push never blocks.
func (e *Engine) Push(fns ...func()) {
	for _, fn := range fns {
		fn := fn
		e.push(func(*program) { fn() })
	}
}

func (e *Engine) push(m mutation) {
	e.mu.Lock()
	e.pending = append(e.pending, m)
	e.mu.Unlock()
}

// drain applies the accumulated mutations to the program in the order
// they were enqueued.
func (e *Engine) drain(p *program) {
	e.mu.Lock()
	pending := e.pending
	e.pending = nil
	e.mu.Unlock()
	for _, m := range pending {
		m(p)
	}
}

// swap publishes a new program, replacing one that was published but
// not yet picked up.
func (e *Engine) swap(p *program) {
	select {
	case <-e.programs:
	default:
	}
	e.programs <- p
}

// Run renders the graph until the context is cancelled or a module
// fails. Pending mutations and published programs are applied between
// blocks, never mid-block; the clock advances by exactly one block per
// pass regardless of how long the pass took.
func (e *Engine) Run(ctx context.Context) error {
	p := e.graph.snapshot()
	if !p.hasSink() {
		return ErrNoOutput
	}
	e.log.WithFields(logrus.Fields{
		"rate":  e.clock.SampleRate(),
		"block": e.clock.BlockSize(),
	}).Debug("engine started")
	defer e.log.Debug("engine stopped")

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		// pick up control-path changes at the block boundary
		select {
		case p = <-e.programs:
			e.log.WithField("modules", len(p.order)).Debug("program swapped")
			if !p.hasSink() {
				return ErrNoOutput
			}
		default:
		}
		e.drain(p)
		if err := p.render(e.clock.advance()); err != nil {
			e.log.WithError(err).Debug("render failed")
			return err
		}
	}
}
