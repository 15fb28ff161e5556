package bleepbloops

import (
	"fmt"
	"sync"
)

type (
	// Handle identifies a module within its owning graph. Handles are
	// assigned in ascending order and never reused.
	Handle int

	// Connection is a directed edge from a module output to a signal or
	// parameter input of another module. A delayed connection reads the
	// previous block's output instead of the current one, which is how
	// feedback patches are expressed.
	Connection struct {
		Src     Handle
		SrcPort string
		Dst     Handle
		DstPort string
		Gain    float64
		Delayed bool
	}

	// CycleError is returned by Connect when the requested edge would
	// create an instantaneous cycle. The same connection made with
	// ConnectDelayed is always accepted.
	CycleError struct {
		Src Handle
		Dst Handle
	}

	// InvalidPortError is returned by Connect when a port does not
	// exist, has the wrong kind, or is already bound.
	InvalidPortError struct {
		Handle Handle
		Port   string
		Reason string
	}

	// Graph owns modules and connections of a patch and produces the
	// execution order used by render passes. All methods belong to the
	// control path: they are safe to call while an engine is rendering,
	// and topology changes take effect at the next block boundary.
	Graph struct {
		mu      sync.Mutex
		rate    SampleRate
		block   BlockSize
		clock   *Clock
		next    Handle
		modules map[Handle]Module
		ports   map[Handle]Ports
		bases   map[paramKey]float64
		conns   []Connection
		prog    *program
		engine  *Engine
	}

	paramKey struct {
		handle Handle
		port   string
	}
)

// ErrUnknownModule is returned when an operation references a handle
// that is not part of the graph.
var ErrUnknownModule = fmt.Errorf("unknown module")

func (e *CycleError) Error() string {
	return fmt.Sprintf("connecting %v to %v would create an instantaneous cycle", e.Src, e.Dst)
}

func (e *InvalidPortError) Error() string {
	return fmt.Sprintf("port %q of %v: %s", e.Port, e.Handle, e.Reason)
}

// New creates an empty graph for the provided sample rate and block
// size.
func New(rate SampleRate, block BlockSize) (*Graph, error) {
	if rate <= 0 {
		return nil, &ConfigurationError{Field: "sample rate", Value: int(rate)}
	}
	if block <= 0 {
		return nil, &ConfigurationError{Field: "block size", Value: int(block)}
	}
	return &Graph{
		rate:    rate,
		block:   block,
		clock:   newClock(rate, block),
		modules: make(map[Handle]Module),
		ports:   make(map[Handle]Ports),
		bases:   make(map[paramKey]float64),
	}, nil
}

// Clock returns the graph's clock.
func (g *Graph) Clock() *Clock {
	return g.clock
}

// SampleRate returns the sample rate of the graph.
func (g *Graph) SampleRate() SampleRate {
	return g.rate
}

// BlockSize returns the block size of the graph.
func (g *Graph) BlockSize() BlockSize {
	return g.block
}

// Add puts the module into the graph and returns its handle. Parameter
// bases are seeded from the module's port declaration.
func (g *Graph) Add(m Module) Handle {
	g.mu.Lock()
	defer g.mu.Unlock()
	h := g.next
	g.next++
	ports := m.Ports()
	g.modules[h] = m
	g.ports[h] = ports
	for _, p := range ports.Params {
		g.bases[paramKey{h, p.Name}] = p.Value
	}
	g.invalidate()
	return h
}

// Remove deletes the module and every connection attached to it.
// Removing an unknown handle is a no-op.
func (g *Graph) Remove(h Handle) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.modules[h]; !ok {
		return
	}
	delete(g.modules, h)
	delete(g.ports, h)
	for key := range g.bases {
		if key.handle == h {
			delete(g.bases, key)
		}
	}
	kept := g.conns[:0]
	for _, c := range g.conns {
		if c.Src != h && c.Dst != h {
			kept = append(kept, c)
		}
	}
	g.conns = kept
	g.invalidate()
}

// Connect adds an instantaneous edge from the source output to the
// destination input. It fails with CycleError if the edge would close a
// zero-delay cycle and with InvalidPortError if either port does not
// exist or the destination is already bound.
func (g *Graph) Connect(src Handle, srcPort string, dst Handle, dstPort string, gain float64) error {
	return g.connect(Connection{Src: src, SrcPort: srcPort, Dst: dst, DstPort: dstPort, Gain: gain})
}

// ConnectDelayed adds an edge that reads the previous block's output of
// the source, breaking the ordering dependency. It is always accepted,
// cycles included, as long as both ports are valid.
func (g *Graph) ConnectDelayed(src Handle, srcPort string, dst Handle, dstPort string, gain float64) error {
	return g.connect(Connection{Src: src, SrcPort: srcPort, Dst: dst, DstPort: dstPort, Gain: gain, Delayed: true})
}

func (g *Graph) connect(c Connection) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	srcPorts, ok := g.ports[c.Src]
	if !ok {
		return fmt.Errorf("source %v: %w", c.Src, ErrUnknownModule)
	}
	dstPorts, ok := g.ports[c.Dst]
	if !ok {
		return fmt.Errorf("destination %v: %w", c.Dst, ErrUnknownModule)
	}
	if _, ok := srcPorts.out(c.SrcPort); !ok {
		return &InvalidPortError{Handle: c.Src, Port: c.SrcPort, Reason: "not an output"}
	}
	_, isIn := dstPorts.in(c.DstPort)
	_, isParam := dstPorts.param(c.DstPort)
	if !isIn && !isParam {
		return &InvalidPortError{Handle: c.Dst, Port: c.DstPort, Reason: "not an input"}
	}
	for i := range g.conns {
		if g.conns[i].Dst == c.Dst && g.conns[i].DstPort == c.DstPort {
			return &InvalidPortError{Handle: c.Dst, Port: c.DstPort, Reason: "already connected"}
		}
	}
	if !c.Delayed && g.createsCycle(c.Src, c.Dst) {
		return &CycleError{Src: c.Src, Dst: c.Dst}
	}
	g.conns = append(g.conns, c)
	g.invalidate()
	return nil
}

// Disconnect removes the connection bound to the destination input, if
// any. A destination port holds at most one connection, so the pair
// identifies the edge.
func (g *Graph) Disconnect(dst Handle, dstPort string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range g.conns {
		if g.conns[i].Dst == dst && g.conns[i].DstPort == dstPort {
			g.conns = append(g.conns[:i], g.conns[i+1:]...)
			g.invalidate()
			return
		}
	}
}

// SetParam overrides the base value of a parameter input. The change is
// surfaced to an in-flight render at the next block boundary.
func (g *Graph) SetParam(h Handle, port string, value float64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	ports, ok := g.ports[h]
	if !ok {
		return fmt.Errorf("module %v: %w", h, ErrUnknownModule)
	}
	if _, ok := ports.param(port); !ok {
		return &InvalidPortError{Handle: h, Port: port, Reason: "not a parameter"}
	}
	g.bases[paramKey{h, port}] = value
	if g.engine != nil {
		g.engine.push(func(p *program) {
			p.setBase(h, port, value)
		})
		return nil
	}
	if g.prog != nil {
		g.prog.setBase(h, port, value)
	}
	return nil
}

// Connections returns a copy of the current connection set.
func (g *Graph) Connections() []Connection {
	g.mu.Lock()
	defer g.mu.Unlock()
	conns := make([]Connection, len(g.conns))
	copy(conns, g.conns)
	return conns
}

// createsCycle reports whether an instantaneous edge src -> dst would
// close a zero-delay cycle, i.e. whether src is reachable from dst over
// the existing instantaneous edges.
func (g *Graph) createsCycle(src, dst Handle) bool {
	if src == dst {
		return true
	}
	visited := map[Handle]bool{dst: true}
	stack := []Handle{dst}
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for i := range g.conns {
			c := &g.conns[i]
			if c.Delayed || c.Src != h || visited[c.Dst] {
				continue
			}
			if c.Dst == src {
				return true
			}
			visited[c.Dst] = true
			stack = append(stack, c.Dst)
		}
	}
	return false
}

// invalidate drops the cached program and, when an engine is attached,
// publishes a freshly compiled one. Callers must hold g.mu.
func (g *Graph) invalidate() {
	g.prog = nil
	if g.engine != nil {
		g.engine.swap(g.compile())
	}
}

// snapshot returns the cached program, compiling it first if the
// topology changed since the last pass.
func (g *Graph) snapshot() *program {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.prog == nil {
		g.prog = g.compile()
	}
	return g.prog
}

// Render executes a single render pass on the calling goroutine and
// advances the clock by one block. It is meant for offline rendering
// and tests; live playback goes through an Engine instead. Render must
// not be called while an attached engine is running.
func (g *Graph) Render() error {
	p := g.snapshot()
	return p.render(g.clock.advance())
}
