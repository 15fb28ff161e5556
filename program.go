package bleepbloops

import (
	"fmt"
	"sort"
)

type (
	// program is an immutable snapshot of the graph topology compiled
	// for rendering: the execution order plus resolved port bindings.
	// The render context owns a published program exclusively, so passes
	// run without locks or allocation.
	program struct {
		rate     SampleRate
		order    []*node
		byHandle map[Handle]*node
		zero     Buffer
		sinks    int
	}

	node struct {
		handle Handle
		module Module
		ports  Ports
		ins    []inBinding
		params []paramBinding
		outs   []*outPort
		block  Block
	}

	// outPort double-buffers one module output so that delayed edges can
	// read the previous block while the current one is written.
	outPort struct {
		cur  Buffer
		prev Buffer
	}

	inBinding struct {
		src     *outPort
		gain    float64
		delayed bool
		scratch Buffer
	}

	paramBinding struct {
		base    float64
		src     *outPort
		gain    float64
		delayed bool
	}
)

func (o *outPort) flip() {
	o.cur, o.prev = o.prev, o.cur
}

func (o *outPort) read(delayed bool) Buffer {
	if delayed {
		return o.prev
	}
	return o.cur
}

// compile resolves the graph into a program. Callers must hold g.mu.
func (g *Graph) compile() *program {
	live := g.liveSet()
	order := g.sortLive(live)

	p := &program{
		rate:     g.rate,
		byHandle: make(map[Handle]*node, len(order)),
		zero:     make(Buffer, g.block),
	}
	for _, h := range order {
		ports := g.ports[h]
		n := &node{
			handle: h,
			module: g.modules[h],
			ports:  ports,
			ins:    make([]inBinding, len(ports.Ins)),
			params: make([]paramBinding, len(ports.Params)),
			outs:   make([]*outPort, len(ports.Outs)),
		}
		for i := range n.ins {
			n.ins[i].scratch = make(Buffer, g.block)
		}
		for i, spec := range ports.Params {
			n.params[i].base = g.bases[paramKey{h, spec.Name}]
		}
		for i := range n.outs {
			n.outs[i] = &outPort{
				cur:  make(Buffer, g.block),
				prev: make(Buffer, g.block),
			}
		}
		n.block = Block{
			Rate:   g.rate,
			Ins:    make([]Buffer, len(ports.Ins)),
			Params: make([]Param, len(ports.Params)),
			Outs:   make([]Buffer, len(ports.Outs)),
		}
		if len(ports.Outs) == 0 {
			p.sinks++
		}
		p.byHandle[h] = n
		p.order = append(p.order, n)
	}

	for i := range g.conns {
		c := &g.conns[i]
		dst, ok := p.byHandle[c.Dst]
		if !ok {
			continue
		}
		src := p.byHandle[c.Src]
		outIdx, _ := src.ports.out(c.SrcPort)
		if idx, ok := dst.ports.in(c.DstPort); ok {
			dst.ins[idx].src = src.outs[outIdx]
			dst.ins[idx].gain = c.Gain
			dst.ins[idx].delayed = c.Delayed
			continue
		}
		idx, _ := dst.ports.param(c.DstPort)
		dst.params[idx].src = src.outs[outIdx]
		dst.params[idx].gain = c.Gain
		dst.params[idx].delayed = c.Delayed
	}
	return p
}

// liveSet returns the handles that can reach a sink over any edge,
// delayed edges included. Modules that feed nothing are pruned from the
// execution order. A graph without sinks keeps every module live.
func (g *Graph) liveSet() map[Handle]bool {
	live := make(map[Handle]bool)
	var stack []Handle
	for h, ports := range g.ports {
		if len(ports.Outs) == 0 {
			live[h] = true
			stack = append(stack, h)
		}
	}
	if len(stack) == 0 {
		for h := range g.modules {
			live[h] = true
		}
		return live
	}
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for i := range g.conns {
			c := &g.conns[i]
			if c.Dst != h || live[c.Src] {
				continue
			}
			live[c.Src] = true
			stack = append(stack, c.Src)
		}
	}
	return live
}

// sortLive orders the live modules with Kahn's algorithm over the
// instantaneous edges. Modules with no ordering constraint between them
// are taken in ascending handle order, which keeps the result
// deterministic across runs and independent of unrelated topology
// changes.
func (g *Graph) sortLive(live map[Handle]bool) []Handle {
	degree := make(map[Handle]int, len(live))
	for h := range live {
		degree[h] = 0
	}
	for i := range g.conns {
		c := &g.conns[i]
		if c.Delayed || !live[c.Src] || !live[c.Dst] {
			continue
		}
		degree[c.Dst]++
	}

	ready := make([]Handle, 0, len(live))
	for h, d := range degree {
		if d == 0 {
			ready = append(ready, h)
		}
	}
	sort.Slice(ready, func(i, j int) bool { return ready[i] < ready[j] })

	order := make([]Handle, 0, len(live))
	for len(ready) > 0 {
		h := ready[0]
		ready = ready[1:]
		order = append(order, h)
		for i := range g.conns {
			c := &g.conns[i]
			if c.Delayed || c.Src != h || !live[c.Dst] {
				continue
			}
			degree[c.Dst]--
			if degree[c.Dst] == 0 {
				ready = insertSorted(ready, c.Dst)
			}
		}
	}
	return order
}

func insertSorted(hs []Handle, h Handle) []Handle {
	i := sort.Search(len(hs), func(i int) bool { return hs[i] > h })
	hs = append(hs, 0)
	copy(hs[i+1:], hs[i:])
	hs[i] = h
	return hs
}

// render executes one pass over the program. Output ports are flipped
// first so that delayed edges read the block rendered by the previous
// pass. No allocation happens here.
func (p *program) render(start uint64) error {
	for _, n := range p.order {
		for _, o := range n.outs {
			o.flip()
		}
	}
	for _, n := range p.order {
		n.block.Start = start
		for i := range n.ins {
			b := &n.ins[i]
			in := p.zero
			if b.src != nil {
				in = b.src.read(b.delayed)
				if b.gain != 1 {
					for j := range in {
						b.scratch[j] = in[j] * b.gain
					}
					in = b.scratch
				}
			}
			n.block.Ins[i] = in
		}
		for i := range n.params {
			pb := &n.params[i]
			prm := Param{Base: pb.base, Gain: pb.gain}
			if pb.src != nil {
				prm.Mod = pb.src.read(pb.delayed)
			}
			n.block.Params[i] = prm
		}
		for i := range n.outs {
			n.block.Outs[i] = n.outs[i].cur
		}
		if err := n.module.Process(&n.block); err != nil {
			return fmt.Errorf("process %v: %w", n.handle, err)
		}
	}
	return nil
}

func (p *program) setBase(h Handle, port string, value float64) {
	n, ok := p.byHandle[h]
	if !ok {
		return
	}
	if idx, ok := n.ports.param(port); ok {
		n.params[idx].base = value
	}
}

func (p *program) hasSink() bool {
	return p.sinks > 0
}
