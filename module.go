package bleepbloops

type (
	// Module is a single processing unit of a graph. Given the resolved
	// inputs of the current render pass and its own internal state, it
	// writes exactly one buffer per declared output port. Process must
	// not allocate or block; the only exception is a sink handing its
	// block to a BlockWriter. Internal state is touched by nobody but
	// the module itself.
	Module interface {
		Ports() Ports
		Process(*Block) error
	}

	// Ports declares the fixed set of attachment points of a module.
	// The declaration is read once when the module is added to a graph
	// and must not change over the module's lifetime.
	Ports struct {
		// Ins are named signal inputs, each expecting a buffer.
		Ins []string
		// Params are named parameter inputs with their base values.
		Params []ParamSpec
		// Outs are named outputs, each producing a buffer.
		Outs []string
	}

	// ParamSpec declares a parameter input and the base value it holds
	// until overridden via Graph.SetParam.
	ParamSpec struct {
		Name  string
		Value float64
	}

	// Block is the per-pass view handed to Module.Process. Slices are
	// indexed by the port positions of the module's Ports declaration.
	Block struct {
		// Start is the clock sample index of the first sample in the
		// block.
		Start uint64
		// Rate is the sample rate of the owning graph.
		Rate SampleRate
		// Ins holds one resolved buffer per signal input. Unconnected
		// inputs read silence; the buffer is never nil.
		Ins []Buffer
		// Params holds one resolved value per parameter input.
		Params []Param
		// Outs holds one writable buffer per output. Every sample of
		// every output must be written by Process.
		Outs []Buffer
	}

	// Param resolves the per-sample value of a parameter input. When a
	// modulation source is connected, the effective value at sample i is
	// the base plus the source sample scaled by the connection gain.
	Param struct {
		Base float64
		Mod  Buffer
		Gain float64
	}
)

// At returns the effective parameter value at sample i of the block.
func (p Param) At(i int) float64 {
	if p.Mod == nil {
		return p.Base
	}
	return p.Base + p.Mod[i]*p.Gain
}

// Constant reports whether the parameter holds the same value for every
// sample of the block, i.e. no modulation source is connected.
func (p Param) Constant() bool {
	return p.Mod == nil
}

// Size returns the number of samples in the block.
func (b *Block) Size() int {
	if len(b.Outs) > 0 {
		return len(b.Outs[0])
	}
	if len(b.Ins) > 0 {
		return len(b.Ins[0])
	}
	return 0
}

func (pt Ports) in(name string) (int, bool) {
	for i := range pt.Ins {
		if pt.Ins[i] == name {
			return i, true
		}
	}
	return 0, false
}

func (pt Ports) param(name string) (int, bool) {
	for i := range pt.Params {
		if pt.Params[i].Name == name {
			return i, true
		}
	}
	return 0, false
}

func (pt Ports) out(name string) (int, bool) {
	for i := range pt.Outs {
		if pt.Outs[i] == name {
			return i, true
		}
	}
	return 0, false
}
