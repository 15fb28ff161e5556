package bleepbloops

// Output terminates a patch. On every render pass it hard-limits the
// incoming block to [-1, 1] and hands it to the writer: a Bridge for
// live playback or a file writer for offline rendering.
type Output struct {
	w       BlockWriter
	scratch Buffer
}

// NewOutput creates an output sink writing clamped blocks to w.
func NewOutput(w BlockWriter, block BlockSize) *Output {
	return &Output{
		w:       w,
		scratch: make(Buffer, block),
	}
}

// Ports implements Module. A single signal input, no outputs.
func (o *Output) Ports() Ports {
	return Ports{Ins: []string{"in"}}
}

// Process implements Module.
func (o *Output) Process(b *Block) error {
	in := b.Ins[0]
	for i := range in {
		s := in[i]
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		o.scratch[i] = s
	}
	return o.w.WriteBlock(o.scratch)
}
