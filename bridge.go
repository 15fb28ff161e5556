package bleepbloops

import (
	"errors"
	"sync"
	"sync/atomic"
)

// ErrBridgeClosed is returned when a block is written to a closed
// bridge.
var ErrBridgeClosed = errors.New("bridge closed")

// Bridge is the boundary between the render loop and the audio device.
// Rendered blocks travel through a bounded queue: the producer blocks
// when the queue is full, so no sample is ever dropped, while the
// consumer side never waits. When the device asks for samples the queue
// cannot provide, the bridge emits silence and records an underrun.
//
// The bridge expects a single producer and a single consumer. Consumed
// blocks are recycled over a free list, so steady-state playback does
// not allocate.
type Bridge struct {
	block     BlockSize
	queue     chan Buffer
	free      chan Buffer
	done      chan struct{}
	closeOnce sync.Once
	underruns atomic.Uint64

	// consumer-side carry of a partially read block
	pending Buffer
	offset  int
}

// NewBridge creates a bridge holding up to depth rendered blocks.
func NewBridge(block BlockSize, depth int) (*Bridge, error) {
	if block <= 0 {
		return nil, &ConfigurationError{Field: "block size", Value: int(block)}
	}
	if depth <= 0 {
		return nil, &ConfigurationError{Field: "queue depth", Value: depth}
	}
	return &Bridge{
		block: block,
		queue: make(chan Buffer, depth),
		free:  make(chan Buffer, depth+1),
		done:  make(chan struct{}),
	}, nil
}

// WriteBlock implements BlockWriter. It copies the block into the queue
// and blocks while the queue is full, which is the backpressure that
// paces the render loop to the device. It returns ErrBridgeClosed after
// Close.
func (b *Bridge) WriteBlock(buf Buffer) error {
	blk := b.get()
	copy(blk, buf)
	select {
	case b.queue <- blk:
		return nil
	case <-b.done:
		return ErrBridgeClosed
	}
}

// ReadSamples fills dst with queued samples. It never blocks: when the
// queue runs dry the remainder of dst is filled with silence and the
// underrun counter is incremented. Any dst length is served, so device
// callbacks of arbitrary granularity can consume from the bridge.
func (b *Bridge) ReadSamples(dst []float64) {
	for len(dst) > 0 {
		if b.pending == nil {
			select {
			case blk := <-b.queue:
				b.pending = blk
				b.offset = 0
			default:
				if !b.closed() {
					b.underruns.Add(1)
				}
				Buffer(dst).clear()
				return
			}
		}
		n := copy(dst, b.pending[b.offset:])
		b.offset += n
		dst = dst[n:]
		if b.offset == len(b.pending) {
			b.put(b.pending)
			b.pending = nil
		}
	}
}

// Underruns returns the number of times the consumer found the queue
// empty.
func (b *Bridge) Underruns() uint64 {
	return b.underruns.Load()
}

// Queued returns the number of complete blocks waiting to be consumed.
func (b *Bridge) Queued() int {
	return len(b.queue)
}

// Close unblocks the producer and drains queued blocks. Subsequent
// writes fail with ErrBridgeClosed; subsequent reads are served
// silence without counting underruns.
func (b *Bridge) Close() error {
	b.closeOnce.Do(func() {
		close(b.done)
		for {
			select {
			case blk := <-b.queue:
				b.put(blk)
			default:
				return
			}
		}
	})
	return nil
}

func (b *Bridge) closed() bool {
	select {
	case <-b.done:
		return true
	default:
		return false
	}
}

func (b *Bridge) get() Buffer {
	select {
	case blk := <-b.free:
		return blk
	default:
		return make(Buffer, b.block)
	}
}

func (b *Bridge) put(blk Buffer) {
	select {
	case b.free <- blk:
	default:
	}
}
