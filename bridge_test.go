package bleepbloops_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gradiuscypher/bleepbloops"
)

func TestNewBridge(t *testing.T) {
	_, err := bleepbloops.NewBridge(0, 4)
	assert.Error(t, err)
	_, err = bleepbloops.NewBridge(64, 0)
	assert.Error(t, err)

	b, err := bleepbloops.NewBridge(64, 4)
	assert.NoError(t, err)
	assert.NoError(t, b.Close())
}

func TestBridgeReadWrite(t *testing.T) {
	b, _ := bleepbloops.NewBridge(4, 2)
	defer b.Close()

	assert.NoError(t, b.WriteBlock(bleepbloops.Buffer{1, 2, 3, 4}))
	assert.NoError(t, b.WriteBlock(bleepbloops.Buffer{5, 6, 7, 8}))
	assert.Equal(t, 2, b.Queued())

	// reads of arbitrary length are served across block boundaries
	dst := make([]float64, 3)
	b.ReadSamples(dst)
	assert.Equal(t, []float64{1, 2, 3}, dst)
	dst = make([]float64, 5)
	b.ReadSamples(dst)
	assert.Equal(t, []float64{4, 5, 6, 7, 8}, dst)
	assert.Equal(t, uint64(0), b.Underruns())
}

func TestBridgeUnderrun(t *testing.T) {
	b, _ := bleepbloops.NewBridge(4, 2)
	defer b.Close()

	dst := []float64{1, 1, 1, 1}
	b.ReadSamples(dst)

	assert.Equal(t, []float64{0, 0, 0, 0}, dst)
	assert.Equal(t, uint64(1), b.Underruns())
}

func TestBridgeUnderrunMidRead(t *testing.T) {
	b, _ := bleepbloops.NewBridge(2, 2)
	defer b.Close()

	assert.NoError(t, b.WriteBlock(bleepbloops.Buffer{1, 2}))
	dst := []float64{9, 9, 9, 9}
	b.ReadSamples(dst)

	// queued samples first, silence for the remainder
	assert.Equal(t, []float64{1, 2, 0, 0}, dst)
	assert.Equal(t, uint64(1), b.Underruns())
}

func TestBridgeBackpressure(t *testing.T) {
	b, _ := bleepbloops.NewBridge(2, 1)
	defer b.Close()

	assert.NoError(t, b.WriteBlock(bleepbloops.Buffer{1, 2}))

	unblocked := make(chan error)
	go func() {
		unblocked <- b.WriteBlock(bleepbloops.Buffer{3, 4})
	}()

	select {
	case <-unblocked:
		t.Fatal("write proceeded with a full queue")
	case <-time.After(10 * time.Millisecond):
	}

	dst := make([]float64, 2)
	b.ReadSamples(dst)
	assert.NoError(t, <-unblocked)

	b.ReadSamples(dst)
	assert.Equal(t, []float64{3, 4}, dst)
}

func TestBridgeClose(t *testing.T) {
	b, _ := bleepbloops.NewBridge(2, 1)
	assert.NoError(t, b.WriteBlock(bleepbloops.Buffer{1, 2}))
	assert.NoError(t, b.Close())
	// closing twice is fine
	assert.NoError(t, b.Close())

	assert.Equal(t, bleepbloops.ErrBridgeClosed, b.WriteBlock(bleepbloops.Buffer{3, 4}))

	// reads after close serve silence without counting underruns
	dst := []float64{9, 9}
	b.ReadSamples(dst)
	assert.Equal(t, []float64{0, 0}, dst)
	assert.Equal(t, uint64(0), b.Underruns())
}

func TestBridgeCloseUnblocksWriter(t *testing.T) {
	b, _ := bleepbloops.NewBridge(2, 1)
	assert.NoError(t, b.WriteBlock(bleepbloops.Buffer{1, 2}))

	unblocked := make(chan error)
	go func() {
		unblocked <- b.WriteBlock(bleepbloops.Buffer{3, 4})
	}()
	time.Sleep(10 * time.Millisecond)
	assert.NoError(t, b.Close())
	assert.Equal(t, bleepbloops.ErrBridgeClosed, <-unblocked)
}
