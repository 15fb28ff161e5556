package wav_test

import (
	"os"
	"path/filepath"
	"testing"

	gowav "github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"

	"github.com/gradiuscypher/bleepbloops"
	"github.com/gradiuscypher/bleepbloops/wav"
)

func TestWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")

	w, err := wav.NewWriter(path, 44100)
	assert.NoError(t, err)
	assert.NoError(t, w.WriteBlock(bleepbloops.Buffer{0, 0.5, -0.5, 1}))
	assert.NoError(t, w.WriteBlock(bleepbloops.Buffer{-1, 0, 0, 0}))
	assert.NoError(t, w.Close())

	f, err := os.Open(path)
	assert.NoError(t, err)
	defer f.Close()

	d := gowav.NewDecoder(f)
	buf, err := d.FullPCMBuffer()
	assert.NoError(t, err)
	assert.Equal(t, 44100, buf.Format.SampleRate)
	assert.Equal(t, 1, buf.Format.NumChannels)
	assert.Equal(t, 8, len(buf.Data))
	assert.Equal(t, 0, buf.Data[0])
	assert.Equal(t, 16383, buf.Data[1])
	assert.Equal(t, -16383, buf.Data[2])
	assert.Equal(t, 0x7fff, buf.Data[3])
	assert.Equal(t, -0x7fff, buf.Data[4])
}
