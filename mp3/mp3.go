// Package mp3 renders finished blocks to an mp3 file.
package mp3

import (
	"encoding/binary"
	"os"

	"github.com/viert/lame"

	"github.com/gradiuscypher/bleepbloops"
)

// Writer is a BlockWriter that encodes audio to an mp3 file.
type Writer struct {
	file *os.File
	wr   *lame.LameWriter
	raw  []byte
}

// NewWriter creates a writer encoding mono audio to path with the
// provided bit rate in kbps and encoder quality (0 best to 9 worst).
func NewWriter(path string, rate bleepbloops.SampleRate, bitRate, quality int) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	wr := lame.NewWriter(f)
	wr.Encoder.SetBitrate(bitRate)
	wr.Encoder.SetQuality(quality)
	wr.Encoder.SetNumChannels(1)
	wr.Encoder.SetInSamplerate(int(rate))
	wr.Encoder.SetMode(lame.MONO)
	wr.Encoder.InitParams()
	return &Writer{file: f, wr: wr}, nil
}

// WriteBlock implements bleepbloops.BlockWriter.
func (w *Writer) WriteBlock(b bleepbloops.Buffer) error {
	if cap(w.raw) < len(b)*2 {
		w.raw = make([]byte, len(b)*2)
	}
	w.raw = w.raw[:len(b)*2]
	for i := range b {
		binary.LittleEndian.PutUint16(w.raw[i*2:], uint16(int16(b[i]*0x7fff)))
	}
	_, err := w.wr.Write(w.raw)
	return err
}

// Close flushes the encoder and closes the file.
func (w *Writer) Close() error {
	if err := w.wr.Close(); err != nil {
		return err
	}
	return w.file.Close()
}
