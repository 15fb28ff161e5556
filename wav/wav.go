// Package wav renders finished blocks to a wav file.
package wav

import (
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/gradiuscypher/bleepbloops"
)

// Writer is a BlockWriter that saves audio to a wav file. It lets a
// patch be rendered offline with the same graph code that feeds a live
// device.
type Writer struct {
	file    *os.File
	encoder *wav.Encoder
	ib      *audio.IntBuffer
}

const wavAudioFormat = 1 // PCM

// NewWriter creates a writer saving 16-bit mono PCM to path.
func NewWriter(path string, rate bleepbloops.SampleRate) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &Writer{
		file:    f,
		encoder: wav.NewEncoder(f, int(rate), 16, 1, wavAudioFormat),
		ib: &audio.IntBuffer{
			Format: &audio.Format{
				NumChannels: 1,
				SampleRate:  int(rate),
			},
			SourceBitDepth: 16,
		},
	}, nil
}

// WriteBlock implements bleepbloops.BlockWriter.
func (w *Writer) WriteBlock(b bleepbloops.Buffer) error {
	if cap(w.ib.Data) < len(b) {
		w.ib.Data = make([]int, len(b))
	}
	w.ib.Data = w.ib.Data[:len(b)]
	for i := range b {
		w.ib.Data[i] = int(b[i] * 0x7fff)
	}
	return w.encoder.Write(w.ib)
}

// Close finalizes the wav header and closes the file.
func (w *Writer) Close() error {
	if err := w.encoder.Close(); err != nil {
		return err
	}
	return w.file.Close()
}
