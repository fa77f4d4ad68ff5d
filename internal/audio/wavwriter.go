package audio

import (
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WAVWriter buffers the APU sample stream in memory and writes it to disk
// as a 16-bit mono WAV file on Close. Buffering everything keeps the hot
// path allocation-free enough for test and diagnostic runs, which is what
// this is for.
type WAVWriter struct {
	filename   string
	sampleRate int
	buffer     []int
}

// NewWAVWriter creates a writer targeting the given file.
func NewWAVWriter(filename string, sampleRate int) *WAVWriter {
	return &WAVWriter{
		filename:   filename,
		sampleRate: sampleRate,
	}
}

// Append adds mono samples in the [-1, 1] range to the capture.
func (w *WAVWriter) Append(samples []float32) {
	for _, s := range samples {
		w.buffer = append(w.buffer, int(clamp(s)*32767))
	}
}

// Len returns the number of captured samples.
func (w *WAVWriter) Len() int {
	return len(w.buffer)
}

// Close encodes the captured samples and writes the file.
func (w *WAVWriter) Close() (rerr error) {
	f, err := os.Create(w.filename)
	if err != nil {
		return err
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = err
		}
	}()

	enc := wav.NewEncoder(f, w.sampleRate, 16, 1, 1)
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: 1,
			SampleRate:  w.sampleRate,
		},
		Data:           w.buffer,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}
