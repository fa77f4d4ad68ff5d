package audio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
)

func TestSampleStreamInterleavesStereo(t *testing.T) {
	st := newSampleStream()
	st.push([]float32{0.5, -0.5})

	p := make([]byte, 8)
	n, err := st.Read(p)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n != 8 {
		t.Fatalf("Read n = %d, want 8", n)
	}

	left := int16(p[0]) | int16(p[1])<<8
	right := int16(p[2]) | int16(p[3])<<8
	if left != right {
		t.Errorf("stereo frame not duplicated: %d vs %d", left, right)
	}
	if left != 16383 {
		t.Errorf("first sample = %d, want 16383", left)
	}
	second := int16(p[4]) | int16(p[5])<<8
	if second != -16383 {
		t.Errorf("second sample = %d, want -16383", second)
	}
}

func TestSampleStreamUnderflowIsSilence(t *testing.T) {
	st := newSampleStream()
	st.push([]float32{1.0})

	p := make([]byte, 12) // 3 frames, only 1 queued
	n, err := st.Read(p)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n != 12 {
		t.Fatalf("Read n = %d, want 12", n)
	}
	for i := 4; i < 12; i++ {
		if p[i] != 0 {
			t.Fatalf("underflow byte %d = %02X, want silence", i, p[i])
		}
	}
}

func TestSampleStreamDropsOldestWhenFull(t *testing.T) {
	st := newSampleStream()
	st.push(make([]float32, maxQueuedSamples))
	st.push([]float32{0.25})
	if len(st.samples) != maxQueuedSamples {
		t.Errorf("queue length = %d, want cap %d", len(st.samples), maxQueuedSamples)
	}
	if st.samples[len(st.samples)-1] != 0.25 {
		t.Error("newest sample dropped instead of oldest")
	}
}

func TestWAVWriterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.wav")

	w := NewWAVWriter(path, 44100)
	w.Append([]float32{0, 0.5, -1, 2}) // last value must clamp
	if w.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", w.Len())
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("FullPCMBuffer: %v", err)
	}

	if buf.Format.NumChannels != 1 {
		t.Errorf("channels = %d, want 1", buf.Format.NumChannels)
	}
	if buf.Format.SampleRate != 44100 {
		t.Errorf("sample rate = %d, want 44100", buf.Format.SampleRate)
	}
	want := []int{0, 16383, -32767, 32767}
	if len(buf.Data) != len(want) {
		t.Fatalf("decoded %d samples, want %d", len(buf.Data), len(want))
	}
	for i, v := range want {
		if buf.Data[i] != v {
			t.Errorf("sample %d = %d, want %d", i, buf.Data[i], v)
		}
	}
}
