// Package audio plays and captures the APU sample stream.
package audio

import (
	"io"
	"sync"

	eaudio "github.com/hajimehoshi/ebiten/v2/audio"
)

// maxQueuedSamples caps the playback queue at about a quarter second so a
// stalled player cannot grow it without bound.
const maxQueuedSamples = 11025

// Speaker pushes APU samples to the platform audio device through a
// pull-based player. Underflow plays silence rather than blocking the
// emulation.
type Speaker struct {
	context *eaudio.Context
	player  *eaudio.Player
	stream  *sampleStream
}

// NewSpeaker creates a speaker at the given sample rate and starts
// playback.
func NewSpeaker(sampleRate int) (*Speaker, error) {
	context := eaudio.CurrentContext()
	if context == nil {
		context = eaudio.NewContext(sampleRate)
	}

	stream := newSampleStream()
	player, err := context.NewPlayer(stream)
	if err != nil {
		return nil, err
	}
	player.Play()

	return &Speaker{
		context: context,
		player:  player,
		stream:  stream,
	}, nil
}

// Push queues mono samples for playback.
func (s *Speaker) Push(samples []float32) {
	s.stream.push(samples)
}

// Close stops playback.
func (s *Speaker) Close() error {
	return s.player.Close()
}

// sampleStream adapts the queued mono float samples to the player's
// 16-bit little-endian stereo pull interface.
type sampleStream struct {
	mu      sync.Mutex
	samples []float32
}

func newSampleStream() *sampleStream {
	return &sampleStream{}
}

func (st *sampleStream) push(samples []float32) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.samples = append(st.samples, samples...)
	if len(st.samples) > maxQueuedSamples {
		st.samples = st.samples[len(st.samples)-maxQueuedSamples:]
	}
}

// Read implements io.Reader. Each mono sample becomes one stereo frame
// (4 bytes); when the queue runs dry the remainder is silence.
func (st *sampleStream) Read(p []byte) (int, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	frames := len(p) / 4
	if frames == 0 {
		return 0, nil
	}

	n := 0
	for i := 0; i < frames; i++ {
		var value int16
		if i < len(st.samples) {
			value = int16(clamp(st.samples[i]) * 32767)
		}
		p[n] = byte(value)
		p[n+1] = byte(value >> 8)
		p[n+2] = byte(value)
		p[n+3] = byte(value >> 8)
		n += 4
	}

	if frames >= len(st.samples) {
		st.samples = st.samples[:0]
	} else {
		st.samples = st.samples[frames:]
	}
	return n, nil
}

func clamp(v float32) float32 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

var _ io.Reader = (*sampleStream)(nil)
