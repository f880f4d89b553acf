// SPDX-License-Identifier: MIT
/*
Package pcm holds the decoded, in-memory form of an audio file: one slice of
float32 amplitudes per channel, all of equal length, at a fixed sample rate.

A Signal is produced once by a decoder and then treated as read-only. Operations
that derive new audio (slicing, trimming) always allocate fresh channel buffers.
*/
package pcm

import (
	"errors"
	"fmt"
	"time"
)

// ErrMalformed is returned when a Signal's shape is inconsistent.
var ErrMalformed = errors.New("pcm: malformed signal")

// Signal is a decoded multichannel audio signal. Amplitudes are nominally in
// [-1.0, 1.0]; values outside that range are tolerated and clamped on encode.
type Signal struct {
	SampleRate int         // Samples per second per channel (Hz).
	Channels   [][]float32 // Channels[c][i] is frame i of channel c.
}

// New builds a Signal with the given shape, every sample zeroed.
func New(sampleRate, channels, frames int) *Signal {
	s := &Signal{
		SampleRate: sampleRate,
		Channels:   make([][]float32, channels),
	}
	for c := range s.Channels {
		s.Channels[c] = make([]float32, frames)
	}
	return s
}

// NumChannels returns the channel count.
func (s *Signal) NumChannels() int {
	if s == nil {
		return 0
	}
	return len(s.Channels)
}

// Frames returns the number of frames (samples per channel).
func (s *Signal) Frames() int {
	if s == nil || len(s.Channels) == 0 {
		return 0
	}
	return len(s.Channels[0])
}

// Seconds returns the signal duration in seconds.
func (s *Signal) Seconds() float64 {
	if s == nil || s.SampleRate <= 0 {
		return 0
	}
	return float64(s.Frames()) / float64(s.SampleRate)
}

// Duration returns the signal duration as a time.Duration.
func (s *Signal) Duration() time.Duration {
	return time.Duration(s.Seconds() * float64(time.Second))
}

// Validate checks that the signal has a positive sample rate, at least one
// channel, and channels of equal length. A zero-frame signal is valid here;
// callers that need audio decide for themselves whether empty is an error.
func (s *Signal) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil signal", ErrMalformed)
	}
	if s.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive, got %d", ErrMalformed, s.SampleRate)
	}
	if len(s.Channels) == 0 {
		return fmt.Errorf("%w: no channels", ErrMalformed)
	}
	frames := len(s.Channels[0])
	for c, ch := range s.Channels {
		if len(ch) != frames {
			return fmt.Errorf("%w: channel %d has %d frames, channel 0 has %d",
				ErrMalformed, c, len(ch), frames)
		}
	}
	return nil
}

// Slice copies frames [start, end) of every channel into a new Signal. The
// bounds must already be valid for the signal; Slice panics otherwise, the same
// way a slice expression would.
func (s *Signal) Slice(start, end int) *Signal {
	out := &Signal{
		SampleRate: s.SampleRate,
		Channels:   make([][]float32, len(s.Channels)),
	}
	for c, ch := range s.Channels {
		buf := make([]float32, end-start)
		copy(buf, ch[start:end])
		out.Channels[c] = buf
	}
	return out
}

// Interleave writes the signal as frame-major samples (L R L R ...) into dst,
// growing it if needed, and returns the filled slice.
func (s *Signal) Interleave(dst []float32) []float32 {
	n := s.Frames() * len(s.Channels)
	if cap(dst) < n {
		dst = make([]float32, n)
	}
	dst = dst[:n]
	nc := len(s.Channels)
	for c, ch := range s.Channels {
		for i, v := range ch {
			dst[i*nc+c] = v
		}
	}
	return dst
}
