// SPDX-License-Identifier: MIT
//
// Package signalgen builds deterministic pcm.Signals for tests and benchmarks.
package signalgen

import (
	"math"

	"audiotrim/internal/pcm"
)

// Constant returns a signal where every sample of every channel equals value.
func Constant(sampleRate, channels, frames int, value float32) *pcm.Signal {
	s := pcm.New(sampleRate, channels, frames)
	for _, ch := range s.Channels {
		for i := range ch {
			ch[i] = value
		}
	}
	return s
}

// Sine returns a signal carrying a sine tone of the given frequency and
// amplitude. Channel c is phase-shifted by c*pi/4 so channels are
// distinguishable after interleaving.
func Sine(sampleRate, channels, frames int, frequency, amplitude float64) *pcm.Signal {
	s := pcm.New(sampleRate, channels, frames)
	for c, ch := range s.Channels {
		phase := float64(c) * math.Pi / 4
		for i := range ch {
			tm := float64(i) / float64(sampleRate)
			ch[i] = float32(amplitude * math.Sin(2*math.Pi*frequency*tm+phase))
		}
	}
	return s
}

// Complex returns a 440Hz fundamental with two harmonics, scaled to 0.9 peak.
func Complex(sampleRate, channels, frames int) *pcm.Signal {
	s := pcm.New(sampleRate, channels, frames)
	for _, ch := range s.Channels {
		for i := range ch {
			tm := float64(i) / float64(sampleRate)
			v := math.Sin(2*math.Pi*440*tm)*0.5 +
				math.Sin(2*math.Pi*880*tm)*0.3 +
				math.Sin(2*math.Pi*1320*tm)*0.2
			ch[i] = float32(v * 0.9)
		}
	}
	return s
}

// Ramp returns a signal whose samples rise linearly from -1 to 1 across the
// whole signal. Each frame has a distinct value, which makes off-by-one slicing
// errors visible.
func Ramp(sampleRate, channels, frames int) *pcm.Signal {
	s := pcm.New(sampleRate, channels, frames)
	if frames < 2 {
		return s
	}
	for _, ch := range s.Channels {
		for i := range ch {
			ch[i] = float32(-1 + 2*float64(i)/float64(frames-1))
		}
	}
	return s
}
