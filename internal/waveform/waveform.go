// SPDX-License-Identifier: MIT
//
// Package waveform reduces a signal to a small number of min/max buckets for
// drawing, and computes simple level statistics.
package waveform

import (
	"math"

	"audiotrim/internal/pcm"

	"gonum.org/v1/gonum/floats"
)

// Bucket holds the extreme amplitudes over a run of frames, across all channels.
type Bucket struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Stats summarizes the level of a signal.
type Stats struct {
	Peak float64 `json:"peak"` // Largest absolute amplitude.
	RMS  float64 `json:"rms"`  // Root mean square over every sample of every channel.
}

// Summarize splits sig into n equal runs of frames and returns the min/max of
// each. When the signal has fewer frames than n, the result has one bucket per
// frame.
func Summarize(sig *pcm.Signal, n int) []Bucket {
	frames := sig.Frames()
	if n <= 0 || frames == 0 {
		return nil
	}
	if n > frames {
		n = frames
	}

	out := make([]Bucket, n)
	scratch := make([]float64, frames/n+1)
	for b := range out {
		lo := b * frames / n
		hi := (b + 1) * frames / n
		x := scratch[:hi-lo]

		first := true
		for _, ch := range sig.Channels {
			for i, v := range ch[lo:hi] {
				x[i] = float64(v)
			}
			mn, mx := floats.Min(x), floats.Max(x)
			if first || mn < out[b].Min {
				out[b].Min = mn
			}
			if first || mx > out[b].Max {
				out[b].Max = mx
			}
			first = false
		}
	}
	return out
}

// Measure computes peak and RMS levels of sig.
func Measure(sig *pcm.Signal) Stats {
	frames := sig.Frames()
	if frames == 0 {
		return Stats{}
	}

	x := make([]float64, frames)
	var peak, sumSquares float64
	for _, ch := range sig.Channels {
		for i, v := range ch {
			x[i] = float64(v)
		}
		peak = math.Max(peak, math.Max(floats.Max(x), -floats.Min(x)))
		norm := floats.Norm(x, 2)
		sumSquares += norm * norm
	}

	n := float64(frames * sig.NumChannels())
	return Stats{
		Peak: peak,
		RMS:  math.Sqrt(sumSquares / n),
	}
}

// Decibels converts a linear amplitude to dBFS. Zero maps to -Inf.
func Decibels(amplitude float64) float64 {
	return 20 * math.Log10(amplitude)
}
