// SPDX-License-Identifier: MIT
//
// Package spectrum computes averaged magnitude spectra of decoded signals. It
// backs the dominant frequency readout of `audiotrim info` and /api/info.
package spectrum

import (
	"math"
	"math/bits"
	"math/cmplx"

	"audiotrim/internal/pcm"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
)

// DefaultSize is the FFT length used when callers pass zero.
const DefaultSize = 4096

// Analyzer holds pre-allocated buffers for one FFT length. It is not safe for
// concurrent use.
type Analyzer struct {
	size      int
	fft       *fourier.FFT
	window    []float64    // Hann coefficients
	input     []float64    // windowed frame
	coeffs    []complex128 // FFT output
	magnitude []float64    // |coeffs|
}

// NewAnalyzer creates an analyzer whose FFT length is size rounded up to a
// power of two (at least 2). Zero selects DefaultSize.
func NewAnalyzer(size int) *Analyzer {
	if size == 0 {
		size = DefaultSize
	}
	size = nextPowerOfTwo(max(size, 2))

	window := make([]float64, size)
	for i := range size {
		window[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(size-1)))
	}

	bins := size/2 + 1
	return &Analyzer{
		size:      size,
		fft:       fourier.NewFFT(size),
		window:    window,
		input:     make([]float64, size),
		coeffs:    make([]complex128, bins),
		magnitude: make([]float64, bins),
	}
}

// Size returns the FFT length.
func (a *Analyzer) Size() int { return a.size }

// Frame returns the Hann-windowed magnitude spectrum of samples, zero padded
// or truncated to Size. The returned slice is reused by the next call.
func (a *Analyzer) Frame(samples []float32) []float64 {
	n := min(len(samples), a.size)
	for i := range n {
		a.input[i] = float64(samples[i]) * a.window[i]
	}
	clear(a.input[n:])

	a.fft.Coefficients(a.coeffs, a.input)
	for i, c := range a.coeffs {
		a.magnitude[i] = cmplx.Abs(c)
	}
	return a.magnitude
}

// Average returns the mean magnitude spectrum over consecutive,
// non-overlapping frames of the mono mixdown of sig. A trailing partial frame
// is zero padded. An empty signal yields nil.
func (a *Analyzer) Average(sig *pcm.Signal) []float64 {
	frames := sig.Frames()
	if frames == 0 {
		return nil
	}

	mono := make([]float32, a.size)
	sum := make([]float64, len(a.magnitude))
	count := 0
	scale := 1 / float32(sig.NumChannels())

	for pos := 0; pos < frames; pos += a.size {
		n := min(a.size, frames-pos)
		clear(mono)
		for _, ch := range sig.Channels {
			for i, v := range ch[pos : pos+n] {
				mono[i] += v * scale
			}
		}
		floats.Add(sum, a.Frame(mono[:n]))
		count++
	}

	floats.Scale(1/float64(count), sum)
	return sum
}

// Freq returns the centre frequency in Hz of bin i at sampleRate.
func (a *Analyzer) Freq(i, sampleRate int) float64 {
	if i < 0 || i >= len(a.coeffs) {
		return 0
	}
	return a.fft.Freq(i) * float64(sampleRate)
}

// Dominant returns the frequency of the strongest non-DC bin of the averaged
// spectrum, or 0 for an empty or silent signal.
func (a *Analyzer) Dominant(sig *pcm.Signal) float64 {
	avg := a.Average(sig)
	if len(avg) < 2 {
		return 0
	}
	peak := floats.MaxIdx(avg[1:]) + 1
	if avg[peak] == 0 {
		return 0
	}
	return a.Freq(peak, sig.SampleRate)
}

// nextPowerOfTwo returns the smallest power of two >= n for n > 0.
func nextPowerOfTwo(n int) int {
	return 1 << bits.Len(uint(n-1))
}
