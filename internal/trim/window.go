// SPDX-License-Identifier: MIT
package trim

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
)

// Window is a [Start, End) selection in seconds.
type Window struct {
	Start float64 `json:"start" yaml:"start"`
	End   float64 `json:"end" yaml:"end"`
}

// Clamp returns the window with both bounds clamped to [0, duration].
func (w Window) Clamp(duration float64) Window {
	return Window{
		Start: clamp(w.Start, 0, duration),
		End:   clamp(w.End, 0, duration),
	}
}

// Frames converts the window to frame indices in [0, totalFrames]. Any bound at
// or past the end of the signal maps to totalFrames exactly, so float error in
// frames/sampleRate never drops the last frame.
func (w Window) Frames(sampleRate, totalFrames int) (start, end int) {
	duration := float64(totalFrames) / float64(sampleRate)
	return toFrame(w.Start, sampleRate, totalFrames, duration),
		toFrame(w.End, sampleRate, totalFrames, duration)
}

// Seconds returns End - Start.
func (w Window) Seconds() float64 {
	return w.End - w.Start
}

func (w Window) String() string {
	return fmt.Sprintf("[%ss, %ss)", formatSeconds(w.Start), formatSeconds(w.End))
}

// OutputName derives the download filename for a trimmed copy of source,
// e.g. "song.wav" with [2, 4.5) becomes "song-2s-4.5s.wav".
func OutputName(source string, w Window) string {
	base := filepath.Base(source)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "audio"
	}
	return fmt.Sprintf("%s-%ss-%ss.wav", base, formatSeconds(w.Start), formatSeconds(w.End))
}

func toFrame(seconds float64, sampleRate, totalFrames int, duration float64) int {
	if math.IsNaN(seconds) || seconds <= 0 {
		return 0
	}
	if seconds >= duration {
		return totalFrames
	}
	f := int(math.Floor(seconds * float64(sampleRate)))
	if f > totalFrames {
		return totalFrames
	}
	return f
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return v
	}
	return math.Max(lo, math.Min(hi, v))
}

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', -1, 64)
}
