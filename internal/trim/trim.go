// SPDX-License-Identifier: MIT
/*
Package trim cuts a time window out of a decoded signal and re-encodes it as a
16-bit PCM WAV file.

The cut is a direct sample slice: no resampling, fades or zero-crossing search
is applied at the boundaries, so a cut through a non-zero sample may click.
*/
package trim

import (
	"errors"
	"fmt"
	"math"

	"audiotrim/internal/pcm"
	"audiotrim/internal/wav"
)

var (
	ErrInvalidWindow = errors.New("trim: invalid window")
	ErrEmptySignal   = errors.New("trim: empty signal")
)

// Output is an encoded trim result ready for a download sink.
type Output struct {
	MIMEType   string
	Bytes      []byte
	Frames     int
	Channels   int
	SampleRate int
}

// Trim returns the frames of sig covered by w as a WAV file. The window is
// clamped to the signal duration first; a window that is empty after clamping
// and flooring to frame indices is rejected with ErrInvalidWindow. sig is
// never modified and the output shares no memory with it.
func Trim(sig *pcm.Signal, w Window) (*Output, error) {
	cut, err := Cut(sig, w)
	if err != nil {
		return nil, err
	}

	data, err := wav.Encode(cut)
	if err != nil {
		return nil, err
	}

	return &Output{
		MIMEType:   wav.MIMEType,
		Bytes:      data,
		Frames:     cut.Frames(),
		Channels:   cut.NumChannels(),
		SampleRate: cut.SampleRate,
	}, nil
}

// Cut returns a copy of the frames of sig covered by w, applying the same
// clamping and validation as Trim. Playback previews use it directly.
func Cut(sig *pcm.Signal, w Window) (*pcm.Signal, error) {
	if sig == nil || sig.Frames() == 0 {
		return nil, ErrEmptySignal
	}
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	if math.IsNaN(w.Start) || math.IsNaN(w.End) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWindow, w)
	}

	start, end := w.Clamp(sig.Seconds()).Frames(sig.SampleRate, sig.Frames())
	if start >= end {
		return nil, fmt.Errorf("%w: %v selects frames [%d, %d)", ErrInvalidWindow, w, start, end)
	}
	return sig.Slice(start, end), nil
}
