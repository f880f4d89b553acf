// SPDX-License-Identifier: MIT
package wav

import (
	"errors"
	"fmt"
	"io"
	"os"

	"audiotrim/internal/pcm"

	"github.com/go-audio/wav"
)

var (
	ErrNotWAV            = errors.New("wav: not a valid WAV file")
	ErrUnsupportedFormat = errors.New("wav: unsupported format")
)

// Decode reads a PCM WAV stream into a Signal.
func Decode(r io.ReadSeeker) (*pcm.Signal, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, ErrNotWAV
	}

	if d.WavAudioFormat != formatPCM && d.WavAudioFormat != formatExtensible {
		return nil, fmt.Errorf("%w: format tag %d", ErrUnsupportedFormat, d.WavAudioFormat)
	}

	depth := int(d.BitDepth)
	switch depth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d-bit samples", ErrUnsupportedFormat, depth)
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read PCM data: %w", err)
	}

	nc := int(d.NumChans)
	frames := len(buf.Data) / nc
	sig := pcm.New(int(d.SampleRate), nc, frames)
	for i := range frames {
		for c := range nc {
			sig.Channels[c][i] = normalize(buf.Data[i*nc+c], depth)
		}
	}

	if err := sig.Validate(); err != nil {
		return nil, err
	}
	return sig, nil
}

// DecodeFile opens and decodes the WAV file at path.
func DecodeFile(path string) (*pcm.Signal, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sig, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sig, nil
}

// normalize converts an integer sample to a float amplitude. 16-bit samples
// use the inverse of Quantize so encoded signals decode to the same values.
func normalize(v, depth int) float32 {
	switch depth {
	case 8:
		// 8-bit WAV is unsigned, centred on 128.
		return float32(v-128) / 128
	case 16:
		if v < 0 {
			return float32(v) / 32768
		}
		return float32(v) / 32767
	default:
		return float32(float64(v) / float64(int64(1)<<(depth-1)))
	}
}
