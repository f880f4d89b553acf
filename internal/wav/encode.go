// SPDX-License-Identifier: MIT
/*
Package wav converts between pcm.Signals and canonical RIFF/WAVE bytes.

Encoding always produces uncompressed 16-bit little-endian PCM with a 44-byte
header (RIFF, "fmt " and "data" chunks only). Decoding accepts integer PCM at
8, 16, 24 or 32 bits and normalizes it to float32.
*/
package wav

import (
	"fmt"
	"io"
	"math"

	"audiotrim/internal/pcm"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/orcaman/writerseeker"
)

const (
	MIMEType   = "audio/wav"
	HeaderSize = 44 // RIFF(12) + fmt(24) + data header(8)
	BitDepth   = 16

	formatPCM        = 1
	formatExtensible = 0xFFFE
)

// Quantize maps a float amplitude to a signed 16-bit sample. Inputs are clamped
// to [-1, 1]; negative values scale by 32768 and positive by 32767 so both ends
// of the int16 range are reachable. NaN maps to 0.
func Quantize(s float32) int16 {
	v := float64(s)
	switch {
	case math.IsNaN(v):
		return 0
	case v > 1:
		v = 1
	case v < -1:
		v = -1
	}
	if v < 0 {
		return int16(math.Round(v * 32768))
	}
	return int16(math.Round(v * 32767))
}

// DataSize returns the byte length of the data chunk for the given shape.
func DataSize(frames, channels int) int {
	return frames * channels * BitDepth / 8
}

// Encode serializes the signal as a 16-bit PCM WAV file held entirely in memory.
func Encode(sig *pcm.Signal) ([]byte, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}

	nc := sig.NumChannels()
	frames := sig.Frames()

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: nc,
			SampleRate:  sig.SampleRate,
		},
		Data:           make([]int, frames*nc),
		SourceBitDepth: BitDepth,
	}
	for c, ch := range sig.Channels {
		for i, v := range ch {
			buf.Data[i*nc+c] = int(Quantize(v))
		}
	}

	ws := &writerseeker.WriterSeeker{}
	enc := wav.NewEncoder(ws, sig.SampleRate, BitDepth, nc, formatPCM)
	if err := enc.Write(buf); err != nil {
		return nil, fmt.Errorf("failed to write WAV samples: %w", err)
	}
	// Close patches the RIFF and data chunk sizes.
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize WAV header: %w", err)
	}

	out, err := io.ReadAll(ws.Reader())
	if err != nil {
		return nil, fmt.Errorf("failed to read encoded WAV: %w", err)
	}
	return out, nil
}
