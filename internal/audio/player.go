// SPDX-License-Identifier: MIT
/*
Package audio previews decoded signals through PortAudio.

Playback uses a blocking output stream: the player fills one interleaved
float32 buffer at a time and hands it to Stream.Write, checking the context
between buffers so a preview can be cancelled from another goroutine.
*/
package audio

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"audiotrim/internal/config"
	applog "audiotrim/internal/log"
	"audiotrim/internal/pcm"

	"github.com/gordonklaus/portaudio"
)

// outputStream is the subset of *portaudio.Stream used for blocking playback.
type outputStream interface {
	Start() error
	Write() error
	Stop() error
	Close() error
}

var openStream = func(params portaudio.StreamParameters, buf []float32) (outputStream, error) {
	return portaudio.OpenStream(params, buf)
}

// Player plays signals on one output device.
type Player struct {
	device          *portaudio.DeviceInfo
	framesPerBuffer int
	latency         time.Duration
	volume          atomic.Uint64 // math.Float64bits of a value in [0, 1]
}

// NewPlayer resolves the configured output device. PortAudio must already be
// initialized.
func NewPlayer(cfg config.AudioConfig) (*Player, error) {
	device, err := OutputDevice(cfg.OutputDevice)
	if err != nil {
		return nil, err
	}
	return newPlayer(device, cfg.FramesPerBuffer, cfg.LowLatency), nil
}

func newPlayer(device *portaudio.DeviceInfo, framesPerBuffer int, lowLatency bool) *Player {
	p := &Player{
		device:          device,
		framesPerBuffer: framesPerBuffer,
		latency:         device.DefaultHighOutputLatency,
	}
	if lowLatency {
		p.latency = device.DefaultLowOutputLatency
	}
	p.SetVolume(1)
	return p
}

// DeviceName returns the name of the output device.
func (p *Player) DeviceName() string {
	return p.device.Name
}

// SetVolume sets the playback gain. Values are clamped to 0.0-1.0.
func (p *Player) SetVolume(v float64) {
	if v < 0.0 || math.IsNaN(v) {
		v = 0.0
	}
	if v > 1.0 {
		v = 1.0
	}
	p.volume.Store(math.Float64bits(v))
}

// Volume returns the current playback gain.
func (p *Player) Volume() float64 {
	return math.Float64frombits(p.volume.Load())
}

// Play writes sig to the output device and blocks until every frame has been
// written or ctx is done. Signals with more channels than the device supports
// are played on the device's first channels.
func (p *Player) Play(ctx context.Context, sig *pcm.Signal) error {
	if err := sig.Validate(); err != nil {
		return err
	}
	frames := sig.Frames()
	if frames == 0 {
		return nil
	}

	channels := min(sig.NumChannels(), p.device.MaxOutputChannels)
	if channels <= 0 {
		return fmt.Errorf("device %s has no output channels", p.device.Name)
	}

	buf := make([]float32, p.framesPerBuffer*channels)
	params := portaudio.StreamParameters{
		Output: portaudio.StreamDeviceParameters{
			Device:   p.device,
			Channels: channels,
			Latency:  p.latency,
		},
		SampleRate:      float64(sig.SampleRate),
		FramesPerBuffer: p.framesPerBuffer,
	}

	stream, err := openStream(params, buf)
	if err != nil {
		return fmt.Errorf("failed to open output stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("failed to start output stream: %w", err)
	}
	defer stream.Stop()

	applog.Debugf("audio: playing %d frames x %d channels at %d Hz on %s", frames, channels, sig.SampleRate, p.device.Name)

	for pos := 0; pos < frames; {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		pos += fill(buf, sig, pos, channels, float32(p.Volume()))
		if err := stream.Write(); err != nil {
			if errors.Is(err, portaudio.OutputUnderflowed) {
				applog.Debugf("audio: output underflowed at frame %d", pos)
				continue
			}
			return fmt.Errorf("failed to write output stream: %w", err)
		}
	}
	return nil
}

// fill interleaves frames from sig starting at pos into buf, scaled by gain,
// and zero-pads whatever is left. It returns the number of frames copied.
func fill(buf []float32, sig *pcm.Signal, pos, channels int, gain float32) int {
	capacity := len(buf) / channels
	n := min(capacity, sig.Frames()-pos)

	for f := range n {
		for c := range channels {
			buf[f*channels+c] = sig.Channels[c][pos+f] * gain
		}
	}
	clear(buf[n*channels:])
	return n
}
