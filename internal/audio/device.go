// SPDX-License-Identifier: MIT
package audio

import "time"

// Device represents an audio device
type Device struct {
	ID                int
	Name              string
	HostAPI           string
	MaxInputChannels  int
	MaxOutputChannels int
	DefaultSampleRate float64
	LowOutputLatency  time.Duration
	HighOutputLatency time.Duration
}

// Kind reports whether the device can capture, play, or both.
func (d Device) Kind() string {
	switch {
	case d.MaxInputChannels > 0 && d.MaxOutputChannels > 0:
		return "Input/Output"
	case d.MaxInputChannels > 0:
		return "Input"
	case d.MaxOutputChannels > 0:
		return "Output"
	default:
		return "-"
	}
}

// CanPlay reports whether the device has at least one output channel.
func (d Device) CanPlay() bool {
	return d.MaxOutputChannels > 0
}
