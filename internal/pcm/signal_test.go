// SPDX-License-Identifier: MIT
package pcm

import (
	"errors"
	"testing"
	"time"
)

func TestSignalShape(t *testing.T) {
	s := New(44100, 2, 88200)

	if s.NumChannels() != 2 {
		t.Errorf("NumChannels = %d, want 2", s.NumChannels())
	}
	if s.Frames() != 88200 {
		t.Errorf("Frames = %d, want 88200", s.Frames())
	}
	if s.Seconds() != 2 {
		t.Errorf("Seconds = %v, want 2", s.Seconds())
	}
	if s.Duration() != 2*time.Second {
		t.Errorf("Duration = %v, want 2s", s.Duration())
	}
}

func TestNilSignal(t *testing.T) {
	var s *Signal
	if s.Frames() != 0 || s.NumChannels() != 0 || s.Seconds() != 0 {
		t.Error("nil signal should report zero shape")
	}
	if err := s.Validate(); !errors.Is(err, ErrMalformed) {
		t.Errorf("Validate(nil) = %v, want ErrMalformed", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		desc    string
		signal  *Signal
		wantErr bool
	}{
		{"Valid stereo", New(48000, 2, 10), false},
		{"Valid empty", New(48000, 1, 0), false},
		{"Zero sample rate", New(0, 1, 10), true},
		{"Negative sample rate", New(-1, 1, 10), true},
		{"No channels", &Signal{SampleRate: 8000}, true},
		{"Ragged channels", &Signal{SampleRate: 8000, Channels: [][]float32{make([]float32, 3), make([]float32, 4)}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			err := tt.signal.Validate()
			if tt.wantErr && !errors.Is(err, ErrMalformed) {
				t.Errorf("expected ErrMalformed, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestSliceCopies(t *testing.T) {
	s := New(10, 2, 10)
	for i := range 10 {
		s.Channels[0][i] = float32(i)
		s.Channels[1][i] = -float32(i)
	}

	part := s.Slice(3, 7)
	if part.Frames() != 4 {
		t.Fatalf("Slice frames = %d, want 4", part.Frames())
	}
	if part.SampleRate != 10 {
		t.Errorf("Slice sample rate = %d, want 10", part.SampleRate)
	}
	if part.Channels[0][0] != 3 || part.Channels[1][3] != -6 {
		t.Errorf("Slice content wrong: %v %v", part.Channels[0], part.Channels[1])
	}

	part.Channels[0][0] = 100
	if s.Channels[0][3] != 3 {
		t.Error("Slice must not alias the source signal")
	}
}

func TestInterleave(t *testing.T) {
	s := &Signal{
		SampleRate: 8000,
		Channels: [][]float32{
			{1, 2, 3},
			{-1, -2, -3},
		},
	}

	got := s.Interleave(nil)
	want := []float32{1, -1, 2, -2, 3, -3}
	if len(got) != len(want) {
		t.Fatalf("Interleave length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Interleave[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestInterleaveReusesBuffer(t *testing.T) {
	s := New(8000, 2, 256)
	buf := make([]float32, 512)

	allocs := testing.AllocsPerRun(100, func() {
		buf = s.Interleave(buf)
	})
	if allocs > 0 {
		t.Errorf("Interleave with a large enough buffer allocated: got %.1f allocs, want 0", allocs)
	}
}
