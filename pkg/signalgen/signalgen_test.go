// SPDX-License-Identifier: MIT
package signalgen

import (
	"math"
	"testing"
)

func TestConstant(t *testing.T) {
	s := Constant(44100, 2, 100, 0.5)
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	for c, ch := range s.Channels {
		for i, v := range ch {
			if v != 0.5 {
				t.Fatalf("Channels[%d][%d] = %v, want 0.5", c, i, v)
			}
		}
	}
}

func TestSinePeak(t *testing.T) {
	const rate = 44100
	s := Sine(rate, 1, rate, 441, 0.8)

	var peak float64
	for _, v := range s.Channels[0] {
		peak = math.Max(peak, math.Abs(float64(v)))
	}
	if math.Abs(peak-0.8) > 0.001 {
		t.Errorf("Sine peak = %.4f, want 0.8", peak)
	}
}

func TestSineChannelsDiffer(t *testing.T) {
	s := Sine(8000, 2, 64, 100, 1)
	same := true
	for i := range s.Channels[0] {
		if s.Channels[0][i] != s.Channels[1][i] {
			same = false
			break
		}
	}
	if same {
		t.Error("Sine channels should be phase-shifted")
	}
}

func TestComplexInRange(t *testing.T) {
	s := Complex(44100, 1, 4096)
	for i, v := range s.Channels[0] {
		if v > 1 || v < -1 {
			t.Fatalf("Complex[%d] = %v out of range", i, v)
		}
	}
}

func TestRamp(t *testing.T) {
	tests := []struct {
		name   string
		frames int
	}{
		{"Empty", 0},
		{"Single", 1},
		{"Short", 5},
		{"Long", 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Ramp(1000, 1, tt.frames)
			if s.Frames() != tt.frames {
				t.Fatalf("Frames = %d, want %d", s.Frames(), tt.frames)
			}
			if tt.frames < 2 {
				return
			}
			ch := s.Channels[0]
			if ch[0] != -1 || ch[len(ch)-1] != 1 {
				t.Errorf("Ramp endpoints = %v, %v; want -1, 1", ch[0], ch[len(ch)-1])
			}
			for i := 1; i < len(ch); i++ {
				if ch[i] <= ch[i-1] {
					t.Fatalf("Ramp not strictly increasing at %d", i)
				}
			}
		})
	}
}
