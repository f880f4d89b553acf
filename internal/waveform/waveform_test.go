// SPDX-License-Identifier: MIT
package waveform

import (
	"math"
	"testing"

	"audiotrim/internal/pcm"
	"audiotrim/pkg/signalgen"
)

func TestSummarizeConstant(t *testing.T) {
	sig := signalgen.Constant(8000, 2, 8000, 0.25)
	buckets := Summarize(sig, 100)

	if len(buckets) != 100 {
		t.Fatalf("len = %d, want 100", len(buckets))
	}
	for i, b := range buckets {
		if b.Min != 0.25 || b.Max != 0.25 {
			t.Fatalf("bucket %d = %+v, want min=max=0.25", i, b)
		}
	}
}

func TestSummarizeRamp(t *testing.T) {
	sig := signalgen.Ramp(1000, 1, 1000)
	buckets := Summarize(sig, 10)

	if buckets[0].Min != -1 {
		t.Errorf("first bucket min = %v, want -1", buckets[0].Min)
	}
	if buckets[9].Max != 1 {
		t.Errorf("last bucket max = %v, want 1", buckets[9].Max)
	}
	for i := 1; i < len(buckets); i++ {
		if buckets[i].Min <= buckets[i-1].Max {
			t.Errorf("bucket %d overlaps previous: %+v after %+v", i, buckets[i], buckets[i-1])
		}
	}
}

func TestSummarizeAcrossChannels(t *testing.T) {
	sig := &pcm.Signal{
		SampleRate: 10,
		Channels: [][]float32{
			{0.1, 0.2},
			{-0.5, 0.9},
		},
	}

	buckets := Summarize(sig, 1)
	if len(buckets) != 1 {
		t.Fatalf("len = %d, want 1", len(buckets))
	}
	if buckets[0].Min != float64(float32(-0.5)) || buckets[0].Max != float64(float32(0.9)) {
		t.Errorf("bucket = %+v, want min=-0.5 max=0.9", buckets[0])
	}
}

func TestSummarizeEdgeCases(t *testing.T) {
	tests := []struct {
		desc   string
		signal *pcm.Signal
		n      int
		want   int
	}{
		{"Empty signal", pcm.New(8000, 1, 0), 10, 0},
		{"Zero buckets", signalgen.Constant(8000, 1, 10, 0), 0, 0},
		{"More buckets than frames", signalgen.Constant(8000, 1, 5, 0), 50, 5},
		{"Uneven split", signalgen.Constant(8000, 1, 101, 0), 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if got := len(Summarize(tt.signal, tt.n)); got != tt.want {
				t.Errorf("len = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeasureSine(t *testing.T) {
	sig := signalgen.Sine(48000, 2, 48000, 1000, 1)
	st := Measure(sig)

	if math.Abs(st.Peak-1) > 1e-3 {
		t.Errorf("Peak = %.5f, want 1", st.Peak)
	}
	if math.Abs(st.RMS-1/math.Sqrt2) > 1e-3 {
		t.Errorf("RMS = %.5f, want %.5f", st.RMS, 1/math.Sqrt2)
	}
}

func TestMeasureNegativePeak(t *testing.T) {
	sig := &pcm.Signal{SampleRate: 10, Channels: [][]float32{{0, -0.75, 0.5}}}
	if st := Measure(sig); st.Peak != 0.75 {
		t.Errorf("Peak = %v, want 0.75", st.Peak)
	}
}

func TestMeasureEmpty(t *testing.T) {
	if st := Measure(pcm.New(8000, 1, 0)); st != (Stats{}) {
		t.Errorf("Measure(empty) = %+v, want zero", st)
	}
}

func TestDecibels(t *testing.T) {
	if db := Decibels(1); db != 0 {
		t.Errorf("Decibels(1) = %v, want 0", db)
	}
	if db := Decibels(0.5); math.Abs(db+6.0206) > 1e-3 {
		t.Errorf("Decibels(0.5) = %v, want -6.02", db)
	}
	if !math.IsInf(Decibels(0), -1) {
		t.Error("Decibels(0) should be -Inf")
	}
}
