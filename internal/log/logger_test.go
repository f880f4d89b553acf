// SPDX-License-Identifier: MIT
package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := GetLevel()
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetLevel(prev)
	})
	return &buf
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input  string
		want   LogLevel
		wantOK bool
	}{
		{"debug", LevelDebug, true},
		{"INFO", LevelInfo, true},
		{"Warning", LevelWarn, true},
		{" error ", LevelError, true},
		{"fatal", LevelFatal, true},
		{"loud", LevelInfo, false},
		{"", LevelInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseLevel(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseLevel(%q) = (%s, %v), want (%s, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	buf := capture(t)
	SetLevel(LevelWarn)

	Debugf("debug %d", 1)
	Infof("info %d", 2)
	Warnf("warn %d", 3)
	Error("error ", 4)

	out := buf.String()
	if strings.Contains(out, "debug 1") || strings.Contains(out, "info 2") {
		t.Errorf("messages below WARN were logged: %q", out)
	}
	if !strings.Contains(out, "[WARN]  warn 3") {
		t.Errorf("missing padded warn line: %q", out)
	}
	if !strings.Contains(out, "[ERROR] error 4") {
		t.Errorf("missing error line: %q", out)
	}
}

func TestConfigure(t *testing.T) {
	capture(t)

	if err := Configure("error", false); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if GetLevel() != LevelError {
		t.Errorf("level = %s, want ERROR", GetLevel())
	}

	if err := Configure("error", true); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if GetLevel() != LevelDebug {
		t.Errorf("debug flag should force DEBUG, got %s", GetLevel())
	}

	if err := Configure("chatty", false); err == nil {
		t.Error("expected error for unknown level")
	}
	if GetLevel() != LevelInfo {
		t.Errorf("unknown level should fall back to INFO, got %s", GetLevel())
	}
}

func TestLevelString(t *testing.T) {
	if LogLevel(99).String() != "UNKNOWN" {
		t.Errorf("unexpected string for invalid level: %s", LogLevel(99))
	}
}
