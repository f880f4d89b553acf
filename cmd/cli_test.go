// SPDX-License-Identifier: MIT
package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	applog "audiotrim/internal/log"
	"audiotrim/internal/presets"
	"audiotrim/internal/trim"
	"audiotrim/internal/wav"
	"audiotrim/pkg/signalgen"
)

type env struct {
	dir    string
	config string
	input  string
	out    string
}

// newEnv writes a config file and a three second stereo input into a temp dir.
func newEnv(t *testing.T) *env {
	t.Helper()
	applog.SetOutput(io.Discard)
	t.Cleanup(func() { applog.SetOutput(os.Stderr) })

	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	if err := os.Mkdir(out, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg := fmt.Sprintf("trim:\n  output_dir: %q\npresets:\n  path: %q\n", out, filepath.Join(dir, "presets.db"))
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	data, err := wav.Encode(signalgen.Sine(8000, 2, 3*8000, 440, 0.5))
	if err != nil {
		t.Fatal(err)
	}
	input := filepath.Join(dir, "song.wav")
	if err := os.WriteFile(input, data, 0o644); err != nil {
		t.Fatal(err)
	}

	return &env{dir: dir, config: cfgPath, input: input, out: out}
}

func (e *env) run(args ...string) (string, error) {
	var stdout bytes.Buffer
	err := Execute(context.Background(), append([]string{"--config", e.config}, args...), &stdout, io.Discard)
	return stdout.String(), err
}

func TestTrimCommand(t *testing.T) {
	e := newEnv(t)

	stdout, err := e.run("trim", e.input, "--start", "0.5", "--end", "1.5")
	if err != nil {
		t.Fatalf("trim: %v", err)
	}
	path := filepath.Join(e.out, "song-0.5s-1.5s.wav")
	if !strings.Contains(stdout, path) {
		t.Errorf("stdout %q does not mention %s", stdout, path)
	}

	st, err := os.Stat(path)
	if err != nil {
		t.Fatalf("output missing: %v", err)
	}
	if want := int64(wav.HeaderSize + 8000*2*2); st.Size() != want {
		t.Errorf("output size = %d, want %d", st.Size(), want)
	}

	_, err = e.run("trim", e.input, "--start", "0.5", "--end", "1.5")
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("second trim error = %v, want already exists", err)
	}
}

func TestTrimCommandOutputFlag(t *testing.T) {
	e := newEnv(t)
	path := filepath.Join(e.dir, "custom.wav")

	if _, err := e.run("trim", e.input, "-s", "2", "-o", path); err != nil {
		t.Fatalf("trim: %v", err)
	}
	sig, err := wav.DecodeFile(path)
	if err != nil {
		t.Fatalf("DecodeFile: %v", err)
	}
	if sig.Frames() != 8000 || sig.NumChannels() != 2 {
		t.Errorf("output = %d frames x %d channels, want 8000 x 2", sig.Frames(), sig.NumChannels())
	}
}

func TestTrimCommandInvalidWindow(t *testing.T) {
	e := newEnv(t)
	_, err := e.run("trim", e.input, "--start", "2", "--end", "1")
	if !errors.Is(err, trim.ErrInvalidWindow) {
		t.Errorf("error = %v, want ErrInvalidWindow", err)
	}
}

func TestTrimCommandMissingInput(t *testing.T) {
	e := newEnv(t)
	if _, err := e.run("trim", filepath.Join(e.dir, "nope.wav")); err == nil {
		t.Error("expected error for missing input")
	}
	if _, err := e.run("trim"); err == nil {
		t.Error("expected error without arguments")
	}
}

func TestPresetCommands(t *testing.T) {
	e := newEnv(t)

	if _, err := e.run("preset", "save", "chorus", "--start", "1", "--end", "2"); err != nil {
		t.Fatalf("preset save: %v", err)
	}

	stdout, err := e.run("preset", "list")
	if err != nil {
		t.Fatalf("preset list: %v", err)
	}
	if !strings.Contains(stdout, "chorus") || !strings.Contains(stdout, "2.000") {
		t.Errorf("preset list output:\n%s", stdout)
	}

	if _, err := e.run("trim", e.input, "--preset", "chorus"); err != nil {
		t.Fatalf("trim --preset: %v", err)
	}
	if _, err := os.Stat(filepath.Join(e.out, "song-1s-2s.wav")); err != nil {
		t.Errorf("preset trim output missing: %v", err)
	}

	if _, err := e.run("preset", "rm", "chorus"); err != nil {
		t.Fatalf("preset rm: %v", err)
	}
	if _, err := e.run("preset", "rm", "chorus"); !errors.Is(err, presets.ErrNotFound) {
		t.Errorf("second rm error = %v, want ErrNotFound", err)
	}
	stdout, _ = e.run("preset", "list")
	if !strings.Contains(stdout, "no presets") {
		t.Errorf("list after rm = %q", stdout)
	}
}

func TestPresetSaveRejectsInvalid(t *testing.T) {
	e := newEnv(t)
	_, err := e.run("preset", "save", "bad", "--start", "3", "--end", "1")
	if !errors.Is(err, presets.ErrInvalidPreset) {
		t.Errorf("error = %v, want ErrInvalidPreset", err)
	}
}

func TestInfoCommand(t *testing.T) {
	e := newEnv(t)
	stdout, err := e.run("info", e.input, "--buckets", "4")
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	for _, want := range []string{"8000 Hz", "24,000", "3s", "dBFS", "Min", "Dominant"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("info output missing %q:\n%s", want, stdout)
		}
	}
}

func TestBadConfig(t *testing.T) {
	e := newEnv(t)
	if err := os.WriteFile(e.config, []byte("tui:\n  waveform_width: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := e.run("info", e.input)
	if err == nil || !strings.Contains(err.Error(), "invalid configuration") {
		t.Errorf("error = %v, want invalid configuration", err)
	}
}

func TestSelectNeedsTerminal(t *testing.T) {
	e := newEnv(t)
	_, err := e.run("select", e.input, "--no-audio")
	if !errors.Is(err, errNoTerminal) {
		t.Errorf("select error = %v, want %v", err, errNoTerminal)
	}
}
