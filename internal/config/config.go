// SPDX-License-Identifier: MIT
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	applog "audiotrim/internal/log"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Limits that bound the configuration values.
const (
	MinDeviceID       = -1 // -1 selects the host default output device.
	MaxBufferFrames   = 8192
	MinWaveformWidth  = 10
	DefaultConfigName = "config.yaml"
)

// Config represents the main application configuration structure, loaded from YAML.
type Config struct {
	Debug    bool          `yaml:"debug" toml:"debug"`         // Enable debug logging.
	LogLevel string        `yaml:"log_level" toml:"log_level"` // One of debug, info, warn, error.
	Audio    AudioConfig   `yaml:"audio" toml:"audio"`         // Playback preview settings.
	Trim     TrimConfig    `yaml:"trim" toml:"trim"`           // Where trimmed files are written.
	Server   ServerConfig  `yaml:"server" toml:"server"`       // HTTP service settings.
	Presets  PresetsConfig `yaml:"presets" toml:"presets"`     // Saved window store.
	TUI      TUIConfig     `yaml:"tui" toml:"tui"`             // Range selector settings.
}

// AudioConfig holds settings for previewing a window through PortAudio.
type AudioConfig struct {
	OutputDevice    int  `yaml:"output_device" toml:"output_device"`         // PortAudio device index (-1 for default).
	FramesPerBuffer int  `yaml:"frames_per_buffer" toml:"frames_per_buffer"` // Frames written per blocking call.
	LowLatency      bool `yaml:"low_latency" toml:"low_latency"`             // Request the device's low output latency.
}

// TrimConfig holds settings for the CLI download sink.
type TrimConfig struct {
	OutputDir string `yaml:"output_dir" toml:"output_dir"` // Directory for trimmed files when -o is not given.
	Overwrite bool   `yaml:"overwrite" toml:"overwrite"`   // Replace existing output files.
}

// ServerConfig holds settings for the HTTP service.
type ServerConfig struct {
	Address        string        `yaml:"address" toml:"address"`                   // Listen address, e.g. ":8080".
	MaxUploadBytes int64         `yaml:"max_upload_bytes" toml:"max_upload_bytes"` // Largest accepted WAV upload.
	ReadTimeout    time.Duration `yaml:"read_timeout" toml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout" toml:"write_timeout"`
	Events         bool          `yaml:"events" toml:"events"`                         // Broadcast trim events on /ws.
	UDPEvents      string        `yaml:"udp_events_address" toml:"udp_events_address"` // Also send trim events to this host:port when set.
}

// PresetsConfig holds settings for the preset database.
type PresetsConfig struct {
	Path string `yaml:"path" toml:"path"` // SQLite file path.
}

// TUIConfig holds settings for the interactive range selector.
type TUIConfig struct {
	WaveformWidth int     `yaml:"waveform_width" toml:"waveform_width"` // Number of waveform columns.
	StepSeconds   float64 `yaml:"step_seconds" toml:"step_seconds"`     // Initial handle step.
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Debug:    false,
		LogLevel: "info",
		Audio: AudioConfig{
			OutputDevice:    MinDeviceID,
			FramesPerBuffer: 1024,
			LowLatency:      false,
		},
		Trim: TrimConfig{
			OutputDir: ".",
			Overwrite: false,
		},
		Server: ServerConfig{
			Address:        ":8080",
			MaxUploadBytes: 256 << 20,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   60 * time.Second,
			Events:         true,
		},
		Presets: PresetsConfig{
			Path: defaultPresetsPath(),
		},
		TUI: TUIConfig{
			WaveformWidth: 72,
			StepSeconds:   0.1,
		},
	}
}

// LoadConfig loads configuration from a YAML file specified by path, or TOML when the
// path ends in .toml. If path is empty,
// it looks for config.yaml in the working directory and falls back to built-in
// defaults when there is none. Environment overrides are applied after the file,
// then the result is validated.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultConfigName); err == nil {
			path = DefaultConfigName
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := unmarshal(path, data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func unmarshal(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Unmarshal(data, cfg)
	default:
		return yaml.Unmarshal(data, cfg)
	}
}

// Validate checks every section for values the rest of the program cannot use.
func (c *Config) Validate() error {
	if c.Audio.OutputDevice < MinDeviceID {
		return fmt.Errorf("audio.output_device must be >= %d, got %d", MinDeviceID, c.Audio.OutputDevice)
	}
	if c.Audio.FramesPerBuffer <= 0 || c.Audio.FramesPerBuffer > MaxBufferFrames {
		return fmt.Errorf("audio.frames_per_buffer must be in (0, %d], got %d", MaxBufferFrames, c.Audio.FramesPerBuffer)
	}
	if c.Trim.OutputDir == "" {
		return fmt.Errorf("trim.output_dir must be set")
	}
	if c.Server.Address == "" {
		return fmt.Errorf("server.address must be set")
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server.max_upload_bytes must be positive, got %d", c.Server.MaxUploadBytes)
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		return fmt.Errorf("server timeouts must not be negative")
	}
	if c.Presets.Path == "" {
		return fmt.Errorf("presets.path must be set")
	}
	if c.TUI.WaveformWidth < MinWaveformWidth {
		return fmt.Errorf("tui.waveform_width must be >= %d, got %d", MinWaveformWidth, c.TUI.WaveformWidth)
	}
	if c.TUI.StepSeconds <= 0 {
		return fmt.Errorf("tui.step_seconds must be positive, got %v", c.TUI.StepSeconds)
	}
	return nil
}

// applyEnvOverrides reads ENV_* variables on top of the file values.
// Unparseable values are ignored.
func (c *Config) applyEnvOverrides() {
	// ENV_DEBUG
	if val, ok := os.LookupEnv("ENV_DEBUG"); ok {
		if bVal, err := strconv.ParseBool(val); err == nil {
			c.Debug = bVal
			applog.Debugf("configuration: overriding debug from env: %v", bVal)
		}
	}
	// ENV_LOG_LEVEL
	if val, ok := os.LookupEnv("ENV_LOG_LEVEL"); ok && val != "" {
		c.LogLevel = val
		applog.Debugf("configuration: overriding log_level from env: %s", val)
	}
	// ENV_SERVER_ADDRESS
	if val, ok := os.LookupEnv("ENV_SERVER_ADDRESS"); ok && val != "" {
		c.Server.Address = val
		applog.Debugf("configuration: overriding server.address from env: %s", val)
	}
	// ENV_PRESETS_PATH
	if val, ok := os.LookupEnv("ENV_PRESETS_PATH"); ok && val != "" {
		c.Presets.Path = val
		applog.Debugf("configuration: overriding presets.path from env: %s", val)
	}
	// ENV_UDP_EVENTS_ADDRESS
	if val, ok := os.LookupEnv("ENV_UDP_EVENTS_ADDRESS"); ok {
		c.Server.UDPEvents = val
		applog.Debugf("configuration: overriding server.udp_events_address from env: %s", val)
	}
	// ENV_OUTPUT_DEVICE
	if val, ok := os.LookupEnv("ENV_OUTPUT_DEVICE"); ok {
		if iVal, err := strconv.Atoi(val); err == nil {
			c.Audio.OutputDevice = iVal
			applog.Debugf("configuration: overriding audio.output_device from env: %d", iVal)
		}
	}
}

func defaultPresetsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "presets.db"
	}
	return filepath.Join(dir, "audiotrim", "presets.db")
}
