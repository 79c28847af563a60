package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"clipreel/internal/faults"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the media library, output, and scratch directories.
type Paths struct {
	ClipsDir  string `toml:"clips_dir"`
	AudioDir  string `toml:"audio_dir"`
	OutputDir string `toml:"output_dir"`
	TempDir   string `toml:"temp_dir"`
}

// Library controls which files in the library directories are eligible.
type Library struct {
	ClipExtensions  []string `toml:"clip_extensions"`
	AudioExtensions []string `toml:"audio_extensions"`
}

// Selection contains rotation defaults.
type Selection struct {
	DefaultCount int `toml:"default_count"`
}

// Audio contains background track shaping parameters.
type Audio struct {
	Volume         float64 `toml:"volume"`
	FadeMaxSeconds float64 `toml:"fade_max_seconds"`
	FadeFraction   float64 `toml:"fade_fraction"`
	// ShortPolicy decides what happens when the track is shorter than the
	// video: "silence" leaves the tail silent, "loop" repeats the track.
	ShortPolicy string `toml:"short_policy"`
}

// Output controls synthesized output file names.
type Output struct {
	Prefix          string `toml:"prefix"`
	TimestampLayout string `toml:"timestamp_layout"`
	Container       string `toml:"container"`
}

// Encoding contains media engine binaries and codec choices.
type Encoding struct {
	FFmpegBinary       string `toml:"ffmpeg_binary"`
	FFprobeBinary      string `toml:"ffprobe_binary"`
	VideoCodec         string `toml:"video_codec"`
	AudioCodec         string `toml:"audio_codec"`
	FallbackVideoCodec string `toml:"fallback_video_codec"`
	FallbackAudioCodec string `toml:"fallback_audio_codec"`
}

// State contains persisted usage tracking and run history settings.
type State struct {
	UsageFile          string `toml:"usage_file"`
	LockTimeoutSeconds int    `toml:"lock_timeout_seconds"`
	HistoryEnabled     bool   `toml:"history_enabled"`
	HistoryDB          string `toml:"history_db"`
	StaleWorkspaceAge  int    `toml:"stale_workspace_hours"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for clipreel.
//
// Configuration sections by subsystem:
//   - Paths: clip, audio, output, and scratch directories
//   - Library: eligible file extensions
//   - Selection: rotation defaults
//   - Audio: background track volume, fade, and short-track policy
//   - Output: synthesized output names
//   - Encoding: ffmpeg/ffprobe binaries and codecs
//   - State: usage file, lock timeout, run history
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Library   Library   `toml:"library"`
	Selection Selection `toml:"selection"`
	Audio     Audio     `toml:"audio"`
	Output    Output    `toml:"output"`
	Encoding  Encoding  `toml:"encoding"`
	State     State     `toml:"state"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/clipreel/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, faults.Wrap(faults.ErrConfiguration, "resolve config", "", err)
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, faults.Wrap(faults.ErrConfiguration, "open config", resolvedPath, err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, faults.Wrap(faults.ErrConfiguration, "parse config", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, faults.Wrap(faults.ErrConfiguration, "normalize config", "", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, faults.Wrap(faults.ErrConfiguration, "validate config", "", err)
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	projectPath, err := filepath.Abs("clipreel.toml")
	if err != nil {
		return "", false, err
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the output directory. The clip and audio
// libraries are never created: a missing library is a configuration error.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Paths.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.OutputDir, err)
	}
	return nil
}

// LockTimeout returns how long a run waits for the usage file lock.
func (c *Config) LockTimeout() time.Duration {
	return time.Duration(c.State.LockTimeoutSeconds) * time.Second
}

// StaleWorkspaceAge returns the age after which abandoned run workspaces are swept.
func (c *Config) StaleWorkspaceAge() time.Duration {
	return time.Duration(c.State.StaleWorkspaceAge) * time.Hour
}

// LoopShortAudio reports whether short background tracks repeat to fill the video.
func (c *Config) LoopShortAudio() bool {
	return c.Audio.ShortPolicy == ShortPolicyLoop
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
