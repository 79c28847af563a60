package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLibrary()
	c.normalizeAudio()
	c.normalizeOutput()
	c.normalizeEncoding()
	if err := c.normalizeState(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.ClipsDir, err = expandPath(strings.TrimSpace(c.Paths.ClipsDir)); err != nil {
		return fmt.Errorf("paths.clips_dir: %w", err)
	}
	if c.Paths.AudioDir, err = expandPath(strings.TrimSpace(c.Paths.AudioDir)); err != nil {
		return fmt.Errorf("paths.audio_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.TempDir) == "" {
		c.Paths.TempDir = os.TempDir()
	}
	if c.Paths.TempDir, err = expandPath(strings.TrimSpace(c.Paths.TempDir)); err != nil {
		return fmt.Errorf("paths.temp_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLibrary() {
	c.Library.ClipExtensions = normalizeExtensions(c.Library.ClipExtensions)
	c.Library.AudioExtensions = normalizeExtensions(c.Library.AudioExtensions)
}

func normalizeExtensions(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		ext := strings.ToLower(strings.TrimSpace(value))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if _, ok := seen[ext]; ok {
			continue
		}
		seen[ext] = struct{}{}
		out = append(out, ext)
	}
	return out
}

func (c *Config) normalizeAudio() {
	c.Audio.ShortPolicy = strings.ToLower(strings.TrimSpace(c.Audio.ShortPolicy))
	if c.Audio.ShortPolicy == "" {
		c.Audio.ShortPolicy = ShortPolicySilence
	}
}

func (c *Config) normalizeOutput() {
	c.Output.Prefix = strings.TrimSpace(c.Output.Prefix)
	if c.Output.Prefix == "" {
		c.Output.Prefix = defaultOutputPrefix
	}
	if strings.TrimSpace(c.Output.TimestampLayout) == "" {
		c.Output.TimestampLayout = defaultTimestampLayout
	}
	c.Output.Container = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(c.Output.Container)), ".")
	if c.Output.Container == "" {
		c.Output.Container = defaultContainer
	}
}

func (c *Config) normalizeEncoding() {
	if value, ok := os.LookupEnv("CLIPREEL_FFMPEG"); ok && strings.TrimSpace(value) != "" {
		c.Encoding.FFmpegBinary = value
	}
	if value, ok := os.LookupEnv("CLIPREEL_FFPROBE"); ok && strings.TrimSpace(value) != "" {
		c.Encoding.FFprobeBinary = value
	}
	c.Encoding.FFmpegBinary = strings.TrimSpace(c.Encoding.FFmpegBinary)
	if c.Encoding.FFmpegBinary == "" {
		c.Encoding.FFmpegBinary = defaultFFmpegBinary
	}
	c.Encoding.FFprobeBinary = strings.TrimSpace(c.Encoding.FFprobeBinary)
	if c.Encoding.FFprobeBinary == "" {
		c.Encoding.FFprobeBinary = defaultFFprobeBinary
	}
	c.Encoding.VideoCodec = strings.TrimSpace(c.Encoding.VideoCodec)
	if c.Encoding.VideoCodec == "" {
		c.Encoding.VideoCodec = defaultVideoCodec
	}
	c.Encoding.AudioCodec = strings.TrimSpace(c.Encoding.AudioCodec)
	if c.Encoding.AudioCodec == "" {
		c.Encoding.AudioCodec = defaultAudioCodec
	}
	c.Encoding.FallbackVideoCodec = strings.TrimSpace(c.Encoding.FallbackVideoCodec)
	if c.Encoding.FallbackVideoCodec == "" {
		c.Encoding.FallbackVideoCodec = defaultVideoCodec
	}
	c.Encoding.FallbackAudioCodec = strings.TrimSpace(c.Encoding.FallbackAudioCodec)
	if c.Encoding.FallbackAudioCodec == "" {
		c.Encoding.FallbackAudioCodec = defaultAudioCodec
	}
}

func (c *Config) normalizeState() error {
	var err error
	if strings.TrimSpace(c.State.UsageFile) == "" {
		c.State.UsageFile = defaultUsageFile
	}
	if c.State.UsageFile, err = expandPath(strings.TrimSpace(c.State.UsageFile)); err != nil {
		return fmt.Errorf("state.usage_file: %w", err)
	}
	if strings.TrimSpace(c.State.HistoryDB) == "" {
		c.State.HistoryDB = defaultHistoryDB
	}
	if c.State.HistoryDB, err = expandPath(strings.TrimSpace(c.State.HistoryDB)); err != nil {
		return fmt.Errorf("state.history_db: %w", err)
	}
	if c.State.StaleWorkspaceAge <= 0 {
		c.State.StaleWorkspaceAge = defaultStaleWorkspaceAge
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
