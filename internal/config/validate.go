package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLibrary(); err != nil {
		return err
	}
	if err := c.validateSelection(); err != nil {
		return err
	}
	if err := c.validateAudio(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	if err := c.validateState(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLibrary() error {
	if len(c.Library.ClipExtensions) == 0 {
		return errors.New("library.clip_extensions must list at least one extension")
	}
	if len(c.Library.AudioExtensions) == 0 {
		return errors.New("library.audio_extensions must list at least one extension")
	}
	return nil
}

func (c *Config) validateSelection() error {
	if c.Selection.DefaultCount < 1 {
		return fmt.Errorf("selection.default_count must be at least 1, got %d", c.Selection.DefaultCount)
	}
	return nil
}

func (c *Config) validateAudio() error {
	if c.Audio.Volume <= 0 {
		return fmt.Errorf("audio.volume must be positive, got %v", c.Audio.Volume)
	}
	if c.Audio.FadeMaxSeconds < 0 {
		return fmt.Errorf("audio.fade_max_seconds must not be negative, got %v", c.Audio.FadeMaxSeconds)
	}
	if c.Audio.FadeFraction < 0 || c.Audio.FadeFraction > 1 {
		return fmt.Errorf("audio.fade_fraction must be between 0 and 1, got %v", c.Audio.FadeFraction)
	}
	switch c.Audio.ShortPolicy {
	case ShortPolicySilence, ShortPolicyLoop:
	default:
		return fmt.Errorf("audio.short_policy must be %q or %q, got %q", ShortPolicySilence, ShortPolicyLoop, c.Audio.ShortPolicy)
	}
	return nil
}

func (c *Config) validateOutput() error {
	if strings.ContainsAny(c.Output.Prefix, `/\`) {
		return fmt.Errorf("output.prefix must not contain path separators, got %q", c.Output.Prefix)
	}
	if strings.ContainsAny(c.Output.Container, `/\`) {
		return fmt.Errorf("output.container must be a bare extension, got %q", c.Output.Container)
	}
	return nil
}

func (c *Config) validateState() error {
	if c.State.LockTimeoutSeconds < 0 {
		return fmt.Errorf("state.lock_timeout_seconds must not be negative, got %d", c.State.LockTimeoutSeconds)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
