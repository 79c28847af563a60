// Package config loads, normalizes, and validates clipreel configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides for the
// media engine binaries. Relative paths resolve against the working directory
// so the default layout (clips/, audio/, output/, clip_usage.json) works from
// a project folder without any config file at all.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical extensions, and clear validation errors.
package config
