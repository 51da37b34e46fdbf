// Package config loads, normalizes, and validates qualigap configuration data.
//
// It supplies repository defaults (which reproduce the original analysis
// window: Charles Leclerc, 2022-2024, top seven tracks, a two second outlier
// limit), expands user paths including tilde shortcuts, reads TOML files, and
// honours the QUALIGAP_PROVIDER_URL environment fallback. Command-line flags
// are applied by the CLI on top of the loaded Config.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
