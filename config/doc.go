// Package config handles application configuration loading and validation.
//
// Configuration is read from a YAML, TOML or JSON file chosen by extension, layered over
// Default() and under TRIXHUB_* environment overrides, then validated using struct tags.
// Provider sections are keyed by provider name; the name decides the provider kind.
package config
