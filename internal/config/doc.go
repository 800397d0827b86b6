// Package config loads importer configuration from environment variables
// (PORTO_ prefix) and an optional config.yaml, and resolves the directory
// layout the importer reads statements from and writes reports to.
package config
