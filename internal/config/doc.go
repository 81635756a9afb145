// Package config defines the application's configuration structure and
// loading logic. Configuration comes from environment variables (preferred)
// or an optional YAML file, and is validated before the application starts.
package config
