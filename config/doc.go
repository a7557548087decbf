// Package config loads the monitor configuration from a YAML file,
// environment variables and command-line flags, in increasing order of
// precedence, and validates it.
package config
