// Package config provides server configuration for respkv.
//
// This package defines the server configuration structure and validation:
//
//   - spec.go: ServerConfig struct definition
//   - default.go: Default configuration values
//   - verify.go: Validation (addresses, limits, log settings)
//
// Configuration is loaded via internal/infra/confloader and supports
// multiple sources: a YAML file, a dotenv file, environment variables
// and command line flags, in increasing priority.
package config
