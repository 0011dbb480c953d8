// Package config provides functionality for loading and managing application configuration.
//
// Settings are read from an optional YAML file, a .env file and process environment
// variables, in increasing order of precedence. Each settings struct validates itself
// so misconfiguration is reported at startup rather than on the first request.
package config
