// Package config provides configuration management for the tabula application.
//
// It wraps the pagination, navigator and table configuration to provide a
// single API for loading, validating, and writing configuration files in
// YAML format.
package config
