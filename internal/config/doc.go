// Package config handles YAML configuration loading with environment variable substitution.
//
// Configuration files support ${VAR} syntax for environment variable interpolation.
// A small set of PRICESTAMP_* variables can additionally override individual
// fields after the file is parsed; see EnvOverrides.
package config
