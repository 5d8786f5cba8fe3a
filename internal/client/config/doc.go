// Package config loads runtime configuration for the taxdesk CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected via -c or -config. The format follows the
//     extension: .json/.jsonc (comments allowed), .yaml/.yml or .toml.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// References of the form ${VAR} in a config file are replaced with the
// environment value of VAR before decoding.
//
// # File schema
//
// Durations are strings like "1s" or integer nanoseconds:
//
//	{
//	  // where the municipal tax API lives
//	  "api_base_url": "https://tax.example.go.tz/api",
//	  "database_path": "${HOME}/.taxdesk.db",
//	  "poll_interval": "1s",
//	  "request_timeout": "10s",
//	  "log_file": "taxdesk.log",
//	  "log_level": "info",
//	  "start_path": "/dashboard"
//	}
package config
