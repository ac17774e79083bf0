// Package config loads runtime configuration for the identity CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJSON) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string     base URL of the identity API
//	-t duration   per-request timeout (e.g. 10s)
//	-i int        server status check interval (seconds)
//	-s string     session storage driver: sqlite or redis
//	-d string     SQLite database path
//	-r string     Redis address host:port
//	-l string     log level: debug, info, warn, error
//	-o string     log output: stderr, stdout, discard or a file path
//	-log-json     emit JSON logs
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "10s"
// or integer nanoseconds. Keys that are absent keep their previous value:
//
//	{
//	  "server_base_url": "http://localhost:8080/identity",
//	  "request_timeout": "10s",
//	  "status_check_interval": "3s",
//	  "storage_driver": "redis",
//	  "database_path": "identity.db",
//	  "redis_addr": "127.0.0.1:6379",
//	  "redis_db": 0,
//	  "redis_key_prefix": "identity:",
//	  "log_level": "debug",
//	  "log_output": "client.log",
//	  "log_json": true
//	}
//
// Invalid JSON, unknown storage drivers and malformed flags panic.
package config
