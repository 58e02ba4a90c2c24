// Package config loads runtime configuration for the club client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Environment variables prefixed with CLUB_.
//  4. Command-line flags, which override everything above.
//
// Supported flags
//
//	-a string   base URL of the club backend
//	-d string   directory holding the local database and credential file
//	-t int      request timeout (seconds)
//	-i int      online status check interval (seconds)
//	-v          verbose (debug) logging
//
// # JSON schema
//
// Intervals use timex.Duration, so values may be strings like "10s" or
// integer nanoseconds:
//
//	{
//	  "server_base_url": "http://localhost:3000",
//	  "data_dir": ".clubapp",
//	  "request_timeout": "10s",
//	  "resend_cooldown": "60s",
//	  "online_check_interval": "3s"
//	}
package config
