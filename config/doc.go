// Package config loads runtime configuration for the EquipChain web shell and
// the equipctl CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Environment variables prefixed with EQUIPCHAIN_.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   listen address of the web shell
//	-u string   base URL of the EquipChain API
//	-p string   authentication provider: equipchain or kratos
//	-k string   Ory Kratos public API URL
//	-j string   JWKS URL used to verify restored tokens (optional)
//	-d string   path of the sqlite token database
//	-t int      request timeout (seconds)
//	-l string   log level
//
// # JSON schema
//
//	{
//	  "listen_addr": "127.0.0.1:3000",
//	  "api_url": "http://127.0.0.1:8080",
//	  "auth_provider": "equipchain",
//	  "request_timeout": "10s",
//	  "page_size": 10
//	}
package config
