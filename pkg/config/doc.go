// Package config provides configuration management for Kotoba.
//
// Configuration is assembled once at startup from four sources and then
// passed by value into the components that need it. Nothing in this package
// writes to the process environment.
//
// # Configuration Precedence
//
// Values are applied in the following order (later overrides earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from the YAML file (optional)
//  3. Values from the env file, normally ".env"
//  4. The process environment
//
// A variable that exists in the process environment always wins over the env
// file, mirroring the usual dotenv "do not override" rule.
//
// # Environment Variables
//
// The upstream settings use the conventional names:
//
//   - OPENAI_API_KEY sets upstream.api_key
//   - OPENAI_MODEL sets upstream.model
//   - OPENAI_API_URL sets upstream.endpoint
//
// Everything else follows KOTOBA_SECTION_FIELD, for example
// KOTOBA_SERVER_LISTEN_ADDRESS or KOTOBA_TELEMETRY_LOGGING_LEVEL. PORT is
// honoured when no listen address is given.
//
// # Example Configuration
//
//	server:
//	  listen_address: "0.0.0.0:8080"
//	upstream:
//	  model: "gpt-5-mini"
//	  temperature: 0.3
//	  timeout: "30s"
//	telemetry:
//	  logging:
//	    level: "info"
//	    format: "json"
//
// A missing API key is not a validation error; see Validate.
package config
