// Package config provides configuration management for the gateway.
//
// Configuration is read from a YAML file, completed with defaults, overridden
// from the environment, and validated before use.
//
// # Configuration Loading
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("gateway.yaml")
//
//  2. From a YAML file with environment variable overrides, tolerating a
//     missing file:
//     cfg, err := config.LoadConfigWithEnvOverrides("gateway.yaml", true)
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention GATEWAY_SECTION_FIELD.
// For example:
//
//   - GATEWAY_PROXY_LISTEN_ADDRESS overrides proxy.listen_address
//   - GATEWAY_BACKEND_BASE_URL overrides backend.base_url
//   - GATEWAY_RELAY_ROUTES overrides relay.routes (comma separated)
//   - GATEWAY_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// # Configuration Precedence
//
//  1. Values from YAML file
//  2. Default values for fields the file left empty
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Hot Reload
//
// Watcher observes the configuration file with fsnotify and hands every
// successfully validated reload to a callback. Only settings that can change
// at runtime (the log level) are applied by the gateway; the rest need a
// restart.
package config
