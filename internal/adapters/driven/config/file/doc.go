// Package file provides file-based implementations of driven port interfaces.
//
// Adapters:
//   - ConfigStore: TOML configuration at ~/.pitrseek/config.toml
//   - Watch: change notification for the configuration file
package file
