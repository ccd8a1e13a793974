// Package file provides file-based implementations of driven port interfaces.
//
// Adapters:
//   - ConfigStore: TOML settings in ~/.pocketserve/config.toml
//   - Watcher: reloads a ConfigStore when the file changes on disk
package file
