// Package file provides file-based implementations of driven port interfaces.
//
// Adapters:
//   - ConfigFile: TOML settings file flattened into configuration keys
//   - PromptStore: user-editable prompt templates with hot reload
package file
