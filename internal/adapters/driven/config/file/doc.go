// Package file provides a file-based implementation of the ConfigStore
// driven port. Settings persist as a TOML file in the ragchat config
// directory, with nested tables flattened to dot-notation keys.
package file
