// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data under the askdoc config directory.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//   - PromptStore: editable prompt templates for chat-based text QA
package file
