// Package file provides file-based implementations of driven port interfaces.
// These adapters read and persist data on the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML settings at ~/.incident-rag/config.toml
//   - PromptStore: editable batch prompt templates
//   - QuestionLoader: YAML question sets
//   - LoadEnv: provider credentials from .env files
package file
