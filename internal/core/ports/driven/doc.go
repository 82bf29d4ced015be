// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - EmbeddingProvider: Turns chunks and questions into vectors
//   - CompletionProvider: Answers batch prompts
//   - VectorIndex: Exact in-memory similarity search, one per analysis
//   - DocumentLoader / Normaliser: Extracts text from uploaded files
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the pipeline still produces results:
//
//   - ResultStore: Result history (SQLite, PostgreSQL, memory)
//   - ResultWriter: Spreadsheet output
//   - PromptStore: Customisable prompt templates
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
