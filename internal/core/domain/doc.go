// Package domain defines the core entities of the incident analysis pipeline.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: Raw extracted text of one report
//   - Chunk: A retrievable slice of document text
//   - QuestionSet: The fixed, ordered question battery
//   - Result: The output record handed to spreadsheet and result stores
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
