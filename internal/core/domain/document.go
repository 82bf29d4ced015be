package domain

import "strings"

// Document is the raw extracted text of one uploaded report.
// It is immutable once produced by a loader.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Name is the display name, usually the file name.
	Name string

	// Path is the original location on disk, if any.
	Path string

	// Text is the full extracted text before chunking.
	Text string
}

// Chunk is a bounded-length contiguous slice of a document's text,
// the unit of retrieval.
type Chunk struct {
	// Position is the ordinal position within the chunked text.
	Position int

	// Content is the text of this chunk.
	Content string
}

// CombinedName is the display name of documents analysed as one input.
func CombinedName(docs []Document) string {
	names := make([]string, len(docs))
	for i, d := range docs {
		names[i] = d.Name
	}
	return strings.Join(names, " + ")
}
