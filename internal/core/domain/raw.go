package domain

// RawDocument is an uploaded file before text extraction.
type RawDocument struct {
	// Name is the file name shown in results.
	Name string

	// Path is the file location on disk, if any.
	Path string

	// MIMEType is the content type (e.g., "application/pdf").
	MIMEType string

	// Content is the raw bytes.
	Content []byte
}
