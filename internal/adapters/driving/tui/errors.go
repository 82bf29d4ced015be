package tui

import "errors"

// ErrMissingAnalysisService is returned when the analysis service is not provided.
var ErrMissingAnalysisService = errors.New("tui: analysis service is required")

// ErrNoDocuments is returned when there is nothing to analyse.
var ErrNoDocuments = errors.New("tui: no documents to analyse")

// ErrInterrupted is returned when the user quits before the analysis ends.
var ErrInterrupted = errors.New("tui: analysis interrupted")
