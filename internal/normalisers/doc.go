// Package normalisers turns uploaded incident reports into plain text.
// Each sub-package handles one file format; Loader picks one by extension.
package normalisers
