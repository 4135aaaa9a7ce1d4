// Package document loads Markdown source files for indexing.
package document

import "errors"

// ErrCollection is returned when the document root cannot be enumerated.
var ErrCollection = errors.New("document collection failed")

// Document is one Markdown file read for a single indexing run. Documents
// are transient: they are chunked and then discarded, never persisted.
type Document struct {
	// Path is the file path as joined from the collection root,
	// slash-separated on every platform.
	Path string

	// Text is the raw file content.
	Text string
}
