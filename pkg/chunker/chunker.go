// Package chunker splits Markdown documents into retrievable chunks.
//
// Documents are split at heading boundaries so each section stays intact as
// one unit of context. Documents without any heading fall back to fixed-width
// slicing. Heading detection is a plain line-scanning rule, intentionally
// unaware of code fences: a "# " line inside a fenced block still starts a
// chunk. This is a documented limitation.
package chunker

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/marqlabs/marq/pkg/document"
)

// FallbackChunkSize is the window width, in characters, used when a document
// contains no headings at all.
const FallbackChunkSize = 500

// ErrChunking is returned for documents that cannot be chunked. In practice
// this only happens for documents without a path, since chunk identity is
// derived from it; any text content chunks successfully.
var ErrChunking = errors.New("chunking failed")

// Chunk is the atomic retrievable unit: a slice of one document's text with
// enough metadata to trace it back to its origin.
type Chunk struct {
	// Text is the chunk content, never empty after trimming.
	Text string

	// Source is the originating document's path.
	Source string

	// Heading is the text of the heading that opens this chunk, with the
	// '#' markers stripped. Empty for preamble and fallback chunks.
	Heading string

	// Index is the zero-based position of this chunk within its source
	// document. Indices are assigned only to retained chunks and reset
	// per document.
	Index int
}

// ID derives the chunk's store identity as "{source}::{index}". It is stable
// across runs for unchanged input and unique across a whole indexing run.
// Source paths containing the "::" separator would produce ambiguous IDs;
// they are not escaped, which is an accepted constraint on input paths.
func (c Chunk) ID() string {
	return c.Source + "::" + strconv.Itoa(c.Index)
}

// SourceLabel formats the chunk's origin for display and source attribution,
// as "{source} > {heading}", omitting the heading part when empty.
func (c Chunk) SourceLabel() string {
	if c.Heading == "" {
		return c.Source
	}
	return c.Source + " > " + c.Heading
}

// Split chunks a single document.
//
// When the document contains at least one heading line, the text is split at
// each heading boundary; every segment becomes exactly one chunk regardless
// of length, the heading line included at the top of its chunk. Text before
// the first heading forms a preamble chunk with an empty heading. Segments
// are trimmed, and segments empty after trimming are dropped without
// consuming an index.
//
// When no heading exists anywhere, the text is sliced into consecutive
// FallbackChunkSize-character windows. Windows keep their raw text (so
// concatenating them reproduces the document); whitespace-only windows are
// dropped.
func Split(doc document.Document) ([]Chunk, error) {
	if doc.Path == "" {
		return nil, fmt.Errorf("%w: document has no path", ErrChunking)
	}

	segments, found := splitByHeadings(doc.Text)
	if !found {
		return fallbackChunks(doc), nil
	}

	var chunks []Chunk
	for _, segment := range segments {
		trimmed := strings.TrimSpace(segment)
		if trimmed == "" {
			continue
		}
		chunks = append(chunks, Chunk{
			Text:    trimmed,
			Source:  doc.Path,
			Heading: headingText(trimmed),
			Index:   len(chunks),
		})
	}

	return chunks, nil
}

// splitByHeadings cuts text at every heading boundary, keeping each heading
// line as the first line of its segment. The second return value reports
// whether any heading was found; when false the caller must fall back to
// fixed-width slicing.
func splitByHeadings(text string) ([]string, bool) {
	var bounds []int

	// Visit every line start: offset 0 and the position after each newline.
	pos := 0
	for pos < len(text) {
		if isHeadingLine(text[pos:]) {
			bounds = append(bounds, pos)
		}
		next := strings.IndexByte(text[pos:], '\n')
		if next < 0 {
			break
		}
		pos += next + 1
	}

	if len(bounds) == 0 {
		return nil, false
	}

	// The preamble before the first heading is its own segment.
	if bounds[0] != 0 {
		bounds = append([]int{0}, bounds...)
	}

	segments := make([]string, 0, len(bounds))
	for i, start := range bounds {
		end := len(text)
		if i+1 < len(bounds) {
			end = bounds[i+1]
		}
		segments = append(segments, text[start:end])
	}

	return segments, true
}

// isHeadingLine reports whether s, which must begin at a line start, opens
// with one to six '#' characters followed by a space.
func isHeadingLine(s string) bool {
	n := 0
	for n < len(s) && s[n] == '#' {
		n++
	}
	return n >= 1 && n <= 6 && n < len(s) && s[n] == ' '
}

// headingText extracts the heading of a chunk's first line with the '#'
// markers stripped, or "" when the chunk does not start with a heading.
func headingText(chunk string) string {
	line := chunk
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	if !isHeadingLine(line) {
		return ""
	}
	return strings.TrimSpace(strings.TrimLeft(line, "#"))
}

// fallbackChunks slices a heading-less document into consecutive
// non-overlapping windows. Slicing is by rune so multi-byte characters are
// never cut in half.
func fallbackChunks(doc document.Document) []Chunk {
	runes := []rune(doc.Text)

	var chunks []Chunk
	for start := 0; start < len(runes); start += FallbackChunkSize {
		end := start + FallbackChunkSize
		if end > len(runes) {
			end = len(runes)
		}
		window := string(runes[start:end])
		if strings.TrimSpace(window) == "" {
			continue
		}
		chunks = append(chunks, Chunk{
			Text:   window,
			Source: doc.Path,
			Index:  len(chunks),
		})
	}

	return chunks
}
