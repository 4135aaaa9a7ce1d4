// Package llm defines the text generation interface answer synthesis
// is built on.
package llm

import (
	"context"
	"errors"
)

// ErrGeneration is the base error for answer generation failures.
var ErrGeneration = errors.New("generation failed")

// Generator produces a completion for a prompt.
type Generator interface {
	// Generate returns the model's completion for the given prompt.
	Generate(ctx context.Context, prompt string) (string, error)

	// Close releases any resources held by the generator.
	Close() error
}
