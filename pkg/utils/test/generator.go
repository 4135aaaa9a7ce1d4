package testutils

import (
	"context"
	"fmt"

	"github.com/marqlabs/marq/pkg/llm"
)

// MockGenerator is a test generator that captures prompts and returns a
// fixed response.
type MockGenerator struct {
	// Response is returned by Generate.
	Response string

	// Prompts accumulates all prompts passed to Generate.
	Prompts []string

	// Fail causes Generate to return an error.
	Fail bool
}

// NewMockGenerator creates a new mock generator.
func NewMockGenerator(response string) *MockGenerator {
	return &MockGenerator{Response: response}
}

func (m *MockGenerator) Generate(_ context.Context, prompt string) (string, error) {
	if m.Fail {
		return "", fmt.Errorf("%w: mock generation failure", llm.ErrGeneration)
	}
	m.Prompts = append(m.Prompts, prompt)
	return m.Response, nil
}

func (m *MockGenerator) Close() error {
	return nil
}

// Ensure MockGenerator implements llm.Generator
var _ llm.Generator = (*MockGenerator)(nil)
