// Package retriever answers questions over an indexed corpus: embed the
// question, fetch the nearest chunks, and synthesize a grounded answer
// with source attribution.
package retriever

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/marqlabs/marq/pkg/embeddings"
	"github.com/marqlabs/marq/pkg/llm"
	"github.com/marqlabs/marq/pkg/utils"
	"github.com/marqlabs/marq/pkg/vector"
)

// DefaultTopK is the number of chunks retrieved per question.
const DefaultTopK = 5

// EmptyIndexAnswer is returned when retrieval yields no chunks. The
// generator is not invoked in that case.
const EmptyIndexAnswer = "I don't have any indexed documents to answer from. Run `marq index` first."

// contextSeparator joins retrieved chunks in the prompt context block.
const contextSeparator = "\n\n---\n\n"

// Answer is a synthesized answer with the sources that grounded it.
type Answer struct {
	// Text is the generated answer.
	Text string

	// Sources lists the labels of the chunks used, deduplicated,
	// in descending similarity order.
	Sources []string
}

// Retriever wires an embedder, a vector store, and a generator into a
// question answering pipeline.
type Retriever struct {
	embedder  embeddings.Embedder
	store     vector.Store
	generator llm.Generator
	logger    *slog.Logger
}

// New creates a Retriever over the given components.
func New(embedder embeddings.Embedder, store vector.Store, generator llm.Generator, logger *slog.Logger) *Retriever {
	return &Retriever{
		embedder:  embedder,
		store:     store,
		generator: generator,
		logger:    logger,
	}
}

// Ask answers a question from the indexed corpus. topK bounds how many
// chunks ground the answer; values <= 0 fall back to DefaultTopK.
func (r *Retriever) Ask(ctx context.Context, question string, topK int) (*Answer, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	embedding, err := r.embedder.Embed(ctx, question)
	if err != nil {
		return nil, err
	}

	results, err := r.store.Query(ctx, embedding, topK)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("retrieved chunks",
		"question", utils.Truncate(question, 80),
		"results", len(results),
	)

	if len(results) == 0 {
		return &Answer{Text: EmptyIndexAnswer}, nil
	}

	prompt := buildPrompt(question, results)

	text, err := r.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return &Answer{
		Text:    text,
		Sources: sourceLabels(results),
	}, nil
}

// sourceLabel renders chunk provenance as "source > heading", or just the
// source when the chunk has no heading.
func sourceLabel(m vector.Metadata) string {
	if m.Heading == "" {
		return m.Source
	}
	return m.Source + " > " + m.Heading
}

// sourceLabels deduplicates result labels, preserving similarity order.
func sourceLabels(results []vector.QueryResult) []string {
	seen := make(map[string]bool, len(results))
	labels := make([]string, 0, len(results))
	for _, res := range results {
		label := sourceLabel(res.Metadata)
		if seen[label] {
			continue
		}
		seen[label] = true
		labels = append(labels, label)
	}
	return labels
}

// buildPrompt assembles the grounded prompt: the retrieved chunks as a
// labeled context block followed by the question.
func buildPrompt(question string, results []vector.QueryResult) string {
	parts := make([]string, len(results))
	for i, res := range results {
		parts[i] = fmt.Sprintf("[Source %d: %s (score: %.3f)]\n%s",
			i+1, sourceLabel(res.Metadata), res.Score, res.Text)
	}

	var sb strings.Builder
	sb.WriteString("You are a helpful assistant answering questions about a documentation corpus.\n")
	sb.WriteString("Answer the question using ONLY the context below. ")
	sb.WriteString("If the context does not contain the answer, say so instead of guessing.\n\n")
	sb.WriteString("Context:\n")
	sb.WriteString(strings.Join(parts, contextSeparator))
	sb.WriteString("\n\nQuestion: ")
	sb.WriteString(question)

	return sb.String()
}
