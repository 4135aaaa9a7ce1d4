package anthropic_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/marqlabs/marq/pkg/llm"
	"github.com/marqlabs/marq/pkg/llm/anthropic"
)

func TestAnthropic(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Anthropic Generator Suite")
}

var _ = Describe("Generator", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("requires an API key", func() {
		_, err := anthropic.NewGenerator(anthropic.Config{})
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("ANTHROPIC_API_KEY"))
	})

	It("sends the messages request with auth headers", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Path).To(Equal("/v1/messages"))
			Expect(r.Header.Get("x-api-key")).To(Equal("test-key"))
			Expect(r.Header.Get("anthropic-version")).To(Equal("2023-06-01"))

			var req struct {
				Model     string `json:"model"`
				MaxTokens int    `json:"max_tokens"`
				Messages  []struct {
					Role    string `json:"role"`
					Content string `json:"content"`
				} `json:"messages"`
			}
			Expect(json.NewDecoder(r.Body).Decode(&req)).To(Succeed())
			Expect(req.MaxTokens).To(BeNumerically(">", 0))
			Expect(req.Messages).To(HaveLen(1))
			Expect(req.Messages[0].Role).To(Equal("user"))

			json.NewEncoder(w).Encode(map[string]any{
				"content": []map[string]string{
					{"type": "text", "text": "generated answer"},
				},
			})
		}))
		defer server.Close()

		generator, err := anthropic.NewGenerator(anthropic.Config{
			BaseURL: server.URL,
			APIKey:  "test-key",
		})
		Expect(err).NotTo(HaveOccurred())

		text, err := generator.Generate(ctx, "a prompt")
		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(Equal("generated answer"))
	})

	It("concatenates multiple text blocks", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"content": []map[string]string{
					{"type": "text", "text": "part one"},
					{"type": "text", "text": " part two"},
				},
			})
		}))
		defer server.Close()

		generator, err := anthropic.NewGenerator(anthropic.Config{
			BaseURL: server.URL,
			APIKey:  "test-key",
		})
		Expect(err).NotTo(HaveOccurred())

		text, err := generator.Generate(ctx, "p")
		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(Equal("part one part two"))
	})

	It("wraps API errors in ErrGeneration", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
		}))
		defer server.Close()

		generator, err := anthropic.NewGenerator(anthropic.Config{
			BaseURL: server.URL,
			APIKey:  "test-key",
		})
		Expect(err).NotTo(HaveOccurred())

		_, err = generator.Generate(ctx, "p")
		Expect(err).To(MatchError(llm.ErrGeneration))
	})

	It("errors on a response with no text", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"content": []map[string]string{}})
		}))
		defer server.Close()

		generator, err := anthropic.NewGenerator(anthropic.Config{
			BaseURL: server.URL,
			APIKey:  "test-key",
		})
		Expect(err).NotTo(HaveOccurred())

		_, err = generator.Generate(ctx, "p")
		Expect(err).To(MatchError(llm.ErrGeneration))
	})
})
