package ollama_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/marqlabs/marq/pkg/embeddings/ollama"
	"github.com/marqlabs/marq/pkg/vector"
)

func TestOllama(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Ollama Embedder Suite")
}

var _ = Describe("Embedder", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("defaults the model and base URL", func() {
		embedder, err := ollama.NewEmbedder(ollama.Config{})
		Expect(err).NotTo(HaveOccurred())
		Expect(embedder).NotTo(BeNil())
	})

	It("embeds a batch in one API call, preserving order", func() {
		var requests int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			Expect(r.URL.Path).To(Equal("/api/embed"))

			var req struct {
				Model string   `json:"model"`
				Input []string `json:"input"`
			}
			Expect(json.NewDecoder(r.Body).Decode(&req)).To(Succeed())
			Expect(req.Input).To(Equal([]string{"first", "second"}))

			json.NewEncoder(w).Encode(map[string]any{
				"embeddings": [][]float32{{0.1, 0.2}, {0.3, 0.4}},
			})
		}))
		defer server.Close()

		embedder, err := ollama.NewEmbedder(ollama.Config{BaseURL: server.URL})
		Expect(err).NotTo(HaveOccurred())

		vectors, err := embedder.EmbedBatch(ctx, []string{"first", "second"})
		Expect(err).NotTo(HaveOccurred())
		Expect(requests).To(Equal(1))
		Expect(vectors).To(Equal([][]float32{{0.1, 0.2}, {0.3, 0.4}}))
	})

	It("rejects a response with the wrong embedding count", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"embeddings": [][]float32{{0.1}},
			})
		}))
		defer server.Close()

		embedder, err := ollama.NewEmbedder(ollama.Config{BaseURL: server.URL})
		Expect(err).NotTo(HaveOccurred())

		_, err = embedder.EmbedBatch(ctx, []string{"a", "b"})
		Expect(err).To(MatchError(vector.ErrEmbedding))
	})

	It("wraps server errors in ErrEmbedding", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "model not found", http.StatusNotFound)
		}))
		defer server.Close()

		embedder, err := ollama.NewEmbedder(ollama.Config{BaseURL: server.URL})
		Expect(err).NotTo(HaveOccurred())

		_, err = embedder.Embed(ctx, "text")
		Expect(err).To(MatchError(vector.ErrEmbedding))
	})

	It("returns nothing for an empty batch without calling the API", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			Fail("unexpected API call")
		}))
		defer server.Close()

		embedder, err := ollama.NewEmbedder(ollama.Config{BaseURL: server.URL})
		Expect(err).NotTo(HaveOccurred())

		vectors, err := embedder.EmbedBatch(ctx, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(vectors).To(BeNil())
	})
})
