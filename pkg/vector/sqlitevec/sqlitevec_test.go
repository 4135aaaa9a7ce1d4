package sqlitevec_test

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/marqlabs/marq/pkg/logger"
	"github.com/marqlabs/marq/pkg/vector"
	"github.com/marqlabs/marq/pkg/vector/sqlitevec"
)

func TestSQLiteVec(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "SQLiteVec Suite")
}

func record(id, text, source, heading string, index int, embedding []float32) vector.Record {
	return vector.Record{
		ID:        id,
		Embedding: embedding,
		Text:      text,
		Metadata: vector.Metadata{
			Source:     source,
			Heading:    heading,
			ChunkIndex: index,
		},
	}
}

var _ = Describe("Store", func() {
	var (
		ctx   context.Context
		store *sqlitevec.Store
	)

	newStore := func() *sqlitevec.Store {
		s, err := sqlitevec.NewStore(sqlitevec.Config{
			DBPath:     ":memory:",
			Dimensions: 4,
		}, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
		return s
	}

	BeforeEach(func() {
		ctx = context.Background()
		store = newStore()
	})

	AfterEach(func() {
		Expect(store.Close()).To(Succeed())
	})

	Describe("NewStore", func() {
		It("requires a database path", func() {
			_, err := sqlitevec.NewStore(sqlitevec.Config{Dimensions: 4}, logger.Nop())
			Expect(err).To(HaveOccurred())
		})

		It("requires dimensions", func() {
			_, err := sqlitevec.NewStore(sqlitevec.Config{DBPath: ":memory:"}, logger.Nop())
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Upsert", func() {
		It("does nothing for an empty batch", func() {
			Expect(store.Upsert(ctx, nil)).To(Succeed())

			count, err := store.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(0))
		})

		It("stores records", func() {
			records := []vector.Record{
				record("a.md::0", "alpha", "a.md", "Alpha", 0, []float32{1, 0, 0, 0}),
				record("a.md::1", "beta", "a.md", "Beta", 1, []float32{0, 1, 0, 0}),
			}
			Expect(store.Upsert(ctx, records)).To(Succeed())

			count, err := store.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(2))
		})

		It("replaces a record with the same ID", func() {
			Expect(store.Upsert(ctx, []vector.Record{
				record("a.md::0", "old text", "a.md", "Old", 0, []float32{1, 0, 0, 0}),
			})).To(Succeed())

			Expect(store.Upsert(ctx, []vector.Record{
				record("a.md::0", "new text", "a.md", "New", 0, []float32{0, 1, 0, 0}),
			})).To(Succeed())

			count, err := store.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(1))

			results, err := store.Query(ctx, []float32{0, 1, 0, 0}, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
			Expect(results[0].Text).To(Equal("new text"))
			Expect(results[0].Metadata.Heading).To(Equal("New"))
		})
	})

	Describe("Query", func() {
		BeforeEach(func() {
			Expect(store.Upsert(ctx, []vector.Record{
				record("a.md::0", "about cats", "a.md", "Cats", 0, []float32{1, 0, 0, 0}),
				record("a.md::1", "about dogs", "a.md", "Dogs", 1, []float32{0, 1, 0, 0}),
				record("b.md::0", "about birds", "b.md", "", 0, []float32{0, 0, 1, 0}),
			})).To(Succeed())
		})

		It("returns the nearest records in descending similarity order", func() {
			results, err := store.Query(ctx, []float32{1, 0, 0, 0}, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))

			Expect(results[0].ID).To(Equal("a.md::0"))
			Expect(results[0].Score).To(BeNumerically("~", 1.0, 0.001))
			Expect(results[0].Score).To(BeNumerically(">", results[1].Score))
		})

		It("carries text and metadata through", func() {
			results, err := store.Query(ctx, []float32{0, 0, 1, 0}, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))

			Expect(results[0].Text).To(Equal("about birds"))
			Expect(results[0].Metadata.Source).To(Equal("b.md"))
			Expect(results[0].Metadata.Heading).To(BeEmpty())
			Expect(results[0].Metadata.ChunkIndex).To(Equal(0))
		})

		It("returns at most topK results", func() {
			results, err := store.Query(ctx, []float32{1, 0, 0, 0}, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(len(results)).To(BeNumerically("<=", 2))
		})
	})

	Describe("Reset", func() {
		It("drops all records", func() {
			Expect(store.Upsert(ctx, []vector.Record{
				record("a.md::0", "text", "a.md", "", 0, []float32{1, 0, 0, 0}),
			})).To(Succeed())

			Expect(store.Reset(ctx)).To(Succeed())

			count, err := store.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(0))
		})

		It("accepts new records after a reset", func() {
			Expect(store.Reset(ctx)).To(Succeed())
			Expect(store.Upsert(ctx, []vector.Record{
				record("a.md::0", "text", "a.md", "", 0, []float32{1, 0, 0, 0}),
			})).To(Succeed())

			count, err := store.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(1))
		})
	})
})
