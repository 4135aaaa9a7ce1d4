package document_test

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/marqlabs/marq/pkg/document"
)

func TestDocument(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Document Suite")
}

var _ = Describe("Collect", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "collect-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	write := func(rel, content string) {
		path := filepath.Join(tmpDir, rel)
		Expect(os.MkdirAll(filepath.Dir(path), 0o755)).To(Succeed())
		Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())
	}

	It("collects Markdown files recursively", func() {
		write("readme.md", "top")
		write("docs/guide.md", "nested")
		write("docs/deep/notes.md", "deeper")

		docs, err := document.Collect(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(docs).To(HaveLen(3))
	})

	It("ignores non-Markdown files", func() {
		write("guide.md", "keep")
		write("main.go", "skip")
		write("data.json", "skip")

		docs, err := document.Collect(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(docs).To(HaveLen(1))
		Expect(docs[0].Text).To(Equal("keep"))
	})

	It("matches the extension case-insensitively", func() {
		write("UPPER.MD", "upper")
		write("mixed.Md", "mixed")

		docs, err := document.Collect(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(docs).To(HaveLen(2))
	})

	It("returns documents in lexicographic path order", func() {
		write("b.md", "b")
		write("a/z.md", "az")
		write("a.md", "a")

		docs, err := document.Collect(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(docs).To(HaveLen(3))

		for i := 1; i < len(docs); i++ {
			Expect(docs[i-1].Path < docs[i].Path).To(BeTrue())
		}
	})

	It("uses slash-separated paths", func() {
		write("docs/guide.md", "x")

		docs, err := document.Collect(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(docs[0].Path).To(ContainSubstring("docs/guide.md"))
	})

	It("returns an empty slice for a directory with no Markdown", func() {
		write("main.go", "skip")

		docs, err := document.Collect(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(docs).To(BeEmpty())
	})

	It("fails for a missing root", func() {
		_, err := document.Collect(filepath.Join(tmpDir, "nope"))
		Expect(err).To(MatchError(document.ErrCollection))
	})

	It("fails when root is a file", func() {
		write("file.md", "x")

		_, err := document.Collect(filepath.Join(tmpDir, "file.md"))
		Expect(err).To(MatchError(document.ErrCollection))
	})
})
