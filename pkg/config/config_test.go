package config_test

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/marqlabs/marq/pkg/config"
)

func TestConfig(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Config Suite")
}

var _ = Describe("Configer config", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "config-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	It("returns defaults when no config file exists", func() {
		cfger, err := config.NewConfiger(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		cfg, err := cfger.LoadConfig()
		Expect(err).NotTo(HaveOccurred())

		Expect(cfg.VectorStore.Provider).To(Equal("sqlite"))
		Expect(cfg.VectorStore.Path).To(Equal("./marq.db"))
		Expect(cfg.Embedding.Provider).To(Equal("openai"))
		Expect(cfg.Embedding.Model).To(Equal("text-embedding-3-small"))
		Expect(cfg.Embedding.Dimensions).To(Equal(uint(1536)))
		Expect(cfg.LLM.Provider).To(Equal("anthropic"))
		Expect(cfg.Retrieval.TopK).To(Equal(5))
	})

	It("round-trips a config through save and load", func() {
		cfger, err := config.NewConfiger(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		cfg := config.NewDefaultConfig()
		cfg.VectorStore.Provider = "chroma"
		cfg.VectorStore.Target = "http://localhost:8000"
		cfg.Retrieval.TopK = 8

		Expect(cfger.SaveConfig(cfg)).To(Succeed())

		loaded, err := cfger.LoadConfig()
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.VectorStore.Provider).To(Equal("chroma"))
		Expect(loaded.VectorStore.Target).To(Equal("http://localhost:8000"))
		Expect(loaded.Retrieval.TopK).To(Equal(8))
	})

	It("fills missing fields from defaults on load", func() {
		path := filepath.Join(tmpDir, "config.toml")
		partial := "[vector_store]\nprovider = \"qdrant\"\ntarget = \"localhost:6334\"\n"
		Expect(os.WriteFile(path, []byte(partial), 0o600)).To(Succeed())

		cfger, err := config.NewConfiger(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		cfg, err := cfger.LoadConfig()
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.VectorStore.Provider).To(Equal("qdrant"))
		Expect(cfg.Embedding.Model).To(Equal("text-embedding-3-small"))
		Expect(cfg.Retrieval.TopK).To(Equal(5))
	})

	It("rejects unsupported config versions", func() {
		_, err := config.ParseConfigTOML([]byte("version = 99\n"))
		Expect(err).To(HaveOccurred())
	})

	Describe("get and set", func() {
		var cfger *config.Configer

		BeforeEach(func() {
			var err error
			cfger, err = config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())
		})

		It("sets and gets a string key", func() {
			Expect(cfger.SetConfigValue("embedding.model", "nomic-embed-text")).To(Succeed())

			val, err := cfger.GetConfigValue("embedding.model")
			Expect(err).NotTo(HaveOccurred())
			Expect(val).To(Equal("nomic-embed-text"))
		})

		It("sets and gets a numeric key", func() {
			Expect(cfger.SetConfigValue("retrieval.top_k", "10")).To(Succeed())

			val, err := cfger.GetConfigValue("retrieval.top_k")
			Expect(err).NotTo(HaveOccurred())
			Expect(val).To(Equal("10"))
		})

		It("rejects non-numeric values for numeric keys", func() {
			err := cfger.SetConfigValue("embedding.dimensions", "lots")
			Expect(err).To(HaveOccurred())
		})

		It("rejects unknown keys", func() {
			err := cfger.SetConfigValue("nope.nothing", "x")
			Expect(err).To(HaveOccurred())

			_, err = cfger.GetConfigValue("nope.nothing")
			Expect(err).To(HaveOccurred())
		})

		It("persists sets across Configer instances", func() {
			Expect(cfger.SetConfigValue("llm.provider", "ollama")).To(Succeed())

			fresh, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			val, err := fresh.GetConfigValue("llm.provider")
			Expect(err).NotTo(HaveOccurred())
			Expect(val).To(Equal("ollama"))
		})
	})

	Describe("key registry", func() {
		It("lists all supported keys", func() {
			keys := config.ValidConfigKeys()
			Expect(keys).To(ContainElements(
				"vector_store.provider",
				"embedding.model",
				"llm.model",
				"retrieval.top_k",
			))
		})

		It("validates key names", func() {
			Expect(config.IsValidConfigKey("embedding.model")).To(BeTrue())
			Expect(config.IsValidConfigKey("bogus")).To(BeFalse())
		})
	})

	Describe("presets", func() {
		It("builds the ollama preset", func() {
			cfg, err := config.PresetConfig("ollama")
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Embedding.Provider).To(Equal("ollama"))
			Expect(cfg.Embedding.Dimensions).To(Equal(uint(768)))
			Expect(cfg.LLM.Provider).To(Equal("ollama"))
		})

		It("keeps the default embedder for the anthropic preset", func() {
			cfg, err := config.PresetConfig("anthropic")
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Embedding.Provider).To(Equal("openai"))
			Expect(cfg.LLM.Provider).To(Equal("anthropic"))
		})

		It("rejects unknown presets", func() {
			_, err := config.PresetConfig("mystery")
			Expect(err).To(HaveOccurred())
		})
	})
})
