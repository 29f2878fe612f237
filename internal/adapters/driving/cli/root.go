// Package cli implements the culturo command tree. Commands talk to the
// core exclusively through the driving ports; all wiring of providers and
// stores happens here.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	embollama "github.com/culturo-labs/culturo-cli/internal/adapters/driven/embedding/ollama"
	embopenai "github.com/culturo-labs/culturo-cli/internal/adapters/driven/embedding/openai"
	llmollama "github.com/culturo-labs/culturo-cli/internal/adapters/driven/llm/ollama"
	llmopenai "github.com/culturo-labs/culturo-cli/internal/adapters/driven/llm/openai"
	"github.com/culturo-labs/culturo-cli/internal/adapters/driven/rerank/jina"
	"github.com/culturo-labs/culturo-cli/internal/adapters/driven/storage/sqlite"
	"github.com/culturo-labs/culturo-cli/internal/chunker"
	"github.com/culturo-labs/culturo-cli/internal/core/domain"
	"github.com/culturo-labs/culturo-cli/internal/core/ports/driven"
	"github.com/culturo-labs/culturo-cli/internal/core/ports/driving"
	"github.com/culturo-labs/culturo-cli/internal/core/services"
	"github.com/culturo-labs/culturo-cli/internal/index"
	"github.com/culturo-labs/culturo-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verbose   bool
	configDir string
	dataDir   string
)

// Services wired by initServices and shared by the commands.
var (
	eventStore   *sqlite.EventStore
	queryService driving.QueryService
	indexService driving.IndexService
)

var rootCmd = &cobra.Command{
	Use:   "culturo",
	Short: "Ask questions about cultural events",
	Long: `Culturo answers natural-language questions about a corpus of
cultural-event listings. It combines semantic and keyword retrieval,
cross-encoder reranking, and LLM answer synthesis with source attribution.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.culturo)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.culturo/data)")
}

// Execute runs the root command.
func Execute() error {
	defer closeServices()
	return rootCmd.Execute()
}

var closers []func() error

func closeServices() {
	for _, c := range closers {
		_ = c()
	}
	closers = nil
}

// initServices wires the full stack: config, storage, providers, index,
// and the core services. Idempotent so every command can call it.
func initServices() error {
	if queryService != nil {
		return nil
	}

	configStore, err := openConfigStore()
	if err != nil {
		return err
	}

	settings, err := configStore.Load()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	eventStore, err = sqlite.NewEventStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening event store: %w", err)
	}
	closers = append(closers, eventStore.Close)

	embedder, llm, err := buildProviders(settings)
	if err != nil {
		return err
	}
	closers = append(closers, embedder.Close, llm.Close)

	var scorer driven.RelevanceScorer
	if key := os.Getenv("JINA_API_KEY"); key != "" {
		scorer, err = jina.NewRelevanceScorer(jina.Config{
			APIKey: key,
			Model:  settings.RerankModel,
		})
		if err != nil {
			return fmt.Errorf("configuring reranker: %w", err)
		}
		closers = append(closers, scorer.Close)
	} else {
		logger.Debug("JINA_API_KEY not set, answers use fused retrieval order")
	}

	hybrid := index.New(embedder, index.Config{
		RRFConstant:     settings.RRFConstant,
		MaxEmbedFailure: settings.MaxEmbedFailure,
	})
	builder := chunker.New(chunker.WithBudget(settings.ChunkBudget))

	indexService = services.NewIndexer(eventStore, eventStore, builder, hybrid)
	queryService = services.NewQueryService(hybrid, services.NewReranker(scorer), llm, settings)
	return nil
}

// buildProviders constructs the embedding provider and language model for
// the configured backend. API keys come from the environment, never from
// the config file.
func buildProviders(s domain.Settings) (driven.EmbeddingProvider, driven.LanguageModel, error) {
	switch s.Provider {
	case "openai":
		key := os.Getenv("OPENAI_API_KEY")
		if key == "" {
			return nil, nil, fmt.Errorf("OPENAI_API_KEY is not set (provider %q)", s.Provider)
		}
		embedder, err := embopenai.NewEmbeddingProvider(embopenai.Config{
			APIKey: key,
			Model:  s.EmbeddingModel,
		})
		if err != nil {
			return nil, nil, err
		}
		llm, err := llmopenai.NewLanguageModel(llmopenai.Config{
			APIKey: key,
			Model:  s.LLMModel,
		})
		if err != nil {
			return nil, nil, err
		}
		return embedder, llm, nil

	case "ollama":
		embedder := embollama.NewEmbeddingProvider(embollama.Config{Model: s.EmbeddingModel})
		llm := llmollama.NewLanguageModel(llmollama.Config{Model: s.LLMModel})
		return embedder, llm, nil

	default:
		return nil, nil, fmt.Errorf("unknown provider %q", s.Provider)
	}
}
