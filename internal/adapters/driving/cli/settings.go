package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	configfile "github.com/culturo-labs/culturo-cli/internal/adapters/driven/config/file"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the provider, models, and retrieval tuning.

Settings are stored in a TOML file and only need to list the keys that
deviate from the defaults.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a settings key",
	Long: `Set a single settings key. Available keys:

  provider           embedding/LLM backend: openai or ollama
  embedding_model    embedding model name (empty = provider default)
  llm_model          generation model name (empty = provider default)
  rerank_model       cross-encoder model name (empty = default)
  max_results_cap    upper bound on per-query max results
  overfetch_factor   retrieval over-fetch multiplier
  rrf_constant       reciprocal rank fusion constant
  chunk_budget       character budget per chunk
  max_embed_failure  tolerated embedding failure fraction [0, 1]`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

// openConfigStore opens just the config store, without wiring providers.
// Settings commands must work before any API key is configured.
func openConfigStore() (*configfile.ConfigStore, error) {
	store, err := configfile.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("opening config store: %w", err)
	}
	return store, nil
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	store, err := openConfigStore()
	if err != nil {
		return err
	}

	s, err := store.Load()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	cmd.Println(headingStyle.Render("Settings"))
	cmd.Println(mutedStyle.Render("  " + store.Path()))
	cmd.Println()
	cmd.Printf("  provider           %s\n", s.Provider)
	cmd.Printf("  embedding_model    %s\n", orDefault(s.EmbeddingModel))
	cmd.Printf("  llm_model          %s\n", orDefault(s.LLMModel))
	cmd.Printf("  rerank_model       %s\n", orDefault(s.RerankModel))
	cmd.Printf("  max_results_cap    %d\n", s.MaxResultsCap)
	cmd.Printf("  overfetch_factor   %d\n", s.OverfetchFactor)
	cmd.Printf("  rrf_constant       %d\n", s.RRFConstant)
	cmd.Printf("  chunk_budget       %d\n", s.ChunkBudget)
	cmd.Printf("  max_embed_failure  %g\n", s.MaxEmbedFailure)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	store, err := openConfigStore()
	if err != nil {
		return err
	}

	s, err := store.Load()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	key, value := args[0], args[1]
	switch key {
	case "provider":
		s.Provider = value
	case "embedding_model":
		s.EmbeddingModel = value
	case "llm_model":
		s.LLMModel = value
	case "rerank_model":
		s.RerankModel = value
	case "max_results_cap":
		if s.MaxResultsCap, err = strconv.Atoi(value); err != nil {
			return fmt.Errorf("%s: expected an integer, got %q", key, value)
		}
	case "overfetch_factor":
		if s.OverfetchFactor, err = strconv.Atoi(value); err != nil {
			return fmt.Errorf("%s: expected an integer, got %q", key, value)
		}
	case "rrf_constant":
		if s.RRFConstant, err = strconv.Atoi(value); err != nil {
			return fmt.Errorf("%s: expected an integer, got %q", key, value)
		}
	case "chunk_budget":
		if s.ChunkBudget, err = strconv.Atoi(value); err != nil {
			return fmt.Errorf("%s: expected an integer, got %q", key, value)
		}
	case "max_embed_failure":
		if s.MaxEmbedFailure, err = strconv.ParseFloat(value, 64); err != nil {
			return fmt.Errorf("%s: expected a number, got %q", key, value)
		}
	default:
		return fmt.Errorf("unknown settings key %q", key)
	}

	if err := store.Save(s); err != nil {
		return err
	}
	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}

func orDefault(s string) string {
	if s == "" {
		return "(provider default)"
	}
	return s
}
