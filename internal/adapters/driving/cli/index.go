package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/culturo-labs/culturo-cli/internal/core/domain"
	"github.com/culturo-labs/culturo-cli/internal/ingest/ics"
	"github.com/culturo-labs/culturo-cli/internal/core/ports/driving"
	"github.com/culturo-labs/culturo-cli/internal/logger"
)

var indexWatch bool

// watchDebounce coalesces editor write bursts into a single rebuild.
const watchDebounce = 500 * time.Millisecond

var indexCmd = &cobra.Command{
	Use:   "index [corpus.json]",
	Short: "Ingest a corpus file and rebuild the index",
	Long: `Loads a JSON file of event listings into the local corpus and rebuilds
the hybrid index. Without a file argument, rebuilds from the stored corpus.

With --watch, keeps running and rebuilds whenever the file changes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVarP(&indexWatch, "watch", "w", false, "watch the corpus file and rebuild on change")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}
	ctx := cmd.Context()

	if len(args) == 0 {
		if indexWatch {
			return fmt.Errorf("--watch requires a corpus file argument")
		}
		return ingestAndRebuild(ctx, cmd, "")
	}

	path := args[0]
	if err := ingestAndRebuild(ctx, cmd, path); err != nil {
		return err
	}
	if !indexWatch {
		return nil
	}
	return watchCorpus(ctx, cmd, path)
}

// ingestAndRebuild loads the corpus file (when given), stores the events,
// and rebuilds the index.
func ingestAndRebuild(ctx context.Context, cmd *cobra.Command, path string) error {
	if path != "" {
		events, err := loadCorpusFile(path)
		if err != nil {
			return err
		}
		if err := eventStore.SaveEvents(ctx, events); err != nil {
			return fmt.Errorf("storing events: %w", err)
		}
		cmd.Printf("Loaded %d events from %s\n", len(events), path)
	}

	stats, err := indexService.Rebuild(ctx)
	if err != nil {
		return fmt.Errorf("rebuilding index: %w", err)
	}
	printIndexStats(cmd, stats)
	return nil
}

// loadCorpusFile parses event listings from a JSON array or, for .ics
// files, an iCalendar feed.
func loadCorpusFile(path string) ([]domain.RawEvent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading corpus file: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".ics") {
		return ics.Parse(data)
	}

	var events []domain.RawEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("%w: parsing corpus file: %w", domain.ErrMalformedRecord, err)
	}
	return events, nil
}

// watchCorpus blocks, rebuilding whenever the corpus file is rewritten.
// Watches the parent directory because editors replace files on save,
// which drops a watch registered on the file itself.
func watchCorpus(ctx context.Context, cmd *cobra.Command, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving corpus path: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching corpus directory: %w", err)
	}

	cmd.Printf("Watching %s for changes (Ctrl-C to stop)\n", path)

	var timer *time.Timer
	rebuild := func() {
		if err := ingestAndRebuild(ctx, cmd, path); err != nil {
			logger.Warn("Rebuild after change failed: %v", err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, rebuild)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

func printIndexStats(cmd *cobra.Command, stats *driving.IndexStats) {
	cmd.Println(headingStyle.Render(fmt.Sprintf("Index v%d ready", stats.Version)))
	cmd.Printf("  Events:  %d\n", stats.Events)
	cmd.Printf("  Chunks:  %d\n", stats.Chunks)
	if stats.SkippedRecords > 0 {
		cmd.Println(warnStyle.Render(fmt.Sprintf("  Skipped %d malformed records", stats.SkippedRecords)))
	}
	if stats.FailedEmbeddings > 0 {
		cmd.Println(warnStyle.Render(fmt.Sprintf("  %d chunks excluded (embedding failed)", stats.FailedEmbeddings)))
	}
}
