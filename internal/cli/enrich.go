package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/litmap/internal/enrich"
	"github.com/ppiankov/litmap/internal/model"
	"github.com/ppiankov/litmap/internal/pipeline"
	"github.com/ppiankov/litmap/internal/store"
	"github.com/ppiankov/litmap/internal/worker"
	"github.com/spf13/cobra"
)

var (
	booksFile     string
	autoYes       bool
	dryRun        bool
	withLocations bool
	allLocations  bool
	bookTitle     string
	workers       int
	noCache       bool
	enrichTimeout time.Duration
	httpProxy     string
	httpsProxy    string
	llmProvider   string
	llmModel      string
)

// enrichCmd represents the enrich command
var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Fill sparse books.yaml entries from Google Books and Wikipedia",
	Long: `Enrich looks up missing metadata (isbn, author, year, genre, cover)
through the Google Books API and, with --locations, extracts setting
locations from Wikipedia plot summaries.

Changes are proposed per book and only applied after confirmation.
Existing values are never overwritten.

Example:
  litmap enrich
  litmap enrich --yes
  litmap enrich --dry-run
  litmap enrich --locations
  litmap enrich --locations --all-locations --yes
  litmap enrich --locations --book-title "East of Eden"
  litmap enrich --locations --llm openai`,
	RunE: runEnrich,
}

func init() {
	rootCmd.AddCommand(enrichCmd)

	enrichCmd.Flags().StringVar(&booksFile, "books", "", "books file (default: books.yaml)")
	enrichCmd.Flags().BoolVarP(&autoYes, "yes", "y", false, "auto-approve all changes without confirmation")
	enrichCmd.Flags().BoolVar(&dryRun, "dry-run", false, "preview changes without writing to file")
	enrichCmd.Flags().BoolVar(&withLocations, "locations", false, "also look up setting locations from Wikipedia")
	enrichCmd.Flags().BoolVar(&allLocations, "all-locations", false, "look up locations for ALL books, not just sparse ones")
	enrichCmd.Flags().StringVar(&bookTitle, "book-title", "", "process only a specific book by title")
	enrichCmd.Flags().IntVar(&workers, "workers", 0, "concurrent workers for --yes runs (default: from config)")
	enrichCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh fetch)")
	enrichCmd.Flags().DurationVar(&enrichTimeout, "timeout", 10*time.Minute, "total enrichment timeout")
	enrichCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	enrichCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")

	// LLM flags
	enrichCmd.Flags().StringVar(&llmProvider, "llm", "", "LLM provider for location suggestions (openai, ollama)")
	enrichCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runEnrich(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), enrichTimeout)
	defer cancel()

	cfg := loadConfig()
	if booksFile != "" {
		cfg.Books = booksFile
	}
	cfg.Cache.Enabled = !noCache
	cfg.HTTP.HTTPProxy = httpProxy
	cfg.HTTP.HTTPSProxy = httpsProxy
	if workers > 0 {
		cfg.Parallel.Workers = workers
	}

	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel
		switch llmProvider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.LLM.APIKey == "" {
				return fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		case "ollama":
			if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
				cfg.LLM.BaseURL = baseURL
			}
		}
	}

	fmt.Fprintf(os.Stderr, "Loading %s...\n", cfg.Books)
	lib, err := store.Load(cfg.Books)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Found %d books\n", len(lib.Books))

	if dryRun {
		fmt.Fprintln(os.Stderr, "\n[DRY RUN MODE - No changes will be written]")
	}

	p := pipeline.NewPipeline(cfg)
	enricher := p.Enricher(enrich.Options{
		Locations:    withLocations,
		AllLocations: allLocations,
	})

	var changed int
	if autoYes && !dryRun {
		changed, err = enrichBatch(ctx, cfg, enricher, lib)
	} else {
		changed, err = enrichInteractive(ctx, enricher, lib)
	}
	if err != nil {
		return err
	}

	if dryRun {
		fmt.Fprintf(os.Stderr, "\n[DRY RUN] Would have changed %d books\n", changed)
		return nil
	}
	if changed == 0 {
		fmt.Fprintln(os.Stderr, "\nNothing to change.")
		return nil
	}

	fmt.Fprintf(os.Stderr, "\nWriting changes to %s...\n", cfg.Books)
	if err := store.Save(cfg.Books, lib); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "✓ Updated %d books\n", changed)

	return nil
}

// enrichBatch runs the full enrichment concurrently. Only reachable
// with --yes, so no prompting happens mid-flight.
func enrichBatch(ctx context.Context, cfg *model.Config, enricher *enrich.Enricher, lib *model.Library) (int, error) {
	candidates := selectBooks(lib)
	if len(candidates) == 0 {
		return 0, nil
	}

	fmt.Fprintf(os.Stderr, "\nProcessing %d books with %d workers...\n", len(candidates), cfg.Parallel.Workers)

	batch := worker.NewBatchEnricher(enricher, cfg.Parallel.Workers)
	outcomes := batch.ProcessBooks(ctx, candidates)

	changed := 0
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", outcome.Title, outcome.Err)
			continue
		}
		if len(outcome.AppliedFields) == 0 && len(outcome.AddedLocations) == 0 {
			continue
		}
		changed++
		if len(outcome.AppliedFields) > 0 {
			fmt.Fprintf(os.Stderr, "✓ %s: filled %s\n", outcome.Title, strings.Join(outcome.AppliedFields, ", "))
		}
		if len(outcome.AddedLocations) > 0 {
			fmt.Fprintf(os.Stderr, "✓ %s: added locations %s\n", outcome.Title, strings.Join(outcome.AddedLocations, "; "))
		}
	}

	return changed, nil
}

// enrichInteractive mirrors the two-phase flow: metadata first, then
// the location pass. Each proposal waits for [y/N/q] unless --yes or
// --dry-run is set.
func enrichInteractive(ctx context.Context, enricher *enrich.Enricher, lib *model.Library) (int, error) {
	reader := bufio.NewReader(os.Stdin)
	changed := 0

	// Metadata phase
	for i, book := range lib.Books {
		if bookTitle != "" && book.Title != bookTitle {
			continue
		}
		missing := book.MissingFields()
		if len(missing) == 0 {
			continue
		}

		fmt.Fprintf(os.Stderr, "\n[%d/%d] Processing: %s\n", i+1, len(lib.Books), book.Title)

		meta, err := enricher.Metadata(ctx, book)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  Error fetching metadata: %v\n", err)
			continue
		}
		if meta == nil {
			fmt.Fprintln(os.Stderr, "  Could not find metadata for this book")
			continue
		}

		if !displayProposal(book, meta, missing) {
			continue
		}

		switch confirm(reader, "\nApply these changes? [y/N/q]: ") {
		case answerQuit:
			fmt.Fprintln(os.Stderr, "\nQuitting...")
			return changed, nil
		case answerNo:
			fmt.Fprintln(os.Stderr, "Skipped.")
			continue
		}

		if !dryRun {
			if applied := enrich.ApplyMetadata(book, meta); len(applied) > 0 {
				changed++
				fmt.Fprintf(os.Stderr, "✓ Applied changes to fields: %s\n", strings.Join(applied, ", "))
			}
		} else {
			changed++
		}
	}

	// Location phase
	if !withLocations {
		return changed, nil
	}

	fmt.Fprintln(os.Stderr, "\n============================================================")
	fmt.Fprintln(os.Stderr, "LOCATION ENRICHMENT PHASE")
	fmt.Fprintln(os.Stderr, "============================================================")

	for i, book := range lib.Books {
		if bookTitle != "" && book.Title != bookTitle {
			continue
		}
		if !enrich.NeedsLocations(book, allLocations) {
			continue
		}

		fmt.Fprintf(os.Stderr, "\n[%d/%d] Processing locations for: %s\n", i+1, len(lib.Books), book.Title)

		locations, err := enricher.Locations(ctx, book)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  Error looking up locations: %v\n", err)
			continue
		}
		if len(locations) == 0 {
			fmt.Fprintln(os.Stderr, "  No locations found")
			continue
		}

		fmt.Fprintln(os.Stderr, "\nProposed locations to add:")
		for _, loc := range locations {
			fmt.Fprintf(os.Stderr, "  - %s\n", loc)
		}

		switch confirm(reader, "\nAdd these locations? [y/N/q]: ") {
		case answerQuit:
			fmt.Fprintln(os.Stderr, "\nQuitting location enrichment...")
			return changed, nil
		case answerNo:
			fmt.Fprintln(os.Stderr, "Skipped.")
			continue
		}

		if !dryRun {
			if added := enrich.AddLocations(book, locations); len(added) > 0 {
				changed++
				fmt.Fprintf(os.Stderr, "✓ Added locations: %s\n", strings.Join(added, ", "))
			}
		} else {
			changed++
		}
	}

	return changed, nil
}

// selectBooks picks the books a batch run should touch: sparse ones,
// plus location candidates when the location phase is on.
func selectBooks(lib *model.Library) []*model.Book {
	var out []*model.Book
	for _, book := range lib.Books {
		if bookTitle != "" && book.Title != bookTitle {
			continue
		}
		if len(book.MissingFields()) > 0 {
			out = append(out, book)
			continue
		}
		if withLocations && enrich.NeedsLocations(book, allLocations) {
			out = append(out, book)
		}
	}
	return out
}

func displayProposal(book *model.Book, meta model.Metadata, missing []string) bool {
	fmt.Fprintln(os.Stderr, "\n============================================================")
	fmt.Fprintf(os.Stderr, "Book: %s\n", book.Title)
	fmt.Fprintf(os.Stderr, "Missing fields: %s\n", strings.Join(missing, ", "))
	fmt.Fprintln(os.Stderr, "============================================================")

	shown := 0
	for _, field := range missing {
		if value, ok := meta[field]; ok {
			fmt.Fprintf(os.Stderr, "  %s: %v (NEW)\n", field, value)
			shown++
		}
	}
	if shown == 0 {
		fmt.Fprintln(os.Stderr, "No enrichment data available for missing fields.")
		return false
	}
	return true
}

type answer int

const (
	answerNo answer = iota
	answerYes
	answerQuit
)

func confirm(reader *bufio.Reader, prompt string) answer {
	if autoYes || dryRun {
		return answerYes
	}

	fmt.Fprint(os.Stderr, prompt)
	line, err := reader.ReadString('\n')
	if err != nil {
		return answerQuit
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y":
		return answerYes
	case "q":
		return answerQuit
	default:
		return answerNo
	}
}
