package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gpmaia/homepage/internal/bibtex"
	"github.com/gpmaia/homepage/internal/fetch"
	"github.com/gpmaia/homepage/internal/storage"
)

// DefaultDBPath is the search index used when --db is not given.
const DefaultDBPath = ".homepage/publications.db"

var (
	pubsDB    string
	pubsLimit int
)

var pubsCmd = &cobra.Command{
	Use:   "pubs",
	Short: "Inspect and search the bibliography",
	Long: `Inspect and search the bibliography that feeds the publication list.

Subcommands:
  parse   Print the publications parsed from a BibTeX file
  index   Build a full-text search index from a BibTeX file
  search  Search the index
  get     Look up an indexed publication by DOI
  export  Write parsed publications as JSONL or BibTeX`,
}

var pubsParseCmd = &cobra.Command{
	Use:   "parse [file|url]",
	Short: "Print parsed publications",
	Long: `Print the publications parsed from a BibTeX file or URL, in file order.
Defaults to the configured bibliography.

Examples:
  homepage pubs parse
  homepage pubs parse publications.bib --human`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPubsParse,
}

var pubsIndexCmd = &cobra.Command{
	Use:   "index [file|url]",
	Short: "Build the search index",
	Long: `Parse a bibliography and rebuild the SQLite full-text index from it.
The index is replaced wholesale, so it always mirrors the file.

Examples:
  homepage pubs index
  homepage pubs index publications.bib --db /tmp/pubs.db`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPubsIndex,
}

var pubsSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search indexed publications",
	Long: `Search titles, authors and abstracts of indexed publications.

Examples:
  homepage pubs search phylogenetics
  homepage pubs search "ancestral state" --limit 5 --human`,
	Args: cobra.ExactArgs(1),
	RunE: runPubsSearch,
}

var pubsGetCmd = &cobra.Command{
	Use:   "get <doi>",
	Short: "Look up an indexed publication by DOI",
	Long: `Look up an indexed publication by DOI.

Examples:
  homepage pubs get 10.1000/xyz123 --human`,
	Args: cobra.ExactArgs(1),
	RunE: runPubsGet,
}

var pubsExportCmd = &cobra.Command{
	Use:   "export <out.jsonl|out.bib> [file|url]",
	Short: "Write parsed publications as JSONL or BibTeX",
	Long: `Parse a bibliography and write it back out. A .bib output is a
normalized BibTeX file holding only the fields the site shows; any other
output gets one JSON publication per line. The snapshot can be indexed
later without the original file:

  homepage pubs export publications.jsonl
  homepage pubs index publications.jsonl
  homepage pubs export clean.bib https://example.org/publications.bib`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runPubsExport,
}

func init() {
	pubsCmd.PersistentFlags().StringVar(&pubsDB, "db", DefaultDBPath, "Path to the search index")
	pubsSearchCmd.Flags().IntVarP(&pubsLimit, "limit", "n", DefaultSearchLimit, "Maximum results")

	pubsCmd.AddCommand(pubsParseCmd)
	pubsCmd.AddCommand(pubsIndexCmd)
	pubsCmd.AddCommand(pubsSearchCmd)
	pubsCmd.AddCommand(pubsGetCmd)
	pubsCmd.AddCommand(pubsExportCmd)
	rootCmd.AddCommand(pubsCmd)
}

// loadPublications fetches and parses the bibliography at the given
// location, or the configured one. JSONL snapshots are read directly.
func loadPublications(cmd *cobra.Command, args []string) []bibtex.Publication {
	cfg := mustLoadConfig()
	location := cfg.Bibliography
	if len(args) > 0 {
		location = args[0]
	}

	if strings.HasSuffix(location, ".jsonl") {
		if _, err := os.Stat(location); err != nil {
			exitWithError(ExitDataError, "publications file not found: %s", location)
		}
		pubs, err := storage.ReadAll(location)
		if err != nil {
			exitWithError(ExitDataError, "reading %s: %v", location, err)
		}
		return pubs
	}

	src := fetch.NewSource(location, fetch.WithRateLimit(cfg.RateLimit))
	text, err := src.Fetch(cmd.Context())
	if err != nil {
		if fetch.IsNotFound(err) {
			exitWithError(ExitDataError, "bibliography not found: %s", location)
		}
		exitWithError(ExitDataError, "fetching bibliography: %v", err)
	}

	pubs := bibtex.ParseAll(text)
	logger.Debug("parsed bibliography", zap.String("source", fetch.Describe(src)), zap.Int("publications", len(pubs)))
	return pubs
}

func runPubsParse(cmd *cobra.Command, args []string) error {
	pubs := loadPublications(cmd, args)
	if humanOutput {
		printPublicationsHuman(pubs)
		return nil
	}
	if pubs == nil {
		pubs = []bibtex.Publication{}
	}
	return outputJSON(PublicationsResponse{Count: len(pubs), Publications: pubs})
}

func runPubsIndex(cmd *cobra.Command, args []string) error {
	pubs := loadPublications(cmd, args)

	if err := os.MkdirAll(filepath.Dir(pubsDB), 0755); err != nil {
		exitWithError(ExitError, "creating index directory: %v", err)
	}
	db, err := storage.OpenDB(pubsDB)
	if err != nil {
		exitWithError(ExitError, "opening index: %v", err)
	}
	defer db.Close()

	n, err := db.Rebuild(pubs)
	if err != nil {
		return fmt.Errorf("rebuilding index: %w", err)
	}

	if humanOutput {
		outputHuman("Indexed %d publications into %s\n", n, pubsDB)
		return nil
	}
	return outputJSON(IndexResponse{Status: "indexed", Path: pubsDB, Indexed: n})
}

func runPubsSearch(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(pubsDB); err != nil {
		exitWithError(ExitDataError, "no index at %s (run 'homepage pubs index' first)", pubsDB)
	}
	db, err := storage.OpenDB(pubsDB)
	if err != nil {
		exitWithError(ExitError, "opening index: %v", err)
	}
	defer db.Close()

	pubs, err := db.Search(args[0], pubsLimit)
	if err != nil {
		return fmt.Errorf("searching: %w", err)
	}

	if humanOutput {
		printPublicationsHuman(pubs)
		return nil
	}
	if pubs == nil {
		pubs = []bibtex.Publication{}
	}
	return outputJSON(PublicationsResponse{Count: len(pubs), Publications: pubs})
}

func runPubsGet(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(pubsDB); err != nil {
		exitWithError(ExitDataError, "no index at %s (run 'homepage pubs index' first)", pubsDB)
	}
	db, err := storage.OpenDB(pubsDB)
	if err != nil {
		exitWithError(ExitError, "opening index: %v", err)
	}
	defer db.Close()

	p, err := db.GetByDOI(args[0])
	if err != nil {
		return fmt.Errorf("looking up DOI: %w", err)
	}
	if p == nil {
		exitWithError(ExitDataError, "no publication with DOI %s", args[0])
	}

	if humanOutput {
		printPublicationsHuman([]bibtex.Publication{*p})
		return nil
	}
	return outputJSON(p)
}

func runPubsExport(cmd *cobra.Command, args []string) error {
	out := args[0]
	pubs := loadPublications(cmd, args[1:])

	var err error
	if strings.HasSuffix(out, ".bib") {
		err = os.WriteFile(out, []byte(bibtex.FormatAll(pubs)), 0644)
	} else {
		err = storage.WriteAll(out, pubs)
	}
	if err != nil {
		exitWithError(ExitError, "writing %s: %v", out, err)
	}

	if humanOutput {
		outputHuman("Exported %d publications to %s\n", len(pubs), out)
		return nil
	}
	return outputJSON(IndexResponse{Status: "exported", Path: out, Indexed: len(pubs)})
}
