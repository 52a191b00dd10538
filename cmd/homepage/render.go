package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gpmaia/homepage/internal/clipboard"
	"github.com/gpmaia/homepage/internal/fetch"
	"github.com/gpmaia/homepage/internal/page"
	"github.com/gpmaia/homepage/internal/render"
)

var (
	renderBib    string
	renderOut    string
	renderReveal bool
	renderClicks []int
)

var renderCmd = &cobra.Command{
	Use:   "render <page.html>",
	Short: "Initialize a page and write the resulting HTML",
	Long: `Initialize a page the way a browser would when it finishes loading and
write the resulting HTML.

The publication list (#pub-list) is filled from the bibliography, the
vCard link is set, and every timeline entry is wired as an accordion.
A missing or unreadable bibliography leaves the list empty and logs a
warning; the rest of the page is still rendered.

A relative bibliography path from the config is resolved against the
page's directory; --bib is taken relative to the working directory.

Examples:
  homepage render index.html > dist/index.html
  homepage render index.html --reveal --out dist/index.html
  homepage render index.html --bib https://example.org/publications.bib
  homepage render index.html --click 0 --click 2`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVar(&renderBib, "bib", "", "Bibliography path or URL (overrides config)")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "Write HTML to this file instead of stdout")
	renderCmd.Flags().BoolVar(&renderReveal, "reveal", false, "Mark every timeline entry visible")
	renderCmd.Flags().IntSliceVar(&renderClicks, "click", nil, "Click the N-th timeline entry (0-based, repeatable)")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	pagePath := args[0]

	f, err := os.Open(pagePath)
	if err != nil {
		exitWithError(ExitDataError, "opening page: %v", err)
	}
	defer f.Close()

	location := resolveBibLocation(pagePath, cfg.Bibliography, renderBib)
	src := &fetch.Counting{Source: fetch.NewSource(location, fetch.WithRateLimit(cfg.RateLimit))}
	logger.Debug("rendering page", zap.String("page", pagePath), zap.String("bibliography", location))

	p, err := page.Load(f,
		page.WithLogger(logger),
		page.WithConfig(cfg),
		page.WithSource(src),
		page.WithClipboard(clipboard.System{}),
	)
	if err != nil {
		exitWithError(ExitDataError, "parsing page: %v", err)
	}

	ctx := cmd.Context()
	p.Initialize(ctx)

	if renderReveal {
		n := p.RevealAll()
		logger.Debug("revealed timeline entries", zap.Int("count", n))
	}

	items := p.TimelineItems()
	for _, i := range renderClicks {
		if i < 0 || i >= items.Length() {
			exitWithError(ExitError, "--click %d out of range (page has %d timeline entries)", i, items.Length())
		}
		p.Click(ctx, clickTarget(items.Eq(i)))
	}
	p.Wait()

	out, err := p.HTML()
	if err != nil {
		return fmt.Errorf("serializing page: %w", err)
	}

	if renderOut == "" {
		_, err := fmt.Fprint(os.Stdout, out)
		return err
	}

	if err := os.MkdirAll(filepath.Dir(renderOut), 0755); err != nil {
		exitWithError(ExitError, "creating output directory: %v", err)
	}
	if err := os.WriteFile(renderOut, []byte(out), 0644); err != nil {
		exitWithError(ExitError, "writing output: %v", err)
	}

	resp := RenderResponse{
		Path:         renderOut,
		Entries:      p.TimelineItems().Length(),
		Publications: p.Document().Find(page.SelPublicationList).Children().Length(),
		Fetches:      src.Calls(),
		Open:         p.OpenCount(),
	}
	if humanOutput {
		outputHuman("Wrote %s\n", resp.Path)
		outputHuman("  Timeline entries: %d\n", resp.Entries)
		outputHuman("  Publications:     %d\n", resp.Publications)
		outputHuman("  Open entries:     %d\n", resp.Open)
		return nil
	}
	return outputJSON(resp)
}

// resolveBibLocation picks the bibliography location, preferring the flag
// over the config value. A flag value is used as given; a relative
// configured path resolves against the page's directory, like a relative
// fetch from the page URL.
func resolveBibLocation(pagePath, configured, flag string) string {
	if flag != "" {
		return flag
	}
	if strings.HasPrefix(configured, "http://") || strings.HasPrefix(configured, "https://") {
		return configured
	}
	if filepath.IsAbs(configured) {
		return configured
	}
	return filepath.Join(filepath.Dir(pagePath), configured)
}

// clickTarget returns the element a reader would click on: the entry's
// card when it has one, the entry itself otherwise.
func clickTarget(item *goquery.Selection) *goquery.Selection {
	if card := item.Find("." + render.ClassCard).First(); card.Length() > 0 {
		return card
	}
	return item
}
