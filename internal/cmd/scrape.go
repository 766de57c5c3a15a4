package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/jimezsa/gdscrape/internal/config"
	"github.com/jimezsa/gdscrape/internal/export"
	"github.com/jimezsa/gdscrape/internal/glassdoor"
	"github.com/jimezsa/gdscrape/internal/models"
	"github.com/jimezsa/gdscrape/internal/network"
	"github.com/jimezsa/gdscrape/internal/seen"
	"github.com/muesli/termenv"
	"golang.org/x/sync/errgroup"
)

type KindCmd struct {
	Employer string `arg:"" help:"Glassdoor employer id (the digits after -E in employer URLs)."`
	ScrapeOptions
	Kind models.Kind `kong:"-"`
}

type AllCmd struct {
	Employer string `arg:"" help:"Glassdoor employer id (the digits after -E in employer URLs)."`
	ScrapeOptions
}

type ScrapeOptions struct {
	Country     string `help:"Proxy country requests are sent from; selects tagged proxies." env:"GDSCRAPE_DEFAULT_COUNTRY"`
	Locale      string `help:"Glassdoor country site as id or code (us, uk, ca, ca-fr, de, ...)." env:"GDSCRAPE_DEFAULT_LOCALE"`
	Concurrency int    `help:"Maximum concurrent page fetches across all listings." env:"GDSCRAPE_CONCURRENCY"`
	Timeout     int    `help:"Request timeout in seconds." env:"GDSCRAPE_TIMEOUT"`
	Proxies     string `help:"Comma-separated proxy entries." env:"GDSCRAPE_PROXIES"`
	Format      string `help:"Output format: csv, json, md, tsv." enum:",csv,json,md,tsv" default:""`
	Links       string `help:"Table link display: short or full." enum:"short,full" default:"full"`
	Output      string `name:"output" short:"o" help:"Write output to a file."`
	Seen        string `help:"Path to seen items JSON file."`
	NewOnly     bool   `help:"Output only items missing from --seen."`
	SeenUpdate  bool   `help:"Merge unseen items into --seen after output."`
}

func (k *KindCmd) Run(ctx *Context) error {
	return runScrape(ctx, k.Employer, []models.Kind{k.Kind}, k.ScrapeOptions)
}

func (a *AllCmd) Run(ctx *Context) error {
	return runScrape(ctx, a.Employer, models.Kinds, a.ScrapeOptions)
}

// collector is the part of glassdoor.Scraper the commands depend on.
type collector interface {
	Scrape(ctx context.Context, kind models.Kind, employerID string) (*glassdoor.Collection, error)
}

func runScrape(ctx *Context, employer string, kinds []models.Kind, opts ScrapeOptions) error {
	if err := validateSeenOptions(opts); err != nil {
		return err
	}

	cfg := ctx.Config
	locale, err := glassdoor.ParseLocale(firstNonEmpty(opts.Locale, cfg.DefaultLocale))
	if err != nil {
		return err
	}

	proxies, err := config.LoadProxies(opts.Proxies)
	if err != nil {
		return err
	}
	var rotator *network.Rotator
	if len(proxies) > 0 {
		rotator, err = network.NewRotator(proxies, 10*time.Minute)
		if err != nil {
			return err
		}
	}

	cookies := map[string]string{}
	if ctx.ConfigDir != "" {
		cookies, err = config.ReadCookies(filepath.Join(ctx.ConfigDir, config.CookiesFileName))
		if err != nil {
			return fmt.Errorf("read cookies: %w", err)
		}
	}

	service, err := network.NewService(network.Options{
		Concurrency: defaultInt(opts.Concurrency, cfg.Concurrency),
		Timeout:     time.Duration(defaultInt(opts.Timeout, cfg.TimeoutSeconds)) * time.Second,
		Rotator:     rotator,
	})
	if err != nil {
		return err
	}
	defer service.Close()

	scraper := glassdoor.New(service, glassdoor.Options{
		BaseURL: cfg.BaseURL,
		Country: firstNonEmpty(opts.Country, cfg.DefaultCountry),
		Locale:  locale,
		Cookies: cookies,
	}, ctx.Logger)

	ctx.Logger.Debug().
		Str("employer", employer).
		Str("locale", locale.Code).
		Int("concurrency", service.Concurrency()).
		Int("proxies", len(proxies)).
		Msg("starting scrape")

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	stopIndicator := startIndicator(ctx)
	collections, err := scrapeKinds(runCtx, scraper, employer, kinds)
	if stopIndicator != nil {
		stopIndicator()
	}
	if err != nil {
		return err
	}

	results, unseenItems, err := buildResults(collections, opts.Seen, opts.NewOnly)
	if err != nil {
		return err
	}

	if err := writeResults(ctx, opts, results); err != nil {
		return err
	}

	if opts.SeenUpdate {
		if err := updateSeenHistory(opts.Seen, unseenItems); err != nil {
			return err
		}
	}

	ctx.UI.Statusf("%s", formatSummary(employer, results))
	return nil
}

func validateSeenOptions(opts ScrapeOptions) error {
	hasSeen := strings.TrimSpace(opts.Seen) != ""
	if opts.NewOnly && !hasSeen {
		return fmt.Errorf("--new-only requires --seen")
	}
	if opts.SeenUpdate && !hasSeen {
		return fmt.Errorf("--seen-update requires --seen")
	}
	if hasSeen && pathsEqual(opts.Output, opts.Seen) {
		return fmt.Errorf("--output path must differ from --seen")
	}
	return nil
}

// scrapeKinds scrapes every kind concurrently. All kinds share the
// scraper's fetch service, so the concurrency limit holds across them. The
// first failure cancels the others.
func scrapeKinds(ctx context.Context, c collector, employer string, kinds []models.Kind) ([]*glassdoor.Collection, error) {
	collections := make([]*glassdoor.Collection, len(kinds))
	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		g.Go(func() error {
			collection, err := c.Scrape(gctx, kind, employer)
			if err != nil {
				return err
			}
			collections[i] = collection
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return collections, nil
}

// buildResults normalizes each collection and, when a seen history is
// given, works out which items are new. With newOnly the output keeps only
// those items.
func buildResults(collections []*glassdoor.Collection, seenPath string, newOnly bool) ([]export.Result, []models.Item, error) {
	var history []models.Item
	trackSeen := strings.TrimSpace(seenPath) != ""
	if trackSeen {
		var err error
		history, err = seen.ReadItemsAllowMissing(seenPath)
		if err != nil {
			return nil, nil, fmt.Errorf("read --seen: %w", err)
		}
	}

	results := make([]export.Result, 0, len(collections))
	var unseenItems []models.Item
	for _, collection := range collections {
		items := collection.Normalize()
		if trackSeen {
			indexes, _ := seen.Diff(items, history)
			picked := make([]models.Item, 0, len(indexes))
			for _, idx := range indexes {
				picked = append(picked, items[idx])
			}
			unseenItems = append(unseenItems, picked...)
			if newOnly {
				collection = collection.Select(indexes)
				items = picked
			}
		}
		results = append(results, export.Result{
			Kind:  collection.Kind,
			Value: collection.Value(),
			Items: items,
		})
	}
	return results, unseenItems, nil
}

func writeResults(ctx *Context, opts ScrapeOptions, results []export.Result) error {
	format, err := resolveFormat(ctx, opts, opts.Output)
	if err != nil {
		return err
	}

	writer := ctx.Out
	if opts.Output != "" {
		file, err := os.Create(opts.Output)
		if err != nil {
			return err
		}
		defer file.Close()
		writer = file
	}

	colorEnabled := ctx.UI != nil && ctx.UI.ColorEnabled
	hyperlinks := colorEnabled && isTTY(writer)
	linkStyle := export.LinkStyleShort
	if strings.EqualFold(opts.Links, string(export.LinkStyleFull)) {
		linkStyle = export.LinkStyleFull
	}
	return export.Write(writer, results, format, export.WriteOptions{
		ColorEnabled: colorEnabled && opts.Output == "",
		Hyperlinks:   hyperlinks,
		LinkStyle:    linkStyle,
	})
}

func updateSeenHistory(seenPath string, items []models.Item) error {
	history, err := seen.ReadItemsAllowMissing(seenPath)
	if err != nil {
		return fmt.Errorf("read --seen: %w", err)
	}

	merged, _ := seen.Merge(history, items)
	if err := seen.WriteItems(seenPath, merged); err != nil {
		return fmt.Errorf("write --seen: %w", err)
	}
	return nil
}

func formatSummary(employer string, results []export.Result) string {
	parts := make([]string, 0, len(results))
	for _, res := range results {
		parts = append(parts, fmt.Sprintf("%s=%d", res.Kind, len(res.Items)))
	}
	if len(parts) == 0 {
		parts = append(parts, "none")
	}
	return fmt.Sprintf("summary: employer=%s %s", employer, strings.Join(parts, " "))
}

func pathsEqual(a, b string) bool {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return false
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA == nil && errB == nil {
		return absA == absB
	}
	return filepath.Clean(a) == filepath.Clean(b)
}

func resolveFormat(ctx *Context, opts ScrapeOptions, outputPath string) (export.Format, error) {
	if ctx.JSONOutput {
		return export.FormatJSON, nil
	}
	if ctx.PlainText {
		return export.FormatTSV, nil
	}
	if opts.Format != "" {
		return parseFormat(opts.Format)
	}
	if outputPath != "" {
		return export.FormatJSON, nil
	}
	if isTTY(ctx.Out) {
		return export.FormatTable, nil
	}
	return export.FormatJSON, nil
}

func parseFormat(value string) (export.Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "csv":
		return export.FormatCSV, nil
	case "json":
		return export.FormatJSON, nil
	case "md", "markdown":
		return export.FormatMarkdown, nil
	case "tsv":
		return export.FormatTSV, nil
	case "table", "":
		return export.FormatTable, nil
	default:
		return "", fmt.Errorf("unknown format: %s", value)
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func defaultInt(value, fallback int) int {
	if value == 0 {
		return fallback
	}
	return value
}

func isTTY(out io.Writer) bool {
	output := termenv.NewOutput(out)
	return output.ColorProfile() != termenv.Ascii
}

func startIndicator(ctx *Context) func() {
	if ctx == nil || ctx.Err == nil || ctx.UI == nil || ctx.Verbose {
		return nil
	}
	if !isTTY(ctx.Err) {
		return nil
	}

	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		start := time.Now()
		frames := []string{"|", "/", "-", "\\"}
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		index := 0

		for {
			select {
			case <-done:
				fmt.Fprint(ctx.Err, "\r\033[2K")
				return
			case <-ticker.C:
				seconds := int(time.Since(start).Seconds())
				frame := frames[index%len(frames)]
				fmt.Fprintf(ctx.Err, "\r\033[2KScraping... %ds %s", seconds, frame)
				index++
			}
		}
	}()

	return func() {
		close(done)
		<-stopped
	}
}
