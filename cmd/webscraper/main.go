package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/emqnuele/webscraper"
	"github.com/emqnuele/webscraper/bolt"
	"github.com/emqnuele/webscraper/extract"
	"github.com/emqnuele/webscraper/fs"
	"github.com/emqnuele/webscraper/goquery"
	"github.com/emqnuele/webscraper/readability"
	"github.com/emqnuele/webscraper/resty"
	wslog "github.com/emqnuele/webscraper/slog"
	"github.com/emqnuele/webscraper/trafilatura"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Output      string        `short:"o" help:"Output file path (only with a single URL)"`
	OutputDir   string        `default:"results" help:"Directory where results are saved"`
	NoPretty    bool          `help:"Disable human-readable JSON formatting"`
	Stdout      bool          `help:"Echo each result JSON to stdout as well as saving it"`
	Timeout     time.Duration `short:"t" default:"10s" help:"HTTP request timeout"`
	UserAgent   string        `help:"Custom User-Agent header (default: rotated realistic agents)"`
	Engine      string        `default:"readability" enum:"readability,trafilatura,none" help:"Alternate extraction engine run beside the heuristic scorer"`
	Concurrency int           `short:"c" default:"4" help:"Concurrent extraction limit"`
	RateLimit   float64       `help:"Max requests per second per domain (0 = unlimited)"`
	Cache       string        `help:"Path to an optional fetched-page cache database"`
	Verbose     bool          `short:"v" help:"Enable debug logging"`
	URLs        []string      `arg:"" required:"" help:"One or more page URLs to analyze"`
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("webscraper"),
		kong.Description("Extract the main article from web pages into structured JSON"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no arguments provided")
	}
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	if invalid := invalidURLs(cli.URLs); len(invalid) > 0 {
		return webscraper.Errorf(webscraper.EINVALID, "invalid URLs: %s", strings.Join(invalid, ", "))
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if len(cli.URLs) > 1 && cli.Output != "" {
		logger.Warn("--output ignored with multiple URLs; results go to the output directory")
		cli.Output = ""
	}

	// Wire the fetcher.
	fetcher := webscraper.Fetcher(resty.NewFetcher(
		resty.WithTimeout(cli.Timeout),
		resty.WithUserAgent(cli.UserAgent),
		resty.WithRateLimit(cli.RateLimit),
	))
	defer fetcher.Close()
	fetcher = wslog.NewLoggingFetcher(fetcher, logger)

	// Wire the alternate engine.
	var alternate webscraper.Extractor
	switch cli.Engine {
	case "readability":
		alternate = readability.NewExtractor()
	case "trafilatura":
		alternate = trafilatura.NewExtractor()
	}
	if alternate != nil {
		alternate = wslog.NewLoggingExtractor(alternate, logger)
	}

	// Wire the optional page cache.
	var cache webscraper.PageCache
	if cli.Cache != "" {
		cache, err = bolt.Open(cli.Cache, bolt.DefaultTTL)
		if err != nil {
			return err
		}
		defer cache.Close()
	}

	writer := fs.NewWriter(cli.OutputDir)
	writer.Pretty = !cli.NoPretty
	if len(cli.URLs) == 1 {
		writer.Path = cli.Output
	}

	pipeline := &extract.Pipeline{
		Fetcher:     fetcher,
		Parser:      goquery.NewParser(webscraper.DefaultConfig()),
		Alternate:   alternate,
		Cache:       cache,
		Writer:      writer,
		Concurrency: cli.Concurrency,
	}

	outcomes := pipeline.Run(ctx, cli.URLs, func(event extract.ProgressEvent) {
		switch event.Type {
		case extract.ProgressCompleted:
			logger.Info("extracted", "url", event.URL, "progress", fmt.Sprintf("%d/%d", event.Completed, event.Total))
		case extract.ProgressFailed:
			logger.Error("extraction failed", "url", event.URL, "err", event.Error)
		}
	})

	for _, outcome := range outcomes {
		if cli.Stdout && outcome.Result != nil {
			data, err := fs.Encode(outcome.Result, !cli.NoPretty)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "=== %s ===\n", outcome.URL)
			_, _ = stdout.Write(data)
		}
		if outcome.Path != "" {
			fmt.Fprintf(stdout, "Saved: %s\n", outcome.Path)
		}
	}

	if failed := extract.Failed(outcomes); len(failed) > 0 {
		return fmt.Errorf("failed %d of %d URLs: %s", len(failed), len(cli.URLs), strings.Join(failed, ", "))
	}
	return nil
}

// invalidURLs returns the arguments that are not absolute http(s) URLs.
func invalidURLs(urls []string) []string {
	var invalid []string
	for _, raw := range urls {
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			invalid = append(invalid, raw)
		}
	}
	return invalid
}
