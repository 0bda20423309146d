package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/parity"
	"github.com/fwojciec/parity/fs"
	"github.com/fwojciec/parity/goquery"
	"github.com/fwojciec/parity/htmltomarkdown"
	parityhttp "github.com/fwojciec/parity/http"
	"github.com/fwojciec/parity/pipeline"
	paritymetrics "github.com/fwojciec/parity/prometheus"
	"github.com/fwojciec/parity/readability"
	"github.com/fwojciec/parity/rod"
	parityslog "github.com/fwojciec/parity/slog"
	"github.com/fwojciec/parity/sqlite"
	"github.com/fwojciec/parity/trafilatura"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database holding reports and, optionally, artifacts.
	DB *sqlite.DB

	ReportService   parity.ReportService
	ArtifactService parity.ArtifactService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("parity"),
		kong.Description("Check that a migrated site carries the content of the site it replaces"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'parity --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	logger := newLogger(stderr, cli.Verbose)

	// Configuration errors surface before any resource is opened.
	if cmd == "check" {
		deps.Options, err = cli.Check.Options()
		if err != nil {
			fmt.Fprintf(stderr, "error: %s\n", parity.ErrorMessage(err))
			return err
		}
	}

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set PARITY_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	m.ReportService = sqlite.NewReportService(m.DB)
	m.ArtifactService = sqlite.NewArtifactService(m.DB)
	deps.Reports = m.ReportService

	if cmd == "check" {
		cleanup, err := m.wireCheck(ctx, deps, &cli.Check, logger, cli.Verbose)
		defer cleanup()
		if err != nil {
			return err
		}
	}

	return kongCtx.Run(deps)
}

// wireCheck builds the pipeline for the check command. The returned cleanup
// function is always non-nil.
func (m *Main) wireCheck(ctx context.Context, deps *Dependencies, c *CheckCmd, logger *slog.Logger, verbose bool) (func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	opts := deps.Options

	var metrics *paritymetrics.Metrics
	if c.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector())
		metrics = paritymetrics.NewMetrics(reg)

		srv := &http.Server{Addr: c.MetricsAddr, Handler: paritymetrics.Handler(reg)}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Warn("metrics server stopped", "addr", c.MetricsAddr, "err", err)
			}
		}()
		closers = append(closers, func() { _ = srv.Shutdown(context.WithoutCancel(ctx)) })
	}

	decorate := func(f parity.Fetcher) parity.Fetcher {
		if verbose {
			f = parityslog.NewLoggingFetcher(f, logger)
		}
		if metrics != nil {
			f = paritymetrics.NewFetcher(f, metrics)
		}
		return f
	}

	crawler := &SiteCrawler{
		Mode:      c.Fetcher,
		HTTP:      decorate(parityhttp.NewFetcher(parityhttp.WithTimeout(opts.FetchTimeout))),
		Extractor: goquery.NewExtractor(trafilatura.NewExtractor(), readability.NewExtractor()),
		Sitemaps:  parityslog.NewLoggingSitemapService(parityhttp.NewSitemapService(nil), logger),
		Logger:    logger,
	}
	if !verbose {
		crawler.Progress = progressPrinter(deps.Stderr)
	}

	if c.Fetcher != FetcherHTTP {
		browser, err := rod.NewFetcher(rod.WithSettleDelay(opts.SettleDelay), rod.WithFetchTimeout(opts.FetchTimeout))
		switch {
		case err != nil && c.Fetcher == FetcherRod:
			fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed")
			return cleanup, fmt.Errorf("failed to start browser: %w", err)
		case err != nil:
			logger.Warn("browser unavailable, crawling over plain HTTP", "err", err)
		default:
			closers = append(closers, func() { _ = browser.Close() })
			crawler.Rod = decorate(browser)
		}
	}

	var publishers []parity.Publisher
	if !c.NoPublish {
		out := filepath.Clean(c.Out)
		store := fs.NewArtifactStore(filepath.Dir(out), filepath.Base(out))
		deps.Store = store
		publishers = append(publishers, store)
	}
	if c.StoreArtifacts {
		publishers = append(publishers, m.ArtifactService)
	}

	sinks := []parity.ReportSink{m.ReportService}
	if c.ReportsDir != "" {
		sinks = append(sinks, fs.NewReportWriter(c.ReportsDir))
	}

	runner := &pipeline.Runner{
		Crawler:   crawler,
		Converter: htmltomarkdown.NewConverter(htmltomarkdown.WithDomain(c.Target)),
		Logger:    logger,
	}

	var sink parity.ReportSink = parityslog.NewLoggingReportSink(fanOutSinks(sinks), logger)
	if metrics != nil {
		sink = paritymetrics.NewReportSink(sink, metrics)
	}
	runner.ReportSink = sink

	if len(publishers) > 0 {
		var pub parity.Publisher = parityslog.NewLoggingPublisher(fanOutPublishers(publishers), logger)
		if metrics != nil {
			pub = paritymetrics.NewPublisher(pub, metrics)
		}
		runner.Publisher = pub
	}

	deps.Checker = runner
	return cleanup, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func defaultDBPath() string {
	if path := os.Getenv("PARITY_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "parity.db"
	}
	dir := filepath.Join(home, ".parity")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "parity.db")
}
