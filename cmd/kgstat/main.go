// Package main implements the kgstat command line tool. kgstat reads a
// KGX formatted graph from node and edge files, or ingests one live
// from NATS, and reports per-category and per-predicate summary
// statistics.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/c360/kgstat/config"
	kgerrors "github.com/c360/kgstat/errors"
	"github.com/c360/kgstat/graph"
	"github.com/c360/kgstat/metric"
	"github.com/c360/kgstat/prefix"
	"github.com/c360/kgstat/source"
	"github.com/c360/kgstat/stream"
	"github.com/c360/kgstat/summary"
)

// Build information constants
const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "kgstat"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("kgstat failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run() error {
	cli := parseFlags()
	if err := validateFlags(cli); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	if cli.ShowVersion {
		fmt.Printf("%s version %s\n", appName, Version)
		return nil
	}
	if cli.ShowHelp {
		printDetailedHelp()
		return nil
	}

	cfg, err := loadConfig(cli)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)

	if cli.Validate {
		slog.Info("Configuration is valid")
		return nil
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cli.Listen {
		return runListen(ctx, cfg, cli, logger)
	}
	return runFiles(ctx, cfg, cli, logger)
}

// loadConfig builds the effective configuration: defaults, then the
// config file when one is given, then KGSTAT_* environment variables,
// then explicit flags. The merged result is validated as a whole.
func loadConfig(cli *CLIConfig) (*config.Config, error) {
	var cfg *config.Config

	if cli.ConfigPath != "" {
		loaded, err := config.Load(cli.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	} else {
		cfg = config.Default()
		if err := config.ApplyEnv(cfg); err != nil {
			return nil, fmt.Errorf("apply environment: %w", err)
		}
	}

	applyFlagOverrides(cfg, cli)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// runFiles summarizes the configured node and edge files in one shot.
func runFiles(ctx context.Context, cfg *config.Config, cli *CLIConfig, logger *slog.Logger) error {
	if cfg.Source.NodeFile == "" && cfg.Source.EdgeFile == "" {
		return kgerrors.WrapInvalid(
			fmt.Errorf("%w: no node or edge file configured", kgerrors.ErrMissingConfig),
			appName, "runFiles", "select input",
		)
	}

	src, err := buildSource(cfg)
	if err != nil {
		return err
	}

	sum, err := buildSummary(ctx, cfg, logger, nil)
	if err != nil {
		return err
	}

	logger.Info("summarizing graph",
		"graph", cfg.Graph.Name,
		"format", cfg.Source.Format,
		"nodes", cfg.Source.NodeFile,
		"edges", cfg.Source.EdgeFile)

	started := time.Now()
	report, err := sum.Summarize(ctx, src)
	if err != nil {
		return fmt.Errorf("summarize graph: %w", err)
	}

	logger.Info("summary complete",
		"total_nodes", report.NodeStats.TotalNodes,
		"total_edges", report.EdgeStats.TotalEdges,
		"elapsed", time.Since(started))

	return writeReport(report, cli.Output, cli.ReportFormat)
}

// runListen ingests records from NATS until the producer signals end of
// stream or the process receives SIGINT or SIGTERM, then writes the
// report.
func runListen(ctx context.Context, cfg *config.Config, cli *CLIConfig, logger *slog.Logger) error {
	if cfg.NATS.URL == "" {
		return kgerrors.WrapInvalid(
			fmt.Errorf("%w: nats.url is required in listen mode", kgerrors.ErrMissingConfig),
			appName, "runListen", "check configuration",
		)
	}

	registry := metric.NewMetricsRegistry()

	clientOpts := []stream.ClientOption{
		stream.WithLogger(logger),
		stream.WithClientName(appName),
		stream.WithCoreMetrics(registry.CoreMetrics()),
		stream.WithMaxReconnects(cfg.NATS.MaxReconnects),
	}
	if wait := time.Duration(cfg.NATS.ReconnectWait); wait > 0 {
		clientOpts = append(clientOpts, stream.WithReconnectWait(wait))
	}

	client, err := stream.NewClient(cfg.NATS.URL, clientOpts...)
	if err != nil {
		return fmt.Errorf("create stream client: %w", err)
	}

	sum, err := buildSummary(ctx, cfg, logger, registry.CoreMetrics())
	if err != nil {
		return err
	}

	ingestor := stream.NewIngestor(stream.IngestorDeps{
		Client:          client,
		Summary:         sum,
		SubjectPrefix:   cfg.NATS.SubjectPrefix,
		StreamName:      cfg.NATS.Stream,
		MetricsRegistry: registry,
		Logger:          logger,
	})

	if err := ingestor.Start(ctx); err != nil {
		return fmt.Errorf("start ingestor: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	var metricsServer *metric.Server
	if cfg.Metrics.Enabled {
		metricsServer = metric.NewServer(cfg.Metrics.Port, cfg.Metrics.Path, registry)
		g.Go(func() error {
			logger.Info("metrics server listening", "url", metricsServer.Address())
			return metricsServer.Start()
		})
	}

	g.Go(func() error {
		select {
		case <-ingestor.Done():
			logger.Info("end of stream received", "run_id", ingestor.RunID())
		case <-gctx.Done():
			logger.Info("shutdown requested")
		}

		stopErr := ingestor.Stop(cli.ShutdownTimeout)
		if metricsServer != nil {
			if err := metricsServer.Stop(); err != nil {
				logger.Warn("stop metrics server", "error", err)
			}
		}
		return stopErr
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	report := sum.Report()
	logger.Info("summary complete",
		"total_nodes", report.NodeStats.TotalNodes,
		"total_edges", report.EdgeStats.TotalEdges)

	return writeReport(report, cli.Output, cli.ReportFormat)
}

// buildSource selects the file reader for the configured format.
func buildSource(cfg *config.Config) (graph.Source, error) {
	switch cfg.Source.Format {
	case config.FormatTSV:
		return source.NewTSV(cfg.Source.NodeFile, cfg.Source.EdgeFile), nil
	case config.FormatJSONLines:
		return source.NewJSONLines(cfg.Source.NodeFile, cfg.Source.EdgeFile), nil
	default:
		return nil, kgerrors.WrapInvalid(
			fmt.Errorf("%w: unknown source format %q", kgerrors.ErrInvalidConfig, cfg.Source.Format),
			appName, "buildSource", "select reader",
		)
	}
}

// buildSummary assembles the summarizer with the configured prefix
// context and facet properties.
func buildSummary(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *metric.Metrics) (*summary.GraphSummary, error) {
	manager, err := buildPrefixManager(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	opts := []summary.Option{
		summary.WithName(cfg.Graph.Name),
		summary.WithLogger(logger),
		summary.WithPrefixManager(manager),
	}
	if len(cfg.Graph.NodeFacetProperties) > 0 {
		opts = append(opts, summary.WithNodeFacetProperties(cfg.Graph.NodeFacetProperties...))
	}
	if len(cfg.Graph.EdgeFacetProperties) > 0 {
		opts = append(opts, summary.WithEdgeFacetProperties(cfg.Graph.EdgeFacetProperties...))
	}
	if metrics != nil {
		opts = append(opts, summary.WithMetrics(metrics))
	}

	return summary.New(opts...), nil
}

// buildPrefixManager loads the CURIE context from the configured file
// or URL, falling back to the compiled-in context, and applies any
// extra mappings on top.
func buildPrefixManager(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*prefix.Manager, error) {
	opts := []prefix.Option{prefix.WithLogger(logger)}

	switch {
	case cfg.Prefix.ContextFile != "":
		doc, err := prefix.LoadContextFile(cfg.Prefix.ContextFile)
		if err != nil {
			return nil, fmt.Errorf("load prefix context: %w", err)
		}
		opts = append(opts, prefix.WithContextMap(doc))
	case cfg.Prefix.ContextURL != "":
		doc, err := prefix.FetchContext(ctx, cfg.Prefix.ContextURL)
		if err != nil {
			return nil, fmt.Errorf("fetch prefix context: %w", err)
		}
		opts = append(opts, prefix.WithContextMap(doc))
	}

	m := prefix.NewManager(opts...)
	if len(cfg.Prefix.Extra) > 0 {
		m.UpdatePrefixMap(cfg.Prefix.Extra)
	}
	return m, nil
}

// writeReport renders the report to out, or stdout when out is empty.
func writeReport(report *summary.Report, out, format string) error {
	if out == "" {
		return report.Save(os.Stdout, format)
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}

	if err := report.Save(f, format); err != nil {
		_ = f.Close()
		return fmt.Errorf("write report to %s: %w", out, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", out, err)
	}

	slog.Info("report written", "path", out, "format", format)
	return nil
}
