package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/c360/kgstat/config"
)

// CLIConfig holds command-line configuration
type CLIConfig struct {
	ConfigPath      string
	GraphName       string
	SourceFormat    string
	NodeFile        string
	EdgeFile        string
	NodeFacets      string
	EdgeFacets      string
	Output          string
	ReportFormat    string
	Listen          bool
	NATSURL         string
	SubjectPrefix   string
	StreamName      string
	MetricsPort     int
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	ShowVersion     bool
	ShowHelp        bool
	Validate        bool
}

func parseFlags() *CLIConfig {
	cfg := &CLIConfig{}

	// Define flags with environment variable fallback
	flag.StringVar(&cfg.ConfigPath, "config",
		getEnv("KGSTAT_CONFIG", ""),
		"Path to YAML or JSON configuration file (env: KGSTAT_CONFIG)")

	flag.StringVar(&cfg.ConfigPath, "c",
		getEnv("KGSTAT_CONFIG", ""),
		"Path to YAML or JSON configuration file (env: KGSTAT_CONFIG)")

	flag.StringVar(&cfg.GraphName, "name", "", "Graph name carried in the report")
	flag.StringVar(&cfg.SourceFormat, "format", "", "Input format: jsonl or tsv")
	flag.StringVar(&cfg.NodeFile, "nodes", "", "Path to the node records file")
	flag.StringVar(&cfg.EdgeFile, "edges", "", "Path to the edge records file")
	flag.StringVar(&cfg.NodeFacets, "node-facets", "",
		"Comma separated node properties to facet, e.g. provided_by")
	flag.StringVar(&cfg.EdgeFacets, "edge-facets", "",
		"Comma separated edge properties to facet")

	flag.StringVar(&cfg.Output, "out", "", "Report destination path; empty writes to stdout")
	flag.StringVar(&cfg.Output, "o", "", "Report destination path; empty writes to stdout")
	flag.StringVar(&cfg.ReportFormat, "report-format", "yaml", "Report format: yaml or json")

	flag.BoolVar(&cfg.Listen, "listen", false, "Ingest records from NATS instead of reading files")
	flag.StringVar(&cfg.NATSURL, "nats-url", "", "NATS server URL for listen mode")
	flag.StringVar(&cfg.SubjectPrefix, "subject-prefix", "",
		"Subject prefix carrying the node, edge and done subjects")
	flag.StringVar(&cfg.StreamName, "stream", "", "JetStream stream to consume; empty uses core NATS")
	flag.IntVar(&cfg.MetricsPort, "metrics-port", 0,
		"Enable the Prometheus endpoint on this port in listen mode")

	flag.StringVar(&cfg.LogLevel, "log-level", "",
		"Log level: debug, info, warn, error (env: KGSTAT_LOG_LEVEL)")
	flag.StringVar(&cfg.LogFormat, "log-format", "",
		"Log format: text, json (env: KGSTAT_LOG_FORMAT)")

	flag.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout",
		getEnvDuration("KGSTAT_SHUTDOWN_TIMEOUT", 30*time.Second),
		"Graceful shutdown timeout (env: KGSTAT_SHUTDOWN_TIMEOUT)")

	flag.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")
	flag.BoolVar(&cfg.ShowVersion, "v", false, "Show version information")
	flag.BoolVar(&cfg.ShowHelp, "help", false, "Show help information")
	flag.BoolVar(&cfg.ShowHelp, "h", false, "Show help information")
	flag.BoolVar(&cfg.Validate, "validate", false, "Validate configuration and exit")

	// Custom usage
	flag.Usage = func() {
		printDetailedHelp()
	}

	flag.Parse()

	return cfg
}

func validateFlags(cfg *CLIConfig) error {
	// Skip validation for special flags
	if cfg.ShowVersion || cfg.ShowHelp {
		return nil
	}

	validReportFormats := []string{"", "yaml", "json"}
	if !contains(validReportFormats, cfg.ReportFormat) {
		return fmt.Errorf("invalid report format: %s", cfg.ReportFormat)
	}

	if cfg.SourceFormat != "" {
		validSourceFormats := []string{config.FormatJSONLines, config.FormatTSV}
		if !contains(validSourceFormats, strings.ToLower(cfg.SourceFormat)) {
			return fmt.Errorf("invalid source format: %s", cfg.SourceFormat)
		}
	}

	if cfg.MetricsPort < 0 || cfg.MetricsPort > 65535 {
		return fmt.Errorf("invalid metrics port: %d", cfg.MetricsPort)
	}

	if cfg.ShutdownTimeout <= 0 {
		return fmt.Errorf("invalid shutdown timeout: %s", cfg.ShutdownTimeout)
	}

	return nil
}

// applyFlagOverrides copies explicitly set flag values onto the
// configuration; flags beat both the config file and the environment.
func applyFlagOverrides(cfg *config.Config, cli *CLIConfig) {
	if cli.GraphName != "" {
		cfg.Graph.Name = cli.GraphName
	}
	if cli.NodeFacets != "" {
		cfg.Graph.NodeFacetProperties = splitList(cli.NodeFacets)
	}
	if cli.EdgeFacets != "" {
		cfg.Graph.EdgeFacetProperties = splitList(cli.EdgeFacets)
	}

	if cli.SourceFormat != "" {
		cfg.Source.Format = cli.SourceFormat
	}
	if cli.NodeFile != "" {
		cfg.Source.NodeFile = cli.NodeFile
	}
	if cli.EdgeFile != "" {
		cfg.Source.EdgeFile = cli.EdgeFile
	}

	if cli.NATSURL != "" {
		cfg.NATS.URL = cli.NATSURL
	}
	if cli.SubjectPrefix != "" {
		cfg.NATS.SubjectPrefix = cli.SubjectPrefix
	}
	if cli.StreamName != "" {
		cfg.NATS.Stream = cli.StreamName
	}
	if cli.MetricsPort > 0 {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Port = cli.MetricsPort
	}

	if cli.LogLevel != "" {
		cfg.Log.Level = cli.LogLevel
	}
	if cli.LogFormat != "" {
		cfg.Log.Format = cli.LogFormat
	}
}

// splitList splits a comma separated flag value, trimming spaces and
// dropping empty entries.
func splitList(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func printDetailedHelp() {
	_, _ = fmt.Fprintf(os.Stderr, `%s - Knowledge Graph Summary Statistics

Usage: %s [options]

Options:
`, appName, os.Args[0])
	flag.PrintDefaults()
	_, _ = fmt.Fprintf(os.Stderr, `
Examples:
  # Summarize KGX JSON Lines files into YAML on stdout
  %s --nodes=nodes.jsonl --edges=edges.jsonl

  # TSV input, JSON report written to a file
  %s --format=tsv --nodes=nodes.tsv --edges=edges.tsv --report-format=json --out=report.json

  # Listen on NATS until the producer signals end of stream
  %s --listen --nats-url=nats://broker:4222 --metrics-port=9090 --out=report.yaml

  # Run with a config file and environment overrides
  export KGSTAT_CONFIG=/etc/kgstat/kgstat.yaml
  export KGSTAT_LOG_LEVEL=debug
  %s --listen

  # Validate configuration only
  %s --config=kgstat.yaml --validate

Version: %s
Build: %s
`, os.Args[0], os.Args[0], os.Args[0], os.Args[0], os.Args[0], Version, BuildTime)
}

// Environment variable helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Utility function to check if slice contains string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
