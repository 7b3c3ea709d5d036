package config

import (
	"encoding/json"
	"time"

	"github.com/c360/kgstat/stream"
)

// Source format constants accepted by SourceConfig.Format.
const (
	FormatJSONLines = "jsonl" // one JSON object per line
	FormatTSV       = "tsv"   // tab separated with a header row
)

// Log format constants accepted by LogConfig.Format.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config is the complete runtime configuration.
type Config struct {
	Graph   GraphConfig   `json:"graph" yaml:"graph"`
	Source  SourceConfig  `json:"source,omitempty" yaml:"source,omitempty"`
	Prefix  PrefixConfig  `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	NATS    NATSConfig    `json:"nats,omitempty" yaml:"nats,omitempty"`
	Log     LogConfig     `json:"log,omitempty" yaml:"log,omitempty"`
	Metrics MetricsConfig `json:"metrics,omitempty" yaml:"metrics,omitempty"`
}

// GraphConfig names the graph and selects the properties faceted during
// analysis.
type GraphConfig struct {
	Name                string   `json:"name" yaml:"name"`
	NodeFacetProperties []string `json:"node_facet_properties,omitempty" yaml:"node_facet_properties,omitempty"`
	EdgeFacetProperties []string `json:"edge_facet_properties,omitempty" yaml:"edge_facet_properties,omitempty"`
}

// SourceConfig selects the file reader for one-shot runs. Either file
// may be empty; the matching side of the graph is simply absent.
type SourceConfig struct {
	Format   string `json:"format,omitempty" yaml:"format,omitempty"`
	NodeFile string `json:"node_file,omitempty" yaml:"node_file,omitempty"`
	EdgeFile string `json:"edge_file,omitempty" yaml:"edge_file,omitempty"`
}

// PrefixConfig feeds the CURIE manager. ContextFile and ContextURL are
// alternatives; Extra mappings apply on top of whichever loaded.
type PrefixConfig struct {
	ContextFile string            `json:"context_file,omitempty" yaml:"context_file,omitempty"`
	ContextURL  string            `json:"context_url,omitempty" yaml:"context_url,omitempty"`
	Extra       map[string]string `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// NATSConfig defines the connection used by listen mode.
type NATSConfig struct {
	URL           string   `json:"url,omitempty" yaml:"url,omitempty"`
	SubjectPrefix string   `json:"subject_prefix,omitempty" yaml:"subject_prefix,omitempty"`
	Stream        string   `json:"stream,omitempty" yaml:"stream,omitempty"`
	MaxReconnects int      `json:"max_reconnects,omitempty" yaml:"max_reconnects,omitempty"`
	ReconnectWait Duration `json:"reconnect_wait,omitempty" yaml:"reconnect_wait,omitempty"`
}

// LogConfig tunes the slog handler installed by the CLI.
type LogConfig struct {
	Level  string `json:"level,omitempty" yaml:"level,omitempty"`
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// MetricsConfig exposes the Prometheus endpoint in listen mode.
type MetricsConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Port    int    `json:"port,omitempty" yaml:"port,omitempty"`
	Path    string `json:"path,omitempty" yaml:"path,omitempty"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		Graph:  GraphConfig{Name: "graph"},
		Source: SourceConfig{Format: FormatJSONLines},
		NATS: NATSConfig{
			URL:           "nats://localhost:4222",
			SubjectPrefix: stream.DefaultSubjectPrefix,
			MaxReconnects: -1,
			ReconnectWait: Duration(2 * time.Second),
		},
		Log:     LogConfig{Level: "info", Format: LogFormatText},
		Metrics: MetricsConfig{Port: 9090, Path: "/metrics"},
	}
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return &Config{}
	}

	// Deep copy via the JSON round trip.
	data, err := json.Marshal(c)
	if err != nil {
		copied := *c
		return &copied
	}

	var clone Config
	if err := json.Unmarshal(data, &clone); err != nil {
		copied := *c
		return &copied
	}

	return &clone
}

// String returns a JSON representation of the config.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}
