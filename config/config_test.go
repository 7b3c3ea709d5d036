package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "graph", cfg.Graph.Name)
	assert.Equal(t, FormatJSONLines, cfg.Source.Format)
	assert.Equal(t, "nats://localhost:4222", cfg.NATS.URL)
	assert.Equal(t, "kgstat.graph", cfg.NATS.SubjectPrefix)
	assert.Equal(t, -1, cfg.NATS.MaxReconnects)
	assert.Equal(t, Duration(2*time.Second), cfg.NATS.ReconnectWait)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, LogFormatText, cfg.Log.Format)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, 9090, cfg.Metrics.Port)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestDefault_PassesValidation(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
}

func TestConfig_Clone(t *testing.T) {
	cfg := Default()
	cfg.Graph.NodeFacetProperties = []string{"provided_by"}
	cfg.Prefix.Extra = map[string]string{"HGNC": "http://identifiers.org/hgnc/"}

	clone := cfg.Clone()
	require.NotSame(t, cfg, clone)

	// Mutating the clone must not reach the original.
	clone.Graph.NodeFacetProperties[0] = "category"
	clone.Prefix.Extra["HGNC"] = "http://example.org/"
	clone.NATS.URL = "nats://other:4222"

	assert.Equal(t, []string{"provided_by"}, cfg.Graph.NodeFacetProperties)
	assert.Equal(t, "http://identifiers.org/hgnc/", cfg.Prefix.Extra["HGNC"])
	assert.Equal(t, "nats://localhost:4222", cfg.NATS.URL)
}

func TestConfig_CloneNil(t *testing.T) {
	var cfg *Config

	clone := cfg.Clone()

	require.NotNil(t, clone)
	assert.Empty(t, clone.Graph.Name)
}

func TestConfig_String(t *testing.T) {
	cfg := Default()

	s := cfg.String()

	assert.Contains(t, s, `"name": "graph"`)
	assert.Contains(t, s, `"reconnect_wait": "2s"`)
	assert.Contains(t, s, `"subject_prefix": "kgstat.graph"`)
}
