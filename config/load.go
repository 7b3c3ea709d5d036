package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	kgerrors "github.com/c360/kgstat/errors"
)

const componentName = "config"

// envPrefix namespaces every environment override.
const envPrefix = "KGSTAT"

// maxConfigSize is the largest config file accepted (1MB).
const maxConfigSize = 1 << 20

// Load reads the file at path, decodes it over the defaults and applies
// environment overrides. The extension selects the decoder: .yaml and
// .yml use YAML, .json uses JSON. The result is not validated; call
// Validate once any further overrides are in place.
func Load(path string) (*Config, error) {
	var unmarshal func([]byte, any) error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		unmarshal = yaml.Unmarshal
	case ".json":
		unmarshal = json.Unmarshal
	default:
		return nil, kgerrors.WrapInvalid(
			fmt.Errorf("%w: unsupported config extension %q (want .yaml, .yml or .json)", kgerrors.ErrInvalidConfig, ext),
			componentName, "Load", "select decoder for "+path,
		)
	}

	data, err := readConfigFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := unmarshal(data, cfg); err != nil {
		return nil, kgerrors.WrapInvalid(
			fmt.Errorf("%w: %v", kgerrors.ErrInvalidConfig, err),
			componentName, "Load", "parse "+path,
		)
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// readConfigFile reads path after checking it is a regular file under
// maxConfigSize.
func readConfigFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, kgerrors.WrapFatal(
				fmt.Errorf("%w: %s", kgerrors.ErrConfigNotFound, path),
				componentName, "Load", "stat "+path,
			)
		}
		return nil, kgerrors.Wrap(err, componentName, "Load", "stat "+path)
	}

	if !info.Mode().IsRegular() {
		return nil, kgerrors.WrapInvalid(
			fmt.Errorf("%w: %s is not a regular file", kgerrors.ErrInvalidConfig, path),
			componentName, "Load", "stat "+path,
		)
	}
	if info.Size() > maxConfigSize {
		return nil, kgerrors.WrapInvalid(
			fmt.Errorf("%w: %s is %d bytes, limit %d", kgerrors.ErrInvalidConfig, path, info.Size(), maxConfigSize),
			componentName, "Load", "stat "+path,
		)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, kgerrors.Wrap(err, componentName, "Load", "read "+path)
	}
	return data, nil
}

// ApplyEnv overrides cfg in place from KGSTAT_* environment variables.
// String values are taken verbatim; list values split on commas.
func ApplyEnv(cfg *Config) error {
	if val := os.Getenv(envPrefix + "_GRAPH_NAME"); val != "" {
		cfg.Graph.Name = val
	}
	if val := os.Getenv(envPrefix + "_NODE_FACETS"); val != "" {
		cfg.Graph.NodeFacetProperties = splitList(val)
	}
	if val := os.Getenv(envPrefix + "_EDGE_FACETS"); val != "" {
		cfg.Graph.EdgeFacetProperties = splitList(val)
	}

	if val := os.Getenv(envPrefix + "_SOURCE_FORMAT"); val != "" {
		cfg.Source.Format = val
	}
	if val := os.Getenv(envPrefix + "_NODE_FILE"); val != "" {
		cfg.Source.NodeFile = val
	}
	if val := os.Getenv(envPrefix + "_EDGE_FILE"); val != "" {
		cfg.Source.EdgeFile = val
	}

	if val := os.Getenv(envPrefix + "_PREFIX_CONTEXT_FILE"); val != "" {
		cfg.Prefix.ContextFile = val
	}
	if val := os.Getenv(envPrefix + "_PREFIX_CONTEXT_URL"); val != "" {
		cfg.Prefix.ContextURL = val
	}

	if val := os.Getenv(envPrefix + "_NATS_URL"); val != "" {
		cfg.NATS.URL = val
	}
	if val := os.Getenv(envPrefix + "_SUBJECT_PREFIX"); val != "" {
		cfg.NATS.SubjectPrefix = val
	}
	if val := os.Getenv(envPrefix + "_STREAM"); val != "" {
		cfg.NATS.Stream = val
	}
	if val := os.Getenv(envPrefix + "_MAX_RECONNECTS"); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			return envError("MAX_RECONNECTS", val, err)
		}
		cfg.NATS.MaxReconnects = n
	}
	if val := os.Getenv(envPrefix + "_RECONNECT_WAIT"); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			return envError("RECONNECT_WAIT", val, err)
		}
		cfg.NATS.ReconnectWait = Duration(d)
	}

	if val := os.Getenv(envPrefix + "_LOG_LEVEL"); val != "" {
		cfg.Log.Level = val
	}
	if val := os.Getenv(envPrefix + "_LOG_FORMAT"); val != "" {
		cfg.Log.Format = val
	}

	if val := os.Getenv(envPrefix + "_METRICS_ENABLED"); val != "" {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return envError("METRICS_ENABLED", val, err)
		}
		cfg.Metrics.Enabled = b
	}
	if val := os.Getenv(envPrefix + "_METRICS_PORT"); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			return envError("METRICS_PORT", val, err)
		}
		cfg.Metrics.Port = n
	}

	return nil
}

// envError reports an environment value the target field cannot hold.
func envError(name, value string, err error) error {
	return kgerrors.WrapInvalid(
		fmt.Errorf("%w: %s_%s=%q: %v", kgerrors.ErrInvalidConfig, envPrefix, name, value, err),
		componentName, "ApplyEnv", "parse environment override",
	)
}

// splitList splits a comma separated environment value, trimming spaces
// and dropping empty entries.
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
