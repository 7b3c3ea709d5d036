package config

import (
	"fmt"
	"strings"
	"unicode"

	kgerrors "github.com/c360/kgstat/errors"
	"github.com/c360/kgstat/stream"
)

// Validate checks the configuration and normalizes it in place:
// enumerations are lowercased, list entries trimmed and deduplicated,
// and unset values fall back to their defaults.
func (c *Config) Validate() error {
	c.Graph.Name = strings.TrimSpace(c.Graph.Name)
	if c.Graph.Name == "" {
		c.Graph.Name = "graph"
	}
	c.Graph.NodeFacetProperties = normalizeList(c.Graph.NodeFacetProperties)
	c.Graph.EdgeFacetProperties = normalizeList(c.Graph.EdgeFacetProperties)

	c.Source.Format = strings.ToLower(strings.TrimSpace(c.Source.Format))
	if c.Source.Format == "" {
		c.Source.Format = FormatJSONLines
	}
	if c.Source.Format != FormatJSONLines && c.Source.Format != FormatTSV {
		return invalid(fmt.Sprintf("source.format %q is not %q or %q", c.Source.Format, FormatJSONLines, FormatTSV))
	}

	c.Prefix.ContextFile = strings.TrimSpace(c.Prefix.ContextFile)
	c.Prefix.ContextURL = strings.TrimSpace(c.Prefix.ContextURL)
	if c.Prefix.ContextFile != "" && c.Prefix.ContextURL != "" {
		return invalid("prefix.context_file and prefix.context_url are mutually exclusive")
	}
	if len(c.Prefix.Extra) > 0 {
		extra := make(map[string]string, len(c.Prefix.Extra))
		for p, base := range c.Prefix.Extra {
			p, base = strings.TrimSpace(p), strings.TrimSpace(base)
			if p == "" {
				return invalid("prefix.extra contains an empty prefix")
			}
			if base == "" {
				return invalid(fmt.Sprintf("prefix.extra[%s] has an empty base URI", p))
			}
			extra[p] = base
		}
		c.Prefix.Extra = extra
	}

	c.NATS.URL = strings.TrimSpace(c.NATS.URL)
	c.NATS.SubjectPrefix = strings.TrimSpace(c.NATS.SubjectPrefix)
	if c.NATS.SubjectPrefix == "" {
		c.NATS.SubjectPrefix = stream.DefaultSubjectPrefix
	}
	if !isValidSubjectPrefix(c.NATS.SubjectPrefix) {
		return invalid(fmt.Sprintf(
			"nats.subject_prefix %q is not valid for NATS subjects (must be alphanumeric with dots, dashes, underscores)",
			c.NATS.SubjectPrefix,
		))
	}
	if c.NATS.MaxReconnects < -1 {
		return invalid(fmt.Sprintf("nats.max_reconnects %d is below -1 (infinite)", c.NATS.MaxReconnects))
	}
	if c.NATS.ReconnectWait < 0 {
		return invalid("nats.reconnect_wait cannot be negative")
	}

	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return invalid(fmt.Sprintf("log.level %q is not debug, info, warn or error", c.Log.Level))
	}

	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	if c.Log.Format == "" {
		c.Log.Format = LogFormatText
	}
	if c.Log.Format != LogFormatText && c.Log.Format != LogFormatJSON {
		return invalid(fmt.Sprintf("log.format %q is not %q or %q", c.Log.Format, LogFormatText, LogFormatJSON))
	}

	c.Metrics.Path = strings.TrimSpace(c.Metrics.Path)
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		c.Metrics.Path = "/" + c.Metrics.Path
	}
	if c.Metrics.Enabled && (c.Metrics.Port < 1 || c.Metrics.Port > 65535) {
		return invalid(fmt.Sprintf("metrics.port %d is out of range", c.Metrics.Port))
	}

	return nil
}

// invalid wraps a validation message with the invalid classification.
func invalid(msg string) error {
	return kgerrors.WrapInvalid(
		fmt.Errorf("%w: %s", kgerrors.ErrInvalidConfig, msg),
		componentName, "Validate", "check configuration",
	)
}

// isValidSubjectPrefix checks if a string is valid for use in NATS
// subjects. Valid characters are alphanumeric, dots, dashes, and
// underscores.
func isValidSubjectPrefix(s string) bool {
	if len(s) == 0 {
		return false
	}

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) &&
			r != '-' && r != '_' && r != '.' {
			return false
		}
	}
	return true
}

// normalizeList trims entries, drops empties and deduplicates while
// preserving first-seen order.
func normalizeList(values []string) []string {
	if len(values) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
