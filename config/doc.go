// Package config loads and validates the runtime configuration for
// kgstat.
//
// Configuration comes from three layers, last wins: compiled-in
// defaults, one YAML or JSON file selected by extension, and KGSTAT_*
// environment variables.
//
// # Basic Usage
//
//	cfg, err := config.Load("kgstat.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//		log.Fatal(err)
//	}
//
// Without a file, start from the defaults and still honor the
// environment:
//
//	cfg := config.Default()
//	if err := config.ApplyEnv(cfg); err != nil {
//		log.Fatal(err)
//	}
//
// # Environment Variable Overrides
//
//	# Name the graph carried in the report
//	export KGSTAT_GRAPH_NAME="monarch-kg"
//
//	# Switch the file reader
//	export KGSTAT_SOURCE_FORMAT="tsv"
//
//	# Point listen mode at a broker
//	export KGSTAT_NATS_URL="nats://broker:4222"
//
// # Validation
//
// Validate normalizes fields in place before checking them:
// enumerations are lowercased, facet property lists are deduplicated
// with blank entries dropped, and unset values fall back to their
// defaults. Rejections carry the invalid classification from the
// errors package so callers can distinguish operator mistakes from
// runtime failures.
package config
