// Package errors provides standardized error handling patterns for kgstat.
//
// # Overview
//
// The errors package implements a three-class error classification system:
// Transient (temporary, retryable), Invalid (bad input, non-retryable), and
// Fatal (unrecoverable, stop processing).
//
// Classification drives handling throughout the pipeline: the summarizer logs
// and skips recoverable conditions, refuses malformed records with Invalid
// errors, and surfaces producer contract violations as Fatal. Remote prefix
// context loading retries only Transient failures.
//
// # Error Classification
//
//   - Transient: network timeouts, connection loss, temporary unavailability
//   - Invalid: malformed records, unparseable input, bad prefix contexts
//   - Fatal: unknown entity kinds, invalid configuration, finalized-summary mutation
//
// The classification integrates with Go's standard error handling, supporting
// errors.Is(), errors.As(), and wrapping chains.
//
// # Error Wrapping Pattern
//
// All error wrapping follows the standardized format:
//
//	"component.method: action failed: %w"
//
// Three wrapper functions provide classification-aware wrapping:
//
//	errors.WrapTransient(err, "Ingestor", "Start", "connect")   // retryable
//	errors.WrapInvalid(err, "Summary", "Observe", "decode")     // bad input
//	errors.WrapFatal(err, "Summary", "Observe", "dispatch")     // unrecoverable
//
// The generic Wrap() preserves the original error's classification:
//
//	errors.Wrap(err, "Manager", "FetchContext", "fetch")
//
// # Standard Error Variables
//
// Pre-defined variables cover the common conditions, organized by concern:
// lifecycle (ErrAlreadyStarted, ErrNotStarted), connections (ErrConnectionLost,
// ErrConnectionTimeout), graph records (ErrMalformedRecord, ErrUnknownEntityType),
// prefixes (ErrNotACURIE, ErrInvalidContext), and configuration (ErrInvalidConfig,
// ErrMissingConfig). Use these instead of ad hoc messages:
//
//	if len(fields) != 2 {
//	    return errors.ErrMalformedRecord
//	}
//
// # Retry Integration
//
// RetryConfig carries classification-aware retry settings and converts to the
// retry package's Config via ToRetryConfig():
//
//	cfg := errors.DefaultRetryConfig()
//	body, err := retry.DoWithResult(ctx, cfg.ToRetryConfig(), fetch)
//
// Context errors (context.DeadlineExceeded, context.Canceled) classify as
// Transient, so context-based timeouts retry consistently with network ones.
package errors
