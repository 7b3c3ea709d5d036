package stream

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/c360/kgstat/metric"
	"github.com/c360/kgstat/pkg/retry"
)

// ClientOption is a functional option for configuring the Client.
type ClientOption func(*Client) error

// WithLogger sets the logger for connection events.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) error {
		if logger != nil {
			c.logger = logger
		}
		return nil
	}
}

// WithCoreMetrics mirrors connection state, reconnects, and RTT into the
// core metrics.
func WithCoreMetrics(metrics *metric.Metrics) ClientOption {
	return func(c *Client) error {
		c.metrics = metrics
		return nil
	}
}

// WithClientName sets the client name reported to the NATS server.
func WithClientName(name string) ClientOption {
	return func(c *Client) error {
		c.clientName = name
		return nil
	}
}

// WithRetryConfig overrides the backoff used by Connect.
func WithRetryConfig(cfg retry.Config) ClientOption {
	return func(c *Client) error {
		if cfg.MaxAttempts < 1 {
			return fmt.Errorf("retry config needs at least one attempt, got %d", cfg.MaxAttempts)
		}
		c.retryCfg = cfg
		return nil
	}
}

// WithMaxReconnects sets the reconnection attempt limit (-1 for infinite).
func WithMaxReconnects(max int) ClientOption {
	return func(c *Client) error {
		c.maxReconnects = max
		return nil
	}
}

// WithReconnectWait sets the wait between reconnection attempts.
func WithReconnectWait(d time.Duration) ClientOption {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("reconnect wait must be positive, got %v", d)
		}
		c.reconnectWait = d
		return nil
	}
}

// WithConnectTimeout sets the per-attempt connection timeout.
func WithConnectTimeout(d time.Duration) ClientOption {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("connect timeout must be positive, got %v", d)
		}
		c.timeout = d
		return nil
	}
}

// WithDrainTimeout sets the timeout for draining on close.
func WithDrainTimeout(d time.Duration) ClientOption {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("drain timeout must be positive, got %v", d)
		}
		c.drainTimeout = d
		return nil
	}
}
