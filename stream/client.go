// Package stream ingests live graph records from NATS and feeds them to a
// graph summary. Records published as JSON on the node and edge subjects fan
// into one ordered queue consumed by a single analysis goroutine, so the
// summary is only ever touched from one place.
package stream

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	kgerrors "github.com/c360/kgstat/errors"
	"github.com/c360/kgstat/metric"
	"github.com/c360/kgstat/pkg/retry"
)

// ConnectionStatus represents the state of the NATS connection.
type ConnectionStatus int

// Possible connection statuses.
const (
	StatusDisconnected ConnectionStatus = iota
	StatusConnecting
	StatusConnected
	StatusReconnecting
)

// String returns the string representation of ConnectionStatus.
func (s ConnectionStatus) String() string {
	switch s {
	case StatusDisconnected:
		return "disconnected"
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	case StatusReconnecting:
		return "reconnecting"
	default:
		return "unknown"
	}
}

// messageTimeout bounds the handling of a single core NATS message.
const messageTimeout = 30 * time.Second

// Client manages one NATS connection for the ingestor: connect with backoff,
// core and JetStream subscriptions, drain on close. Connection state changes
// are mirrored into the core metrics when they are configured.
type Client struct {
	url        string
	clientName string
	logger     *slog.Logger
	metrics    *metric.Metrics
	retryCfg   retry.Config

	maxReconnects int
	reconnectWait time.Duration
	pingInterval  time.Duration
	timeout       time.Duration
	drainTimeout  time.Duration

	mu        sync.RWMutex
	conn      *nats.Conn
	js        jetstream.JetStream
	subs      []*nats.Subscription
	consumers map[string]jetstream.ConsumeContext

	status atomic.Value // ConnectionStatus
	closed atomic.Bool
}

// NewClient creates a NATS client for the given server URL.
func NewClient(url string, opts ...ClientOption) (*Client, error) {
	c := &Client{
		url:           url,
		logger:        slog.Default(),
		retryCfg:      retry.Persistent(),
		maxReconnects: -1,
		reconnectWait: 2 * time.Second,
		pingInterval:  30 * time.Second,
		timeout:       5 * time.Second,
		drainTimeout:  30 * time.Second,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, kgerrors.WrapInvalid(err, "stream", "NewClient", "apply option")
		}
	}

	c.status.Store(StatusDisconnected)
	return c, nil
}

// URL returns the NATS server URL.
func (c *Client) URL() string {
	return c.url
}

// Status returns the current connection status.
func (c *Client) Status() ConnectionStatus {
	val := c.status.Load()
	if val == nil {
		return StatusDisconnected
	}
	return val.(ConnectionStatus)
}

// IsHealthy reports whether the connection is established.
func (c *Client) IsHealthy() bool {
	return c.Status() == StatusConnected
}

func (c *Client) setStatus(status ConnectionStatus) {
	c.status.Store(status)
}

func (c *Client) recordStatus(connected bool) {
	if c.metrics != nil {
		c.metrics.RecordNATSStatus(connected)
	}
}

func (c *Client) recordRTT() {
	if c.metrics == nil {
		return
	}
	if rtt, err := c.RTT(); err == nil {
		c.metrics.RecordNATSRTT(rtt)
	}
}

// Connect establishes the connection, retrying with backoff until the
// context is cancelled or the retry budget runs out.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()
	if conn != nil && conn.IsConnected() {
		return nil
	}

	c.setStatus(StatusConnecting)
	c.logger.Info("connecting to NATS", "url", c.url)

	err := retry.Do(ctx, c.retryCfg, func() error {
		conn, err := nats.Connect(c.url, c.connectionOptions()...)
		if err != nil {
			c.logger.Warn("connection attempt failed", "url", c.url, "error", err)
			return err
		}
		js, err := jetstream.New(conn)
		if err != nil {
			conn.Close()
			return retry.NonRetryable(err)
		}

		c.mu.Lock()
		c.conn = conn
		c.js = js
		c.mu.Unlock()
		return nil
	})
	if err != nil {
		c.setStatus(StatusDisconnected)
		c.recordStatus(false)
		return kgerrors.WrapTransient(err, "stream", "Connect", "establish connection to "+c.url)
	}

	c.setStatus(StatusConnected)
	c.recordStatus(true)
	c.recordRTT()
	c.logger.Info("connected to NATS", "url", c.url)
	return nil
}

func (c *Client) connectionOptions() []nats.Option {
	opts := []nats.Option{
		nats.MaxReconnects(c.maxReconnects),
		nats.ReconnectWait(c.reconnectWait),
		nats.PingInterval(c.pingInterval),
		nats.Timeout(c.timeout),
		nats.DrainTimeout(c.drainTimeout),
		nats.DisconnectErrHandler(c.handleDisconnect),
		nats.ReconnectHandler(c.handleReconnect),
		nats.ClosedHandler(c.handleClosed),
		nats.ErrorHandler(c.handleError),
	}
	if c.clientName != "" {
		opts = append(opts, nats.Name(c.clientName))
	}
	return opts
}

// Subscribe subscribes to a core NATS subject. Each message handler runs
// with a context derived from the parent, bounded by messageTimeout.
func (c *Client) Subscribe(ctx context.Context, subject string, handler func(context.Context, []byte)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil || !c.conn.IsConnected() {
		return kgerrors.ErrNoConnection
	}

	sub, err := c.conn.Subscribe(subject, func(msg *nats.Msg) {
		msgCtx, cancel := context.WithTimeout(ctx, messageTimeout)
		defer cancel()
		handler(msgCtx, msg.Data)
	})
	if err != nil {
		return kgerrors.WrapTransient(err, "stream", "Subscribe", "subscribe to "+subject)
	}

	c.subs = append(c.subs, sub)
	return nil
}

// Publish publishes a message to a core NATS subject.
func (c *Client) Publish(_ context.Context, subject string, data []byte) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil || !conn.IsConnected() {
		return kgerrors.ErrNoConnection
	}
	return conn.Publish(subject, data)
}

// ConsumeStream attaches a JetStream consumer filtered to subject and feeds
// every delivered message to handler, acknowledging after the handler
// returns. An existing consumer for the same stream and subject is replaced.
func (c *Client) ConsumeStream(ctx context.Context, streamName, subject string, handler func([]byte)) error {
	if c.Status() != StatusConnected {
		return kgerrors.ErrNoConnection
	}
	if c.closed.Load() {
		return kgerrors.WrapInvalid(kgerrors.ErrShuttingDown, "stream", "ConsumeStream", "check client state")
	}

	c.mu.RLock()
	js := c.js
	c.mu.RUnlock()
	if js == nil {
		return kgerrors.ErrNoConnection
	}

	consumer, err := js.CreateOrUpdateConsumer(ctx, streamName, jetstream.ConsumerConfig{
		FilterSubject: subject,
	})
	if err != nil {
		return kgerrors.WrapTransient(err, "stream", "ConsumeStream", "create consumer on "+streamName)
	}

	consumeContext, err := consumer.Consume(func(msg jetstream.Msg) {
		handler(msg.Data())
		msg.Ack()
	})
	if err != nil {
		return kgerrors.WrapTransient(err, "stream", "ConsumeStream", "start consuming "+subject)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.consumers == nil {
		c.consumers = make(map[string]jetstream.ConsumeContext)
	}
	key := streamName + ":" + subject
	if existing, ok := c.consumers[key]; ok {
		existing.Stop()
		c.logger.Debug("replaced existing consumer", "key", key)
	}
	c.consumers[key] = consumeContext
	return nil
}

// RTT returns the round-trip time to the NATS server.
func (c *Client) RTT() (time.Duration, error) {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil || !conn.IsConnected() {
		return 0, kgerrors.ErrNoConnection
	}
	return conn.RTT()
}

// Close stops all consumers, unsubscribes, and drains the connection. The
// drain is bounded by the configured drain timeout or the context deadline,
// whichever is shorter. Close is safe to call more than once.
func (c *Client) Close(ctx context.Context) error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for key, consumer := range c.consumers {
		consumer.Stop()
		c.logger.Debug("stopped consumer", "key", key)
	}
	c.consumers = nil

	var errs []error
	for _, sub := range c.subs {
		if err := sub.Unsubscribe(); err != nil {
			errs = append(errs, kgerrors.Wrap(err, "stream", "Close", "unsubscribe"))
		}
	}
	c.subs = nil

	if c.conn != nil {
		drainTimeout := c.drainTimeout
		if deadline, ok := ctx.Deadline(); ok {
			if remaining := time.Until(deadline); remaining > 0 && remaining < drainTimeout {
				drainTimeout = remaining
			}
		}

		drainDone := make(chan error, 1)
		conn := c.conn
		go func() {
			drainDone <- conn.Drain()
		}()

		select {
		case err := <-drainDone:
			if err != nil {
				errs = append(errs, kgerrors.Wrap(err, "stream", "Close", "drain connection"))
			}
		case <-time.After(drainTimeout):
			errs = append(errs, kgerrors.WrapTransient(
				fmt.Errorf("drain timeout after %v", drainTimeout),
				"stream", "Close", "drain connection"))
		case <-ctx.Done():
			errs = append(errs, kgerrors.Wrap(ctx.Err(), "stream", "Close", "drain connection"))
		}

		c.conn.Close()
		c.conn = nil
		c.js = nil
	}

	c.setStatus(StatusDisconnected)
	c.recordStatus(false)

	if len(errs) > 0 {
		msg := "cleanup errors:"
		for i, err := range errs {
			msg += fmt.Sprintf("\n  [%d] %v", i+1, err)
		}
		return fmt.Errorf("%s", msg)
	}
	return nil
}

// Event handlers for the NATS connection.

func (c *Client) handleDisconnect(_ *nats.Conn, err error) {
	c.setStatus(StatusReconnecting)
	c.recordStatus(false)
	if err != nil {
		c.logger.Warn("NATS connection lost", "error", err)
	}
}

func (c *Client) handleReconnect(conn *nats.Conn) {
	c.setStatus(StatusConnected)
	c.recordStatus(true)
	if c.metrics != nil {
		c.metrics.RecordNATSReconnect()
	}
	c.recordRTT()
	c.logger.Info("reconnected to NATS", "url", conn.ConnectedUrl())
}

func (c *Client) handleClosed(_ *nats.Conn) {
	c.setStatus(StatusDisconnected)
	c.recordStatus(false)
}

func (c *Client) handleError(_ *nats.Conn, sub *nats.Subscription, err error) {
	if sub != nil {
		c.logger.Error("NATS subscription error", "subject", sub.Subject, "error", err)
		return
	}
	c.logger.Error("NATS error", "error", err)
}
