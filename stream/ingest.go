package stream

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	kgerrors "github.com/c360/kgstat/errors"
	"github.com/c360/kgstat/graph"
	"github.com/c360/kgstat/metric"
	"github.com/c360/kgstat/summary"
)

// Default ingestion settings.
const (
	DefaultSubjectPrefix = "kgstat.graph"
	defaultQueueSize     = 1024
)

// envelope carries one undecoded record from a NATS handler to the analysis
// goroutine.
type envelope struct {
	kind graph.EntityType
	data []byte
}

// ingestMetrics holds Prometheus metrics specific to the ingestor.
type ingestMetrics struct {
	decodeFailures prometheus.Counter
	queueDepth     prometheus.Gauge
}

// newIngestMetrics creates and registers ingestor metrics. A nil registry
// disables them.
func newIngestMetrics(registry *metric.MetricsRegistry) *ingestMetrics {
	if registry == nil {
		return nil
	}

	m := &ingestMetrics{
		decodeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kgstat",
			Subsystem: "stream",
			Name:      "decode_failures_total",
			Help:      "Messages dropped because their payload did not decode",
		}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "kgstat",
			Subsystem: "stream",
			Name:      "queue_depth",
			Help:      "Records waiting in the ingest queue",
		}),
	}

	// Registration only fails on duplicates, which a second ingestor on the
	// same registry would cause; the fresh counters still work locally.
	_ = registry.RegisterCounter("stream_ingest", "decode_failures", m.decodeFailures)
	_ = registry.RegisterGauge("stream_ingest", "queue_depth", m.queueDepth)
	return m
}

// IngestorDeps holds runtime dependencies for the ingestor.
type IngestorDeps struct {
	Client          *Client
	Summary         *summary.GraphSummary
	SubjectPrefix   string
	StreamName      string
	QueueSize       int
	MetricsRegistry *metric.MetricsRegistry
	Logger          *slog.Logger
}

// Ingestor subscribes to the node, edge, and done subjects and feeds every
// record to one graph summary. Delivery fans into a single ordered queue;
// only the analysis goroutine touches the summary. An ingestor runs once:
// after Stop the summary is finalized and the ingestor cannot be restarted.
type Ingestor struct {
	client        *Client
	summary       *summary.GraphSummary
	subjectPrefix string
	streamName    string
	queueSize     int
	runID         string
	logger        *slog.Logger
	metrics       *ingestMetrics
	core          *metric.Metrics

	queue    chan envelope
	shutdown chan struct{}
	done     chan struct{}

	streamDone chan struct{}
	doneOnce   sync.Once

	running atomic.Bool
	mu      sync.Mutex
	wg      sync.WaitGroup
}

// NewIngestor creates an ingestor from its dependencies. Client and Summary
// are required; everything else has defaults.
func NewIngestor(deps IngestorDeps) *Ingestor {
	prefix := deps.SubjectPrefix
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	queueSize := deps.QueueSize
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}

	runID := uuid.New().String()
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "stream-ingest", "run_id", runID)

	var core *metric.Metrics
	if deps.MetricsRegistry != nil {
		core = deps.MetricsRegistry.CoreMetrics()
	}

	return &Ingestor{
		client:        deps.Client,
		summary:       deps.Summary,
		subjectPrefix: prefix,
		streamName:    deps.StreamName,
		queueSize:     queueSize,
		runID:         runID,
		logger:        logger,
		metrics:       newIngestMetrics(deps.MetricsRegistry),
		core:          core,
		streamDone:    make(chan struct{}),
	}
}

// RunID returns the identifier for this ingestion run.
func (in *Ingestor) RunID() string {
	return in.runID
}

// Summary returns the summary being fed. Read its report only after Stop
// has returned.
func (in *Ingestor) Summary() *summary.GraphSummary {
	return in.summary
}

// NodeSubject returns the subject node records are consumed from.
func (in *Ingestor) NodeSubject() string {
	return in.subjectPrefix + ".nodes"
}

// EdgeSubject returns the subject edge records are consumed from.
func (in *Ingestor) EdgeSubject() string {
	return in.subjectPrefix + ".edges"
}

// DoneSubject returns the control subject that marks end-of-stream.
func (in *Ingestor) DoneSubject() string {
	return in.subjectPrefix + ".done"
}

// Done is closed when a producer publishes to the done subject. Callers
// wait on it, then Stop the ingestor and read the report.
func (in *Ingestor) Done() <-chan struct{} {
	return in.streamDone
}

// Start connects the client and subscribes to the record subjects. With a
// stream name configured, node and edge records are consumed through
// JetStream; otherwise plain subscriptions are used. The done subject is
// always a plain subscription.
func (in *Ingestor) Start(ctx context.Context) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.running.Load() {
		return kgerrors.WrapInvalid(kgerrors.ErrAlreadyStarted, "stream", "Start", "start ingestor")
	}
	if in.client == nil {
		return kgerrors.WrapInvalid(kgerrors.ErrMissingConfig, "stream", "Start", "check NATS client")
	}
	if in.summary == nil {
		return kgerrors.WrapInvalid(kgerrors.ErrMissingConfig, "stream", "Start", "check summary")
	}

	if err := in.client.Connect(ctx); err != nil {
		return kgerrors.Wrap(err, "stream", "Start", "connect")
	}

	in.queue = make(chan envelope, in.queueSize)
	in.shutdown = make(chan struct{})
	in.done = make(chan struct{})

	if err := in.subscribe(ctx); err != nil {
		return err
	}

	in.running.Store(true)
	in.wg.Add(1)
	go func() {
		defer in.wg.Done()
		defer close(in.done)
		in.analyseLoop(ctx)
	}()

	in.logger.Info("ingestor started",
		"nodes", in.NodeSubject(),
		"edges", in.EdgeSubject(),
		"done", in.DoneSubject(),
		"jetstream", in.streamName != "")
	return nil
}

func (in *Ingestor) subscribe(ctx context.Context) error {
	if in.streamName != "" {
		if err := in.client.ConsumeStream(ctx, in.streamName, in.NodeSubject(), func(data []byte) {
			in.enqueue(graph.EntityNode, data)
		}); err != nil {
			return kgerrors.Wrap(err, "stream", "Start", "consume "+in.NodeSubject())
		}
		if err := in.client.ConsumeStream(ctx, in.streamName, in.EdgeSubject(), func(data []byte) {
			in.enqueue(graph.EntityEdge, data)
		}); err != nil {
			return kgerrors.Wrap(err, "stream", "Start", "consume "+in.EdgeSubject())
		}
	} else {
		if err := in.client.Subscribe(ctx, in.NodeSubject(), func(_ context.Context, data []byte) {
			in.enqueue(graph.EntityNode, data)
		}); err != nil {
			return kgerrors.Wrap(err, "stream", "Start", "subscribe "+in.NodeSubject())
		}
		if err := in.client.Subscribe(ctx, in.EdgeSubject(), func(_ context.Context, data []byte) {
			in.enqueue(graph.EntityEdge, data)
		}); err != nil {
			return kgerrors.Wrap(err, "stream", "Start", "subscribe "+in.EdgeSubject())
		}
	}

	if err := in.client.Subscribe(ctx, in.DoneSubject(), func(context.Context, []byte) {
		in.signalDone()
	}); err != nil {
		return kgerrors.Wrap(err, "stream", "Start", "subscribe "+in.DoneSubject())
	}
	return nil
}

// enqueue hands one payload to the analysis goroutine. The payload is
// copied because NATS reuses its delivery buffers. Blocking here pushes
// backpressure onto the subscription rather than dropping records.
func (in *Ingestor) enqueue(kind graph.EntityType, data []byte) {
	payload := make([]byte, len(data))
	copy(payload, data)

	select {
	case in.queue <- envelope{kind: kind, data: payload}:
		if in.metrics != nil {
			in.metrics.queueDepth.Set(float64(len(in.queue)))
		}
	case <-in.shutdown:
	}
}

func (in *Ingestor) signalDone() {
	in.doneOnce.Do(func() {
		in.logger.Info("end of stream signalled")
		close(in.streamDone)
	})
}

func (in *Ingestor) analyseLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-in.shutdown:
			in.drainQueue()
			return
		case env := <-in.queue:
			in.handle(env)
		}
	}
}

// drainQueue consumes whatever the subscriptions enqueued before shutdown.
// Stop drains the NATS connection first, so nothing new arrives during this
// sweep.
func (in *Ingestor) drainQueue() {
	for {
		select {
		case env := <-in.queue:
			in.handle(env)
		default:
			return
		}
	}
}

func (in *Ingestor) handle(env envelope) {
	if in.metrics != nil {
		in.metrics.queueDepth.Set(float64(len(in.queue)))
	}

	record, err := decodeRecord(env.kind, env.data)
	if err != nil {
		in.logger.Warn("dropping undecodable record", "kind", env.kind.String(), "error", err)
		if in.metrics != nil {
			in.metrics.decodeFailures.Inc()
		}
		if in.core != nil {
			in.core.RecordError("stream", "decode")
		}
		return
	}

	if err := in.summary.Observe(record); err != nil {
		in.logger.Error("record rejected", "kind", env.kind.String(), "error", err)
		if in.core != nil {
			in.core.RecordProcessed("stream", env.kind.String(), "error")
		}
		return
	}
	if in.core != nil {
		in.core.RecordProcessed("stream", env.kind.String(), "ok")
	}
}

// Stop drains the connection, lets the analysis goroutine finish the queue,
// and closes the client. After Stop returns the summary report is stable.
func (in *Ingestor) Stop(timeout time.Duration) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	if !in.running.Load() {
		return kgerrors.WrapInvalid(kgerrors.ErrNotStarted, "stream", "Stop", "stop ingestor")
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Drain the connection first so every delivered record reaches the
	// queue, then release the analysis goroutine to sweep it.
	closeErr := in.client.Close(closeCtx)

	close(in.shutdown)

	select {
	case <-in.done:
	case <-time.After(timeout):
		in.running.Store(false)
		return kgerrors.WrapTransient(
			kgerrors.ErrShuttingDown,
			"stream", "Stop", "wait for analysis goroutine")
	}

	in.running.Store(false)
	in.logger.Info("ingestor stopped")

	if closeErr != nil {
		return kgerrors.Wrap(closeErr, "stream", "Stop", "close client")
	}
	return nil
}
