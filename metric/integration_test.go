package metric

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockComponent simulates a pipeline component that registers its own metrics
type mockComponent struct {
	name    string
	metrics struct {
		recordsDecoded prometheus.Counter
		queueDepth     prometheus.Gauge
	}
}

func newMockComponent(name string) *mockComponent {
	return &mockComponent{name: name}
}

// RegisterMetrics registers component-specific metrics
func (m *mockComponent) RegisterMetrics(registrar MetricsRegistrar) error {
	m.metrics.recordsDecoded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "kgstat",
		Subsystem: "mock_component",
		Name:      "records_decoded_total",
		Help:      "Total number of records decoded",
	})

	err := registrar.RegisterCounter(m.name, "records_decoded_total", m.metrics.recordsDecoded)
	if err != nil {
		return err
	}

	m.metrics.queueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "kgstat",
		Subsystem: "mock_component",
		Name:      "queue_depth",
		Help:      "Current depth of record queue",
	})

	return registrar.RegisterGauge(m.name, "queue_depth", m.metrics.queueDepth)
}

// decode simulates record decoding and updates metrics
func (m *mockComponent) decode(records int, queueDepth int) {
	m.metrics.recordsDecoded.Add(float64(records))
	m.metrics.queueDepth.Set(float64(queueDepth))
}

func TestMetricsIntegration_ComponentRegistration(t *testing.T) {
	registry := NewMetricsRegistry()

	component := newMockComponent("test-component")

	err := component.RegisterMetrics(registry)
	require.NoError(t, err)

	// Simulate some component activity
	component.decode(10, 5)

	// Verify metrics are registered and have values
	metricFamilies, err := registry.PrometheusRegistry().Gather()
	require.NoError(t, err)

	foundMetrics := make(map[string]bool)
	for _, mf := range metricFamilies {
		foundMetrics[mf.GetName()] = true
	}

	assert.True(t, foundMetrics["kgstat_mock_component_records_decoded_total"],
		"Custom records_decoded metric should be registered")
	assert.True(t, foundMetrics["kgstat_mock_component_queue_depth"],
		"Custom queue_depth metric should be registered")
}

func TestMetricsIntegration_NoDuplicateRegistration(t *testing.T) {
	registry := NewMetricsRegistry()

	// Two components with the same name (this shouldn't happen in real usage)
	component1 := newMockComponent("duplicate-component")
	component2 := newMockComponent("duplicate-component")

	err := component1.RegisterMetrics(registry)
	require.NoError(t, err)

	// Second registration should fail
	err = component2.RegisterMetrics(registry)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestMetricsIntegration_CoreAndComponentMetricsSeparate(t *testing.T) {
	registry := NewMetricsRegistry()
	coreMetrics := registry.CoreMetrics()

	component := newMockComponent("separation-test")
	err := component.RegisterMetrics(registry)
	require.NoError(t, err)

	// Use core metrics
	coreMetrics.RecordReceived("separation-test", "node")
	coreMetrics.RecordWarning("separation-test", "duplicate_node")

	// Use component-specific metrics
	component.decode(5, 3)

	// Verify both types of metrics are present
	metricFamilies, err := registry.PrometheusRegistry().Gather()
	require.NoError(t, err)

	foundMetrics := make(map[string]bool)
	for _, mf := range metricFamilies {
		foundMetrics[mf.GetName()] = true
	}

	// Verify core metrics
	assert.True(t, foundMetrics["kgstat_records_received_total"],
		"core records received metric should be present")
	assert.True(t, foundMetrics["kgstat_analysis_warnings_total"],
		"core warnings metric should be present")

	// Verify component-specific metrics
	assert.True(t, foundMetrics["kgstat_mock_component_records_decoded_total"],
		"Component-specific decode metric should be present")
	assert.True(t, foundMetrics["kgstat_mock_component_queue_depth"],
		"Component-specific queue depth metric should be present")
}

func TestMetricsIntegration_MetricsUnregistration(t *testing.T) {
	registry := NewMetricsRegistry()

	component := newMockComponent("unregister-test")

	err := component.RegisterMetrics(registry)
	require.NoError(t, err)

	// Process some data to make metrics visible
	component.decode(1, 1)

	// Verify metrics are present
	metricFamilies, err := registry.PrometheusRegistry().Gather()
	require.NoError(t, err)

	foundBefore := make(map[string]bool)
	for _, mf := range metricFamilies {
		foundBefore[mf.GetName()] = true
	}

	assert.True(t, foundBefore["kgstat_mock_component_records_decoded_total"],
		"Metric should be present before unregistration")

	// Unregister one of the metrics
	success := registry.Unregister("unregister-test", "records_decoded_total")
	assert.True(t, success, "Unregistration should succeed")

	// Verify metric is no longer present
	metricFamilies, err = registry.PrometheusRegistry().Gather()
	require.NoError(t, err)

	foundAfter := make(map[string]bool)
	for _, mf := range metricFamilies {
		foundAfter[mf.GetName()] = true
	}

	assert.False(t, foundAfter["kgstat_mock_component_records_decoded_total"],
		"Metric should be absent after unregistration")
	assert.True(t, foundAfter["kgstat_mock_component_queue_depth"],
		"Other component metrics should remain")
}

func TestMetricsIntegration_ComponentsWithConflictingMetricNames(t *testing.T) {
	registry := NewMetricsRegistry()

	// Different registry keys but identical Prometheus metric names
	component1 := newMockComponent("ingestor-a")
	component2 := newMockComponent("ingestor-b")

	err := component1.RegisterMetrics(registry)
	require.NoError(t, err)

	// The second component fails because it registers the same Prometheus
	// metric names without distinguishing labels
	err = component2.RegisterMetrics(registry)
	assert.Error(t, err, "Second component should fail due to Prometheus metric name conflict")
	assert.Contains(t, err.Error(), "prometheus conflict")
}
