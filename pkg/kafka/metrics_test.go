package kafka

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatherMetricNames collects all metric names from the default registry.
func gatherMetricNames(t *testing.T) map[string]bool {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	names := make(map[string]bool, len(families))
	for _, fam := range families {
		names[fam.GetName()] = true
	}
	return names
}

func TestProducerMetrics_Registered(t *testing.T) {
	// Touch the producer metrics so they appear in Gather().
	ProducerMessagesPublished.WithLabelValues("test-topic")
	ProducerPublishErrors.WithLabelValues("test-topic")
	ProducerPublishDuration.WithLabelValues("test-topic")

	names := gatherMetricNames(t)

	expectedMetrics := []string{
		"kafka_producer_messages_published_total",
		"kafka_producer_publish_errors_total",
		"kafka_producer_publish_duration_seconds",
	}

	for _, name := range expectedMetrics {
		assert.True(t, names[name], "expected metric %q to be registered", name)
	}
}

func TestProducerMetrics_IncrementAndCollect(t *testing.T) {
	topic := "metrics-test-producer-topic"

	initialPublished := getCounterValue(t, "kafka_producer_messages_published_total", topic)
	initialErrors := getCounterValue(t, "kafka_producer_publish_errors_total", topic)

	ProducerMessagesPublished.WithLabelValues(topic).Inc()
	ProducerMessagesPublished.WithLabelValues(topic).Inc()
	ProducerPublishErrors.WithLabelValues(topic).Inc()
	ProducerPublishDuration.WithLabelValues(topic).Observe(0.05)

	assert.InDelta(t, initialPublished+2, getCounterValue(t, "kafka_producer_messages_published_total", topic), 0.001)
	assert.InDelta(t, initialErrors+1, getCounterValue(t, "kafka_producer_publish_errors_total", topic), 0.001)

	histogramCount := getHistogramCount(t, "kafka_producer_publish_duration_seconds", topic)
	assert.GreaterOrEqual(t, histogramCount, uint64(1))
}

// getCounterValue retrieves the current value of a counter metric for a topic.
func getCounterValue(t *testing.T, metricName, topic string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	for _, fam := range families {
		if fam.GetName() != metricName {
			continue
		}
		for _, m := range fam.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "topic" && lp.GetValue() == topic {
					if m.GetCounter() != nil {
						return m.GetCounter().GetValue()
					}
				}
			}
		}
	}
	return 0
}

// getHistogramCount retrieves the sample count for a histogram metric.
func getHistogramCount(t *testing.T, metricName, topic string) uint64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	for _, fam := range families {
		if fam.GetName() != metricName {
			continue
		}
		for _, m := range fam.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "topic" && lp.GetValue() == topic {
					if m.GetHistogram() != nil {
						return m.GetHistogram().GetSampleCount()
					}
				}
			}
		}
	}
	return 0
}

func TestMetrics_DescriptionsNonEmpty(t *testing.T) {
	// Verify that each metric has a non-empty help string by checking the
	// gathered MetricFamily descriptions.
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	kafkaMetrics := []string{
		"kafka_producer_messages_published_total",
		"kafka_producer_publish_errors_total",
		"kafka_producer_publish_duration_seconds",
	}

	helpByName := make(map[string]string)
	for _, fam := range families {
		helpByName[fam.GetName()] = fam.GetHelp()
	}

	for _, name := range kafkaMetrics {
		help, exists := helpByName[name]
		assert.True(t, exists, "metric %q not found in gathered families", name)
		assert.NotEmpty(t, help, "metric %q should have a non-empty help string", name)
		assert.True(t, strings.Contains(strings.ToLower(help), "kafka"),
			"metric %q help %q should mention kafka", name, help)
	}
}
