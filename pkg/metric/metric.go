// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metric

import (
	metrics "github.com/luxfi/metric"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all service metrics for adpulse using luxfi/metric
type Metrics struct {
	metricsInstance metrics.Metrics

	// Analysis metrics
	AnalysesRun      metrics.Counter
	AnalysisFailures metrics.Counter
	RowsAggregated   metrics.Counter

	// Anomaly metrics
	AnomaliesDetected metrics.CounterVec

	// API metrics
	RequestsProcessed metrics.CounterVec

	// Performance metrics
	AnalysisDuration metrics.Histogram
}

// NewMetrics creates a new metrics instance using luxfi/metric
func NewMetrics() (*Metrics, error) {
	factory := metrics.NewPrometheusFactory()
	metricsInstance := factory.New("adpulse")

	m := &Metrics{
		metricsInstance: metricsInstance,
	}

	m.AnalysesRun = metricsInstance.NewCounter("analysis_run_total", "Total number of anomaly analyses run")
	m.AnalysisFailures = metricsInstance.NewCounter("analysis_failures_total", "Total number of analyses rejected for malformed input")
	m.RowsAggregated = metricsInstance.NewCounter("analysis_rows_aggregated_total", "Total number of reporting rows aggregated")

	m.AnomaliesDetected = metricsInstance.NewCounterVec(
		"anomalies_detected_total",
		"Total number of metric anomalies detected by severity",
		[]string{"severity"},
	)

	m.RequestsProcessed = metricsInstance.NewCounterVec(
		"api_requests_processed_total",
		"Total number of API requests processed",
		[]string{"method", "status"},
	)

	m.AnalysisDuration = metricsInstance.NewHistogram(
		"analysis_duration_seconds",
		"Time to run one anomaly analysis",
		prometheus.DefBuckets,
	)

	return m, nil
}

// GetGatherer returns the prometheus gatherer for metrics export
func (m *Metrics) GetGatherer() prometheus.Gatherer {
	if registry := m.metricsInstance.Registry(); registry != nil {
		return registry
	}
	return prometheus.DefaultGatherer
}

// GetRegisterer returns the prometheus registerer
func (m *Metrics) GetRegisterer() prometheus.Registerer {
	if registry := m.metricsInstance.Registry(); registry != nil {
		return registry
	}
	return prometheus.DefaultRegisterer
}
