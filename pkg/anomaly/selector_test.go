// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package anomaly

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelectAnomaliesFiltersNormal(t *testing.T) {
	require := require.New(t)

	results := []MetricResult{
		{Metric: "cpc", Severity: SeverityNormal},
		{Metric: "roi", Severity: SeverityWarning},
		{Metric: "revenue", Severity: SeverityNormal},
		{Metric: "cvr", Severity: SeverityCritical},
	}

	entries, err := SelectAnomalies(results, nil, nil, 1)
	require.NoError(err)
	require.Len(entries, 2)
	require.Equal("cvr", entries[0].Metric)
	require.Equal("roi", entries[1].Metric)
}

func TestSelectAnomaliesSeverityOrder(t *testing.T) {
	require := require.New(t)

	results := []MetricResult{
		{Metric: "cpc", Severity: SeverityPositive},
		{Metric: "roi", Severity: SeverityWarning},
		{Metric: "ctr", Severity: SeverityCritical},
		{Metric: "cvr", Severity: SeverityCritical},
		{Metric: "epoc", Severity: SeverityWarning},
	}

	entries, err := SelectAnomalies(results, nil, nil, 1)
	require.NoError(err)
	require.Len(entries, 5)

	// Critical first, ties keep metric-table order
	require.Equal("ctr", entries[0].Metric)
	require.Equal("cvr", entries[1].Metric)
	require.Equal("roi", entries[2].Metric)
	require.Equal("epoc", entries[3].Metric)
	require.Equal("cpc", entries[4].Metric)
}

func TestSelectAnomaliesAttachesBreakdowns(t *testing.T) {
	require := require.New(t)

	current := []RawRow{
		deviceRow("2025-06-08", "mobile", 50),
		deviceRow("2025-06-08", "desktop", 95),
	}
	baseline := []RawRow{
		deviceRow("2025-06-07", "mobile", 100),
		deviceRow("2025-06-07", "desktop", 100),
	}

	results := []MetricResult{
		{Metric: "revenue", Severity: SeverityCritical},
	}

	entries, err := SelectAnomalies(results, current, baseline, 1)
	require.NoError(err)
	require.Len(entries, 1)
	require.NotEmpty(entries[0].Breakdowns)
	require.Equal(DimensionDevice, entries[0].Breakdowns[0].Dimension)
	require.Equal("mobile", entries[0].Breakdowns[0].Value)
}
