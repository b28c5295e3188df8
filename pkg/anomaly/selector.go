// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package anomaly

import "sort"

// AnomalyEntry pairs an anomalous metric with its cross-dimension
// root-cause breakdowns.
type AnomalyEntry struct {
	Metric     string               `json:"metric"`
	Result     MetricResult         `json:"result"`
	Breakdowns []DimensionBreakdown `json:"breakdowns"`
}

// SelectAnomalies filters evaluated metrics down to non-normal
// severities, attaches combined breakdowns to each, and orders the
// result by severity rank descending. results must be in canonical
// metric-table order; the sort is stable so ties keep that order.
func SelectAnomalies(results []MetricResult, currentRows, baselineRows []RawRow, baselineDays int) ([]AnomalyEntry, error) {
	entries := make([]AnomalyEntry, 0, len(results))
	for _, res := range results {
		if res.Severity == SeverityNormal {
			continue
		}

		def, ok := MetricByName(res.Metric)
		if !ok {
			continue
		}
		breakdowns, err := CombinedBreakdowns(def, currentRows, baselineRows, baselineDays)
		if err != nil {
			return nil, err
		}

		entries = append(entries, AnomalyEntry{
			Metric:     res.Metric,
			Result:     res,
			Breakdowns: breakdowns,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return severityRank(entries[i].Result.Severity) > severityRank(entries[j].Result.Severity)
	})

	return entries, nil
}
