// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package anomaly

import (
	"fmt"

	"github.com/adxyz/adpulse/pkg/log"
)

// Analysis is the full outcome for one target day: every metric's
// comparison keyed by name, plus the ordered anomaly list.
type Analysis struct {
	BaselineDays int                     `json:"baselineDays"`
	Metrics      map[string]MetricResult `json:"metrics"`
	Anomalies    []AnomalyEntry          `json:"anomalies"`
}

// Analyzer runs the end-to-end pipeline: aggregate, evaluate, select,
// attribute. It is stateless apart from its logger and safe for
// concurrent use.
type Analyzer struct {
	log log.Logger
}

// NewAnalyzer creates an analyzer.
func NewAnalyzer(logger log.Logger) *Analyzer {
	return &Analyzer{log: logger}
}

// Analyze compares one target day's rows against a baseline window's
// rows. The baseline is averaged per distinct calendar date in
// baselineRows; with no baseline rows at all every baseline value is 0
// and every change reads 0% by the zero-guard rule.
func (a *Analyzer) Analyze(currentRows, baselineRows []RawRow) (*Analysis, error) {
	days := DistinctDays(baselineRows)
	if days == 0 {
		days = 1
	}

	currentTotals, err := Aggregate(currentRows)
	if err != nil {
		return nil, fmt.Errorf("aggregate current rows: %w", err)
	}
	baselineTotals, err := Aggregate(baselineRows)
	if err != nil {
		return nil, fmt.Errorf("aggregate baseline rows: %w", err)
	}
	baselineTotals = baselineTotals.PerDay(days)

	ordered := make([]MetricResult, 0, len(metricTable))
	byName := make(map[string]MetricResult, len(metricTable))
	for _, def := range metricTable {
		res := Evaluate(def, currentTotals, baselineTotals)
		ordered = append(ordered, res)
		byName[def.Name] = res
	}

	anomalies, err := SelectAnomalies(ordered, currentRows, baselineRows, days)
	if err != nil {
		return nil, fmt.Errorf("select anomalies: %w", err)
	}

	a.log.Debug("analysis complete",
		log.Int("currentRows", len(currentRows)),
		log.Int("baselineRows", len(baselineRows)),
		log.Int("baselineDays", days),
		log.Int("anomalies", len(anomalies)),
	)

	return &Analysis{
		BaselineDays: days,
		Metrics:      byName,
		Anomalies:    anomalies,
	}, nil
}
