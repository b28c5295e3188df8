// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package anomaly

import "math"

// Direction of a metric's movement against its baseline.
type Direction string

const (
	DirectionIncrease Direction = "increase"
	DirectionDecrease Direction = "decrease"
	DirectionStable   Direction = "stable"
)

// Severity classifies a metric's change by magnitude and polarity.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityPositive Severity = "positive"
	SeverityNormal   Severity = "normal"
)

const (
	stableThresholdPct   = 1
	normalThresholdPct   = 5
	criticalThresholdPct = 10
)

func severityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityWarning:
		return 2
	case SeverityPositive:
		return 1
	}
	return 0
}

// MetricResult is one metric's comparison outcome, current day against
// per-day baseline. Significance is nil for value metrics and for rate
// metrics without an applicable test.
type MetricResult struct {
	Metric        string        `json:"metric"`
	Current       float64       `json:"current"`
	Baseline      float64       `json:"baseline"`
	Change        float64       `json:"change"`
	ChangePercent float64       `json:"changePercent"`
	Direction     Direction     `json:"direction"`
	Severity      Severity      `json:"severity"`
	Significance  *Significance `json:"significance,omitempty"`
}

// Evaluate compares one metric between current-day totals and per-day
// baseline totals. A zero baseline value yields a 0% change by rule,
// never Inf.
func Evaluate(def MetricDef, current, baseline Totals) MetricResult {
	cur := Value(def.Name, current)
	base := Value(def.Name, baseline)
	change := cur - base

	changePct := 0.0
	if base != 0 {
		changePct = change / base * 100
	}

	dir := DirectionStable
	if math.Abs(changePct) >= stableThresholdPct {
		if changePct > 0 {
			dir = DirectionIncrease
		} else {
			dir = DirectionDecrease
		}
	}

	res := MetricResult{
		Metric:        def.Name,
		Current:       cur,
		Baseline:      base,
		Change:        change,
		ChangePercent: changePct,
		Direction:     dir,
		Severity:      classifySeverity(def, dir, changePct),
	}

	if def.Type == MetricTypeRate {
		res.Significance = TestSignificance(cur, base, def.SampleSize(current), def.Type)
	}

	return res
}

// classifySeverity applies the magnitude-and-polarity rule. Severity
// is deliberately independent of statistical significance: a metric
// can be critical by magnitude alone on a sample too small to test.
func classifySeverity(def MetricDef, dir Direction, changePct float64) Severity {
	abs := math.Abs(changePct)
	if abs < normalThresholdPct {
		return SeverityNormal
	}

	goodChange := (def.LowerIsBetter && dir == DirectionDecrease) ||
		(!def.LowerIsBetter && dir == DirectionIncrease)
	if goodChange {
		return SeverityPositive
	}

	if abs >= criticalThresholdPct {
		return SeverityCritical
	}
	return SeverityWarning
}
