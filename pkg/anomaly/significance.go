// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package anomaly

import (
	"math"

	"github.com/adxyz/adpulse/pkg/stats"
)

const (
	// minSampleSize is the usual n >= 30 floor for the normal
	// approximation of a proportion test.
	minSampleSize = 30

	significanceLevel = 0.05
	zCritical95       = 1.96
)

// ConfidenceInterval is a 95% interval in percentage points, centered
// on the baseline proportion and clamped to [0,100].
type ConfidenceInterval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Significance is the outcome of the two-proportion Z-test for one
// rate metric. Its absence on a MetricResult means the test did not
// apply, which is distinct from "tested and not significant".
type Significance struct {
	StandardError      float64            `json:"standardError"`
	ZScore             float64            `json:"zScore"`
	PValue             float64            `json:"pValue"`
	ConfidenceInterval ConfidenceInterval `json:"confidenceInterval"`
	IsSignificant      bool               `json:"isSignificant"`
	SampleSize         float64            `json:"sampleSize"`
}

// TestSignificance runs a two-proportion-style Z-test of the observed
// rate against a fixed baseline rate. It returns nil unless the metric
// is rate-typed, the sample size is adequate, and the baseline
// proportion is strictly inside (0,1).
func TestSignificance(currentPct, baselinePct, sampleSize float64, metricType MetricType) *Significance {
	if metricType != MetricTypeRate || sampleSize < minSampleSize {
		return nil
	}

	p := baselinePct / 100
	if p <= 0 || p >= 1 {
		return nil
	}
	p1 := currentPct / 100

	se := math.Sqrt(p * (1 - p) / sampleSize)

	// se cannot be 0 given the p guard, but a zero divisor must
	// still never reach the division.
	z := 0.0
	if se > 0 {
		z = (p1 - p) / se
	}

	pValue := 2 * (1 - stats.NormalCDF(math.Abs(z)))

	return &Significance{
		StandardError: se,
		ZScore:        z,
		PValue:        pValue,
		ConfidenceInterval: ConfidenceInterval{
			Lower: math.Max(0, p-zCritical95*se) * 100,
			Upper: math.Min(1, p+zCritical95*se) * 100,
		},
		IsSignificant: pValue < significanceLevel,
		SampleSize:    sampleSize,
	}
}
