// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package anomaly

import (
	"fmt"
	"math"
	"sort"
	"sync"
)

const maxBreakdownEntries = 4

// DimensionBreakdown is one dimension-value slice of a metric's
// change, used for root-cause attribution.
type DimensionBreakdown struct {
	Dimension                  Dimension `json:"dimension"`
	Value                      string    `json:"value"`
	Current                    float64   `json:"current"`
	Baseline                   float64   `json:"baseline"`
	ChangePercent              float64   `json:"changePercent"`
	IsPrimaryDriver            bool      `json:"isPrimaryDriver"`
	IsStatisticallySignificant bool      `json:"isStatisticallySignificant"`
	PValue                     *float64  `json:"pValue,omitempty"`
}

// Breakdown re-runs the metric comparison per distinct value of one
// dimension. It keeps slices that are statistically significant or
// moved at least the warning threshold, sorts them by absolute change
// descending, marks the top slice as primary driver, and caps the
// result at four entries.
//
// baselineDays must be the distinct-date count of the whole baseline
// window, shared with the parent metric computation. Recomputing it
// per dimension value would silently shift results whenever a value is
// absent on some baseline days.
func Breakdown(def MetricDef, currentRows, baselineRows []RawRow, dim Dimension, baselineDays int) ([]DimensionBreakdown, error) {
	curByValue, order := partitionRows(currentRows, dim)
	baseByValue, _ := partitionRows(baselineRows, dim)

	kept := make([]DimensionBreakdown, 0, len(order))
	for _, val := range order {
		curTotals, err := Aggregate(curByValue[val])
		if err != nil {
			return nil, fmt.Errorf("%s=%q current: %w", dim, val, err)
		}
		baseTotals, err := Aggregate(baseByValue[val])
		if err != nil {
			return nil, fmt.Errorf("%s=%q baseline: %w", dim, val, err)
		}
		baseTotals = baseTotals.PerDay(baselineDays)

		cur := Value(def.Name, curTotals)
		base := Value(def.Name, baseTotals)
		changePct := 0.0
		if base != 0 {
			changePct = (cur - base) / base * 100
		}

		var sig *Significance
		if def.Type == MetricTypeRate {
			sig = TestSignificance(cur, base, def.SampleSize(curTotals), def.Type)
		}

		// Magnitude alone can qualify a slice when no valid test
		// exists, matching the parent severity rule.
		include := math.Abs(changePct) >= normalThresholdPct
		if sig != nil {
			include = sig.IsSignificant || include
		}
		if !include {
			continue
		}

		entry := DimensionBreakdown{
			Dimension:                  dim,
			Value:                      val,
			Current:                    cur,
			Baseline:                   base,
			ChangePercent:              changePct,
			IsStatisticallySignificant: sig != nil && sig.IsSignificant,
		}
		if sig != nil {
			p := sig.PValue
			entry.PValue = &p
		}
		kept = append(kept, entry)
	}

	sortByAbsChange(kept)
	if len(kept) > 0 {
		kept[0].IsPrimaryDriver = true
	}
	if len(kept) > maxBreakdownEntries {
		kept = kept[:maxBreakdownEntries]
	}
	return kept, nil
}

// CombinedBreakdowns runs Breakdown over the fixed attribution
// dimensions and keeps the overall top entries. No per-dimension quota
// applies: one dominant dimension may fill the whole result. The four
// computations share only read-only inputs, so they run concurrently.
func CombinedBreakdowns(def MetricDef, currentRows, baselineRows []RawRow, baselineDays int) ([]DimensionBreakdown, error) {
	results := make([][]DimensionBreakdown, len(BreakdownDimensions))
	errs := make([]error, len(BreakdownDimensions))

	var wg sync.WaitGroup
	for i, dim := range BreakdownDimensions {
		wg.Add(1)
		go func(i int, dim Dimension) {
			defer wg.Done()
			results[i], errs[i] = Breakdown(def, currentRows, baselineRows, dim, baselineDays)
		}(i, dim)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	var combined []DimensionBreakdown
	for _, r := range results {
		combined = append(combined, r...)
	}

	sortByAbsChange(combined)
	if len(combined) > maxBreakdownEntries {
		combined = combined[:maxBreakdownEntries]
	}
	return combined, nil
}

// partitionRows groups rows by their value for dim, preserving
// first-encountered order and dropping invalid placeholder values.
func partitionRows(rows []RawRow, dim Dimension) (map[string][]RawRow, []string) {
	byValue := make(map[string][]RawRow)
	var order []string
	for i := range rows {
		val := rows[i].DimensionValue(dim)
		if !validDimensionValue(val) {
			continue
		}
		if _, ok := byValue[val]; !ok {
			order = append(order, val)
		}
		byValue[val] = append(byValue[val], rows[i])
	}
	return byValue, order
}

// sortByAbsChange sorts descending by |changePercent|. The sort is
// stable so ties keep first-encountered order, which primary-driver
// selection relies on.
func sortByAbsChange(entries []DimensionBreakdown) {
	sort.SliceStable(entries, func(i, j int) bool {
		return math.Abs(entries[i].ChangePercent) > math.Abs(entries[j].ChangePercent)
	})
}
