// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package anomaly

import "fmt"

// Totals is the sum of numeric facts across a set of rows. Zero totals
// are valid and distinct from missing data.
type Totals struct {
	Impressions   float64 `json:"impressions"`
	Clicks        float64 `json:"clicks"`
	Cost          float64 `json:"cost"`
	Revenue       float64 `json:"revenue"`
	ApprovedLeads float64 `json:"approvedLeads"`
	ClickOuts     float64 `json:"clickOuts"`
	Leads         float64 `json:"leads"`
}

// Aggregate sums the numeric facts of rows into one Totals. An empty
// input yields all-zero totals. Row selection (current day vs baseline
// window) is the caller's responsibility; no filtering happens here.
func Aggregate(rows []RawRow) (Totals, error) {
	var t Totals
	for i := range rows {
		if err := rows[i].Validate(); err != nil {
			return Totals{}, fmt.Errorf("row %d: %w", i, err)
		}
		t.Impressions += rows[i].Impressions
		t.Clicks += rows[i].Clicks
		t.Cost += rows[i].Cost
		t.Revenue += rows[i].Revenue
		t.ApprovedLeads += rows[i].ApprovedLeads
		t.ClickOuts += rows[i].ClickOuts
		t.Leads += rows[i].Leads
	}
	return t, nil
}

// DistinctDays counts the distinct calendar dates present in rows.
// Baseline averaging divides by this count, never by the row count: a
// single day usually spans many rows across dimension combinations.
func DistinctDays(rows []RawRow) int {
	seen := make(map[string]struct{}, len(rows))
	for i := range rows {
		seen[rows[i].Day()] = struct{}{}
	}
	return len(seen)
}

// PerDay converts window totals into a per-day average so the baseline
// is comparable to a single target day. days must be the distinct-date
// count of the window; values below 2 leave the totals unchanged.
func (t Totals) PerDay(days int) Totals {
	if days < 2 {
		return t
	}
	d := float64(days)
	return Totals{
		Impressions:   t.Impressions / d,
		Clicks:        t.Clicks / d,
		Cost:          t.Cost / d,
		Revenue:       t.Revenue / d,
		ApprovedLeads: t.ApprovedLeads / d,
		ClickOuts:     t.ClickOuts / d,
		Leads:         t.Leads / d,
	}
}
