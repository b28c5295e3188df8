// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package anomaly

// MetricType classifies a derived metric for significance testing.
// Rate metrics are percentages bounded in [0,100] and eligible for the
// two-proportion Z-test; value metrics (costs, revenues, raw volumes)
// are not.
type MetricType string

const (
	MetricTypeRate  MetricType = "rate"
	MetricTypeValue MetricType = "value"
)

// SampleSource names the totals field used as the sample size when
// testing a rate metric for significance.
type SampleSource string

const (
	SampleImpressions SampleSource = "impressions"
	SampleClicks      SampleSource = "clicks"
	SampleClickOuts   SampleSource = "clickOuts"
)

// MetricDef describes one derived metric: its type, polarity, and the
// sample-size source used for significance testing.
type MetricDef struct {
	Name string
	Type MetricType

	// LowerIsBetter flips severity polarity: a decrease in a
	// cost-per-X metric is a good change.
	LowerIsBetter bool

	Sample SampleSource
}

// metricTable is the canonical metric set. Slice order is the
// insertion order anomaly sorting tie-breaks on; do not reorder.
var metricTable = []MetricDef{
	{Name: "cpc", Type: MetricTypeValue, LowerIsBetter: true},
	{Name: "cpal", Type: MetricTypeValue, LowerIsBetter: true},
	{Name: "cpoc", Type: MetricTypeValue, LowerIsBetter: true},
	{Name: "cpl", Type: MetricTypeValue, LowerIsBetter: true},
	{Name: "roi", Type: MetricTypeRate, Sample: SampleClicks},
	{Name: "revenue", Type: MetricTypeValue},
	{Name: "ctr", Type: MetricTypeRate, Sample: SampleImpressions},
	{Name: "cvr", Type: MetricTypeRate, Sample: SampleClicks},
	{Name: "sctr", Type: MetricTypeRate, Sample: SampleClicks},
	{Name: "cotal", Type: MetricTypeRate, Sample: SampleClickOuts},
	{Name: "epoc", Type: MetricTypeValue},
	{Name: "epl", Type: MetricTypeValue},
	{Name: "epal", Type: MetricTypeValue},
	{Name: "octl", Type: MetricTypeRate, Sample: SampleClickOuts},
	{Name: "clicks", Type: MetricTypeValue},
	{Name: "impressions", Type: MetricTypeValue},
	{Name: "approvedLeads", Type: MetricTypeValue},
	{Name: "clickOuts", Type: MetricTypeValue},
}

var metricByName = func() map[string]MetricDef {
	m := make(map[string]MetricDef, len(metricTable))
	for _, def := range metricTable {
		m[def.Name] = def
	}
	return m
}()

// Metrics returns the metric definitions in canonical order.
func Metrics() []MetricDef {
	out := make([]MetricDef, len(metricTable))
	copy(out, metricTable)
	return out
}

// MetricByName looks up a metric definition.
func MetricByName(name string) (MetricDef, bool) {
	def, ok := metricByName[name]
	return def, ok
}

// Value computes the named metric from totals. Every division is
// zero-guarded: a zero denominator yields 0, never NaN or Inf.
func Value(name string, t Totals) float64 {
	switch name {
	case "cpc":
		return safeDiv(t.Cost, t.Clicks)
	case "cpal":
		return safeDiv(t.Cost, t.ApprovedLeads)
	case "cpoc":
		return safeDiv(t.Cost, t.ClickOuts)
	case "cpl":
		return safeDiv(t.Cost, t.Leads)
	case "roi":
		return safeDiv(t.Revenue, t.Cost) * 100
	case "revenue":
		return t.Revenue
	case "ctr":
		return safeDiv(t.Clicks, t.Impressions) * 100
	case "cvr":
		return safeDiv(t.ApprovedLeads, t.Clicks) * 100
	case "sctr":
		return safeDiv(t.ClickOuts, t.Clicks) * 100
	case "cotal":
		return safeDiv(t.ApprovedLeads, t.ClickOuts) * 100
	case "epoc":
		return safeDiv(t.Revenue, t.ClickOuts)
	case "epl":
		return safeDiv(t.Revenue, t.Leads)
	case "epal":
		return safeDiv(t.Revenue, t.ApprovedLeads)
	case "octl":
		return safeDiv(t.Leads, t.ClickOuts) * 100
	case "clicks":
		return t.Clicks
	case "impressions":
		return t.Impressions
	case "approvedLeads":
		return t.ApprovedLeads
	case "clickOuts":
		return t.ClickOuts
	}
	return 0
}

// SampleSize returns the sample size for this metric's significance
// test, taken from the target-day totals.
func (d MetricDef) SampleSize(t Totals) float64 {
	switch d.Sample {
	case SampleImpressions:
		return t.Impressions
	case SampleClickOuts:
		return t.ClickOuts
	case SampleClicks:
		return t.Clicks
	}
	return 0
}

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
