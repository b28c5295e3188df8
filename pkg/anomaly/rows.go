// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package anomaly implements the daily ad-performance anomaly engine:
// aggregation of raw reporting rows into period totals, the derived
// metric formulas, the two-proportion significance test, severity
// classification, and the per-dimension root-cause breakdown.
package anomaly

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// Dimension identifies a categorical reporting field on a RawRow.
type Dimension string

const (
	DimensionDevice          Dimension = "device"
	DimensionAccountName     Dimension = "accountName"
	DimensionPublisher       Dimension = "publisher"
	DimensionCampaignQuality Dimension = "campaignQuality"
	DimensionPage            Dimension = "page"
	DimensionCampaignName    Dimension = "campaignName"
	DimensionAdGroup         Dimension = "adGroup"
	DimensionKeyword         Dimension = "keyword"
	DimensionMatchType       Dimension = "matchType"
	DimensionAdvertisers     Dimension = "advertiserNames"
)

// BreakdownDimensions are the fixed dimensions anomaly attribution runs over.
var BreakdownDimensions = []Dimension{
	DimensionDevice,
	DimensionAccountName,
	DimensionCampaignQuality,
	DimensionPage,
}

// RawRow is one reporting fact row for a single day and dimension
// combination. Rows are produced by the external query layer and are
// read-only to the engine.
type RawRow struct {
	Date time.Time `json:"date"`

	Device          string `json:"device"`
	AccountName     string `json:"accountName"`
	Publisher       string `json:"publisher"`
	CampaignQuality string `json:"campaignQuality"`
	Page            string `json:"page"`
	CampaignName    string `json:"campaignName"`
	AdGroup         string `json:"adGroup"`
	Keyword         string `json:"keyword"`
	MatchType       string `json:"matchType"`
	AdvertiserNames string `json:"advertiserNames"`

	Impressions   float64 `json:"impressions"`
	Clicks        float64 `json:"clicks"`
	Cost          float64 `json:"cost"`
	Revenue       float64 `json:"revenue"`
	Leads         float64 `json:"leads"`
	ApprovedLeads float64 `json:"approvedLeads"`
	Sales         float64 `json:"sales"`
	ApprovedSales float64 `json:"approvedSales"`
	ClickOuts     float64 `json:"clickOuts"`
}

// DimensionValue returns the row's value for the given dimension.
func (r *RawRow) DimensionValue(d Dimension) string {
	switch d {
	case DimensionDevice:
		return r.Device
	case DimensionAccountName:
		return r.AccountName
	case DimensionPublisher:
		return r.Publisher
	case DimensionCampaignQuality:
		return r.CampaignQuality
	case DimensionPage:
		return r.Page
	case DimensionCampaignName:
		return r.CampaignName
	case DimensionAdGroup:
		return r.AdGroup
	case DimensionKeyword:
		return r.Keyword
	case DimensionMatchType:
		return r.MatchType
	case DimensionAdvertisers:
		return r.AdvertiserNames
	}
	return ""
}

// Day returns the row's calendar day normalized to UTC.
func (r *RawRow) Day() string {
	return r.Date.UTC().Format("2006-01-02")
}

// ErrInvalidFact is returned when a numeric fact is negative, NaN or
// infinite. Validation happens at the aggregation boundary so NaN can
// never propagate through the formula table.
var ErrInvalidFact = errors.New("invalid fact value")

// Validate rejects rows whose numeric facts are malformed.
func (r *RawRow) Validate() error {
	facts := []struct {
		name  string
		value float64
	}{
		{"impressions", r.Impressions},
		{"clicks", r.Clicks},
		{"cost", r.Cost},
		{"revenue", r.Revenue},
		{"leads", r.Leads},
		{"approvedLeads", r.ApprovedLeads},
		{"sales", r.Sales},
		{"approvedSales", r.ApprovedSales},
		{"clickOuts", r.ClickOuts},
	}

	for _, f := range facts {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s is not a number", ErrInvalidFact, f.name)
		}
		if f.value < 0 {
			return fmt.Errorf("%w: %s is negative (%v)", ErrInvalidFact, f.name, f.value)
		}
	}

	return nil
}

// validDimensionValue reports whether a dimension value may take part
// in breakdown attribution. Placeholder values coming out of upstream
// reporting exports ("-", "null", "undefined", any casing of
// "unknown") are excluded so attribution never points at a
// meaningless bucket.
func validDimensionValue(v string) bool {
	switch v {
	case "", "-", "null", "undefined":
		return false
	}
	return !strings.EqualFold(v, "unknown")
}
