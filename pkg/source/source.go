// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package source is the reporting-data seam for the anomaly engine. It
// defines the Source contract the engine's callers fetch rows through,
// plus an in-memory implementation used in tests and for inline-row
// requests.
package source

import (
	"context"
	"time"

	"github.com/adxyz/adpulse/pkg/anomaly"
	"github.com/shopspring/decimal"
)

// Row is one reporting row as delivered by the upstream ads API.
// Money facts arrive as exact decimals and are converted to floats
// once, at the engine boundary.
type Row struct {
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

	Impressions   int64           `json:"impressions"`
	Clicks        int64           `json:"clicks"`
	Cost          decimal.Decimal `json:"cost"`
	Revenue       decimal.Decimal `json:"revenue"`
	Leads         int64           `json:"leads"`
	ApprovedLeads int64           `json:"approvedLeads"`
	Sales         int64           `json:"sales"`
	ApprovedSales int64           `json:"approvedSales"`
	ClickOuts     int64           `json:"clickOuts"`
}

// RawRow converts an API row into the engine's fact row.
func (r Row) RawRow() anomaly.RawRow {
	return anomaly.RawRow{
		Date:            r.Date,
		Device:          r.Device,
		AccountName:     r.AccountName,
		Publisher:       r.Publisher,
		CampaignQuality: r.CampaignQuality,
		Page:            r.Page,
		CampaignName:    r.CampaignName,
		AdGroup:         r.AdGroup,
		Keyword:         r.Keyword,
		MatchType:       r.MatchType,
		AdvertiserNames: r.AdvertiserNames,
		Impressions:     float64(r.Impressions),
		Clicks:          float64(r.Clicks),
		Cost:            r.Cost.InexactFloat64(),
		Revenue:         r.Revenue.InexactFloat64(),
		Leads:           float64(r.Leads),
		ApprovedLeads:   float64(r.ApprovedLeads),
		Sales:           float64(r.Sales),
		ApprovedSales:   float64(r.ApprovedSales),
		ClickOuts:       float64(r.ClickOuts),
	}
}

// Source fetches reporting rows for the engine. FetchDay returns all
// rows dated exactly day; FetchWindow returns all rows in [start, end)
// so a baseline window naturally excludes the target day.
type Source interface {
	FetchDay(ctx context.Context, day time.Time) ([]anomaly.RawRow, error)
	FetchWindow(ctx context.Context, start, end time.Time) ([]anomaly.RawRow, error)
}

// MemorySource serves a fixed row set from memory.
type MemorySource struct {
	rows []Row
}

// NewMemorySource creates a source over the given rows.
func NewMemorySource(rows []Row) *MemorySource {
	return &MemorySource{rows: rows}
}

// FetchDay returns the rows whose UTC calendar day matches day.
func (s *MemorySource) FetchDay(ctx context.Context, day time.Time) ([]anomaly.RawRow, error) {
	target := day.UTC().Format("2006-01-02")
	var out []anomaly.RawRow
	for _, r := range s.rows {
		if r.Date.UTC().Format("2006-01-02") == target {
			out = append(out, r.RawRow())
		}
	}
	return out, nil
}

// FetchWindow returns the rows dated within [start, end).
func (s *MemorySource) FetchWindow(ctx context.Context, start, end time.Time) ([]anomaly.RawRow, error) {
	var out []anomaly.RawRow
	for _, r := range s.rows {
		d := r.Date.UTC()
		if !d.Before(start.UTC()) && d.Before(end.UTC()) {
			out = append(out, r.RawRow())
		}
	}
	return out, nil
}
