// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/adxyz/adpulse/pkg/anomaly"
	"github.com/adxyz/adpulse/pkg/log"
	"github.com/adxyz/adpulse/pkg/metric"
	"github.com/adxyz/adpulse/pkg/source"
)

func newTestServer(t *testing.T, src source.Source) *Server {
	t.Helper()
	m, err := metric.NewMetrics()
	require.NoError(t, err)
	return NewServer(log.NoOp(), m, src, "production")
}

func postAnalysis(t *testing.T, s *Server, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func TestAnalysisEndpointInlineRows(t *testing.T) {
	require := require.New(t)
	s := newTestServer(t, nil)

	day := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)
	req := AnalysisRequest{
		TargetDate: "2025-06-08",
		CurrentRows: []anomaly.RawRow{
			{Date: day, Device: "mobile", Clicks: 5419, ApprovedLeads: 694, Cost: 12740, Revenue: 12500, Impressions: 169344, ClickOuts: 2471, Leads: 720},
		},
		BaselineRows: []anomaly.RawRow{
			{Date: day.AddDate(0, 0, -1), Device: "mobile", Clicks: 5200, ApprovedLeads: 744, Cost: 11388, Revenue: 11800, Impressions: 167742, ClickOuts: 2402, Leads: 750},
		},
	}

	w := postAnalysis(t, s, req)
	require.Equal(http.StatusOK, w.Code)

	var resp AnalysisResponse
	require.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(resp.RunID)
	require.Equal("2025-06-08", resp.TargetDate)
	require.Equal(1, resp.BaselineDays)
	require.Len(resp.Metrics, 18)
	require.NotEmpty(resp.Anomalies)
	require.Equal(anomaly.SeverityCritical, resp.Metrics["cvr"].Severity)
}

func TestAnalysisEndpointUsesSource(t *testing.T) {
	require := require.New(t)

	day := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)
	src := source.NewMemorySource([]source.Row{
		{Date: day, Device: "mobile", Clicks: 100, Impressions: 2000, Revenue: decimal.NewFromInt(500), Cost: decimal.NewFromInt(100)},
		{Date: day.AddDate(0, 0, -1), Device: "mobile", Clicks: 120, Impressions: 2000, Revenue: decimal.NewFromInt(800), Cost: decimal.NewFromInt(100)},
		{Date: day.AddDate(0, 0, -2), Device: "mobile", Clicks: 130, Impressions: 2000, Revenue: decimal.NewFromInt(900), Cost: decimal.NewFromInt(100)},
	})
	s := newTestServer(t, src)

	w := postAnalysis(t, s, AnalysisRequest{TargetDate: "2025-06-08", BaselineDays: 7})
	require.Equal(http.StatusOK, w.Code)

	var resp AnalysisResponse
	require.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(2, resp.BaselineDays)

	// Revenue fell from an 850 per-day baseline to 500
	rev := resp.Metrics["revenue"]
	require.InDelta(500.0, rev.Current, 1e-9)
	require.InDelta(850.0, rev.Baseline, 1e-9)
	require.Equal(anomaly.SeverityCritical, rev.Severity)
}

func TestAnalysisEndpointValidation(t *testing.T) {
	require := require.New(t)
	s := newTestServer(t, nil)

	// Missing targetDate
	w := postAnalysis(t, s, map[string]any{"baselineDays": 7})
	require.Equal(http.StatusBadRequest, w.Code)

	// Malformed date
	w = postAnalysis(t, s, AnalysisRequest{TargetDate: "June 8th"})
	require.Equal(http.StatusBadRequest, w.Code)

	// Malformed facts are rejected by the engine boundary
	w = postAnalysis(t, s, AnalysisRequest{
		TargetDate: "2025-06-08",
		CurrentRows: []anomaly.RawRow{
			{Date: time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC), Clicks: -10},
		},
	})
	require.Equal(http.StatusUnprocessableEntity, w.Code)
}

func TestMetricCatalogEndpoint(t *testing.T) {
	require := require.New(t)
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/metrics/catalog", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	require.Equal(http.StatusOK, w.Code)

	var resp struct {
		Metrics []struct {
			Name          string `json:"name"`
			Type          string `json:"type"`
			LowerIsBetter bool   `json:"lowerIsBetter"`
		} `json:"metrics"`
	}
	require.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(resp.Metrics, 18)
	require.Equal("cpc", resp.Metrics[0].Name)
	require.True(resp.Metrics[0].LowerIsBetter)
}

func TestHealthEndpoint(t *testing.T) {
	require := require.New(t)
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	require.Equal(http.StatusOK, w.Code)
}
