// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package source

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestRowConversion(t *testing.T) {
	require := require.New(t)

	row := Row{
		Date:          date("2025-06-08"),
		Device:        "mobile",
		AccountName:   "acct-a",
		Impressions:   1000,
		Clicks:        50,
		Cost:          decimal.NewFromFloat(12.34),
		Revenue:       decimal.NewFromFloat(56.78),
		Leads:         5,
		ApprovedLeads: 3,
		ClickOuts:     20,
	}

	raw := row.RawRow()
	require.Equal("mobile", raw.Device)
	require.Equal("acct-a", raw.AccountName)
	require.Equal(1000.0, raw.Impressions)
	require.Equal(50.0, raw.Clicks)
	require.InDelta(12.34, raw.Cost, 1e-9)
	require.InDelta(56.78, raw.Revenue, 1e-9)
	require.Equal(5.0, raw.Leads)
	require.Equal(3.0, raw.ApprovedLeads)
	require.Equal(20.0, raw.ClickOuts)
	require.NoError(raw.Validate())
}

func TestMemorySourceFetchDay(t *testing.T) {
	require := require.New(t)

	src := NewMemorySource([]Row{
		{Date: date("2025-06-07"), Device: "mobile", Clicks: 10},
		{Date: date("2025-06-08"), Device: "mobile", Clicks: 20},
		{Date: date("2025-06-08"), Device: "desktop", Clicks: 30},
		{Date: date("2025-06-09"), Device: "mobile", Clicks: 40},
	})

	rows, err := src.FetchDay(context.Background(), date("2025-06-08"))
	require.NoError(err)
	require.Len(rows, 2)
	require.Equal(20.0, rows[0].Clicks)
	require.Equal(30.0, rows[1].Clicks)
}

func TestMemorySourceFetchWindow(t *testing.T) {
	require := require.New(t)

	src := NewMemorySource([]Row{
		{Date: date("2025-06-01"), Clicks: 1},
		{Date: date("2025-06-05"), Clicks: 2},
		{Date: date("2025-06-07"), Clicks: 3},
		{Date: date("2025-06-08"), Clicks: 4},
	})

	// [start, end) excludes the target day
	rows, err := src.FetchWindow(context.Background(), date("2025-06-01"), date("2025-06-08"))
	require.NoError(err)
	require.Len(rows, 3)
	for _, r := range rows {
		require.True(r.Date.Before(date("2025-06-08")))
	}
}
