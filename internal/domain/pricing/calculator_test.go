//go:build unit

package pricing_test

import (
	"testing"

	"gearbook/internal/domain/pricing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestQuote(t *testing.T) {
	hourly := int64(5000)
	daily := int64(40000)

	tests := []struct {
		name  string
		rates pricing.Rates
		req   pricing.Request
		want  int64
		errIs error
	}{
		{
			name:  "hourly rate for short rental",
			rates: pricing.Rates{HourlyCents: &hourly, DailyCents: &daily},
			req:   pricing.Request{DurationHours: ptr(3.0)},
			want:  15000,
		},
		{
			name:  "daily rate kicks in at eight hours",
			rates: pricing.Rates{HourlyCents: &hourly, DailyCents: &daily},
			req:   pricing.Request{DurationHours: ptr(8.0)},
			want:  40000,
		},
		{
			name:  "just under the daily threshold stays hourly",
			rates: pricing.Rates{HourlyCents: &hourly, DailyCents: &daily},
			req:   pricing.Request{DurationHours: ptr(7.9)},
			want:  39500,
		},
		{
			name:  "multi-day rental rounds days up",
			rates: pricing.Rates{HourlyCents: &hourly, DailyCents: &daily},
			req:   pricing.Request{DurationHours: ptr(25.0)},
			want:  80000,
		},
		{
			name:  "exactly one day",
			rates: pricing.Rates{HourlyCents: &hourly, DailyCents: &daily},
			req:   pricing.Request{DurationHours: ptr(24.0)},
			want:  40000,
		},
		{
			name:  "long rental without a daily rate stays hourly",
			rates: pricing.Rates{HourlyCents: &hourly},
			req:   pricing.Request{DurationHours: ptr(10.0)},
			want:  50000,
		},
		{
			name:  "fractional hours round to the nearest cent",
			rates: pricing.Rates{HourlyCents: ptr(int64(3333))},
			req:   pricing.Request{DurationHours: ptr(1.5)},
			want:  5000, // 3333 * 1.5 = 4999.5
		},
		{
			name:  "clock times derive the duration",
			rates: pricing.Rates{HourlyCents: &hourly},
			req:   pricing.Request{StartMin: ptr(10 * 60), EndMin: ptr(14 * 60)},
			want:  20000,
		},
		{
			name:  "clock times wrap past midnight",
			rates: pricing.Rates{HourlyCents: &hourly},
			req:   pricing.Request{StartMin: ptr(22 * 60), EndMin: ptr(2 * 60)},
			want:  20000,
		},
		{
			name:  "overnight span long enough for the daily rate",
			rates: pricing.Rates{HourlyCents: &hourly, DailyCents: &daily},
			req:   pricing.Request{StartMin: ptr(20 * 60), EndMin: ptr(8 * 60)},
			want:  40000,
		},
		{
			name:  "explicit duration wins over clock times",
			rates: pricing.Rates{HourlyCents: &hourly},
			req:   pricing.Request{DurationHours: ptr(2.0), StartMin: ptr(0), EndMin: ptr(6 * 60)},
			want:  10000,
		},
		{
			name:  "no rates configured",
			rates: pricing.Rates{},
			req:   pricing.Request{DurationHours: ptr(3.0)},
			errIs: pricing.ErrPricingUnavailable,
		},
		{
			name:  "no duration information",
			rates: pricing.Rates{HourlyCents: &hourly},
			req:   pricing.Request{},
			errIs: pricing.ErrPricingUnavailable,
		},
		{
			name:  "daily rate alone cannot price a short rental",
			rates: pricing.Rates{DailyCents: &daily},
			req:   pricing.Request{DurationHours: ptr(2.0)},
			errIs: pricing.ErrPricingUnavailable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pricing.Quote(tt.rates, tt.req)
			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuoteIsDeterministic(t *testing.T) {
	rates := pricing.Rates{HourlyCents: ptr(int64(5000)), DailyCents: ptr(int64(40000))}
	req := pricing.Request{DurationHours: ptr(7.25)}

	first, err := pricing.Quote(rates, req)
	require.NoError(t, err)
	for range 100 {
		got, err := pricing.Quote(rates, req)
		require.NoError(t, err)
		assert.Equal(t, first, got)
	}
}
