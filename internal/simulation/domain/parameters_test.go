package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_HorizonBounds(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Parameters)
		field  string
	}{
		{"years above limit", func(p *Parameters) { p.Years = MaxYears + 1 }, "years"},
		{"years overflowing months", func(p *Parameters) { p.Years = math.MaxInt64/12 + 1 }, "years"},
		{"loan term above limit", func(p *Parameters) { p.LoanTermYears = MaxYears + 1 }, "loan_term_years"},
		{"negative loan term", func(p *Parameters) { p.LoanTermYears = -1 }, "loan_term_years"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := DefaultParameters()
			tc.mutate(&p)

			err := p.Validate()
			require.ErrorIs(t, err, ErrInvalidParameters)
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tc.field, cfgErr.Field)

			res, err := Compose(p)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, ErrInvalidParameters)
		})
	}

	p := DefaultParameters()
	p.Years = MaxYears
	p.LoanTermYears = MaxYears
	assert.NoError(t, p.Validate())
}

func TestValidate_RejectsNonFinite(t *testing.T) {
	nan, inf := math.NaN(), math.Inf(1)
	cases := []struct {
		field  string
		mutate func(*Parameters)
	}{
		{"income_growth", func(p *Parameters) { p.IncomeGrowth = nan }},
		{"rent_growth", func(p *Parameters) { p.RentGrowth = nan }},
		{"cpi", func(p *Parameters) { p.CPI = inf }},
		{"home_price", func(p *Parameters) { p.HomePrice = nan }},
		{"home_price", func(p *Parameters) { p.HomePrice = inf }},
		{"equity_mu", func(p *Parameters) { p.EquityMu = nan }},
		{"home_mu", func(p *Parameters) { p.HomeMu = -inf }},
		{"equity_sigma", func(p *Parameters) { p.EquitySigma = nan }},
		{"monthly_savings", func(p *Parameters) { p.MonthlySavings = inf }},
		{"down_payment_pct", func(p *Parameters) { p.DownPaymentPct = nan }},
		{"mip_remove_ltv", func(p *Parameters) { v := nan; p.MIPRemoveLTV = &v }},
		{"invest_initial", func(p *Parameters) { v := inf; p.InvestInitial = &v }},
	}
	for _, tc := range cases {
		t.Run(tc.field, func(t *testing.T) {
			p := smallParams()
			tc.mutate(&p)

			err := p.Validate()
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tc.field, cfgErr.Field)
		})
	}
}

func TestCompose_FiniteInputsKeepContributionsNonNegative(t *testing.T) {
	p := smallParams()
	p.IncomeGrowth = math.NaN()
	_, err := Compose(p)
	require.ErrorIs(t, err, ErrInvalidParameters)

	p.IncomeGrowth = 0.02
	res, err := Compose(p)
	require.NoError(t, err)
	for step := 0; step < res.Months; step++ {
		for _, v := range res.InvestContributions.Step(step) {
			require.False(t, math.IsNaN(v))
			require.GreaterOrEqual(t, v, 0.0)
		}
	}
}
