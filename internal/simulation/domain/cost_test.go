package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func conventionalParams() Parameters {
	p := DefaultParameters()
	p.LoanType = LoanTypeConventional
	p.DownPaymentPct = 0.10
	p.HomePrice = 400000
	p.PMIRate = 0.005
	p.PMIRemoveLTV = 0.78
	return p
}

func homeGrid(t *testing.T, rows ...[]float64) *Grid {
	t.Helper()
	g, err := NewGridFromPaths(rows)
	require.NoError(t, err)
	return g
}

func TestCostModel_RecheckReinstatesInsurance(t *testing.T) {
	schedule, err := Amortize(360000, 0.065, 30)
	require.NoError(t, err)

	// LTV 0.9 → 约 0.72 → 约 1.2
	home := homeGrid(t, []float64{400000, 500000, 300000, 300000})
	costs := NewCostModel(conventionalParams(), schedule).Evaluate(home)

	mi := costs.MortgageInsurance.Path(0)
	require.Len(t, mi, 3)
	assert.InDelta(t, 360000*0.005/12, mi[0], 1e-9)
	assert.Equal(t, 0.0, mi[1])
	assert.Greater(t, mi[2], 0.0)
}

func TestCostModel_StickyRemoval(t *testing.T) {
	schedule, err := Amortize(360000, 0.065, 30)
	require.NoError(t, err)

	params := conventionalParams()
	params.MIRemoval = RemovalSticky
	home := homeGrid(t,
		[]float64{400000, 500000, 300000, 300000},
		[]float64{400000, 400000, 400000, 400000},
	)
	costs := NewCostModel(params, schedule).Evaluate(home)

	mi := costs.MortgageInsurance.Path(0)
	assert.InDelta(t, 150.0, mi[0], 1e-9)
	assert.Equal(t, 0.0, mi[1])
	assert.Equal(t, 0.0, mi[2])
	for _, v := range costs.MortgageInsurance.Path(1) {
		assert.Greater(t, v, 0.0)
	}
}

func TestCostModel_NoPMIWithTwentyPercentDown(t *testing.T) {
	params := conventionalParams()
	params.DownPaymentPct = 0.20
	schedule, err := Amortize(320000, 0.065, 30)
	require.NoError(t, err)

	costs := NewCostModel(params, schedule).Evaluate(homeGrid(t, []float64{400000, 390000, 380000}))
	assert.Equal(t, []float64{0, 0}, costs.MortgageInsurance.Path(0))
}

func TestCostModel_FHA(t *testing.T) {
	schedule, err := Amortize(360000, 0.065, 30)
	require.NoError(t, err)
	home := homeGrid(t, []float64{400000, 500000, 600000, 700000})

	params := DefaultParameters()
	params.HomePrice = 400000

	t.Run("lifetime MIP", func(t *testing.T) {
		costs := NewCostModel(params, schedule).Evaluate(home)
		for _, v := range costs.MortgageInsurance.Path(0) {
			assert.Greater(t, v, 0.0)
		}
	})

	t.Run("removable MIP", func(t *testing.T) {
		threshold := 0.78
		p := params
		p.MIPRemoveLTV = &threshold
		costs := NewCostModel(p, schedule).Evaluate(home)
		mi := costs.MortgageInsurance.Path(0)
		assert.InDelta(t, 360000*DefaultMIPRate/12, mi[0], 1e-9)
		assert.Equal(t, 0.0, mi[1])
		assert.Equal(t, 0.0, mi[2])
	})
}

func TestCostModel_NonPositiveHomeValue(t *testing.T) {
	schedule, err := Amortize(360000, 0.065, 30)
	require.NoError(t, err)

	costs := NewCostModel(conventionalParams(), schedule).Evaluate(homeGrid(t, []float64{400000, 0, -5, 500000}))
	mi := costs.MortgageInsurance.Path(0)
	assert.Greater(t, mi[1], 0.0)
	assert.Greater(t, mi[2], 0.0)
	for _, v := range costs.Outflow.Path(0) {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
	}
}

func TestCostModel_Outflow(t *testing.T) {
	schedule, err := Amortize(360000, 0.065, 30)
	require.NoError(t, err)

	params := conventionalParams()
	params.DownPaymentPct = 0.25 // 无 PMI，只看持有成本
	home := homeGrid(t, []float64{400000, 440000})

	t.Run("current basis", func(t *testing.T) {
		costs := NewCostModel(params, schedule).Evaluate(home)
		rate := params.PropertyTaxRate + params.InsuranceRate + params.MaintenanceRate
		want := schedule.Payment + 400000*rate/12 + params.HOAMonthly
		assert.InDelta(t, want, costs.Outflow.At(0, 0), 1e-9)
	})

	t.Run("original basis", func(t *testing.T) {
		p := params
		p.TaxBasis = TaxBasisOriginal
		g := homeGrid(t, []float64{400000, 440000, 480000})
		costs := NewCostModel(p, schedule).Evaluate(g)
		want := schedule.Payment + 400000*p.PropertyTaxRate/12 + 440000*(p.InsuranceRate+p.MaintenanceRate)/12 + p.HOAMonthly
		assert.InDelta(t, want, costs.Outflow.At(0, 1), 1e-9)
	})

	t.Run("paid off loan", func(t *testing.T) {
		short, err := Amortize(12000, 0, 1)
		require.NoError(t, err)
		g := make([]float64, 15)
		for i := range g {
			g[i] = 400000
		}
		costs := NewCostModel(params, short).Evaluate(homeGrid(t, g))
		rate := params.PropertyTaxRate + params.InsuranceRate + params.MaintenanceRate
		assert.InDelta(t, 400000*rate/12+params.HOAMonthly, costs.Outflow.At(0, 13), 1e-9)
	})
}
