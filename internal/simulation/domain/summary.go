package domain

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// BandPercentiles 结果区间使用的分位点
var BandPercentiles = []float64{10, 50, 90}

// Quantiles P10 / P50 / P90 三档取值
type Quantiles struct {
	P10 float64 `json:"p10"`
	P50 float64 `json:"p50"`
	P90 float64 `json:"p90"`
}

// Summary 一次对比模拟的汇总指标
type Summary struct {
	ProbInvestBeatsBuy float64   `json:"prob_invest_beats_buy"`
	InvestTerminal     Quantiles `json:"invest_terminal"`
	BuyTerminal        Quantiles `json:"buy_terminal"`
	MedianDelta        float64   `json:"median_delta"` // 投资方终值中位数 - 买房方终值中位数
	Real               bool      `json:"real"`

	ClosingCosts   float64 `json:"closing_costs"`
	UpfrontMIPCash float64 `json:"upfront_mip_cash"`
	LoanAmount     float64 `json:"loan_amount"`
	Payment        float64 `json:"payment"`
	InvestInitial  float64 `json:"invest_initial"`

	AvgInvestContribution float64 `json:"avg_invest_contribution"`
	AvgBuyContribution    float64 `json:"avg_buy_contribution"`
	AvgHousingOutflow     float64 `json:"avg_housing_outflow"`
	InitialRent           float64 `json:"initial_rent"`
	FinalRent             float64 `json:"final_rent"`

	MedianInvestDrawdown float64 `json:"median_invest_drawdown"`
	MedianBuyDrawdown    float64 `json:"median_buy_drawdown"`

	// MIRemovedShare 起始收取按揭保险、期内某月停止收取的路径占比
	MIRemovedShare float64 `json:"mi_removed_share"`
	// MIRemovalMonth 上述路径首次停止月份的中位数，没有路径停止时为 nil
	MIRemovalMonth *float64 `json:"mi_removal_month,omitempty"`

	Months int `json:"n_months"`
	Paths  int `json:"n_paths"`
}

// Band 某一策略逐月的 P10 / P50 / P90 序列
type Band struct {
	P10 []float64 `json:"p10"`
	P50 []float64 `json:"p50"`
	P90 []float64 `json:"p90"`
}

// Bands 两种策略的结果区间
type Bands struct {
	Invest Band `json:"invest"`
	Buy    Band `json:"buy"`
	Real   bool `json:"real"`
}

// Summarize 计算汇总指标。开启 ShowReal 时净值类指标按 CPI 折算为实际购买力。
func Summarize(res *Result, params Parameters) (Summary, error) {
	invest, buy := wealth(res, params)

	prob, err := ProbabilityABeatsB(invest, buy)
	if err != nil {
		return Summary{}, err
	}
	it, bt := terminalQuantiles(invest), terminalQuantiles(buy)

	s := Summary{
		ProbInvestBeatsBuy:    prob,
		InvestTerminal:        it,
		BuyTerminal:           bt,
		MedianDelta:           it.P50 - bt.P50,
		Real:                  params.ShowReal,
		ClosingCosts:          res.ClosingCosts,
		UpfrontMIPCash:        res.UpfrontMIPCash,
		LoanAmount:            res.LoanAmount,
		Payment:               res.Payment,
		InvestInitial:         res.InvestInitial,
		AvgInvestContribution: Mean(res.InvestContributions),
		AvgBuyContribution:    Mean(res.BuyContributions),
		AvgHousingOutflow:     Mean(res.HousingOutflow),
		InitialRent:           res.RentPaths.At(0, 0),
		FinalRent:             res.RentPaths.At(0, res.Months-1),
		MedianInvestDrawdown:  Percentile(MaxDrawdown(invest), 50),
		MedianBuyDrawdown:     Percentile(MaxDrawdown(buy), 50),
		Months:                res.Months,
		Paths:                 invest.Paths(),
	}
	s.MIRemovedShare, s.MIRemovalMonth = insuranceRemoval(res.MortgageInsurance)
	return s, nil
}

// ComputeBands 计算两种策略逐月的 P10 / P50 / P90 序列
func ComputeBands(res *Result, params Parameters) (Bands, error) {
	invest, buy := wealth(res, params)
	ip, err := Percentiles(invest, BandPercentiles)
	if err != nil {
		return Bands{}, err
	}
	bp, err := Percentiles(buy, BandPercentiles)
	if err != nil {
		return Bands{}, err
	}
	return Bands{
		Invest: Band{P10: ip[10], P50: ip[50], P90: ip[90]},
		Buy:    Band{P10: bp[10], P50: bp[50], P90: bp[90]},
		Real:   params.ShowReal,
	}, nil
}

func wealth(res *Result, params Parameters) (invest, buy *Grid) {
	if params.ShowReal {
		return Deflate(res.InvestPaths, params.CPI), Deflate(res.BuyPaths, params.CPI)
	}
	return res.InvestPaths, res.BuyPaths
}

func terminalQuantiles(g *Grid) Quantiles {
	terminal := g.Terminal()
	return Quantiles{
		P10: Percentile(terminal, 10),
		P50: Percentile(terminal, 50),
		P90: Percentile(terminal, 90),
	}
}

// insuranceRemoval 统计按揭保险停止收取的路径占比与首次停止月份中位数
func insuranceRemoval(mi *Grid) (float64, *float64) {
	if mi.Steps() == 0 || floats.Max(mi.row(0)) <= 0 {
		return 0, nil
	}
	var removal []float64
	for p := 0; p < mi.Paths(); p++ {
		if mi.At(p, 0) <= 0 {
			continue
		}
		for t := 1; t < mi.Steps(); t++ {
			if mi.At(p, t) <= 0 {
				removal = append(removal, float64(t))
				break
			}
		}
	}
	if len(removal) == 0 {
		return 0, nil
	}
	month := math.Round(Percentile(removal, 50))
	return float64(len(removal)) / float64(mi.Paths()), &month
}
