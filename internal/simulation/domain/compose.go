package domain

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Result 一次对比模拟的完整输出。所有矩阵均以路径为第一维：
// 净值类为 paths × (months+1)，现金流类为 paths × months。
type Result struct {
	InvestPaths    *Grid `json:"invest_paths"`
	BuyPaths       *Grid `json:"buy_paths"`
	RentPaths      *Grid `json:"rent_paths"`
	HomePaths      *Grid `json:"home_paths"`
	BuyLiquidPaths *Grid `json:"buy_liquid_paths"`
	HomeEquity     *Grid `json:"home_equity"`

	InvestContributions *Grid `json:"invest_contributions"`
	BuyContributions    *Grid `json:"buy_contributions"`
	HousingOutflow      *Grid `json:"housing_outflow"`
	MortgageInsurance   *Grid `json:"mortgage_insurance"`

	Schedule *AmortizationSchedule `json:"-"`

	ClosingCosts   float64 `json:"closing_costs"`
	UpfrontMIPCash float64 `json:"upfront_mip_cash"`
	LoanAmount     float64 `json:"loan_amount"`
	Payment        float64 `json:"payment"`
	InvestInitial  float64 `json:"invest_initial"`
	Months         int     `json:"n_months"`
}

// Compose 以 params.Seed 新建随机源执行对比模拟
func Compose(params Parameters) (*Result, error) {
	return ComposeWithSource(params, NewSeededSource(params.Seed))
}

// ComposeWithSource 执行一次公平对比：同一月度预算在"租房+投资"与"买房"两种策略间分配。
//
// 随机源按固定顺序恰好抽样三次：房价路径、买房方流动组合、投资方组合。
// 该顺序是可复现性约定，同一种子按此顺序必须得到逐位相同的输出，调整顺序即破坏约定。
func ComposeWithSource(params Parameters, src NormalSource) (*Result, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	months, paths := params.HorizonMonths(), params.NPaths

	downPayment := params.HomePrice * params.DownPaymentPct
	loan := params.HomePrice - downPayment
	var upfrontCash float64
	if params.LoanType == LoanTypeFHA {
		upfront := loan * params.MIPUpfront
		if params.MIPFinanceUpfront {
			loan += upfront
		} else {
			upfrontCash = upfront
		}
	}
	closingCosts := downPayment + upfrontCash

	schedule, err := Amortize(loan, params.MortgageRate, params.LoanTerm())
	if err != nil {
		return nil, err
	}

	// 1. 房价路径
	home, err := SimulateGBM(params.HomePrice, params.HomeMu, params.HomeSigma, months, paths, src)
	if err != nil {
		return nil, err
	}
	costs := NewCostModel(params, schedule).Evaluate(home)

	rent := newGrid(paths, months)
	investContrib := newGrid(paths, months)
	buyContrib := newGrid(paths, months)
	for t := 0; t < months; t++ {
		years := float64(t) / 12
		budget := params.MonthlySavings * math.Pow(1+params.IncomeGrowth, years)
		rentDue := params.Rent * math.Pow(1+params.RentGrowth, years)

		floats.AddConst(rentDue, rent.row(t))
		floats.AddConst(math.Max(0, budget-rentDue), investContrib.row(t))
		surplus(buyContrib.row(t), budget, costs.Outflow.row(t))
	}

	// 2. 买房方流动组合：首付与现金支付的预付 MIP 已花在房子上，从 0 开始
	buyLiquid, err := SimulatePortfolio(0, buyContrib, params.EquityMu, params.EquitySigma, params.EquityFee, months, paths, src)
	if err != nil {
		return nil, err
	}

	investInitial := closingCosts
	if !params.EnforceParity && params.InvestInitial != nil {
		investInitial = *params.InvestInitial
	}
	// 3. 投资方组合
	invest, err := SimulatePortfolio(investInitial, investContrib, params.EquityMu, params.EquitySigma, params.EquityFee, months, paths, src)
	if err != nil {
		return nil, err
	}

	equity := newGrid(paths, months+1)
	for t := 0; t <= months; t++ {
		dst := equity.row(t)
		copy(dst, home.row(t))
		floats.AddConst(-schedule.BalanceAfter(t), dst)
	}
	if params.SellingCostRate > 0 {
		floats.AddScaled(equity.row(months), -params.SellingCostRate, home.row(months))
	}

	buy := newGrid(paths, months+1)
	floats.AddTo(buy.data, buyLiquid.data, equity.data)

	return &Result{
		InvestPaths:         invest,
		BuyPaths:            buy,
		RentPaths:           rent,
		HomePaths:           home,
		BuyLiquidPaths:      buyLiquid,
		HomeEquity:          equity,
		InvestContributions: investContrib,
		BuyContributions:    buyContrib,
		HousingOutflow:      costs.Outflow,
		MortgageInsurance:   costs.MortgageInsurance,
		Schedule:            schedule,
		ClosingCosts:        closingCosts,
		UpfrontMIPCash:      upfrontCash,
		LoanAmount:          loan,
		Payment:             schedule.Payment,
		InvestInitial:       investInitial,
		Months:              months,
	}, nil
}

// surplus dst = max(0, budget - outflow)，赤字不视为借款
func surplus(dst []float64, budget float64, outflow []float64) {
	for i, v := range outflow {
		dst[i] = math.Max(0, budget-v)
	}
}
