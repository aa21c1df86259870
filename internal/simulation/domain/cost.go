package domain

import (
	"gonum.org/v1/gonum/floats"
)

// HousingCosts 每条路径每月的持有成本，均为 paths × months
type HousingCosts struct {
	// Outflow 月供 + 房产税 + 保险 + 维护 + HOA + 按揭保险
	Outflow *Grid
	// MortgageInsurance 当月 PMI / MIP
	MortgageInsurance *Grid
}

// CostModel 由摊还计划与房价路径推导持有成本
type CostModel struct {
	params   Parameters
	schedule *AmortizationSchedule
}

// NewCostModel 创建成本模型
func NewCostModel(params Parameters, schedule *AmortizationSchedule) *CostModel {
	return &CostModel{params: params, schedule: schedule}
}

// insurancePolicy 按揭保险费率与取消阈值
type insurancePolicy struct {
	rate      float64
	threshold float64
	removable bool
}

func (m *CostModel) policy() insurancePolicy {
	p := m.params
	if p.LoanType == LoanTypeFHA {
		if p.MIPRemoveLTV == nil {
			return insurancePolicy{rate: p.MIPRate}
		}
		return insurancePolicy{rate: p.MIPRate, threshold: *p.MIPRemoveLTV, removable: true}
	}

	rate := p.PMIRate
	if p.DownPaymentPct >= NoPMIDownPayment {
		rate = 0
	}
	threshold := p.PMIRemoveLTV
	if threshold == 0 {
		threshold = DefaultPMIRemoveLTV
	}
	return insurancePolicy{rate: rate, threshold: threshold, removable: true}
}

// Evaluate 对 paths × (months+1) 的房价路径计算持有成本。
// 第 t 个月的各项按月初房价 home[t] 与已还 t 期后的剩余本金计算。
func (m *CostModel) Evaluate(home *Grid) *HousingCosts {
	paths, months := home.Paths(), home.Steps()-1
	p := m.params
	policy := m.policy()

	costs := &HousingCosts{
		Outflow:           newGrid(paths, months),
		MortgageInsurance: newGrid(paths, months),
	}

	// sticky 模式下记录每条路径是否仍在收取保险，一旦归零不再恢复
	var active []float64
	if p.removalMode() == RemovalSticky {
		active = make([]float64, paths)
		floats.AddConst(1, active)
	}
	mask := make([]float64, paths)
	homeRate := (p.InsuranceRate + p.MaintenanceRate) / 12
	if p.TaxBasis == TaxBasisCurrent {
		homeRate += p.PropertyTaxRate / 12
	}
	fixed := p.HOAMonthly
	if p.TaxBasis == TaxBasisOriginal {
		fixed += p.HomePrice * p.PropertyTaxRate / 12
	}

	for t := 0; t < months; t++ {
		value := home.row(t)
		balance := m.schedule.BalanceAfter(t)

		mi := costs.MortgageInsurance.row(t)
		if policy.rate > 0 && balance > 0 {
			chargeMask(mask, value, balance, policy)
			if active != nil {
				floats.Mul(active, mask)
				copy(mask, active)
			}
			floats.ScaleTo(mi, balance*policy.rate/12, mask)
		}

		out := costs.Outflow.row(t)
		floats.ScaleTo(out, homeRate, value)
		floats.AddConst(fixed+m.schedule.PaymentDue(t), out)
		floats.Add(out, mi)
	}
	return costs
}

// chargeMask 逐元素写入是否收取保险（1/0）。
// 房价非正时 LTV 无定义，视为未低于阈值，继续收取。
func chargeMask(dst, value []float64, balance float64, policy insurancePolicy) {
	for i, v := range value {
		dst[i] = indicator(!policy.removable || v <= 0 || balance/v > policy.threshold)
	}
}

func indicator(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
