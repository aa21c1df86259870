// Package domain 买房与租房投资对比模拟的领域模型：GBM 路径、按揭摊还、持有成本、预算分配与统计。
package domain

import "math"

// LoanType 贷款类型
type LoanType string

const (
	LoanTypeFHA          LoanType = "FHA"          // 政府担保贷款，收取 MIP
	LoanTypeConventional LoanType = "Conventional" // 常规贷款，收取 PMI
)

// TaxBasis 房产税计税基础
type TaxBasis string

const (
	TaxBasisCurrent  TaxBasis = "current"  // 按当期房价
	TaxBasisOriginal TaxBasis = "original" // 按购入价
)

// RemovalMode 按揭保险取消规则
type RemovalMode string

const (
	// RemovalRecheck 每月独立判断 LTV，房价下跌后保险可重新生效
	RemovalRecheck RemovalMode = "recheck"
	// RemovalSticky 某条路径一旦取消保险即永久取消
	RemovalSticky RemovalMode = "sticky"
)

const (
	MinDownPaymentFHA          = 0.035
	MinDownPaymentConventional = 0.03
	// NoPMIDownPayment 常规贷款首付达到该比例时不收 PMI
	NoPMIDownPayment    = 0.20
	DefaultPMIRemoveLTV = 0.78
	DefaultMIPRate      = 0.0085
	DefaultPMIRate      = 0.005
	// MaxYears 模拟期限与贷款期限上限（年）
	MaxYears = 100
)

// Parameters 一次对比模拟的全部输入。由外部配置层（预设 + 覆盖项）构造，核心只读。
type Parameters struct {
	NPaths        int   `mapstructure:"n_paths" json:"n_paths"`
	Years         int   `mapstructure:"years" json:"years"`
	LoanTermYears int   `mapstructure:"loan_term_years" json:"loan_term_years"` // 0 表示与 Years 相同
	Seed          int64 `mapstructure:"seed" json:"seed"`

	MonthlySavings float64 `mapstructure:"monthly_savings" json:"monthly_savings"`
	IncomeGrowth   float64 `mapstructure:"income_growth" json:"income_growth"`
	Rent           float64 `mapstructure:"rent" json:"rent"`
	RentGrowth     float64 `mapstructure:"rent_growth" json:"rent_growth"`
	HomePrice      float64 `mapstructure:"home_price" json:"home_price"`

	EquityMu    float64 `mapstructure:"equity_mu" json:"equity_mu"`
	EquitySigma float64 `mapstructure:"equity_sigma" json:"equity_sigma"`
	EquityFee   float64 `mapstructure:"equity_fee" json:"equity_fee"`
	HomeMu      float64 `mapstructure:"home_mu" json:"home_mu"`
	HomeSigma   float64 `mapstructure:"home_sigma" json:"home_sigma"`
	CPI         float64 `mapstructure:"cpi" json:"cpi"`

	MortgageRate    float64 `mapstructure:"mortgage_rate" json:"mortgage_rate"`
	PropertyTaxRate float64 `mapstructure:"property_tax_rate" json:"property_tax_rate"`
	InsuranceRate   float64 `mapstructure:"insurance_rate" json:"insurance_rate"`
	MaintenanceRate float64 `mapstructure:"maintenance_rate" json:"maintenance_rate"`
	HOAMonthly      float64 `mapstructure:"hoa_monthly" json:"hoa_monthly"`
	SellingCostRate float64 `mapstructure:"selling_cost_rate" json:"selling_cost_rate"`

	LoanType          LoanType    `mapstructure:"loan_type" json:"loan_type"`
	DownPaymentPct    float64     `mapstructure:"down_payment_pct" json:"down_payment_pct"`
	PMIRate           float64     `mapstructure:"pmi_rate" json:"pmi_rate"`
	PMIRemoveLTV      float64     `mapstructure:"pmi_remove_ltv" json:"pmi_remove_ltv"`
	MIPRate           float64     `mapstructure:"mip_rate" json:"mip_rate"`
	MIPUpfront        float64     `mapstructure:"mip_upfront" json:"mip_upfront"`
	MIPFinanceUpfront bool        `mapstructure:"mip_finance_upfront" json:"mip_finance_upfront"`
	MIPRemoveLTV      *float64    `mapstructure:"mip_remove_ltv" json:"mip_remove_ltv,omitempty"` // nil 表示终身 MIP
	TaxBasis          TaxBasis    `mapstructure:"tax_basis" json:"tax_basis"`
	MIRemoval         RemovalMode `mapstructure:"mi_removal" json:"mi_removal"`

	EnforceParity bool     `mapstructure:"enforce_parity" json:"enforce_parity"`
	InvestInitial *float64 `mapstructure:"invest_initial" json:"invest_initial,omitempty"` // 仅在关闭 parity 时生效
	ShowReal      bool     `mapstructure:"show_real" json:"show_real"`
}

// DefaultParameters 全局默认参数
func DefaultParameters() Parameters {
	return Parameters{
		NPaths:            5000,
		Years:             30,
		Seed:              42,
		MonthlySavings:    5000,
		Rent:              2500,
		RentGrowth:        0.03,
		HomePrice:         500000,
		EquityMu:          0.07,
		EquitySigma:       0.15,
		EquityFee:         0.0015,
		HomeMu:            0.04,
		HomeSigma:         0.10,
		CPI:               0.025,
		MortgageRate:      0.065,
		PropertyTaxRate:   0.015,
		InsuranceRate:     0.004,
		MaintenanceRate:   0.01,
		HOAMonthly:        100,
		SellingCostRate:   0.07,
		LoanType:          LoanTypeFHA,
		DownPaymentPct:    0.035,
		PMIRate:           DefaultPMIRate,
		PMIRemoveLTV:      DefaultPMIRemoveLTV,
		MIPRate:           DefaultMIPRate,
		MIPUpfront:        0.0175,
		MIPFinanceUpfront: true,
		TaxBasis:          TaxBasisCurrent,
		MIRemoval:         RemovalRecheck,
		EnforceParity:     true,
	}
}

// HorizonMonths 模拟期限（月）
func (p Parameters) HorizonMonths() int {
	return p.Years * 12
}

// LoanTerm 贷款期限（年）
func (p Parameters) LoanTerm() int {
	if p.LoanTermYears > 0 {
		return p.LoanTermYears
	}
	return p.Years
}

// Validate 校验参数组合，返回的错误均为 *ConfigError
func (p Parameters) Validate() error {
	if p.NPaths <= 0 {
		return configErrorf("n_paths", "must be positive, got %d", p.NPaths)
	}
	if p.Years <= 0 || p.Years > MaxYears {
		return configErrorf("years", "must be in [1, %d], got %d", MaxYears, p.Years)
	}
	if p.LoanTermYears < 0 || p.LoanTermYears > MaxYears {
		return configErrorf("loan_term_years", "must be in [0, %d], got %d", MaxYears, p.LoanTermYears)
	}
	if err := p.checkFinite(); err != nil {
		return err
	}
	if p.HomePrice <= 0 {
		return configErrorf("home_price", "must be positive, got %v", p.HomePrice)
	}
	if p.EquitySigma < 0 {
		return configErrorf("equity_sigma", "volatility must not be negative, got %v", p.EquitySigma)
	}
	if p.HomeSigma < 0 {
		return configErrorf("home_sigma", "volatility must not be negative, got %v", p.HomeSigma)
	}

	switch p.LoanType {
	case LoanTypeFHA:
		if p.DownPaymentPct < MinDownPaymentFHA || p.DownPaymentPct > 1 {
			return configErrorf("down_payment_pct", "FHA requires a fraction in [%v, 1], got %v", MinDownPaymentFHA, p.DownPaymentPct)
		}
	case LoanTypeConventional:
		if p.DownPaymentPct < MinDownPaymentConventional || p.DownPaymentPct > 1 {
			return configErrorf("down_payment_pct", "Conventional requires a fraction in [%v, 1], got %v", MinDownPaymentConventional, p.DownPaymentPct)
		}
	default:
		return configErrorf("loan_type", "unknown loan type %q", p.LoanType)
	}

	switch p.TaxBasis {
	case TaxBasisCurrent, TaxBasisOriginal:
	default:
		return configErrorf("tax_basis", "unknown tax basis %q", p.TaxBasis)
	}
	switch p.MIRemoval {
	case "", RemovalRecheck, RemovalSticky:
	default:
		return configErrorf("mi_removal", "unknown removal mode %q", p.MIRemoval)
	}

	nonNegative := []struct {
		field string
		value float64
	}{
		{"monthly_savings", p.MonthlySavings},
		{"rent", p.Rent},
		{"equity_fee", p.EquityFee},
		{"mortgage_rate", p.MortgageRate},
		{"property_tax_rate", p.PropertyTaxRate},
		{"insurance_rate", p.InsuranceRate},
		{"maintenance_rate", p.MaintenanceRate},
		{"hoa_monthly", p.HOAMonthly},
		{"selling_cost_rate", p.SellingCostRate},
		{"pmi_rate", p.PMIRate},
		{"pmi_remove_ltv", p.PMIRemoveLTV},
		{"mip_rate", p.MIPRate},
		{"mip_upfront", p.MIPUpfront},
	}
	for _, f := range nonNegative {
		if f.value < 0 {
			return configErrorf(f.field, "must not be negative, got %v", f.value)
		}
	}

	growth := []struct {
		field string
		value float64
	}{
		{"income_growth", p.IncomeGrowth},
		{"rent_growth", p.RentGrowth},
		{"cpi", p.CPI},
	}
	for _, f := range growth {
		if f.value <= -1 {
			return configErrorf(f.field, "must be greater than -1, got %v", f.value)
		}
	}

	if p.MIPRemoveLTV != nil && *p.MIPRemoveLTV <= 0 {
		return configErrorf("mip_remove_ltv", "must be positive when set, got %v", *p.MIPRemoveLTV)
	}
	if p.InvestInitial != nil && *p.InvestInitial < 0 {
		return configErrorf("invest_initial", "must not be negative, got %v", *p.InvestInitial)
	}
	return nil
}

type namedValue struct {
	field string
	value float64
}

// checkFinite 所有浮点参数（含已设置的可空项）必须是有限值
func (p Parameters) checkFinite() error {
	fields := []namedValue{
		{"monthly_savings", p.MonthlySavings},
		{"income_growth", p.IncomeGrowth},
		{"rent", p.Rent},
		{"rent_growth", p.RentGrowth},
		{"home_price", p.HomePrice},
		{"equity_mu", p.EquityMu},
		{"equity_sigma", p.EquitySigma},
		{"equity_fee", p.EquityFee},
		{"home_mu", p.HomeMu},
		{"home_sigma", p.HomeSigma},
		{"cpi", p.CPI},
		{"mortgage_rate", p.MortgageRate},
		{"property_tax_rate", p.PropertyTaxRate},
		{"insurance_rate", p.InsuranceRate},
		{"maintenance_rate", p.MaintenanceRate},
		{"hoa_monthly", p.HOAMonthly},
		{"selling_cost_rate", p.SellingCostRate},
		{"down_payment_pct", p.DownPaymentPct},
		{"pmi_rate", p.PMIRate},
		{"pmi_remove_ltv", p.PMIRemoveLTV},
		{"mip_rate", p.MIPRate},
		{"mip_upfront", p.MIPUpfront},
	}
	if p.MIPRemoveLTV != nil {
		fields = append(fields, namedValue{"mip_remove_ltv", *p.MIPRemoveLTV})
	}
	if p.InvestInitial != nil {
		fields = append(fields, namedValue{"invest_initial", *p.InvestInitial})
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return configErrorf(f.field, "must be a finite number, got %v", f.value)
		}
	}
	return nil
}

func (p Parameters) removalMode() RemovalMode {
	if p.MIRemoval == "" {
		return RemovalRecheck
	}
	return p.MIRemoval
}
