package application

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/rentvsbuy/internal/simulation/domain"
)

// ErrPresetNotFound 预设不存在
var ErrPresetNotFound = errors.New("preset not found")

// CompareCommand 对比模拟命令：预设 + 覆盖项
type CompareCommand struct {
	Preset       string         `json:"preset"`
	Overrides    map[string]any `json:"overrides"`
	IncludeBands bool           `json:"bands"`
}

// OverlayCommand 地区叠加对比命令：基准场景的财务参数套用到各地区预设之上
type OverlayCommand struct {
	CompareCommand
	// Presets 参与叠加的地区，为空表示全部预设
	Presets []string `json:"presets"`
}

// QuantilesDTO P10 / P50 / P90
type QuantilesDTO struct {
	P10 decimal.Decimal `json:"p10"`
	P50 decimal.Decimal `json:"p50"`
	P90 decimal.Decimal `json:"p90"`
}

// SummaryDTO 汇总指标，金额保留两位小数
type SummaryDTO struct {
	ProbInvestBeatsBuy decimal.Decimal `json:"prob_invest_beats_buy"`
	InvestTerminal     QuantilesDTO    `json:"invest_terminal"`
	BuyTerminal        QuantilesDTO    `json:"buy_terminal"`
	MedianDelta        decimal.Decimal `json:"median_delta"`
	Real               bool            `json:"real"`

	ClosingCosts   decimal.Decimal `json:"closing_costs"`
	UpfrontMIPCash decimal.Decimal `json:"upfront_mip_cash"`
	LoanAmount     decimal.Decimal `json:"loan_amount"`
	Payment        decimal.Decimal `json:"payment"`
	InvestInitial  decimal.Decimal `json:"invest_initial"`

	AvgInvestContribution decimal.Decimal `json:"avg_invest_contribution"`
	AvgBuyContribution    decimal.Decimal `json:"avg_buy_contribution"`
	AvgHousingOutflow     decimal.Decimal `json:"avg_housing_outflow"`
	InitialRent           decimal.Decimal `json:"initial_rent"`
	FinalRent             decimal.Decimal `json:"final_rent"`

	MedianInvestDrawdown decimal.Decimal `json:"median_invest_drawdown"`
	MedianBuyDrawdown    decimal.Decimal `json:"median_buy_drawdown"`
	MIRemovedShare       decimal.Decimal `json:"mi_removed_share"`
	MIRemovalMonth       *int            `json:"mi_removal_month,omitempty"`

	Months int `json:"n_months"`
	Paths  int `json:"n_paths"`
}

// ComparisonDTO 对比结果
type ComparisonDTO struct {
	ID        string            `json:"id"`
	Preset    string            `json:"preset"`
	Cached    bool              `json:"cached"`
	Params    domain.Parameters `json:"params"`
	Summary   SummaryDTO        `json:"summary"`
	Bands     *domain.Bands     `json:"bands,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// OverlayDTO 基准场景与各地区叠加结果
type OverlayDTO struct {
	Base    *ComparisonDTO   `json:"base"`
	Locales []*ComparisonDTO `json:"locales"`
}

// PresetDTO 预设及其解析后的完整参数
type PresetDTO struct {
	Name      string            `json:"name"`
	Overrides map[string]any    `json:"overrides"`
	Params    domain.Parameters `json:"params"`
}

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

func ratio(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(4)
}

func toQuantilesDTO(q domain.Quantiles) QuantilesDTO {
	return QuantilesDTO{P10: money(q.P10), P50: money(q.P50), P90: money(q.P90)}
}

func toSummaryDTO(s domain.Summary) SummaryDTO {
	dto := SummaryDTO{
		ProbInvestBeatsBuy:    ratio(s.ProbInvestBeatsBuy),
		InvestTerminal:        toQuantilesDTO(s.InvestTerminal),
		BuyTerminal:           toQuantilesDTO(s.BuyTerminal),
		MedianDelta:           money(s.MedianDelta),
		Real:                  s.Real,
		ClosingCosts:          money(s.ClosingCosts),
		UpfrontMIPCash:        money(s.UpfrontMIPCash),
		LoanAmount:            money(s.LoanAmount),
		Payment:               money(s.Payment),
		InvestInitial:         money(s.InvestInitial),
		AvgInvestContribution: money(s.AvgInvestContribution),
		AvgBuyContribution:    money(s.AvgBuyContribution),
		AvgHousingOutflow:     money(s.AvgHousingOutflow),
		InitialRent:           money(s.InitialRent),
		FinalRent:             money(s.FinalRent),
		MedianInvestDrawdown:  ratio(s.MedianInvestDrawdown),
		MedianBuyDrawdown:     ratio(s.MedianBuyDrawdown),
		MIRemovedShare:        ratio(s.MIRemovedShare),
		Months:                s.Months,
		Paths:                 s.Paths,
	}
	if s.MIRemovalMonth != nil {
		month := int(*s.MIRemovalMonth)
		dto.MIRemovalMonth = &month
	}
	return dto
}

func toComparisonDTO(c *domain.Comparison, cached, includeBands bool) *ComparisonDTO {
	dto := &ComparisonDTO{
		ID:        c.ID,
		Preset:    c.Preset,
		Cached:    cached,
		Params:    c.Params,
		Summary:   toSummaryDTO(c.Summary),
		CreatedAt: c.CreatedAt,
	}
	if includeBands {
		dto.Bands = c.Bands
	}
	return dto
}
