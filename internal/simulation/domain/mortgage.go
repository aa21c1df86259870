package domain

import "math"

// Payment 固定利率贷款的月供（本金 + 利息）
func Payment(principal, annualRate float64, years int) float64 {
	n := float64(years * 12)
	if annualRate == 0 {
		return principal / n
	}
	r := annualRate / 12
	growth := math.Pow(1+r, n)
	return principal * r * growth / (growth - 1)
}

// AmortizationSchedule 按月摊还计划。Balance[i] 为第 i 期还款后的剩余本金。
type AmortizationSchedule struct {
	Loan      float64   `json:"loan"`
	Payment   float64   `json:"payment"`
	Interest  []float64 `json:"interest"`
	Principal []float64 `json:"principal"`
	Balance   []float64 `json:"balance"`
}

// Amortize 逐月生成摊还计划，剩余本金下限为 0 以吸收末期舍入误差
func Amortize(principal, annualRate float64, years int) (*AmortizationSchedule, error) {
	if principal < 0 || math.IsNaN(principal) {
		return nil, configErrorf("loan", "principal must not be negative, got %v", principal)
	}
	if annualRate < 0 || math.IsNaN(annualRate) {
		return nil, configErrorf("mortgage_rate", "must not be negative, got %v", annualRate)
	}
	if years <= 0 {
		return nil, configErrorf("loan_term_years", "must be positive, got %d", years)
	}

	months := years * 12
	payment := Payment(principal, annualRate, years)
	r := annualRate / 12

	s := &AmortizationSchedule{
		Loan:      principal,
		Payment:   payment,
		Interest:  make([]float64, months),
		Principal: make([]float64, months),
		Balance:   make([]float64, months),
	}
	remaining := principal
	for i := 0; i < months; i++ {
		interest := remaining * r
		paid := payment - interest
		s.Interest[i] = interest
		s.Principal[i] = paid
		remaining -= paid
		s.Balance[i] = math.Max(0, remaining)
	}
	return s, nil
}

// Months 还款期数
func (s *AmortizationSchedule) Months() int {
	return len(s.Balance)
}

// BalanceAfter 已还 paid 期后的剩余本金；0 期为贷款额，还清后恒为 0
func (s *AmortizationSchedule) BalanceAfter(paid int) float64 {
	switch {
	case paid <= 0:
		return s.Loan
	case paid >= len(s.Balance):
		return 0
	default:
		return s.Balance[paid-1]
	}
}

// PaymentDue 第 month 个月（从 0 起）的应还月供，还清后为 0
func (s *AmortizationSchedule) PaymentDue(month int) float64 {
	if month < len(s.Balance) {
		return s.Payment
	}
	return 0
}
