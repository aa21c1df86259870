package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Comparison 一次已完成的对比：输入参数与汇总结果。路径矩阵不随聚合保存。
type Comparison struct {
	ID        string     `json:"id"`
	Preset    string     `json:"preset"`
	Key       string     `json:"key"` // 参数摘要，作为缓存键
	Params    Parameters `json:"params"`
	Summary   Summary    `json:"summary"`
	Bands     *Bands     `json:"bands,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewComparison 创建对比聚合
func NewComparison(preset, key string, params Parameters, summary Summary) *Comparison {
	return &Comparison{
		ID:        uuid.New().String(),
		Preset:    preset,
		Key:       key,
		Params:    params,
		Summary:   summary,
		CreatedAt: time.Now(),
	}
}

// CompletedEvent 生成完成事件
func (c *Comparison) CompletedEvent() ComparisonCompletedEvent {
	s := c.Summary
	return ComparisonCompletedEvent{
		ComparisonID:       c.ID,
		Preset:             c.Preset,
		Seed:               c.Params.Seed,
		Paths:              s.Paths,
		Months:             s.Months,
		Real:               s.Real,
		ProbInvestBeatsBuy: decimal.NewFromFloat(s.ProbInvestBeatsBuy).Round(4).String(),
		MedianInvest:       decimal.NewFromFloat(s.InvestTerminal.P50).Round(2).String(),
		MedianBuy:          decimal.NewFromFloat(s.BuyTerminal.P50).Round(2).String(),
		MedianDelta:        decimal.NewFromFloat(s.MedianDelta).Round(2).String(),
		Timestamp:          c.CreatedAt,
	}
}
