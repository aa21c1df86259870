package domain

import "time"

const (
	ComparisonCompletedEventType = "rentvsbuy.comparison.completed"
)

// ComparisonCompletedEvent 对比模拟完成事件，金额以十进制字符串表示
type ComparisonCompletedEvent struct {
	ComparisonID       string    `json:"comparison_id"`
	Preset             string    `json:"preset"`
	Seed               int64     `json:"seed"`
	Paths              int       `json:"n_paths"`
	Months             int       `json:"n_months"`
	Real               bool      `json:"real"`
	ProbInvestBeatsBuy string    `json:"prob_invest_beats_buy"`
	MedianInvest       string    `json:"median_invest"`
	MedianBuy          string    `json:"median_buy"`
	MedianDelta        string    `json:"median_delta"`
	Timestamp          time.Time `json:"timestamp"`
}
