package publisher

import (
	"context"
	"log/slog"

	"github.com/wyfcoding/rentvsbuy/internal/simulation/domain"
	"github.com/wyfcoding/rentvsbuy/pkg/logger"
)

// LogEventPublisher 未配置 Kafka 时使用，仅把事件写入日志
type LogEventPublisher struct {
	logger *slog.Logger
}

// NewLogEventPublisher 创建日志事件发布者
func NewLogEventPublisher(l *slog.Logger) *LogEventPublisher {
	return &LogEventPublisher{logger: l}
}

// PublishComparisonCompleted 记录对比完成事件
func (p *LogEventPublisher) PublishComparisonCompleted(ctx context.Context, event domain.ComparisonCompletedEvent) error {
	logger.From(ctx, p.logger).InfoContext(ctx, "comparison completed",
		"event_type", domain.ComparisonCompletedEventType,
		"comparison_id", event.ComparisonID,
		"preset", event.Preset,
		"prob_invest_beats_buy", event.ProbInvestBeatsBuy,
		"median_delta", event.MedianDelta,
	)
	return nil
}
