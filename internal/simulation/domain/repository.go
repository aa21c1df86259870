package domain

import "context"

// ComparisonRepository 对比结果缓存仓储，以参数摘要为键
type ComparisonRepository interface {
	// Save 保存对比结果
	Save(ctx context.Context, c *Comparison) error
	// Get 按参数摘要获取对比结果，未命中时返回 nil, nil
	Get(ctx context.Context, key string) (*Comparison, error)
}

// EventPublisher 领域事件发布接口
type EventPublisher interface {
	// PublishComparisonCompleted 发布对比完成事件
	PublishComparisonCompleted(ctx context.Context, event ComparisonCompletedEvent) error
}
