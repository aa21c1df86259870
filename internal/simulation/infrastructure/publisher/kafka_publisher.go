package publisher

import (
	"context"
	"fmt"

	"github.com/wyfcoding/rentvsbuy/internal/simulation/domain"
)

// MessageSender 消息发送接口，由 mq.KafkaProducer 实现
type MessageSender interface {
	SendMessage(ctx context.Context, topic string, key string, value any) error
}

// Envelope 事件信封
type Envelope struct {
	Type    string                          `json:"type"`
	Payload domain.ComparisonCompletedEvent `json:"payload"`
}

// KafkaEventPublisher 把领域事件发送到 Kafka，以对比 ID 作为消息键
type KafkaEventPublisher struct {
	sender MessageSender
	topic  string
}

// NewKafkaEventPublisher 创建 Kafka 事件发布者
func NewKafkaEventPublisher(sender MessageSender, topic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{sender: sender, topic: topic}
}

// PublishComparisonCompleted 发布对比完成事件
func (p *KafkaEventPublisher) PublishComparisonCompleted(ctx context.Context, event domain.ComparisonCompletedEvent) error {
	env := Envelope{Type: domain.ComparisonCompletedEventType, Payload: event}
	if err := p.sender.SendMessage(ctx, p.topic, event.ComparisonID, env); err != nil {
		return fmt.Errorf("publish %s: %w", domain.ComparisonCompletedEventType, err)
	}
	return nil
}
