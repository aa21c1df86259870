package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/wyfcoding/rentvsbuy/internal/simulation/domain"
	"github.com/wyfcoding/rentvsbuy/internal/simulation/infrastructure/publisher"
	"github.com/wyfcoding/rentvsbuy/pkg/mq"
)

// eventSource 由 mq.KafkaConsumer 实现
type eventSource interface {
	Consume(ctx context.Context, handler mq.Handler) error
}

func newWatchCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow comparison completed events on Kafka",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.load(cmd)
			if err != nil {
				return err
			}
			if !cfg.Kafka.Enabled() {
				return errors.New("kafka.brokers is not configured")
			}
			l := stderrLogger(cfg, cmd.ErrOrStderr())

			consumer := mq.NewConsumer(mq.KafkaConfig{
				Brokers:        cfg.Kafka.Brokers,
				GroupID:        cfg.Kafka.GroupID,
				SessionTimeout: 10,
			}, cfg.Kafka.Topic)
			defer consumer.Close()

			return watchEvents(cmd.Context(), consumer, cmd.OutOrStdout(), l)
		},
	}
}

// watchEvents 打印对比完成事件，忽略其他类型
func watchEvents(ctx context.Context, src eventSource, out io.Writer, l *slog.Logger) error {
	return src.Consume(ctx, mq.JSONHandler(func(ctx context.Context, msg *mq.Message, env publisher.Envelope) error {
		if env.Type != domain.ComparisonCompletedEventType {
			l.DebugContext(ctx, "ignoring event", "type", env.Type, "offset", msg.Offset)
			return nil
		}
		_, err := fmt.Fprintln(out, formatEvent(env))
		return err
	}))
}

func formatEvent(env publisher.Envelope) string {
	e := env.Payload
	preset := e.Preset
	if preset == "" {
		preset = "-"
	}
	return fmt.Sprintf("%s  %-10s  paths=%d months=%d  P(invest>buy)=%s  median invest=%s buy=%s delta=%s",
		e.Timestamp.Format("2006-01-02T15:04:05Z07:00"), preset, e.Paths, e.Months,
		e.ProbInvestBeatsBuy, e.MedianInvest, e.MedianBuy, e.MedianDelta)
}
