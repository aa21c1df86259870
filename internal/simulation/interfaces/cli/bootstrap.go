package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wyfcoding/rentvsbuy/internal/simulation/application"
	"github.com/wyfcoding/rentvsbuy/internal/simulation/domain"
	"github.com/wyfcoding/rentvsbuy/internal/simulation/infrastructure/persistence/redis"
	"github.com/wyfcoding/rentvsbuy/internal/simulation/infrastructure/publisher"
	"github.com/wyfcoding/rentvsbuy/pkg/cache"
	"github.com/wyfcoding/rentvsbuy/pkg/config"
	"github.com/wyfcoding/rentvsbuy/pkg/metrics"
	"github.com/wyfcoding/rentvsbuy/pkg/mq"
)

// dependencies 服务运行所需的基础设施与应用服务
type dependencies struct {
	cfg      *config.Config
	logger   *slog.Logger
	metrics  *metrics.Metrics
	cache    *cache.RedisCache
	producer *mq.KafkaProducer
	app      *application.SimulationApplicationService
}

// buildDependencies 按配置装配依赖。Redis 与 Kafka 未配置时分别退化为无缓存和日志事件。
func buildDependencies(ctx context.Context, cfg *config.Config, l *slog.Logger) (*dependencies, error) {
	catalog, err := application.NewPresetCatalog(cfg.Simulation)
	if err != nil {
		return nil, err
	}

	d := &dependencies{cfg: cfg, logger: l}
	var collector metrics.Collector = metrics.Nop{}
	if cfg.Metrics.Enabled {
		d.metrics = metrics.New(cfg.ServiceName)
		collector = d.metrics
	}

	var repo domain.ComparisonRepository
	if cfg.Redis.Enabled() {
		d.cache, err = cache.New(ctx, cache.Config{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			MaxPoolSize:  cfg.Redis.MaxPoolSize,
			ConnTimeout:  cfg.Redis.ConnTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		ttl := time.Duration(cfg.Simulation.CacheTTLSeconds) * time.Second
		repo = redis.NewComparisonRepository(d.cache, ttl)
	}

	var pub domain.EventPublisher = publisher.NewLogEventPublisher(l)
	if cfg.Kafka.Enabled() {
		d.producer = mq.NewProducer(mq.KafkaConfig{
			Brokers:      cfg.Kafka.Brokers,
			MaxRetries:   cfg.Kafka.MaxRetries,
			RetryBackoff: cfg.Kafka.RetryBackoff,
		})
		pub = publisher.NewKafkaEventPublisher(d.producer, cfg.Kafka.Topic)
	}

	d.app = application.NewSimulationApplicationService(catalog, repo, pub, collector, l)
	return d, nil
}

// ready Redis 已配置时检查连接
func (d *dependencies) ready(ctx context.Context) error {
	if d.cache == nil {
		return nil
	}
	return d.cache.Ping(ctx)
}

func (d *dependencies) Close() error {
	var errs []error
	if d.producer != nil {
		errs = append(errs, d.producer.Close())
	}
	if d.cache != nil {
		errs = append(errs, d.cache.Close())
	}
	return errors.Join(errs...)
}
