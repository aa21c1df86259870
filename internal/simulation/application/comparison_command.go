package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/wyfcoding/rentvsbuy/internal/simulation/domain"
	"github.com/wyfcoding/rentvsbuy/pkg/logger"
	"github.com/wyfcoding/rentvsbuy/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// ComparisonCommandService 对比模拟命令服务：解析参数、查缓存、模拟、保存并发布事件
type ComparisonCommandService struct {
	catalog   *PresetCatalog
	repo      domain.ComparisonRepository
	publisher domain.EventPublisher
	metrics   metrics.Collector
	logger    *slog.Logger
}

// NewComparisonCommandService 创建命令服务。repo 与 publisher 可为 nil，表示不缓存、不发布事件。
func NewComparisonCommandService(
	catalog *PresetCatalog,
	repo domain.ComparisonRepository,
	publisher domain.EventPublisher,
	collector metrics.Collector,
	l *slog.Logger,
) *ComparisonCommandService {
	if collector == nil {
		collector = metrics.Nop{}
	}
	if l == nil {
		l = logger.Get()
	}
	return &ComparisonCommandService{
		catalog:   catalog,
		repo:      repo,
		publisher: publisher,
		metrics:   collector,
		logger:    l,
	}
}

// Compare 执行一次对比模拟
func (s *ComparisonCommandService) Compare(ctx context.Context, cmd CompareCommand) (*ComparisonDTO, error) {
	params, err := s.catalog.Resolve(cmd.Preset, cmd.Overrides)
	if err != nil {
		s.metrics.RecordComparison(outcome(err), 0, 0)
		return nil, err
	}
	c, cached, err := s.run(ctx, cmd.Preset, params, cmd.IncludeBands)
	if err != nil {
		return nil, err
	}
	return toComparisonDTO(c, cached, cmd.IncludeBands), nil
}

// CompareOverlay 基准场景与各地区预设并行模拟，各地区使用独立种子
func (s *ComparisonCommandService) CompareOverlay(ctx context.Context, cmd OverlayCommand) (*OverlayDTO, error) {
	base, err := s.catalog.Resolve(cmd.Preset, cmd.Overrides)
	if err != nil {
		s.metrics.RecordComparison(outcome(err), 0, 0)
		return nil, err
	}

	names := cmd.Presets
	if len(names) == 0 {
		names = s.catalog.Names()
	}
	locales := make([]domain.Parameters, len(names))
	for i, name := range names {
		lp, err := s.catalog.Resolve(name, nil)
		if err != nil {
			return nil, err
		}
		locales[i] = applyFinancials(lp, base, name)
		if err := locales[i].Validate(); err != nil {
			return nil, fmt.Errorf("overlay %s: %w", name, err)
		}
	}

	out := &OverlayDTO{Locales: make([]*ComparisonDTO, len(names))}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	g.Go(func() error {
		c, cached, err := s.run(gctx, cmd.Preset, base, cmd.IncludeBands)
		if err != nil {
			return err
		}
		out.Base = toComparisonDTO(c, cached, cmd.IncludeBands)
		return nil
	})
	for i, name := range names {
		g.Go(func() error {
			c, cached, err := s.run(gctx, name, locales[i], cmd.IncludeBands)
			if err != nil {
				return fmt.Errorf("overlay %s: %w", name, err)
			}
			out.Locales[i] = toComparisonDTO(c, cached, cmd.IncludeBands)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// run 查缓存，未命中则模拟并保存。缓存与事件失败只记录日志，不影响结果。
func (s *ComparisonCommandService) run(ctx context.Context, preset string, params domain.Parameters, includeBands bool) (*domain.Comparison, bool, error) {
	key, err := Key(params)
	if err != nil {
		return nil, false, err
	}
	log := logger.From(ctx, s.logger).With("preset", preset, "key", key)

	if s.repo != nil {
		cached, err := s.repo.Get(ctx, key)
		switch {
		case err != nil:
			log.WarnContext(ctx, "comparison cache lookup failed", "error", err)
		case cached != nil && (!includeBands || cached.Bands != nil):
			s.metrics.RecordCache(true)
			return cached, true, nil
		}
		s.metrics.RecordCache(false)
	}

	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	start := time.Now()
	done := logger.LogDuration(ctx, log, "comparison simulated", "paths", params.NPaths, "months", params.HorizonMonths())
	c, err := simulate(preset, key, params, includeBands)
	if err != nil {
		s.metrics.RecordComparison(outcome(err), 0, 0)
		log.ErrorContext(ctx, "comparison failed", "error", err)
		return nil, false, err
	}
	done()
	s.metrics.RecordComparison("ok", time.Since(start).Seconds(), params.NPaths)

	if s.repo != nil {
		if err := s.repo.Save(ctx, c); err != nil {
			log.WarnContext(ctx, "failed to cache comparison", "error", err)
		}
	}
	if s.publisher != nil {
		if err := s.publisher.PublishComparisonCompleted(ctx, c.CompletedEvent()); err != nil {
			log.WarnContext(ctx, "failed to publish comparison completed event", "error", err)
		}
	}
	return c, false, nil
}

func simulate(preset, key string, params domain.Parameters, includeBands bool) (*domain.Comparison, error) {
	res, err := domain.Compose(params)
	if err != nil {
		return nil, err
	}
	summary, err := domain.Summarize(res, params)
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}
	c := domain.NewComparison(preset, key, params, summary)
	if includeBands {
		bands, err := domain.ComputeBands(res, params)
		if err != nil {
			return nil, fmt.Errorf("compute bands: %w", err)
		}
		c.Bands = &bands
	}
	return c, nil
}

func outcome(err error) string {
	if errors.Is(err, domain.ErrInvalidParameters) || errors.Is(err, ErrPresetNotFound) {
		return "invalid"
	}
	return "error"
}
