package application

import (
	"context"
	"log/slog"

	"github.com/wyfcoding/rentvsbuy/internal/simulation/domain"
	"github.com/wyfcoding/rentvsbuy/pkg/metrics"
)

// SimulationApplicationService 模拟服务门面，整合命令服务和查询服务
type SimulationApplicationService struct {
	commandService *ComparisonCommandService
	queryService   *PresetQueryService
}

// NewSimulationApplicationService 创建模拟服务门面实例
func NewSimulationApplicationService(
	catalog *PresetCatalog,
	repo domain.ComparisonRepository,
	publisher domain.EventPublisher,
	collector metrics.Collector,
	logger *slog.Logger,
) *SimulationApplicationService {
	return &SimulationApplicationService{
		commandService: NewComparisonCommandService(catalog, repo, publisher, collector, logger),
		queryService:   NewPresetQueryService(catalog),
	}
}

// Compare 执行一次对比模拟
func (s *SimulationApplicationService) Compare(ctx context.Context, cmd CompareCommand) (*ComparisonDTO, error) {
	return s.commandService.Compare(ctx, cmd)
}

// CompareOverlay 执行地区叠加对比
func (s *SimulationApplicationService) CompareOverlay(ctx context.Context, cmd OverlayCommand) (*OverlayDTO, error) {
	return s.commandService.CompareOverlay(ctx, cmd)
}

// ListPresets 列出全部预设
func (s *SimulationApplicationService) ListPresets(ctx context.Context) ([]*PresetDTO, error) {
	return s.queryService.ListPresets(ctx)
}

// GetPreset 获取预设
func (s *SimulationApplicationService) GetPreset(ctx context.Context, name string) (*PresetDTO, error) {
	return s.queryService.GetPreset(ctx, name)
}
