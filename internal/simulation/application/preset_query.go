package application

import (
	"context"
	"fmt"
)

// PresetQueryService 预设查询服务
type PresetQueryService struct {
	catalog *PresetCatalog
}

// NewPresetQueryService 创建查询服务
func NewPresetQueryService(catalog *PresetCatalog) *PresetQueryService {
	return &PresetQueryService{catalog: catalog}
}

// ListPresets 列出全部预设
func (s *PresetQueryService) ListPresets(ctx context.Context) ([]*PresetDTO, error) {
	names := s.catalog.Names()
	out := make([]*PresetDTO, 0, len(names))
	for _, name := range names {
		dto, err := s.GetPreset(ctx, name)
		if err != nil {
			return nil, err
		}
		out = append(out, dto)
	}
	return out, nil
}

// GetPreset 获取预设及其解析后的参数
func (s *PresetQueryService) GetPreset(_ context.Context, name string) (*PresetDTO, error) {
	overrides, ok := s.catalog.Overrides(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPresetNotFound, name)
	}
	params, err := s.catalog.Resolve(name, nil)
	if err != nil {
		return nil, err
	}
	return &PresetDTO{Name: name, Overrides: overrides, Params: params}, nil
}
