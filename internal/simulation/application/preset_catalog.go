package application

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/wyfcoding/rentvsbuy/internal/simulation/domain"
	"github.com/wyfcoding/rentvsbuy/pkg/config"
	"github.com/wyfcoding/rentvsbuy/pkg/utils"
)

// nullableFields 可显式置空的参数，覆盖值为 nil 或 "none" 时清除
var nullableFields = map[string]func(*domain.Parameters){
	"mip_remove_ltv": func(p *domain.Parameters) { p.MIPRemoveLTV = nil },
	"invest_initial": func(p *domain.Parameters) { p.InvestInitial = nil },
}

// PresetCatalog 参数解析：全局默认值 ← 地区预设 ← 请求覆盖项
type PresetCatalog struct {
	defaults map[string]any
	presets  map[string]map[string]any
	maxPaths int
	maxCells int
}

// NewPresetCatalog 由配置创建预设目录，并校验每个预设都可解析为合法参数
func NewPresetCatalog(cfg config.SimulationConfig) (*PresetCatalog, error) {
	c := &PresetCatalog{
		defaults: cfg.Defaults,
		presets:  make(map[string]map[string]any, len(cfg.Presets)),
		maxPaths: cfg.MaxPaths,
		maxCells: cfg.MaxCells,
	}
	for name, overrides := range cfg.Presets {
		c.presets[strings.ToLower(name)] = overrides
	}

	if _, err := c.Resolve("", nil); err != nil {
		return nil, fmt.Errorf("invalid simulation defaults: %w", err)
	}
	for _, name := range c.Names() {
		if _, err := c.Resolve(name, nil); err != nil {
			return nil, fmt.Errorf("invalid preset %q: %w", name, err)
		}
	}
	return c, nil
}

// Names 预设名称，按字母序
func (c *PresetCatalog) Names() []string {
	names := make([]string, 0, len(c.presets))
	for name := range c.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Overrides 预设相对默认值的覆盖项
func (c *PresetCatalog) Overrides(name string) (map[string]any, bool) {
	m, ok := c.presets[strings.ToLower(name)]
	return m, ok
}

// Resolve 解析并校验参数。preset 为空表示只使用默认值。
func (c *PresetCatalog) Resolve(preset string, overrides map[string]any) (domain.Parameters, error) {
	p := domain.DefaultParameters()
	if err := decodeInto(c.defaults, &p); err != nil {
		return domain.Parameters{}, err
	}
	if preset != "" {
		m, ok := c.Overrides(preset)
		if !ok {
			return domain.Parameters{}, fmt.Errorf("%w: %s", ErrPresetNotFound, preset)
		}
		if err := decodeInto(m, &p); err != nil {
			return domain.Parameters{}, err
		}
	}
	if err := decodeInto(overrides, &p); err != nil {
		return domain.Parameters{}, err
	}

	if c.maxPaths > 0 && p.NPaths > c.maxPaths {
		return domain.Parameters{}, &domain.ConfigError{
			Field:  "n_paths",
			Reason: fmt.Sprintf("at most %d paths per comparison, got %d", c.maxPaths, p.NPaths),
		}
	}
	if err := p.Validate(); err != nil {
		return domain.Parameters{}, err
	}
	if cells := p.NPaths * p.HorizonMonths(); c.maxCells > 0 && cells > c.maxCells {
		return domain.Parameters{}, &domain.ConfigError{
			Field:  "years",
			Reason: fmt.Sprintf("n_paths × months must be at most %d, got %d", c.maxCells, cells),
		}
	}
	return p, nil
}

// decodeInto 把键值覆盖到参数上，未知键与无法转换的取值视为配置错误
func decodeInto(values map[string]any, p *domain.Parameters) error {
	if len(values) == 0 {
		return nil
	}

	rest := make(map[string]any, len(values))
	for k, v := range values {
		key := strings.ToLower(k)
		if reset, ok := nullableFields[key]; ok && isNull(v) {
			reset(p)
			continue
		}
		rest[key] = v
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           p,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(rest); err != nil {
		return &domain.ConfigError{Field: "parameters", Reason: err.Error()}
	}
	return nil
}

func isNull(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && (strings.EqualFold(s, "none") || strings.EqualFold(s, "null"))
}

// Key 参数摘要，作为结果缓存键
func Key(p domain.Parameters) (string, error) {
	return utils.Digest(p)
}

// overlaySeed 地区叠加使用的种子：基准种子加名称哈希偏移
func overlaySeed(base int64, name string) int64 {
	return base + int64(utils.FNV32a(name)%1000)
}

// applyFinancials 把基准场景的财务参数套用到地区参数上，住房相关参数保留地区取值
func applyFinancials(locale, base domain.Parameters, name string) domain.Parameters {
	locale.MonthlySavings = base.MonthlySavings
	locale.EquityMu = base.EquityMu
	locale.EquitySigma = base.EquitySigma
	locale.EquityFee = base.EquityFee
	locale.Years = base.Years
	locale.NPaths = base.NPaths
	locale.LoanType = base.LoanType
	locale.DownPaymentPct = base.DownPaymentPct
	locale.MortgageRate = base.MortgageRate
	locale.SellingCostRate = base.SellingCostRate
	locale.TaxBasis = base.TaxBasis
	locale.ShowReal = base.ShowReal
	locale.Seed = overlaySeed(base.Seed, name)
	return locale
}
