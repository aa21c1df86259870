package domain

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Percentile 线性插值分位数（与 NumPy 默认估计一致），p ∈ [0, 100]，不修改入参
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return percentileSorted(sorted, p)
}

func percentileSorted(sorted []float64, p float64) float64 {
	pos := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// Percentiles 对每个时间步跨路径求分位数，返回 p → 长度为 Steps() 的序列
func Percentiles(g *Grid, ps []float64) (map[float64][]float64, error) {
	for _, p := range ps {
		if p < 0 || p > 100 || math.IsNaN(p) {
			return nil, fmt.Errorf("percentile %v out of range [0, 100]", p)
		}
	}
	out := make(map[float64][]float64, len(ps))
	for _, p := range ps {
		out[p] = make([]float64, g.Steps())
	}
	for t := 0; t < g.Steps(); t++ {
		step := g.Step(t)
		sort.Float64s(step)
		for _, p := range ps {
			out[p][t] = percentileSorted(step, p)
		}
	}
	return out, nil
}

// ProbabilityABeatsB 终值上 a 严格大于 b 的路径占比
func ProbabilityABeatsB(a, b *Grid) (float64, error) {
	if a.Paths() != b.Paths() {
		return 0, fmt.Errorf("path count mismatch: %d vs %d", a.Paths(), b.Paths())
	}
	ta, tb := a.row(a.Steps()-1), b.row(b.Steps()-1)
	var wins int
	for i := range ta {
		if ta[i] > tb[i] {
			wins++
		}
	}
	return float64(wins) / float64(len(ta)), nil
}

// MaxDrawdown 每条路径的最大回撤 min((v - runningMax) / runningMax)，取值 ≤ 0。
// 历史最高值非正的时间步（如从 0 起步的组合）不计入回撤。
func MaxDrawdown(g *Grid) []float64 {
	peak := g.Step(0)
	worst := make([]float64, g.Paths())
	for t := 1; t < g.Steps(); t++ {
		row := g.row(t)
		for i, v := range row {
			if v > peak[i] {
				peak[i] = v
			}
			if peak[i] <= 0 {
				continue
			}
			if dd := (v - peak[i]) / peak[i]; dd < worst[i] {
				worst[i] = dd
			}
		}
	}
	return worst
}

// Deflate 按 CPI 折算为实际购买力：v(t) * (1+cpi)^(-t/12)
func Deflate(g *Grid, cpi float64) *Grid {
	out := newGrid(g.Paths(), g.Steps())
	for t := 0; t < g.Steps(); t++ {
		floats.ScaleTo(out.row(t), math.Pow(1+cpi, -float64(t)/12), g.row(t))
	}
	return out
}

// Mean 全部元素的均值
func Mean(g *Grid) float64 {
	return floats.Sum(g.data) / float64(len(g.data))
}
