package domain

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// dt 月度步长（年）
const dt = 1.0 / 12.0

// SimulateGBM 生成 paths × (months+1) 的几何布朗运动路径，第 0 列为初值。
// S(t+1) = S(t) * exp((mu - 0.5*sigma^2)*dt + sigma*sqrt(dt)*Z)
func SimulateGBM(initial, mu, sigma float64, months, paths int, src NormalSource) (*Grid, error) {
	if err := checkProcess(sigma, months, paths); err != nil {
		return nil, err
	}
	return simulate(initial, mu, sigma, months, paths, nil, src), nil
}

// SimulatePortfolio 生成带月末追加投入的组合路径：先乘以当月收益，再加当月投入。
// fee 为年化费率，从漂移项中扣除。contributions 为 paths × months，nil 表示无追加投入。
func SimulatePortfolio(initial float64, contributions *Grid, mu, sigma, fee float64, months, paths int, src NormalSource) (*Grid, error) {
	if err := checkProcess(sigma, months, paths); err != nil {
		return nil, err
	}
	if contributions != nil && (contributions.Paths() != paths || contributions.Steps() != months) {
		return nil, configErrorf("contributions", "shape %dx%d does not match %dx%d",
			contributions.Paths(), contributions.Steps(), paths, months)
	}
	return simulate(initial, mu-fee, sigma, months, paths, contributions, src), nil
}

func checkProcess(sigma float64, months, paths int) error {
	if sigma < 0 || math.IsNaN(sigma) {
		return configErrorf("sigma", "volatility must not be negative, got %v", sigma)
	}
	if months <= 0 {
		return configErrorf("months", "must be positive, got %d", months)
	}
	if paths <= 0 {
		return configErrorf("paths", "must be positive, got %d", paths)
	}
	return nil
}

func simulate(initial, mu, sigma float64, months, paths int, contributions *Grid, src NormalSource) *Grid {
	growth := monthlyGrowth(src.StandardNormal(paths, months), mu, sigma, months, paths)

	out := newGrid(paths, months+1)
	floats.AddConst(initial, out.row(0))
	for t := 0; t < months; t++ {
		next := out.row(t + 1)
		floats.MulTo(next, out.row(t), growth.row(t))
		if contributions != nil {
			floats.Add(next, contributions.row(t))
		}
	}
	return out
}

// monthlyGrowth 把按路径排列的标准正态矩阵转换为按时间步排列的月度增长因子
func monthlyGrowth(z []float64, mu, sigma float64, months, paths int) *Grid {
	drift := (mu - 0.5*sigma*sigma) * dt
	vol := sigma * math.Sqrt(dt)

	g := newGrid(paths, months)
	for p := 0; p < paths; p++ {
		src := z[p*months : (p+1)*months]
		for t, v := range src {
			g.data[t*paths+p] = math.Exp(drift + vol*v)
		}
	}
	return g
}
