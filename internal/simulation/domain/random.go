package domain

import "math/rand"

// NormalSource 可重设种子的标准正态随机源
type NormalSource interface {
	// StandardNormal 返回 paths × months 的标准正态矩阵，按路径优先顺序存放：
	// 第 p 条路径第 t 个月的取值位于下标 p*months+t。
	StandardNormal(paths, months int) []float64
	// Reseed 重设种子，之后的抽样序列与新建同种子随机源一致
	Reseed(seed int64)
}

// SeededSource 基于 math/rand 的确定性随机源
type SeededSource struct {
	rand *rand.Rand
}

// NewSeededSource 创建随机源
func NewSeededSource(seed int64) *SeededSource {
	return &SeededSource{rand: rand.New(rand.NewSource(seed))}
}

func (s *SeededSource) StandardNormal(paths, months int) []float64 {
	z := make([]float64, paths*months)
	for i := range z {
		z[i] = s.rand.NormFloat64()
	}
	return z
}

func (s *SeededSource) Reseed(seed int64) {
	s.rand.Seed(seed)
}
