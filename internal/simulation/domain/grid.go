package domain

import (
	"encoding/json"
	"fmt"
)

// Grid paths × steps 的路径矩阵。按时间步连续存储，每个时间步是一段覆盖全部路径的切片，
// 以便逐步递推时对整个路径维度做向量运算。生成后不可变，对外访问器均返回副本。
type Grid struct {
	paths int
	steps int
	data  []float64
}

func newGrid(paths, steps int) *Grid {
	return &Grid{paths: paths, steps: steps, data: make([]float64, paths*steps)}
}

// NewGridFromPaths 由按路径排列的数据构造矩阵，所有路径需等长
func NewGridFromPaths(rows [][]float64) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("grid needs at least one path and one step")
	}
	steps := len(rows[0])
	g := newGrid(len(rows), steps)
	for p, row := range rows {
		if len(row) != steps {
			return nil, fmt.Errorf("path %d has %d steps, want %d", p, len(row), steps)
		}
		for t, v := range row {
			g.data[t*g.paths+p] = v
		}
	}
	return g, nil
}

// Paths 路径数
func (g *Grid) Paths() int { return g.paths }

// Steps 时间步数
func (g *Grid) Steps() int { return g.steps }

// At 第 path 条路径在第 step 步的取值
func (g *Grid) At(path, step int) float64 {
	return g.data[step*g.paths+path]
}

// Step 第 step 步所有路径取值的副本
func (g *Grid) Step(step int) []float64 {
	out := make([]float64, g.paths)
	copy(out, g.row(step))
	return out
}

// Terminal 最后一步所有路径取值的副本
func (g *Grid) Terminal() []float64 {
	return g.Step(g.steps - 1)
}

// Path 单条路径的完整时间序列
func (g *Grid) Path(path int) []float64 {
	out := make([]float64, g.steps)
	for t := range out {
		out[t] = g.data[t*g.paths+path]
	}
	return out
}

// MarshalJSON 按路径优先输出二维数组
func (g *Grid) MarshalJSON() ([]byte, error) {
	rows := make([][]float64, g.paths)
	for p := range rows {
		rows[p] = g.Path(p)
	}
	return json.Marshal(rows)
}

// row 第 step 步的内部视图，仅在包内生成阶段写入
func (g *Grid) row(step int) []float64 {
	return g.data[step*g.paths : (step+1)*g.paths]
}
