package dataset

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

// Summary 单个数值列的描述统计
type Summary struct {
	Column string  `json:"column" csv:"column"`
	Count  int     `json:"count" csv:"count"`
	Mean   float64 `json:"mean" csv:"mean"`
	StdDev float64 `json:"stddev" csv:"stddev"`
	Min    float64 `json:"min" csv:"min"`
	Max    float64 `json:"max" csv:"max"`
}

// Describe 按表头顺序汇总每个数值列
// 没有数据的列只填 Count=0
func (t *Table) Describe() ([]Summary, error) {
	out := make([]Summary, 0, len(t.numeric))
	for _, name := range t.NumericHeaders() {
		col := t.numeric[name]
		s := Summary{Column: name, Count: len(col)}
		if len(col) == 0 {
			out = append(out, s)
			continue
		}

		var err error
		if s.Mean, err = stats.Mean(col); err != nil {
			return nil, fmt.Errorf("mean of %s: %w", name, err)
		}
		if s.StdDev, err = stats.StandardDeviation(col); err != nil {
			return nil, fmt.Errorf("stddev of %s: %w", name, err)
		}
		if s.Min, err = stats.Min(col); err != nil {
			return nil, fmt.Errorf("min of %s: %w", name, err)
		}
		if s.Max, err = stats.Max(col); err != nil {
			return nil, fmt.Errorf("max of %s: %w", name, err)
		}
		out = append(out, s)
	}
	return out, nil
}
