package dataset

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"quant.com/pkg/pricing"
)

// WriteCurveCSV 把敏感性曲线导出为 x,y 两列的 CSV
func WriteCurveCSV(w io.Writer, curve pricing.Curve) error {
	points := curve.Points
	if points == nil {
		points = []pricing.Point{}
	}
	if err := gocsv.Marshal(&points, w); err != nil {
		return fmt.Errorf("export curve %q: %w", curve.Name, err)
	}
	return nil
}

// WriteSummaryCSV 导出 Describe 的结果
func WriteSummaryCSV(w io.Writer, summaries []Summary) error {
	if err := gocsv.Marshal(&summaries, w); err != nil {
		return fmt.Errorf("export summary: %w", err)
	}
	return nil
}
