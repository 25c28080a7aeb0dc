package dataset

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quant.com/pkg/pricing"
)

func TestWriteCurveCSV(t *testing.T) {
	curves, err := pricing.PayoffCurves(100, 100)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCurveCSV(&buf, curves[0]))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, pricing.CurvePoints+1)
	assert.Equal(t, "x,y", lines[0])

	// 导出的文件可以原样读回
	table, err := Read(strings.NewReader(buf.String()), Options{})
	require.NoError(t, err)
	ys, err := table.Column("y")
	require.NoError(t, err)
	assert.Equal(t, 50.0, ys[len(ys)-1])
}
