package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"quant.com/pkg/valuation"
)

func renderTable(w io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.AppendBulk(rows)
	table.Render()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// printResult 输入参数 + 结果，一张表
func (a *app) printResult(w io.Writer, req valuation.Request, res valuation.Result) error {
	if a.jsonOut {
		return printJSON(w, res)
	}

	keys := make([]string, 0, len(req.Params))
	for k := range req.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([][]string, 0, len(keys)+4)
	if req.Preset != "" {
		rows = append(rows, []string{"preset", req.Preset})
	}
	for _, k := range keys {
		rows = append(rows, []string{k, fmt.Sprint(req.Params[k])})
	}
	rows = append(rows, []string{"kind", string(res.Kind)})
	if res.Leg != "" {
		rows = append(rows, []string{"derived", res.Leg})
	}
	rows = append(rows, []string{"result", fmt.Sprintf("%.6f", res.Value)})
	renderTable(w, []string{"Parameter", "Value"}, rows)
	return nil
}
