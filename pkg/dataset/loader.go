// 文件: pkg/dataset/loader.go
// CSV 数据集加载
//
// 第一行必须是表头；数值列转为 float64，文本列原样保留
// 数值列中有无法解析的单元格时，整行丢弃

package dataset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
)

// Options 加载选项
type Options struct {
	// NumericColumns 指定数值列；为空时自动推断:
	// 某列只要有一个单元格能解析成数字，就视为数值列
	NumericColumns []string
}

// Table 加载后的数据表
type Table struct {
	Headers []string
	numeric map[string][]float64
	text    map[string][]string
	rows    int
	dropped int
}

// Load 从文件加载
func Load(path string, opts Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("open dataset %s: %w", path, err)
	}
	defer f.Close()

	return Read(f, opts)
}

// Read 从任意 reader 加载
func Read(r io.Reader, opts Options) (*Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, ErrEmptyFile
	}

	records, err := gocsv.LazyCSVReader(bytes.NewReader(raw)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFormat, err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}

	headers := make([]string, len(records[0]))
	seen := make(map[string]bool, len(headers))
	for i, h := range records[0] {
		h = strings.TrimSpace(h)
		if h == "" || seen[h] {
			return nil, fmt.Errorf("%w: header %d is blank or duplicated", ErrUnreadableFormat, i+1)
		}
		seen[h] = true
		headers[i] = h
	}
	body := records[1:]
	for i, rec := range body {
		if len(rec) != len(headers) {
			return nil, fmt.Errorf("%w: row %d has %d fields, header has %d", ErrUnreadableFormat, i+2, len(rec), len(headers))
		}
	}

	isNumeric, err := numericColumns(headers, body, opts.NumericColumns)
	if err != nil {
		return nil, err
	}

	t := &Table{
		Headers: headers,
		numeric: make(map[string][]float64),
		text:    make(map[string][]string),
	}
	for i, h := range headers {
		if isNumeric[i] {
			t.numeric[h] = []float64{}
		} else {
			t.text[h] = []string{}
		}
	}

rows:
	for _, rec := range body {
		values := make([]float64, len(headers))
		for i := range headers {
			if !isNumeric[i] {
				continue
			}
			v, ok := parseNumber(rec[i])
			if !ok {
				t.dropped++
				continue rows
			}
			values[i] = v
		}
		for i, h := range headers {
			if isNumeric[i] {
				t.numeric[h] = append(t.numeric[h], values[i])
			} else {
				t.text[h] = append(t.text[h], rec[i])
			}
		}
		t.rows++
	}
	return t, nil
}

// numericColumns 确定哪些列按数值处理
func numericColumns(headers []string, body [][]string, declared []string) ([]bool, error) {
	flags := make([]bool, len(headers))
	if len(declared) > 0 {
		index := make(map[string]int, len(headers))
		for i, h := range headers {
			index[h] = i
		}
		for _, name := range declared {
			i, ok := index[name]
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
			}
			flags[i] = true
		}
		return flags, nil
	}

	for i := range headers {
		for _, rec := range body {
			if _, ok := parseNumber(rec[i]); ok {
				flags[i] = true
				break
			}
		}
	}
	return flags, nil
}

// parseNumber NaN / Inf 文本不算数值
func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Len 保留下来的行数
func (t *Table) Len() int { return t.rows }

// Dropped 因数值列无法解析而丢弃的行数
func (t *Table) Dropped() int { return t.dropped }

// NumericHeaders 按表头顺序返回数值列
func (t *Table) NumericHeaders() []string {
	out := make([]string, 0, len(t.numeric))
	for _, h := range t.Headers {
		if _, ok := t.numeric[h]; ok {
			out = append(out, h)
		}
	}
	return out
}

// Column 返回数值列的拷贝
func (t *Table) Column(name string) ([]float64, error) {
	if col, ok := t.numeric[name]; ok {
		return append([]float64(nil), col...), nil
	}
	if _, ok := t.text[name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotNumeric, name)
	}
	return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
}

// TextColumn 返回文本列的拷贝
func (t *Table) TextColumn(name string) ([]string, error) {
	col, ok := t.text[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
	}
	return append([]string(nil), col...), nil
}
