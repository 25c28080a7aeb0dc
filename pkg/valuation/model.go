// 文件: pkg/valuation/model.go
// 估值请求 / 结果
//
// 请求和结果都是一次性的值，不在服务端保存

package valuation

import (
	"bytes"
	"encoding/json"
	"fmt"

	"quant.com/pkg/pricing"
)

// Kind 估值类型
type Kind string

const (
	KindBinomial         Kind = "binomial"          // 二叉树期权价格
	KindBlackScholes     Kind = "black_scholes"     // Black-Scholes 闭式解
	KindForward          Kind = "forward"           // 远期价格
	KindParity           Kind = "parity"            // 平价关系推另一腿
	KindFRA              Kind = "fra"               // FRA 结算金额
	KindSimpleInterest   Kind = "simple_interest"   // 单利终值
	KindCompoundInterest Kind = "compound_interest" // 复利终值 (不给 periods_per_year 时为连续复利)
)

// Kinds 全部支持的类型，按展示顺序
func Kinds() []Kind {
	return []Kind{KindBinomial, KindBlackScholes, KindForward, KindParity, KindFRA, KindSimpleInterest, KindCompoundInterest}
}

// Request 估值请求
// Params 的值来自 JSON，数字可能是 float64 或 json.Number
type Request struct {
	ID     string         `json:"id,omitempty"`
	Kind   Kind           `json:"kind,omitempty"`
	Preset string         `json:"preset,omitempty"` // 预设名，请求参数覆盖预设参数
	Params map[string]any `json:"params,omitempty"`
	Curve  bool           `json:"curve,omitempty"` // 是否附带敏感性曲线
}

// DecodeRequest 解码 JSON 请求，数字保留为 json.Number
func DecodeRequest(data []byte) (Request, error) {
	var req Request
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		return Request{}, fmt.Errorf("decode valuation request: %w", err)
	}
	return req, nil
}

// ErrorBody 线上错误结构
// Kind: invalid_type / invalid_value / model_degenerate / internal
type ErrorBody struct {
	Kind    string `json:"kind"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// NewErrorBody 从错误构造线上错误结构
func NewErrorBody(err error) *ErrorBody {
	if err == nil {
		return nil
	}
	return &ErrorBody{
		Kind:    pricing.ErrorKind(err),
		Field:   pricing.ErrorField(err),
		Message: err.Error(),
	}
}

// Result 估值结果
type Result struct {
	ID            string          `json:"id"`
	Kind          Kind            `json:"kind"`
	Value         float64         `json:"value"`
	Leg           string          `json:"leg,omitempty"` // parity: 推导出的是 call 还是 put
	Curves        []pricing.Curve `json:"curves,omitempty"`
	Error         *ErrorBody      `json:"error,omitempty"`
	ElapsedMicros int64           `json:"elapsed_us"`
}

// OK 是否成功
func (r Result) OK() bool { return r.Error == nil }

// resultMessage 把结果包装成 kafka.Message，按请求 ID 分区
type resultMessage struct {
	topic  string
	result Result
}

func (m resultMessage) Topic() string          { return m.topic }
func (m resultMessage) Key() string            { return m.result.ID }
func (m resultMessage) Value() ([]byte, error) { return json.Marshal(m.result) }
