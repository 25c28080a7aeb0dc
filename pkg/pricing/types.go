package pricing

import (
	"math"
	"strings"
)

// =============================================================================
// 期权类型 (封闭枚举)
// =============================================================================

// OptionType 期权方向
// 零值非法，必须显式指定 Call 或 Put
type OptionType uint8

const (
	Call OptionType = 1 // 看涨
	Put  OptionType = 2 // 看跌
)

func (t OptionType) String() string {
	switch t {
	case Call:
		return "call"
	case Put:
		return "put"
	default:
		return "unknown"
	}
}

// Valid 是否是合法的期权类型
func (t OptionType) Valid() bool {
	return t == Call || t == Put
}

// Payoff 到期收益
// Call: max(S - K, 0)
// Put:  max(K - S, 0)
func (t OptionType) Payoff(spot, strike float64) float64 {
	if t == Put {
		return math.Max(strike-spot, 0)
	}
	return math.Max(spot-strike, 0)
}

// ParseOptionType 解析 "call" / "put" (大小写不敏感)
func ParseOptionType(s string) (OptionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "call", "c":
		return Call, nil
	case "put", "p":
		return Put, nil
	}
	return 0, valueError("option_type", "must be call or put")
}

// MarshalText 序列化为 "call" / "put"
func (t OptionType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, valueError("option_type", "must be call or put")
	}
	return []byte(t.String()), nil
}

// UnmarshalText 从 "call" / "put" 反序列化
func (t *OptionType) UnmarshalText(b []byte) error {
	parsed, err := ParseOptionType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// =============================================================================
// 参数记录 (值传递，单次调用内有效)
// =============================================================================

// PricingParameters 期权定价参数
type PricingParameters struct {
	S     float64    `json:"S"`           // 标的现价
	K     float64    `json:"K"`           // 行权价
	T     float64    `json:"T"`           // 剩余期限 (年)
	R     float64    `json:"r"`           // 无风险利率 (年化，连续复利)
	Sigma float64    `json:"sigma"`       // 波动率 (年化)
	N     int        `json:"N"`           // 格点步数
	Type  OptionType `json:"option_type"` // 期权方向
}

// Validate 二叉树定价前置校验
// S、K、T 必须为正；σ 非负；r 只要求是有限实数；1 <= N <= MaxSteps
func (p PricingParameters) Validate() error {
	if err := requirePositive("S", p.S); err != nil {
		return err
	}
	if err := requirePositive("K", p.K); err != nil {
		return err
	}
	if err := requirePositive("T", p.T); err != nil {
		return err
	}
	if err := requireFinite("r", p.R); err != nil {
		return err
	}
	if err := requireNonNegative("sigma", p.Sigma); err != nil {
		return err
	}
	if err := requireSteps("N", p.N); err != nil {
		return err
	}
	if !p.Type.Valid() {
		return valueError("option_type", "must be call or put")
	}
	return nil
}

// FRAParameters 远期利率协议参数
type FRAParameters struct {
	Notional  float64 `json:"N"`   // 名义本金
	RefRate   float64 `json:"R_K"` // 观察到的参考利率
	FixedRate float64 `json:"R_F"` // 协议约定利率
	Days      float64 `json:"d"`   // 计息天数 (ACT/360)
}

// ParityInputs 平价关系入参，CallPrice / PutPrice 恰好给一个
type ParityInputs struct {
	S         float64  `json:"S"`
	K         float64  `json:"K"`
	T         float64  `json:"T"`
	R         float64  `json:"r"`
	CallPrice *float64 `json:"call_price,omitempty"`
	PutPrice  *float64 `json:"put_price,omitempty"`
}

// Leg 平价关系中被推导出的一腿
type Leg uint8

const (
	LegCall Leg = 1
	LegPut  Leg = 2
)

func (l Leg) String() string {
	switch l {
	case LegCall:
		return "call"
	case LegPut:
		return "put"
	default:
		return "unknown"
	}
}
