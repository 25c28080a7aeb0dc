package pricing

import (
	"math"
	"strings"
)

// Compounding 远期价格使用的复利约定
// 一个部署只选一种，所有调用一致
type Compounding uint8

const (
	Continuous Compounding = iota // F = S * e^(rT)
	Discrete                      // F = S * (1 + r)^T
)

func (c Compounding) String() string {
	if c == Discrete {
		return "discrete"
	}
	return "continuous"
}

// ParseCompounding 解析配置里的复利约定
func ParseCompounding(s string) (Compounding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "continuous":
		return Continuous, nil
	case "discrete":
		return Discrete, nil
	}
	return 0, valueError("compounding", "must be continuous or discrete")
}

// Pricer 绑定了复利约定的定价器
// 零值即连续复利
type Pricer struct {
	Compounding Compounding
}

// NewPricer 创建定价器
func NewPricer(c Compounding) Pricer {
	return Pricer{Compounding: c}
}

// ForwardPrice 按部署约定计算远期价格 (无分红、无持有成本)
func (p Pricer) ForwardPrice(spot, rate, years float64) (float64, error) {
	if err := requireNonNegative("S", spot); err != nil {
		return 0, err
	}
	if err := requireFinite("r", rate); err != nil {
		return 0, err
	}
	if err := requireNonNegative("T", years); err != nil {
		return 0, err
	}

	if p.Compounding == Discrete {
		// (1+r) <= 0 时幂运算无经济含义
		if rate <= -1 {
			return 0, valueError("r", "must be greater than -1 for discrete compounding")
		}
		return finiteResult("T", spot*math.Pow(1+rate, years))
	}
	return finiteResult("T", spot*math.Exp(rate*years))
}

// ForwardPrice 连续复利远期价格 F = S * e^(rT)
func ForwardPrice(spot, rate, years float64) (float64, error) {
	return Pricer{Compounding: Continuous}.ForwardPrice(spot, rate, years)
}
