package valuation

import (
	"quant.com/pkg/pricing"
)

// params 按字段名读取动态参数，类型校验交给 pricing
type params map[string]any

func (p params) real(name string) (float64, error) {
	return pricing.ToReal(name, p[name])
}

// optReal 缺省或为 null 时返回 def
func (p params) optReal(name string, def float64) (float64, error) {
	if !p.has(name) {
		return def, nil
	}
	return p.real(name)
}

func (p params) steps(name string) (int, error) {
	return pricing.ToSteps(name, p[name])
}

func (p params) optionType(name string) (pricing.OptionType, error) {
	return pricing.ToOptionType(name, p[name])
}

func (p params) has(name string) bool {
	v, ok := p[name]
	return ok && v != nil
}

// merge 预设参数打底，请求参数覆盖
func merge(base, override map[string]any) params {
	out := make(params, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

// optionParams 读取期权定价参数
// withSteps 为 false 时 N 可以不给 (闭式解)
func (p params) optionParams(withSteps bool) (pricing.PricingParameters, error) {
	var (
		out pricing.PricingParameters
		err error
	)
	if out.S, err = p.real("S"); err != nil {
		return out, err
	}
	if out.K, err = p.real("K"); err != nil {
		return out, err
	}
	if out.T, err = p.real("T"); err != nil {
		return out, err
	}
	if out.R, err = p.real("r"); err != nil {
		return out, err
	}
	if out.Sigma, err = p.real("sigma"); err != nil {
		return out, err
	}
	if withSteps || p.has("N") {
		if out.N, err = p.steps("N"); err != nil {
			return out, err
		}
	}
	if out.Type, err = p.optionType("option_type"); err != nil {
		return out, err
	}
	return out, nil
}
