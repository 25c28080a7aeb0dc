package pricing

import "math"

// BlackScholesPrice 欧式期权的 Black-Scholes 闭式解 (无分红)
// 作为二叉树 N→∞ 的收敛目标，params.N 被忽略
//
//	Call = S·N(d1) - K·e^(-rT)·N(d2)
//	Put  = K·e^(-rT)·N(-d2) - S·N(-d1)
//	d1   = [ln(S/K) + (r + σ²/2)T] / (σ√T),  d2 = d1 - σ√T
func BlackScholesPrice(params PricingParameters) (float64, error) {
	if err := validateBSInputs(params); err != nil {
		return 0, err
	}
	S, K, r, sigma, T := params.S, params.K, params.R, params.Sigma, params.T

	// 到期时就是内在价值
	if T == 0 {
		return params.Type.Payoff(S, K), nil
	}

	// 波动率为 0 时价格是确定的: 对贴现后的行权价取内在价值
	if sigma == 0 {
		return finiteResult("r", params.Type.Payoff(S, K*math.Exp(-r*T)))
	}

	d1 := calcD1(S, K, r, sigma, T)
	d2 := d1 - sigma*math.Sqrt(T)

	var price float64
	if params.Type == Put {
		price = K*math.Exp(-r*T)*normCDF(-d2) - S*normCDF(-d1)
	} else {
		price = S*normCDF(d1) - K*math.Exp(-r*T)*normCDF(d2)
	}
	return finiteResult("r", price)
}

// validateBSInputs 闭式解允许 T = 0 和 σ = 0
func validateBSInputs(params PricingParameters) error {
	if err := requirePositive("S", params.S); err != nil {
		return err
	}
	if err := requirePositive("K", params.K); err != nil {
		return err
	}
	if err := requireNonNegative("T", params.T); err != nil {
		return err
	}
	if err := requireFinite("r", params.R); err != nil {
		return err
	}
	if err := requireNonNegative("sigma", params.Sigma); err != nil {
		return err
	}
	if !params.Type.Valid() {
		return valueError("option_type", "must be call or put")
	}
	return nil
}

// calcD1 d1 = [ln(S/K) + (r + 0.5σ²)T] / (σ√T)
func calcD1(S, K, r, sigma, T float64) float64 {
	return (math.Log(S/K) + (r+0.5*sigma*sigma)*T) / (sigma * math.Sqrt(T))
}

// normCDF 标准正态分布 CDF
// N(x) = 0.5 * (1 + erf(x / √2))
func normCDF(x float64) float64 {
	return 0.5 * (1.0 + math.Erf(x/math.Sqrt2))
}
