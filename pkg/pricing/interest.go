package pricing

import "math"

// SimpleInterestFV 单利终值
// FV = P * (1 + r * t)，只对本金计息
// 三个参数都必须是非负实数
func SimpleInterestFV(principal, annualRate, years float64) (float64, error) {
	if err := requireNonNegative("principal", principal); err != nil {
		return 0, err
	}
	if err := requireNonNegative("annual_rate", annualRate); err != nil {
		return 0, err
	}
	if err := requireNonNegative("time_years", years); err != nil {
		return 0, err
	}
	return finiteResult("time_years", principal*(1+annualRate*years))
}

// CompoundInterestFV 离散复利终值
// FV = P * (1 + r/m)^(m*t)，m 为每年计息次数
func CompoundInterestFV(principal, annualRate, years float64, periodsPerYear int) (float64, error) {
	if err := requireNonNegative("principal", principal); err != nil {
		return 0, err
	}
	if err := requireNonNegative("annual_rate", annualRate); err != nil {
		return 0, err
	}
	if err := requireNonNegative("time_years", years); err != nil {
		return 0, err
	}
	if err := requireSteps("periods_per_year", periodsPerYear); err != nil {
		return 0, err
	}
	m := float64(periodsPerYear)
	return finiteResult("time_years", principal*math.Pow(1+annualRate/m, m*years))
}

// ContinuousFV 连续复利终值
// FV = P * e^(r*t)
func ContinuousFV(principal, annualRate, years float64) (float64, error) {
	if err := requireNonNegative("principal", principal); err != nil {
		return 0, err
	}
	if err := requireNonNegative("annual_rate", annualRate); err != nil {
		return 0, err
	}
	if err := requireNonNegative("time_years", years); err != nil {
		return 0, err
	}
	return finiteResult("time_years", principal*math.Exp(annualRate*years))
}
