package pricing

import "math"

// 欧式期权平价关系:
//
//	C + K*e^(-rT) = P + S
//
// 给定 S、K、T、r 和其中一个期权价格，推出另一个
// 两个方向是严格的代数逆运算，call -> put -> call 在浮点误差内还原

// CallFromPut 由看跌价格推看涨价格
// C = P + S - K*e^(-rT)
func CallFromPut(put, spot, strike, years, rate float64) (float64, error) {
	if err := validateParity(spot, strike, years, rate); err != nil {
		return 0, err
	}
	if err := requireNonNegative("put_price", put); err != nil {
		return 0, err
	}
	return finiteResult("put_price", put+spot-strike*math.Exp(-rate*years))
}

// PutFromCall 由看涨价格推看跌价格
// P = C - S + K*e^(-rT)
func PutFromCall(call, spot, strike, years, rate float64) (float64, error) {
	if err := validateParity(spot, strike, years, rate); err != nil {
		return 0, err
	}
	if err := requireNonNegative("call_price", call); err != nil {
		return 0, err
	}
	return finiteResult("call_price", call-spot+strike*math.Exp(-rate*years))
}

// ResolveParity 推导缺失的一腿
// 同时给出或都不给期权价格都是取值错误
func ResolveParity(in ParityInputs) (Leg, float64, error) {
	switch {
	case in.CallPrice != nil && in.PutPrice != nil:
		return 0, 0, valueError("call_price", "exactly one of call_price and put_price must be supplied, got both")
	case in.CallPrice == nil && in.PutPrice == nil:
		return 0, 0, valueError("call_price", "exactly one of call_price and put_price must be supplied, got neither")
	case in.CallPrice != nil:
		put, err := PutFromCall(*in.CallPrice, in.S, in.K, in.T, in.R)
		if err != nil {
			return 0, 0, err
		}
		return LegPut, put, nil
	default:
		call, err := CallFromPut(*in.PutPrice, in.S, in.K, in.T, in.R)
		if err != nil {
			return 0, 0, err
		}
		return LegCall, call, nil
	}
}

func validateParity(spot, strike, years, rate float64) error {
	if err := requireNonNegative("S", spot); err != nil {
		return err
	}
	if err := requireNonNegative("K", strike); err != nil {
		return err
	}
	if err := requireNonNegative("T", years); err != nil {
		return err
	}
	return requireFinite("r", rate)
}
