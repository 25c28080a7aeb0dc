package pricing

import "time"

// DayCountBasis FRA 只支持 ACT/360
const DayCountBasis = 360.0

// FRASettlement 远期利率协议到期结算金额
//
//	Settlement = N * (R_K - R_F) * (d/360) / (1 + R_K * d/360)
//
// 分母是按参考利率对结算金额贴现 (结算在计息期开始时支付)
// 正数: 参考利率高于约定利率，买方收款；负数: 买方付款
func FRASettlement(p FRAParameters) (float64, error) {
	if err := requirePositive("N", p.Notional); err != nil {
		return 0, err
	}
	if err := requireFinite("R_K", p.RefRate); err != nil {
		return 0, err
	}
	if err := requireFinite("R_F", p.FixedRate); err != nil {
		return 0, err
	}
	if err := requirePositive("d", p.Days); err != nil {
		return 0, err
	}

	frac := p.Days / DayCountBasis
	discount := 1 + p.RefRate*frac
	if discount <= 0 {
		return 0, valueError("R_K", "discount factor 1 + R_K*d/360 must be positive")
	}
	return finiteResult("N", p.Notional*(p.RefRate-p.FixedRate)*frac/discount)
}

// ActualDays 两个日期之间的实际天数 (ACT)
// 按日历日计算，忽略时分秒
func ActualDays(start, end time.Time) float64 {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return e.Sub(s).Hours() / 24
}
