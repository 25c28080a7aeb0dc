// 文件: pkg/pricing/curve.go
// 敏感性曲线
//
// 每条曲线是一个 (x, y) 序列，渲染交给调用方
// 默认 100 个点，区间与各计算页面一致

package pricing

import "math"

// CurvePoints 默认采样点数
const CurvePoints = 100

// Point 曲线上的一个点
type Point struct {
	X float64 `json:"x" csv:"x"`
	Y float64 `json:"y" csv:"y"`
}

// Curve 一条带坐标轴说明的曲线
type Curve struct {
	Name   string  `json:"name"`
	XLabel string  `json:"x_label"`
	YLabel string  `json:"y_label"`
	Points []Point `json:"points"`
}

// Linspace 闭区间 [lo, hi] 上等距取 n 个点 (n >= 2)，首尾精确等于 lo、hi
func Linspace(lo, hi float64, n int) []float64 {
	if n < 2 {
		return []float64{lo}
	}
	xs := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range xs {
		xs[i] = lo + float64(i)*step
	}
	xs[n-1] = hi
	return xs
}

// sample 在 xs 上逐点求值，任一点出错即整体失败
func sample(xs []float64, fn func(x float64) (float64, error)) ([]Point, error) {
	points := make([]Point, 0, len(xs))
	for _, x := range xs {
		y, err := fn(x)
		if err != nil {
			return nil, err
		}
		points = append(points, Point{X: x, Y: y})
	}
	return points, nil
}

// BinomialSpotCurve 期权价格对标的价格的敏感性，S ∈ [0.5S, 1.5S]
func BinomialSpotCurve(params PricingParameters) (Curve, error) {
	if err := params.Validate(); err != nil {
		return Curve{}, err
	}
	points, err := sample(Linspace(params.S*0.5, params.S*1.5, CurvePoints), func(s float64) (float64, error) {
		p := params
		p.S = s
		return BinomialPrice(p)
	})
	if err != nil {
		return Curve{}, err
	}
	return Curve{
		Name:   params.Type.String() + " option price",
		XLabel: "Stock Price",
		YLabel: "Option Price",
		Points: points,
	}, nil
}

// ForwardTimeCurve 远期价格随期限变化，T ∈ [0, maxYears]
func (p Pricer) ForwardTimeCurve(spot, rate, maxYears float64) (Curve, error) {
	if err := requirePositive("T", maxYears); err != nil {
		return Curve{}, err
	}
	points, err := sample(Linspace(0, maxYears, CurvePoints), func(t float64) (float64, error) {
		return p.ForwardPrice(spot, rate, t)
	})
	if err != nil {
		return Curve{}, err
	}
	return Curve{
		Name:   "forward price (" + p.Compounding.String() + ")",
		XLabel: "Time to Expiration (years)",
		YLabel: "Forward Price",
		Points: points,
	}, nil
}

// ForwardSpotCurve 远期价格随现价变化，S ∈ [0.5S, 1.5S]
func (p Pricer) ForwardSpotCurve(spot, rate, years float64) (Curve, error) {
	if err := requirePositive("S", spot); err != nil {
		return Curve{}, err
	}
	points, err := sample(Linspace(spot*0.5, spot*1.5, CurvePoints), func(s float64) (float64, error) {
		return p.ForwardPrice(s, rate, years)
	})
	if err != nil {
		return Curve{}, err
	}
	return Curve{
		Name:   "forward price (" + p.Compounding.String() + ")",
		XLabel: "Spot Price",
		YLabel: "Forward Price",
		Points: points,
	}, nil
}

// FRARateCurve 结算金额随参考利率变化，R_K ∈ [max(0, R_K-width), R_K+width]
func FRARateCurve(params FRAParameters, width float64) (Curve, error) {
	if err := requirePositive("width", width); err != nil {
		return Curve{}, err
	}
	if _, err := FRASettlement(params); err != nil {
		return Curve{}, err
	}
	lo := math.Max(0, params.RefRate-width)
	hi := params.RefRate + width
	points, err := sample(Linspace(lo, hi, CurvePoints), func(rk float64) (float64, error) {
		p := params
		p.RefRate = rk
		return FRASettlement(p)
	})
	if err != nil {
		return Curve{}, err
	}
	return Curve{
		Name:   "FRA settlement",
		XLabel: "Reference Rate (R_K)",
		YLabel: "Settlement Amount",
		Points: points,
	}, nil
}

// PayoffCurves 看涨、看跌到期收益，S ∈ [0.5S, 1.5S]
func PayoffCurves(spot, strike float64) ([]Curve, error) {
	if err := requirePositive("S", spot); err != nil {
		return nil, err
	}
	if err := requireNonNegative("K", strike); err != nil {
		return nil, err
	}
	xs := Linspace(spot*0.5, spot*1.5, CurvePoints)
	curves := make([]Curve, 0, 2)
	for _, typ := range []OptionType{Call, Put} {
		points := make([]Point, len(xs))
		for i, s := range xs {
			points[i] = Point{X: s, Y: typ.Payoff(s, strike)}
		}
		curves = append(curves, Curve{
			Name:   typ.String() + " payoff",
			XLabel: "Stock Price",
			YLabel: "Option Payoff",
			Points: points,
		})
	}
	return curves, nil
}
