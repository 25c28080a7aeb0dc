// 文件: pkg/pricing/binomial.go
// 二叉树 (CRR) 期权定价

package pricing

import (
	"fmt"
	"math"
)

// latticeFactors 单次定价用到的格点常量
type latticeFactors struct {
	dt   float64 // 单步时长 T/N
	u    float64 // 上涨因子
	d    float64 // 下跌因子 = 1/u
	p    float64 // 风险中性上涨概率
	disc float64 // 单步贴现因子 e^(-r*dt)
}

// BinomialPrice 用重组二叉树计算欧式期权价格
//
// 【模型】
//
//	dt = T / N
//	u  = e^(σ√dt),  d = 1/u
//	p  = (e^(r·dt) - d) / (u - d)
//
// d = 1/u 保证树是重组的: 先涨后跌回到原价，N 步后只有 N+1 个终端节点，而不是 2^N 个。
//
// 【终端节点】
//
//	S_T[j] = S · u^(N-j) · d^j,  j = 0..N
//
// j=0 是一路上涨的路径，j=N 是一路下跌的路径。
//
// 【倒推】
//
//	V[j] = e^(-r·dt) · (p·V[j] + (1-p)·V[j+1])
//
// 每倒推一步数组长度减一，剩下的唯一值就是 0 时刻的价格。
// 贴现和 u/d 的推导都用连续复利，同一次调用内不混用。
//
// 【退化】
// σ = 0 时 u = d = 1，p 的分母为 0；p 落在 [0,1] 之外时模型存在套利。
// 两种情况都返回 ErrModelDegenerate，不返回 NaN 或无意义的数字。
func BinomialPrice(params PricingParameters) (float64, error) {
	if err := params.Validate(); err != nil {
		return 0, err
	}

	f, err := newLatticeFactors(params)
	if err != nil {
		return 0, err
	}

	price := rollback(params, f)
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, degenerateError("N", "lattice values overflowed")
	}
	return price, nil
}

// newLatticeFactors 计算格点常量并检查无套利条件
func newLatticeFactors(params PricingParameters) (latticeFactors, error) {
	if params.Sigma == 0 {
		return latticeFactors{}, degenerateError("sigma", "zero volatility collapses the lattice (u == d)")
	}

	dt := params.T / float64(params.N)
	u := math.Exp(params.Sigma * math.Sqrt(dt))
	d := 1 / u

	// σ 极小时 u、d 在浮点下可能相等，σ 极大时 u 可能溢出
	if !(u > d) || math.IsInf(u, 0) {
		return latticeFactors{}, degenerateError("sigma", fmt.Sprintf("up factor %v does not exceed down factor %v", u, d))
	}

	growth := math.Exp(params.R * dt)
	p := (growth - d) / (u - d)
	if math.IsNaN(p) || p < 0 || p > 1 {
		return latticeFactors{}, degenerateError("r", fmt.Sprintf("risk-neutral probability %v is outside [0,1]", p))
	}

	return latticeFactors{
		dt:   dt,
		u:    u,
		d:    d,
		p:    p,
		disc: math.Exp(-params.R * dt),
	}, nil
}

// rollback 构建终端收益并倒推到 0 时刻
// values 只在本函数内存在，原地覆盖，长度从 N+1 逐步缩到 1
func rollback(params PricingParameters, f latticeFactors) float64 {
	n := params.N
	values := make([]float64, n+1)

	// 1. 终端价格与收益
	for j := 0; j <= n; j++ {
		st := params.S * math.Pow(f.u, float64(n-j)) * math.Pow(f.d, float64(j))
		values[j] = params.Type.Payoff(st, params.K)
	}

	// 2. 倒推
	// 第 step 步有 step+1 个节点，values[j] 依赖旧的 values[j] 和 values[j+1]，
	// j 升序写入不会覆盖还没读的值
	q := 1 - f.p
	for step := n - 1; step >= 0; step-- {
		for j := 0; j <= step; j++ {
			values[j] = f.disc * (f.p*values[j] + q*values[j+1])
		}
	}

	return values[0]
}
