// 文件: pkg/valuation/engine.go
// 估值引擎
//
// 输入 Request → 输出 Result。
// 参数校验、预设合并、分发到 pricing、附带曲线都在这里完成；
// 传输层 (CLI / NATS / Kafka) 只负责编解码。

package valuation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"quant.com/pkg/idgen"
	"quant.com/pkg/preset"
	"quant.com/pkg/pricing"
)

// 曲线默认区间，与各计算页面一致
const (
	defaultForwardMaxT = 2.0  // 远期价格-期限曲线 T ∈ [0, 2]
	defaultFRAWidth    = 0.02 // FRA 曲线 R_K ± 0.02
)

// outcome 单次计算的产出
type outcome struct {
	value  float64
	leg    string
	curves []pricing.Curve
}

type evaluator func(e *Engine, p params, withCurve bool) (outcome, error)

// Engine 估值引擎，无状态，可并发调用
type Engine struct {
	pricer  pricing.Pricer
	presets preset.Repository // 可以为 nil
	ids     *idgen.Generator
	log     logrus.FieldLogger

	evaluators map[Kind]evaluator
}

// NewEngine 创建引擎
// pricer 决定部署的复利约定；presets 为 nil 时引用预设的请求报 invalid_value
func NewEngine(pricer pricing.Pricer, presets preset.Repository, ids *idgen.Generator, log logrus.FieldLogger) *Engine {
	return &Engine{
		pricer:  pricer,
		presets: presets,
		ids:     ids,
		log:     log.WithField("component", "valuation"),
		evaluators: map[Kind]evaluator{
			KindBinomial:         evalBinomial,
			KindBlackScholes:     evalBlackScholes,
			KindForward:          evalForward,
			KindParity:           evalParity,
			KindFRA:              evalFRA,
			KindSimpleInterest:   evalSimpleInterest,
			KindCompoundInterest: evalCompoundInterest,
		},
	}
}

// Pricer 部署使用的定价器
func (e *Engine) Pricer() pricing.Pricer { return e.pricer }

// Evaluate 执行一次估值
// 所有错误都放进 Result.Error，不会 panic 也不返回 error
func (e *Engine) Evaluate(ctx context.Context, req Request) Result {
	start := time.Now()
	if req.ID == "" {
		req.ID = e.ids.NextID()
	}
	res := Result{ID: req.ID, Kind: req.Kind}

	out, kind, err := e.evaluate(ctx, req)
	res.Kind = kind
	if err != nil {
		res.Error = NewErrorBody(err)
	} else {
		res.Value = out.value
		res.Leg = out.leg
		res.Curves = out.curves
	}
	res.ElapsedMicros = time.Since(start).Microseconds()

	entry := e.log.WithFields(logrus.Fields{
		"id":         res.ID,
		"kind":       res.Kind,
		"elapsed_us": res.ElapsedMicros,
	})
	if err != nil {
		entry.WithFields(logrus.Fields{
			"error_kind": res.Error.Kind,
			"field":      res.Error.Field,
		}).Warn(res.Error.Message)
	} else {
		entry.WithField("value", res.Value).Info("evaluated")
	}
	return res
}

func (e *Engine) evaluate(ctx context.Context, req Request) (outcome, Kind, error) {
	if err := ctx.Err(); err != nil {
		return outcome{}, req.Kind, err
	}

	kind := req.Kind
	var base map[string]any
	if req.Preset != "" {
		p, err := e.lookupPreset(ctx, req.Preset)
		if err != nil {
			return outcome{}, kind, err
		}
		switch {
		case kind == "":
			kind = Kind(p.Kind)
		case string(kind) != p.Kind:
			return outcome{}, kind, &pricing.ParamError{
				Field:  "kind",
				Kind:   pricing.ErrInvalidValue,
				Reason: fmt.Sprintf("preset %q is for %s, request asks for %s", p.Name, p.Kind, kind),
			}
		}
		base = p.Params
	}

	eval, ok := e.evaluators[kind]
	if !ok {
		return outcome{}, kind, &pricing.ParamError{
			Field:  "kind",
			Kind:   pricing.ErrInvalidValue,
			Reason: fmt.Sprintf("unsupported valuation kind %q", kind),
		}
	}

	out, err := eval(e, merge(base, req.Params), req.Curve)
	if err == nil {
		err = out.checkFinite()
	}
	return out, kind, err
}

// checkFinite 结果要能编码成 JSON，NaN / Inf 不能出现在值或曲线里
func (o outcome) checkFinite() error {
	bad := func(v float64) bool { return math.IsNaN(v) || math.IsInf(v, 0) }
	if bad(o.value) {
		return &pricing.ParamError{Field: "value", Kind: pricing.ErrInvalidValue, Reason: "result is not a finite number"}
	}
	for _, c := range o.curves {
		for _, pt := range c.Points {
			if bad(pt.X) || bad(pt.Y) {
				return &pricing.ParamError{Field: "curve", Kind: pricing.ErrInvalidValue, Reason: fmt.Sprintf("%s has a non-finite point", c.Name)}
			}
		}
	}
	return nil
}

func (e *Engine) lookupPreset(ctx context.Context, name string) (*preset.Preset, error) {
	if e.presets == nil {
		return nil, &pricing.ParamError{Field: "preset", Kind: pricing.ErrInvalidValue, Reason: "presets are not configured"}
	}
	p, err := e.presets.Get(ctx, name)
	if err != nil {
		if errors.Is(err, preset.ErrPresetNotFound) {
			return nil, &pricing.ParamError{Field: "preset", Kind: pricing.ErrInvalidValue, Reason: fmt.Sprintf("preset %q not found", name)}
		}
		return nil, fmt.Errorf("load preset %s: %w", name, err)
	}
	return p, nil
}

// =============================================================================
// 各类型的计算
// =============================================================================

func evalBinomial(_ *Engine, p params, withCurve bool) (outcome, error) {
	in, err := p.optionParams(true)
	if err != nil {
		return outcome{}, err
	}
	v, err := pricing.BinomialPrice(in)
	if err != nil {
		return outcome{}, err
	}
	out := outcome{value: v}
	if withCurve {
		c, err := pricing.BinomialSpotCurve(in)
		if err != nil {
			return outcome{}, err
		}
		out.curves = []pricing.Curve{c}
	}
	return out, nil
}

func evalBlackScholes(_ *Engine, p params, _ bool) (outcome, error) {
	in, err := p.optionParams(false)
	if err != nil {
		return outcome{}, err
	}
	v, err := pricing.BlackScholesPrice(in)
	return outcome{value: v}, err
}

func evalForward(e *Engine, p params, withCurve bool) (outcome, error) {
	s, err := p.real("S")
	if err != nil {
		return outcome{}, err
	}
	r, err := p.real("r")
	if err != nil {
		return outcome{}, err
	}
	t, err := p.real("T")
	if err != nil {
		return outcome{}, err
	}
	v, err := e.pricer.ForwardPrice(s, r, t)
	if err != nil {
		return outcome{}, err
	}
	out := outcome{value: v}
	if !withCurve {
		return out, nil
	}

	maxT, err := p.optReal("max_T", defaultForwardMaxT)
	if err != nil {
		return outcome{}, err
	}
	byTime, err := e.pricer.ForwardTimeCurve(s, r, maxT)
	if err != nil {
		return outcome{}, err
	}
	bySpot, err := e.pricer.ForwardSpotCurve(s, r, t)
	if err != nil {
		return outcome{}, err
	}
	out.curves = []pricing.Curve{byTime, bySpot}
	return out, nil
}

func evalParity(_ *Engine, p params, withCurve bool) (outcome, error) {
	var (
		in  pricing.ParityInputs
		err error
	)
	if in.S, err = p.real("S"); err != nil {
		return outcome{}, err
	}
	if in.K, err = p.real("K"); err != nil {
		return outcome{}, err
	}
	if in.T, err = p.real("T"); err != nil {
		return outcome{}, err
	}
	if in.R, err = p.real("r"); err != nil {
		return outcome{}, err
	}
	if p.has("call_price") {
		c, err := p.real("call_price")
		if err != nil {
			return outcome{}, err
		}
		in.CallPrice = &c
	}
	if p.has("put_price") {
		v, err := p.real("put_price")
		if err != nil {
			return outcome{}, err
		}
		in.PutPrice = &v
	}

	leg, v, err := pricing.ResolveParity(in)
	if err != nil {
		return outcome{}, err
	}
	out := outcome{value: v, leg: leg.String()}
	if withCurve {
		if out.curves, err = pricing.PayoffCurves(in.S, in.K); err != nil {
			return outcome{}, err
		}
	}
	return out, nil
}

func evalFRA(_ *Engine, p params, withCurve bool) (outcome, error) {
	var (
		in  pricing.FRAParameters
		err error
	)
	if in.Notional, err = p.real("N"); err != nil {
		return outcome{}, err
	}
	if in.RefRate, err = p.real("R_K"); err != nil {
		return outcome{}, err
	}
	if in.FixedRate, err = p.real("R_F"); err != nil {
		return outcome{}, err
	}
	if in.Days, err = p.real("d"); err != nil {
		return outcome{}, err
	}
	v, err := pricing.FRASettlement(in)
	if err != nil {
		return outcome{}, err
	}
	out := outcome{value: v}
	if withCurve {
		width, err := p.optReal("curve_width", defaultFRAWidth)
		if err != nil {
			return outcome{}, err
		}
		c, err := pricing.FRARateCurve(in, width)
		if err != nil {
			return outcome{}, err
		}
		out.curves = []pricing.Curve{c}
	}
	return out, nil
}

func evalSimpleInterest(_ *Engine, p params, _ bool) (outcome, error) {
	principal, rate, years, err := interestInputs(p)
	if err != nil {
		return outcome{}, err
	}
	v, err := pricing.SimpleInterestFV(principal, rate, years)
	return outcome{value: v}, err
}

func evalCompoundInterest(_ *Engine, p params, _ bool) (outcome, error) {
	principal, rate, years, err := interestInputs(p)
	if err != nil {
		return outcome{}, err
	}
	if !p.has("periods_per_year") {
		v, err := pricing.ContinuousFV(principal, rate, years)
		return outcome{value: v}, err
	}
	m, err := p.steps("periods_per_year")
	if err != nil {
		return outcome{}, err
	}
	v, err := pricing.CompoundInterestFV(principal, rate, years, m)
	return outcome{value: v}, err
}

func interestInputs(p params) (principal, rate, years float64, err error) {
	if principal, err = p.real("principal"); err != nil {
		return
	}
	if rate, err = p.real("annual_rate"); err != nil {
		return
	}
	years, err = p.real("time_years")
	return
}
