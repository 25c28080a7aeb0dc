package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"quant.com/pkg/pricing"
	"quant.com/pkg/valuation"
)

// paramFlag 命令行 flag 与请求参数的对应关系
type paramFlag struct {
	flag  string
	param string
	def   float64
	usage string
}

// formula 一个估值子命令的公共部分
type formula struct {
	kind       valuation.Kind
	preset     string
	optionType string
	sets       map[string]string
	flags      []paramFlag

	// extend 在发送前补充 flag 之外的参数
	extend func(req *valuation.Request) error
}

func (f *formula) bind(fs *pflag.FlagSet, withOptionType bool) {
	for _, pf := range f.flags {
		fs.Float64(pf.flag, pf.def, pf.usage)
	}
	if withOptionType {
		fs.StringVar(&f.optionType, "type", "call", "option type: call or put")
	}
	fs.StringVar(&f.preset, "preset", "", "start from a named preset; only flags given explicitly override it")
	fs.StringToStringVar(&f.sets, "set", nil, "extra parameters as key=value")
}

// request 组装请求
// 没有预设时使用全部 flag (含默认值)；有预设时只使用显式给出的 flag
func (f *formula) request(cmd *cobra.Command) (valuation.Request, error) {
	fs := cmd.Flags()
	params := make(map[string]any)
	for _, pf := range f.flags {
		if f.preset != "" && !fs.Changed(pf.flag) {
			continue
		}
		v, err := fs.GetFloat64(pf.flag)
		if err != nil {
			return valuation.Request{}, err
		}
		params[pf.param] = v
	}
	if fs.Lookup("type") != nil && (f.preset == "" || fs.Changed("type")) {
		params["option_type"] = f.optionType
	}
	for k, v := range f.sets {
		params[k] = parseSetValue(v)
	}

	req := valuation.Request{Preset: f.preset, Params: params}
	if f.preset == "" {
		req.Kind = f.kind
	}
	return req, nil
}

// parseSetValue 数字按数字传，其他按字符串传
func parseSetValue(s string) any {
	if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return v
	}
	return s
}

// run 组装请求、估值、输出
func (a *app) run(cmd *cobra.Command, f *formula) error {
	req, err := f.request(cmd)
	if err != nil {
		return err
	}
	if f.extend != nil {
		if err := f.extend(&req); err != nil {
			return err
		}
	}
	res, err := a.evaluate(cmd.Context(), req)
	if err != nil {
		return err
	}
	if err := resultError(res); err != nil {
		return err
	}
	return a.printResult(cmd.OutOrStdout(), req, res)
}

func (a *app) formulaCommand(use, short string, f *formula, withOptionType bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, f)
		},
	}
	f.bind(cmd.Flags(), withOptionType)
	return cmd
}

// 默认值与各计算页面一致
var optionFlags = []paramFlag{
	{"S", "S", 100, "current stock price"},
	{"K", "K", 100, "strike price"},
	{"T", "T", 1, "time to maturity in years"},
	{"r", "r", 0.05, "risk-free rate (continuously compounded)"},
	{"sigma", "sigma", 0.2, "volatility"},
}

func (a *app) binomialCommand() *cobra.Command {
	f := &formula{
		kind:  valuation.KindBinomial,
		flags: append(append([]paramFlag{}, optionFlags...), paramFlag{"N", "N", 50, "number of lattice steps"}),
	}
	return a.formulaCommand("binomial", "Price a European option on a CRR binomial lattice", f, true)
}

func (a *app) blackScholesCommand() *cobra.Command {
	f := &formula{kind: valuation.KindBlackScholes, flags: optionFlags}
	return a.formulaCommand("blackscholes", "Price a European option with the Black-Scholes formula", f, true)
}

func (a *app) forwardCommand() *cobra.Command {
	f := &formula{
		kind: valuation.KindForward,
		flags: []paramFlag{
			{"S", "S", 100, "current spot price"},
			{"r", "r", 0.05, "risk-free rate"},
			{"T", "T", 1, "time to expiration in years"},
		},
	}
	cmd := a.formulaCommand("forward", "Forward price of a non-dividend asset", f, false)
	cmd.Long = fmt.Sprintf("Forward price of a non-dividend asset. The compounding convention (%s or %s) comes from configuration.",
		pricing.Continuous, pricing.Discrete)
	return cmd
}

func (a *app) parityCommand() *cobra.Command {
	var call, put float64
	f := &formula{
		kind: valuation.KindParity,
		flags: []paramFlag{
			{"S", "S", 100, "current stock price"},
			{"K", "K", 100, "strike price"},
			{"T", "T", 1, "time to maturity in years"},
			{"r", "r", 0.05, "risk-free rate"},
		},
	}
	cmd := a.formulaCommand("parity", "Derive a call from a put (or a put from a call) with put-call parity", f, false)
	cmd.Flags().Float64Var(&call, "call", 0, "known call price")
	cmd.Flags().Float64Var(&put, "put", 0, "known put price")
	f.extend = func(req *valuation.Request) error {
		if cmd.Flags().Changed("call") {
			req.Params["call_price"] = call
		}
		if cmd.Flags().Changed("put") {
			req.Params["put_price"] = put
		}
		return nil
	}
	return cmd
}

func (a *app) fraCommand() *cobra.Command {
	var start, end string
	f := &formula{
		kind: valuation.KindFRA,
		flags: []paramFlag{
			{"notional", "N", 1_000_000, "notional principal"},
			{"ref-rate", "R_K", 0.06, "observed reference rate R_K"},
			{"fixed-rate", "R_F", 0.05, "agreed FRA rate R_F"},
			{"days", "d", 180, "days in the contract period (ACT/360)"},
		},
		extend: func(req *valuation.Request) error {
			if start == "" && end == "" {
				return nil
			}
			days, err := daysBetween(start, end)
			if err != nil {
				return err
			}
			req.Params["d"] = days
			return nil
		},
	}
	cmd := a.formulaCommand("fra", "Settlement amount of a forward rate agreement", f, false)
	cmd.Flags().StringVar(&start, "start", "", "period start date (YYYY-MM-DD), used with --end instead of --days")
	cmd.Flags().StringVar(&end, "end", "", "period end date (YYYY-MM-DD)")
	return cmd
}

// daysBetween 按 ACT 计算计息天数
func daysBetween(start, end string) (float64, error) {
	if start == "" || end == "" {
		return 0, fmt.Errorf("--start and --end must be given together")
	}
	s, err := time.Parse(time.DateOnly, start)
	if err != nil {
		return 0, fmt.Errorf("--start: %w", err)
	}
	e, err := time.Parse(time.DateOnly, end)
	if err != nil {
		return 0, fmt.Errorf("--end: %w", err)
	}
	return pricing.ActualDays(s, e), nil
}

func (a *app) interestCommand() *cobra.Command {
	var (
		periods    int
		continuous bool
	)
	f := &formula{
		kind: valuation.KindSimpleInterest,
		flags: []paramFlag{
			{"principal", "principal", 1000, "principal amount"},
			{"rate", "annual_rate", 0.05, "annual interest rate"},
			{"years", "time_years", 2, "time in years"},
		},
	}
	f.extend = func(req *valuation.Request) error {
		if periods == 0 && !continuous {
			return nil
		}
		if req.Kind != "" {
			req.Kind = valuation.KindCompoundInterest
		}
		if periods > 0 {
			req.Params["periods_per_year"] = periods
		}
		return nil
	}
	cmd := a.formulaCommand("interest", "Future value under simple, compound or continuous interest", f, false)
	cmd.Flags().IntVar(&periods, "periods", 0, "compounding periods per year (0 = simple interest)")
	cmd.Flags().BoolVar(&continuous, "continuous", false, "continuous compounding")
	cmd.MarkFlagsMutuallyExclusive("periods", "continuous")
	return cmd
}
