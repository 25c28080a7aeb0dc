// 文件: cmd/pricer/main.go
// 衍生品估值命令行
//
// 用法:
//
//	pricer binomial --S 100 --K 100 --T 1 --r 0.05 --sigma 0.2 --N 100 --type call
//	pricer forward --preset forward-1y --T 2
//	pricer curve --preset binomial-atm-call --out ./curves
//	pricer serve --config pricer.yaml

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"quant.com/pkg/config"
	"quant.com/pkg/idgen"
	"quant.com/pkg/logger"
	pnats "quant.com/pkg/nats"
	"quant.com/pkg/preset"
	"quant.com/pkg/pricing"
	"quant.com/pkg/valuation"
)

// app 命令之间共享的运行时
type app struct {
	configPath string
	envFile    string
	remote     bool
	jsonOut    bool

	cfg     config.Config
	log     *logrus.Logger
	ids     *idgen.Generator
	presets preset.Repository
	engine  *valuation.Engine
	client  *valuation.NatsClient

	closers []func()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := &app{}
	err := a.rootCommand().ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "pricer",
		Short:         "Derivative valuation toolkit: binomial options, forwards, parity, FRA, interest",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context())
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			a.close()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before QUANT_* overrides")
	root.PersistentFlags().BoolVar(&a.remote, "remote", false, "send requests to the NATS valuation service instead of pricing locally")
	root.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "print results as JSON")

	root.AddCommand(
		a.binomialCommand(),
		a.blackScholesCommand(),
		a.forwardCommand(),
		a.parityCommand(),
		a.fraCommand(),
		a.interestCommand(),
		a.curveCommand(),
		a.datasetCommand(),
		a.presetCommand(),
		a.serveCommand(),
	)
	return root
}

// setup 读取配置，组装预设存储和估值引擎
func (a *app) setup(ctx context.Context) error {
	cfg, err := config.Load(a.configPath, a.envFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logger.New(cfg.Log)

	compounding, err := cfg.Compounding()
	if err != nil {
		return err
	}
	if a.ids, err = idgen.New(cfg.NodeID); err != nil {
		return err
	}
	if a.presets, err = a.openPresets(ctx); err != nil {
		return err
	}
	a.engine = valuation.NewEngine(pricing.NewPricer(compounding), a.presets, a.ids, a.log)

	if a.remote {
		conn, err := pnats.Connect(cfg.NATS.URL, "pricer-cli", a.log)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, conn.Close)
		a.client = valuation.NewNatsClient(conn, cfg.NATS.Subject)
	}
	return nil
}

// evaluate 本地计算或经 NATS 远程计算
func (a *app) evaluate(ctx context.Context, req valuation.Request) (valuation.Result, error) {
	if a.client != nil {
		ctx, cancel := context.WithTimeout(ctx, a.cfg.NATS.Timeout)
		defer cancel()
		return a.client.Evaluate(ctx, req)
	}
	return a.engine.Evaluate(ctx, req), nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// resultError 结果里的错误转成命令退出错误
func resultError(res valuation.Result) error {
	if res.Error == nil {
		return nil
	}
	if res.Error.Field != "" {
		return fmt.Errorf("%s (%s): %s", res.Error.Kind, res.Error.Field, res.Error.Message)
	}
	return fmt.Errorf("%s: %s", res.Error.Kind, res.Error.Message)
}
