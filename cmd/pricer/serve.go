package main

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"quant.com/pkg/kafka"
	pnats "quant.com/pkg/nats"
	"quant.com/pkg/valuation"
)

func (a *app) serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve valuation requests over NATS request/reply and a Kafka topic bridge",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.remote {
				return errors.New("--remote cannot be used with serve")
			}
			if !a.cfg.NATS.Enabled && !a.cfg.Kafka.Enabled {
				return errors.New("nothing to serve: enable nats or kafka in the config")
			}

			ctx := cmd.Context()
			g, ctx := errgroup.WithContext(ctx)

			if a.cfg.NATS.Enabled {
				conn, err := pnats.Connect(a.cfg.NATS.URL, fmt.Sprintf("pricer-%d", a.cfg.NodeID), a.log)
				if err != nil {
					return err
				}
				defer conn.Close()

				srv := valuation.NewNatsServer(conn, a.engine, a.cfg.NATS.Timeout, a.log)
				if err := srv.Serve(a.cfg.NATS.Subject, a.cfg.NATS.Queue); err != nil {
					return err
				}
				g.Go(func() error {
					<-ctx.Done()
					return srv.Close()
				})
			}

			if a.cfg.Kafka.Enabled {
				producer, err := kafka.NewProducer(kafka.DefaultProducerConfig(a.cfg.Kafka.Brokers), a.log)
				if err != nil {
					return err
				}
				defer producer.Close()

				bridge := valuation.NewKafkaBridge(a.engine, producer, a.cfg.Kafka.ResultTopic, a.log)
				consumerCfg := kafka.DefaultConsumerConfig(a.cfg.Kafka.Brokers, a.cfg.Kafka.GroupID, a.cfg.Kafka.RequestTopic)
				g.Go(func() error {
					return bridge.Run(ctx, consumerCfg)
				})
			}

			a.log.WithFields(logrus.Fields{
				"node_id":     a.cfg.NodeID,
				"compounding": a.engine.Pricer().Compounding.String(),
				"nats":        a.cfg.NATS.Enabled,
				"kafka":       a.cfg.Kafka.Enabled,
			}).Info("pricer serving, press Ctrl+C to stop")
			return g.Wait()
		},
	}
}
