// 文件: pkg/valuation/kafka_bridge.go
// Kafka 估值桥接
//
// 消费 valuation_requests，每条请求产生一条结果写入 valuation_results
// 结果 key 为请求 ID，调用方按 key 关联

package valuation

import (
	"context"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"

	"quant.com/pkg/kafka"
)

const (
	DefaultRequestTopic = "valuation_requests"
	DefaultResultTopic  = "valuation_results"
)

// Sender 结果发送方，*kafka.Producer 实现了它
type Sender interface {
	Send(msg kafka.Message) error
}

// KafkaBridge 请求 topic 到结果 topic 的桥接
type KafkaBridge struct {
	engine      *Engine
	sender      Sender
	resultTopic string
	log         logrus.FieldLogger
}

// NewKafkaBridge 创建桥接
func NewKafkaBridge(engine *Engine, sender Sender, resultTopic string, log logrus.FieldLogger) *KafkaBridge {
	if resultTopic == "" {
		resultTopic = DefaultResultTopic
	}
	return &KafkaBridge{
		engine:      engine,
		sender:      sender,
		resultTopic: resultTopic,
		log:         log.WithField("component", "kafka-bridge"),
	}
}

// Handle 处理一条请求消息，签名符合 kafka.MessageHandler
// 请求里没有 ID 时用消息 key 作为 ID
func (b *KafkaBridge) Handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var res Result
	req, err := DecodeRequest(msg.Value)
	if err != nil {
		id := string(msg.Key)
		if id == "" {
			id = b.engine.ids.NextID()
		}
		res = Result{ID: id, Error: &ErrorBody{Kind: "invalid_type", Message: err.Error()}}
	} else {
		if req.ID == "" && len(msg.Key) > 0 {
			req.ID = string(msg.Key)
		}
		res = b.engine.Evaluate(ctx, req)
	}
	return b.sender.Send(resultMessage{topic: b.resultTopic, result: res})
}

// Run 启动消费，直到 ctx 取消
func (b *KafkaBridge) Run(ctx context.Context, cfg kafka.ConsumerConfig) error {
	consumer, err := kafka.NewConsumer(cfg, b.Handle, b.log)
	if err != nil {
		return err
	}
	consumer.Start(ctx)
	b.log.WithField("topics", cfg.Topics).Info("bridge started")

	<-ctx.Done()
	return consumer.Stop()
}
