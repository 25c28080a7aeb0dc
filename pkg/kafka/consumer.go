// 文件: pkg/kafka/consumer.go
// Kafka 消费者组
//
// 每个分区的消息串行处理，处理失败只记录日志，offset 照常提交

package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"
)

// ConsumerConfig 消费者配置
type ConsumerConfig struct {
	Brokers       []string // Kafka broker 地址列表
	GroupID       string   // 消费者组 ID
	Topics        []string // 订阅的 topics
	OffsetInitial int64    // 初始 offset: -1=newest, -2=oldest
	AutoCommit    bool     // 是否自动提交 offset
}

// DefaultConsumerConfig 默认配置
func DefaultConsumerConfig(brokers []string, groupID string, topics ...string) ConsumerConfig {
	return ConsumerConfig{
		Brokers:       brokers,
		GroupID:       groupID,
		Topics:        topics,
		OffsetInitial: sarama.OffsetNewest,
		AutoCommit:    true,
	}
}

// MessageHandler 消息处理函数
type MessageHandler func(ctx context.Context, msg *sarama.ConsumerMessage) error

// Consumer Kafka 消费者
type Consumer struct {
	client  sarama.ConsumerGroup
	config  ConsumerConfig
	handler MessageHandler
	log     logrus.FieldLogger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewConsumer 创建消费者
func NewConsumer(cfg ConsumerConfig, handler MessageHandler, log logrus.FieldLogger) (*Consumer, error) {
	sc := sarama.NewConfig()
	sc.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	sc.Consumer.Offsets.Initial = cfg.OffsetInitial
	sc.Consumer.Offsets.AutoCommit.Enable = cfg.AutoCommit

	client, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, sc)
	if err != nil {
		return nil, fmt.Errorf("create consumer group: %w", err)
	}

	return &Consumer{
		client:  client,
		config:  cfg,
		handler: handler,
		log:     log.WithFields(logrus.Fields{"component": "kafka-consumer", "group": cfg.GroupID}),
	}, nil
}

// Start 启动消费，ctx 取消或 Stop 时退出
func (c *Consumer) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		handler := NewGroupHandler(c.handler, c.log)
		for {
			// rebalance 后 Consume 返回，需要重新加入
			err := c.client.Consume(ctx, c.config.Topics, handler)
			if err != nil && !errors.Is(err, sarama.ErrClosedConsumerGroup) {
				c.log.WithError(err).Error("consume failed")
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()
}

// Stop 停止消费
func (c *Consumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	return c.client.Close()
}

// =============================================================================
// Sarama ConsumerGroupHandler 实现
// =============================================================================

// GroupHandler 把每条消息交给 MessageHandler
type GroupHandler struct {
	handler MessageHandler
	log     logrus.FieldLogger
}

var _ sarama.ConsumerGroupHandler = (*GroupHandler)(nil)

// NewGroupHandler 创建 handler
func NewGroupHandler(handler MessageHandler, log logrus.FieldLogger) *GroupHandler {
	return &GroupHandler{handler: handler, log: log}
}

func (h *GroupHandler) Setup(_ sarama.ConsumerGroupSession) error   { return nil }
func (h *GroupHandler) Cleanup(_ sarama.ConsumerGroupSession) error { return nil }

func (h *GroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			if err := h.handler(session.Context(), msg); err != nil {
				h.log.WithFields(logrus.Fields{
					"topic":     msg.Topic,
					"partition": msg.Partition,
					"offset":    msg.Offset,
				}).WithError(err).Error("handle failed")
			}
			session.MarkMessage(msg, "")
		case <-session.Context().Done():
			return nil
		}
	}
}
