// 文件: pkg/kafka/producer.go
// Kafka 生产者
//
// 特点:
// - 异步发送，估值结果按请求 ID 分区
// - 发送失败只记录日志和计数，不阻塞调用方
// - 优雅关闭

package kafka

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"
)

// ErrProducerClosed 生产者已关闭
var ErrProducerClosed = errors.New("producer is closed")

// =============================================================================
// Message 接口 - 所有消息类型需实现
// =============================================================================

// Message 通用消息接口
type Message interface {
	Topic() string          // 目标 topic
	Key() string            // 分区 key (相同 key 保证顺序)
	Value() ([]byte, error) // 消息体 (序列化后的数据)
}

// =============================================================================
// Producer 配置
// =============================================================================

// ProducerConfig 生产者配置
type ProducerConfig struct {
	Brokers        []string      // Kafka broker 地址列表
	RequiredAcks   int           // 确认模式: 0=不等待, 1=leader确认, -1=全部确认
	Compression    string        // 压缩方式: none, gzip, snappy, lz4, zstd
	FlushFrequency time.Duration // 刷新间隔
	FlushMessages  int           // 批量消息数
	MaxRetries     int           // 最大重试次数
}

// DefaultProducerConfig 默认配置
// 估值结果是小消息、逐条应答，刷新间隔比批量写库短
func DefaultProducerConfig(brokers []string) ProducerConfig {
	return ProducerConfig{
		Brokers:        brokers,
		RequiredAcks:   1,
		Compression:    "snappy",
		FlushFrequency: 10 * time.Millisecond,
		FlushMessages:  1,
		MaxRetries:     3,
	}
}

// SaramaConfig 转换成 sarama 配置
func (cfg ProducerConfig) SaramaConfig() *sarama.Config {
	sc := sarama.NewConfig()

	switch cfg.RequiredAcks {
	case 0:
		sc.Producer.RequiredAcks = sarama.NoResponse
	case -1:
		sc.Producer.RequiredAcks = sarama.WaitForAll
	default:
		sc.Producer.RequiredAcks = sarama.WaitForLocal
	}

	switch cfg.Compression {
	case "gzip":
		sc.Producer.Compression = sarama.CompressionGZIP
	case "snappy":
		sc.Producer.Compression = sarama.CompressionSnappy
	case "lz4":
		sc.Producer.Compression = sarama.CompressionLZ4
	case "zstd":
		sc.Producer.Compression = sarama.CompressionZSTD
	default:
		sc.Producer.Compression = sarama.CompressionNone
	}

	sc.Producer.Flush.Frequency = cfg.FlushFrequency
	sc.Producer.Flush.Messages = cfg.FlushMessages
	sc.Producer.Retry.Max = cfg.MaxRetries

	// 异步模式，只回收错误
	sc.Producer.Return.Successes = false
	sc.Producer.Return.Errors = true
	return sc
}

// =============================================================================
// Producer 生产者
// =============================================================================

// Producer Kafka 生产者
type Producer struct {
	producer sarama.AsyncProducer
	log      logrus.FieldLogger

	sentCount  atomic.Int64
	errorCount atomic.Int64

	closed atomic.Bool
	mu     sync.RWMutex // 保护 Input() 与 Close 的竞争
	wg     sync.WaitGroup
}

// NewProducer 连接 broker 并创建生产者
func NewProducer(cfg ProducerConfig, log logrus.FieldLogger) (*Producer, error) {
	producer, err := sarama.NewAsyncProducer(cfg.Brokers, cfg.SaramaConfig())
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return WrapProducer(producer, log), nil
}

// WrapProducer 包装已有的 sarama 生产者 (测试里传 mocks)
func WrapProducer(producer sarama.AsyncProducer, log logrus.FieldLogger) *Producer {
	p := &Producer{
		producer: producer,
		log:      log.WithField("component", "kafka-producer"),
	}
	p.wg.Add(1)
	go p.handleErrors()
	return p
}

// Send 异步发送消息
func (p *Producer) Send(msg Message) error {
	data, err := msg.Value()
	if err != nil {
		return fmt.Errorf("serialize message: %w", err)
	}
	return p.SendRaw(msg.Topic(), msg.Key(), data)
}

// SendRaw 发送原始消息
func (p *Producer) SendRaw(topic, key string, value []byte) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed.Load() {
		return ErrProducerClosed
	}

	p.producer.Input() <- &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(value),
	}
	p.sentCount.Add(1)
	return nil
}

func (p *Producer) handleErrors() {
	defer p.wg.Done()

	for err := range p.producer.Errors() {
		p.errorCount.Add(1)
		p.log.WithFields(logrus.Fields{
			"topic": err.Msg.Topic,
		}).WithError(err.Err).Error("send failed")
	}
}

// ProducerStats 统计信息
type ProducerStats struct {
	SentCount  int64
	ErrorCount int64
}

// Stats 获取统计信息
func (p *Producer) Stats() ProducerStats {
	return ProducerStats{
		SentCount:  p.sentCount.Load(),
		ErrorCount: p.errorCount.Load(),
	}
}

// Close 关闭生产者，等待错误通道排空
func (p *Producer) Close() error {
	p.mu.Lock()
	if p.closed.Swap(true) {
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()

	err := p.producer.Close()
	p.wg.Wait()
	return err
}
