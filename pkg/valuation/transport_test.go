package valuation

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quant.com/pkg/kafka"
	"quant.com/pkg/logger"
	"quant.com/pkg/pricing"
)

// recordingSender 记录发送的消息
type recordingSender struct {
	mu   sync.Mutex
	msgs []kafka.Message
}

func (s *recordingSender) Send(msg kafka.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
	return nil
}

func decodeResult(t *testing.T, msg kafka.Message) Result {
	t.Helper()
	data, err := msg.Value()
	require.NoError(t, err)
	var res Result
	require.NoError(t, json.Unmarshal(data, &res))
	return res
}

func TestKafkaBridge_Handle(t *testing.T) {
	sender := &recordingSender{}
	bridge := NewKafkaBridge(newTestEngine(t, pricing.Continuous), sender, "", logger.Discard())
	ctx := context.Background()

	require.NoError(t, bridge.Handle(ctx, &sarama.ConsumerMessage{
		Key:   []byte("order-7"),
		Value: []byte(`{"kind":"forward","params":{"S":100,"r":0.05,"T":1}}`),
	}))
	require.NoError(t, bridge.Handle(ctx, &sarama.ConsumerMessage{
		Key:   []byte("order-8"),
		Value: []byte(`{"kind":"forward","params":{"S":"abc","r":0.05,"T":1}}`),
	}))
	require.NoError(t, bridge.Handle(ctx, &sarama.ConsumerMessage{
		Key:   []byte("order-9"),
		Value: []byte(`garbage`),
	}))

	require.Len(t, sender.msgs, 3)
	for _, m := range sender.msgs {
		assert.Equal(t, DefaultResultTopic, m.Topic())
	}

	ok := decodeResult(t, sender.msgs[0])
	assert.Equal(t, "order-7", sender.msgs[0].Key())
	assert.Equal(t, "order-7", ok.ID)
	assert.InDelta(t, 105.127, ok.Value, 1e-3)

	bad := decodeResult(t, sender.msgs[1])
	require.NotNil(t, bad.Error)
	assert.Equal(t, "invalid_type", bad.Error.Kind)
	assert.Equal(t, "S", bad.Error.Field)

	garbage := decodeResult(t, sender.msgs[2])
	assert.Equal(t, "order-9", garbage.ID)
	require.NotNil(t, garbage.Error)
}

func TestKafkaBridge_WithProducer(t *testing.T) {
	mp := mocks.NewAsyncProducer(t, kafka.DefaultProducerConfig(nil).SaramaConfig())
	mp.ExpectInputWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		assert.Equal(t, "results", msg.Topic)
		return nil
	})
	producer := kafka.WrapProducer(mp, logger.Discard())

	bridge := NewKafkaBridge(newTestEngine(t, pricing.Continuous), producer, "results", logger.Discard())
	require.NoError(t, bridge.Handle(context.Background(), &sarama.ConsumerMessage{
		Value: []byte(`{"id":"abc","preset":"fra-6m"}`),
	}))
	require.NoError(t, producer.Close())
	assert.EqualValues(t, 1, producer.Stats().SentCount)
}

func TestNatsServer_Handle(t *testing.T) {
	srv := NewNatsServer(nil, newTestEngine(t, pricing.Continuous), time.Second, logger.Discard())

	reply, err := srv.handle(context.Background(), []byte(`{"preset":"simple-interest-2y"}`))
	require.NoError(t, err)
	res := reply.(Result)
	require.True(t, res.OK())
	assert.InDelta(t, 1100, res.Value, 1e-9)

	reply, err = srv.handle(context.Background(), []byte(`[1,2`))
	require.NoError(t, err)
	require.NotNil(t, reply.(Result).Error)
}

func TestNatsServer_RoundTrip(t *testing.T) {
	conn, err := nats.Connect(nats.DefaultURL, nats.Timeout(500*time.Millisecond))
	if err != nil {
		t.Skipf("NATS not available: %v", err)
	}
	defer conn.Close()

	srv := NewNatsServer(conn, newTestEngine(t, pricing.Continuous), time.Second, logger.Discard())
	require.NoError(t, srv.Serve("test.valuation.request", ""))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	client := NewNatsClient(conn, "test.valuation.request")
	res, err := client.Evaluate(ctx, Request{Kind: KindFRA, Params: map[string]any{"N": 1_000_000, "R_K": 0.06, "R_F": 0.05, "d": 180}})
	require.NoError(t, err)
	require.True(t, res.OK())
	assert.InDelta(t, 4854.37, res.Value, 0.01)
}

func TestNatsServer_HandleOverflow(t *testing.T) {
	srv := NewNatsServer(nil, newTestEngine(t, pricing.Continuous), time.Second, logger.Discard())

	reply, err := srv.handle(context.Background(),
		[]byte(`{"kind":"simple_interest","params":{"principal":1e308,"annual_rate":10,"time_years":10}}`))
	require.NoError(t, err)
	res := reply.(Result)
	require.NotNil(t, res.Error)
	assert.Equal(t, "invalid_value", res.Error.Kind)

	_, err = json.Marshal(res)
	require.NoError(t, err)
}

func TestKafkaBridge_OverflowStillProducesResult(t *testing.T) {
	sender := &recordingSender{}
	bridge := NewKafkaBridge(newTestEngine(t, pricing.Continuous), sender, "", logger.Discard())

	require.NoError(t, bridge.Handle(context.Background(), &sarama.ConsumerMessage{
		Key:   []byte("order-10"),
		Value: []byte(`{"kind":"forward","params":{"S":1e300,"r":5,"T":100}}`),
	}))
	require.Len(t, sender.msgs, 1)

	res := decodeResult(t, sender.msgs[0])
	assert.Equal(t, "order-10", res.ID)
	require.NotNil(t, res.Error)
	assert.Equal(t, "invalid_value", res.Error.Kind)
}
