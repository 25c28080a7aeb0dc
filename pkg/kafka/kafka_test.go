package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quant.com/pkg/logger"
)

type testMessage struct {
	ID     string  `json:"id"`
	Amount float64 `json:"value"`
}

func (m testMessage) Topic() string          { return "valuation_results" }
func (m testMessage) Key() string            { return m.ID }
func (m testMessage) Value() ([]byte, error) { return json.Marshal(m) }

func TestProducer_SendAndStats(t *testing.T) {
	mp := mocks.NewAsyncProducer(t, DefaultProducerConfig(nil).SaramaConfig())
	mp.ExpectInputWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		key, err := msg.Key.Encode()
		if err != nil {
			return err
		}
		if string(key) != "42" {
			return fmt.Errorf("unexpected key %q", key)
		}
		return nil
	})
	mp.ExpectInputAndFail(sarama.ErrOutOfBrokers)

	p := WrapProducer(mp, logger.Discard())
	require.NoError(t, p.Send(testMessage{ID: "42", Amount: 10.45}))
	require.NoError(t, p.SendRaw("valuation_results", "43", []byte(`{}`)))
	require.NoError(t, p.Close())

	stats := p.Stats()
	assert.EqualValues(t, 2, stats.SentCount)
	assert.EqualValues(t, 1, stats.ErrorCount)

	require.ErrorIs(t, p.SendRaw("valuation_results", "44", nil), ErrProducerClosed)
	require.NoError(t, p.Close(), "second close is a no-op")
}

func TestProducerConfig_Sarama(t *testing.T) {
	sc := ProducerConfig{RequiredAcks: -1, Compression: "zstd"}.SaramaConfig()
	assert.Equal(t, sarama.WaitForAll, sc.Producer.RequiredAcks)
	assert.Equal(t, sarama.CompressionZSTD, sc.Producer.Compression)
	assert.True(t, sc.Producer.Return.Errors)
	assert.False(t, sc.Producer.Return.Successes)
}

// fakeSession / fakeClaim 实现 sarama 的会话接口，不需要 broker

type fakeSession struct {
	ctx    context.Context
	mu     sync.Mutex
	marked []int64
}

func (s *fakeSession) Claims() map[string][]int32               { return nil }
func (s *fakeSession) MemberID() string                         { return "member" }
func (s *fakeSession) GenerationID() int32                      { return 1 }
func (s *fakeSession) MarkOffset(string, int32, int64, string)  {}
func (s *fakeSession) Commit()                                  {}
func (s *fakeSession) ResetOffset(string, int32, int64, string) {}
func (s *fakeSession) Context() context.Context                 { return s.ctx }

func (s *fakeSession) MarkMessage(msg *sarama.ConsumerMessage, _ string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marked = append(s.marked, msg.Offset)
}

type fakeClaim struct {
	ch chan *sarama.ConsumerMessage
}

func (c *fakeClaim) Topic() string                            { return "valuation_requests" }
func (c *fakeClaim) Partition() int32                         { return 0 }
func (c *fakeClaim) InitialOffset() int64                     { return 0 }
func (c *fakeClaim) HighWaterMarkOffset() int64               { return 0 }
func (c *fakeClaim) Messages() <-chan *sarama.ConsumerMessage { return c.ch }

func TestGroupHandler_MarksEveryMessage(t *testing.T) {
	var handled []string
	h := NewGroupHandler(func(_ context.Context, msg *sarama.ConsumerMessage) error {
		handled = append(handled, string(msg.Value))
		if string(msg.Value) == "bad" {
			return errors.New("cannot decode")
		}
		return nil
	}, logger.Discard())

	claim := &fakeClaim{ch: make(chan *sarama.ConsumerMessage, 3)}
	claim.ch <- &sarama.ConsumerMessage{Topic: "valuation_requests", Offset: 1, Value: []byte("a")}
	claim.ch <- &sarama.ConsumerMessage{Topic: "valuation_requests", Offset: 2, Value: []byte("bad")}
	claim.ch <- &sarama.ConsumerMessage{Topic: "valuation_requests", Offset: 3, Value: []byte("c")}
	close(claim.ch)

	session := &fakeSession{ctx: context.Background()}
	require.NoError(t, h.ConsumeClaim(session, claim))

	assert.Equal(t, []string{"a", "bad", "c"}, handled)
	assert.Equal(t, []int64{1, 2, 3}, session.marked)
}

func TestGroupHandler_StopsOnSessionEnd(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h := NewGroupHandler(func(context.Context, *sarama.ConsumerMessage) error { return nil }, logger.Discard())
	claim := &fakeClaim{ch: make(chan *sarama.ConsumerMessage)}
	require.NoError(t, h.ConsumeClaim(&fakeSession{ctx: ctx}, claim))
}
