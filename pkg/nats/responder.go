// 文件: pkg/nats/responder.go
// NATS 应答方
//
// 每个订阅的回调串行执行；需要横向扩展时用队列订阅，由 NATS 负载均衡

package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// Handler 处理一条请求，返回的值被序列化为 JSON 应答
type Handler func(ctx context.Context, data []byte) (any, error)

// ErrorReply handler 出错时的应答体
type ErrorReply struct {
	Error string `json:"error"`
}

// Responder NATS 请求应答
type Responder struct {
	conn    *nats.Conn
	handler Handler
	timeout time.Duration
	log     logrus.FieldLogger

	mu   sync.Mutex
	subs []*nats.Subscription
}

// NewResponder 创建应答方
// timeout 是单条请求的处理上限，0 表示不限
func NewResponder(conn *nats.Conn, handler Handler, timeout time.Duration, log logrus.FieldLogger) *Responder {
	return &Responder{
		conn:    conn,
		handler: handler,
		timeout: timeout,
		log:     log.WithField("component", "nats-responder"),
	}
}

// Serve 订阅主题；queue 非空时使用队列订阅
func (r *Responder) Serve(subject, queue string) error {
	cb := func(msg *nats.Msg) {
		if msg.Reply == "" {
			r.log.WithField("subject", msg.Subject).Warn("request without reply subject dropped")
			return
		}
		if err := msg.Respond(r.dispatch(msg.Data)); err != nil {
			r.log.WithField("subject", msg.Subject).WithError(err).Error("respond failed")
		}
	}

	var (
		sub *nats.Subscription
		err error
	)
	if queue != "" {
		sub, err = r.conn.QueueSubscribe(subject, queue, cb)
	} else {
		sub, err = r.conn.Subscribe(subject, cb)
	}
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}

	r.mu.Lock()
	r.subs = append(r.subs, sub)
	r.mu.Unlock()
	r.log.WithFields(logrus.Fields{"subject": subject, "queue": queue}).Info("serving")
	return nil
}

// dispatch 调用 handler 并编码应答，不依赖连接
func (r *Responder) dispatch(data []byte) []byte {
	ctx := context.Background()
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	reply, err := r.handler(ctx, data)
	if err != nil {
		r.log.WithError(err).Warn("handler failed")
		reply = ErrorReply{Error: err.Error()}
	}

	body, err := json.Marshal(reply)
	if err != nil {
		r.log.WithError(err).Error("encode reply failed")
		body, _ = json.Marshal(ErrorReply{Error: "encode reply: " + err.Error()})
	}
	return body
}

// Close 退订并等待进行中的回调结束
func (r *Responder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, sub := range r.subs {
		if err := sub.Drain(); err != nil {
			return err
		}
	}
	r.subs = nil
	return nil
}

// =============================================================================
// 便捷方法
// =============================================================================

// UnmarshalJSON 反序列化 JSON
func UnmarshalJSON[T any](data []byte) (*T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return &v, nil
}
