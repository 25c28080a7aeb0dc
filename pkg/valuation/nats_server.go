package valuation

import (
	"context"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	pnats "quant.com/pkg/nats"
)

// DefaultSubject 估值请求主题
const DefaultSubject = "valuation.request"

// NatsServer 在 NATS 上提供请求/应答估值
type NatsServer struct {
	engine    *Engine
	responder *pnats.Responder
}

// NewNatsServer 创建服务，timeout 为单条请求上限
func NewNatsServer(conn *nats.Conn, engine *Engine, timeout time.Duration, log logrus.FieldLogger) *NatsServer {
	s := &NatsServer{engine: engine}
	s.responder = pnats.NewResponder(conn, s.handle, timeout, log)
	return s
}

// Serve 开始监听；queue 非空时多个实例分摊请求
func (s *NatsServer) Serve(subject, queue string) error {
	if subject == "" {
		subject = DefaultSubject
	}
	return s.responder.Serve(subject, queue)
}

// Close 停止监听
func (s *NatsServer) Close() error {
	return s.responder.Close()
}

// handle 解码失败也以 Result 应答，调用方只需处理一种应答结构
func (s *NatsServer) handle(ctx context.Context, data []byte) (any, error) {
	req, err := DecodeRequest(data)
	if err != nil {
		return Result{ID: s.engine.ids.NextID(), Error: &ErrorBody{Kind: "invalid_type", Message: err.Error()}}, nil
	}
	return s.engine.Evaluate(ctx, req), nil
}

// NatsClient 估值请求方
type NatsClient struct {
	req     *pnats.Requester
	subject string
}

// NewNatsClient 创建请求方
func NewNatsClient(conn *nats.Conn, subject string) *NatsClient {
	if subject == "" {
		subject = DefaultSubject
	}
	return &NatsClient{req: pnats.NewRequester(conn), subject: subject}
}

// Evaluate 发送请求并等待结果
func (c *NatsClient) Evaluate(ctx context.Context, req Request) (Result, error) {
	var res Result
	if err := c.req.Request(ctx, c.subject, req, &res); err != nil {
		return Result{}, err
	}
	return res, nil
}
