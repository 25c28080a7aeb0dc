// 文件: pkg/nats/requester.go
// NATS 请求方

package nats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// Requester 在已有连接上发 JSON 请求
// 连接归调用方所有，Requester 不负责关闭
type Requester struct {
	conn *nats.Conn
}

// NewRequester 创建请求方
func NewRequester(conn *nats.Conn) *Requester {
	return &Requester{conn: conn}
}

// Request 发送 JSON 请求并把应答解码到 out
// 超时由 ctx 控制
func (p *Requester) Request(ctx context.Context, subject string, req, out any) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	msg, err := p.conn.RequestWithContext(ctx, subject, body)
	if err != nil {
		return fmt.Errorf("request %s: %w", subject, err)
	}
	if err := json.Unmarshal(msg.Data, out); err != nil {
		return fmt.Errorf("decode reply from %s: %w", subject, err)
	}
	return nil
}
