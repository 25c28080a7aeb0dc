// 文件: pkg/nats/conn.go
// NATS 连接
// 轻量级请求/应答通道，本地开发默认开启

package nats

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// Connect 建立连接，断线后无限重连
func Connect(url, name string, log logrus.FieldLogger) (*nats.Conn, error) {
	log = log.WithFields(logrus.Fields{"component": "nats", "url": url})

	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.Timeout(2*time.Second),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.WithError(err).Warn("disconnected")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.WithField("server", c.ConnectedUrl()).Info("reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return conn, nil
}
