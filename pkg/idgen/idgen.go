// 文件: pkg/idgen/idgen.go
// 请求 ID 生成器 (雪花算法)
// 使用开源库: github.com/bwmarrin/snowflake

package idgen

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
)

// Generator 绑定一个雪花节点
// 同一部署内每个进程应使用不同的 nodeID
type Generator struct {
	node *snowflake.Node
}

// New 创建生成器
// nodeID: 节点ID (0-1023)
func New(nodeID int64) (*Generator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("snowflake node %d: %w", nodeID, err)
	}
	return &Generator{node: node}, nil
}

// NextID 生成十进制字符串形式的 ID，可直接用作 Kafka key
func (g *Generator) NextID() string {
	return g.node.Generate().String()
}

// NextInt64 生成数值形式的 ID
func (g *Generator) NextInt64() int64 {
	return g.node.Generate().Int64()
}

var (
	defaultGen  *Generator
	defaultErr  error
	defaultOnce sync.Once
)

// Init 初始化进程级默认生成器，只有第一次调用生效
func Init(nodeID int64) error {
	defaultOnce.Do(func() {
		defaultGen, defaultErr = New(nodeID)
	})
	return defaultErr
}

// Default 返回默认生成器
// 未初始化则使用默认节点0
func Default() *Generator {
	if err := Init(0); err != nil {
		panic(err)
	}
	return defaultGen
}
