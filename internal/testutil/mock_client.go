//go:build !production

package testutil

import (
	"sync"

	"github.com/palemoky/pinochle/internal/protocol"
)

// SimpleClient 记录收到的消息，不使用 testify（用于只检查消息内容的测试）
type SimpleClient struct {
	ID string

	mu       sync.Mutex
	game     string
	messages []*protocol.Message
	closed   bool
}

// NewSimpleClient 创建 SimpleClient
func NewSimpleClient(id string) *SimpleClient {
	return &SimpleClient{ID: id}
}

func (c *SimpleClient) GetID() string { return c.ID }

func (c *SimpleClient) GetGame() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.game
}

func (c *SimpleClient) SetGame(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.game = code
}

func (c *SimpleClient) SendMessage(msg *protocol.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, msg)
}

func (c *SimpleClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// Messages 返回收到的消息副本
func (c *SimpleClient) Messages() []*protocol.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*protocol.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Last 返回最后一条消息，没有时返回 nil
func (c *SimpleClient) Last() *protocol.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.messages) == 0 {
		return nil
	}
	return c.messages[len(c.messages)-1]
}

// OfType 返回指定类型的消息
func (c *SimpleClient) OfType(t protocol.MessageType) []*protocol.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []*protocol.Message
	for _, msg := range c.messages {
		if msg.Type == t {
			out = append(out, msg)
		}
	}
	return out
}

// Reset 清空已收到的消息
func (c *SimpleClient) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = nil
}

// Closed 报告 Close 是否被调用过
func (c *SimpleClient) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
