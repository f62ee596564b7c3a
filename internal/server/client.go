package server

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/palemoky/pinochle/internal/protocol"
	"github.com/palemoky/pinochle/internal/protocol/codec"
)

const (
	// 写入超时
	writeWait = 10 * time.Second

	// 读取超时（pong 等待时间）
	pongWait = 60 * time.Second

	// ping 发送间隔（必须小于 pongWait）
	pingPeriod = (pongWait * 9) / 10

	// 消息最大大小，导入完整状态时消息较大
	maxMessageSize = 64 * 1024

	// 超速警告次数超过该值时断开连接
	maxRateWarnings = 5
)

// Client 一个 WebSocket 连接
type Client struct {
	ID string
	IP string

	server *Server
	conn   *websocket.Conn
	send   chan []byte

	mu     sync.RWMutex
	game   string // 当前订阅的牌局
	closed bool
}

// NewClient 创建新客户端
func NewClient(s *Server, conn *websocket.Conn) *Client {
	return &Client{
		ID:     uuid.NewString(),
		server: s,
		conn:   conn,
		send:   make(chan []byte, 256),
	}
}

// ReadPump 从 WebSocket 读取消息，阻塞到连接断开
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.handleDisconnect()
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.server.logger.Warn("读取错误", "client", c.ID, "err", err)
			}
			return
		}

		allowed, warning := c.server.messageLimiter.AllowMessage(c.ID)
		if !allowed {
			c.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeRateLimit, "消息发送过于频繁"))
			if c.server.messageLimiter.GetWarningCount(c.ID) > maxRateWarnings {
				c.server.logger.Warn("🚫 客户端多次超速，断开连接", "client", c.ID, "ip", c.IP)
				return
			}
			continue
		}
		if warning {
			c.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeRateLimit, "请求过于频繁，请放慢速度"))
		}

		msg, err := codec.Decode(data)
		if err != nil {
			c.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeInvalidMsg, err.Error()))
			continue
		}
		c.server.handler.Handle(ctx, c, msg)
		codec.Release(msg)
	}
}

// WritePump 向 WebSocket 写入消息并定期发送 ping
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendMessage 发送消息给客户端，缓冲区满时断开连接
func (c *Client) SendMessage(msg *protocol.Message) {
	data, err := codec.Encode(msg)
	if err != nil {
		c.server.logger.Error("消息编码错误", "type", msg.Type, "err", err)
		return
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
		c.server.logger.Warn("客户端发送缓冲区已满", "client", c.ID)
		go c.Close()
	}
}

// handleDisconnect 连接断开后取消订阅并注销
func (c *Client) handleDisconnect() {
	c.server.roomManager.UnsubscribeAll(c)
	c.server.messageLimiter.RemoveClient(c.ID)
	c.server.unregisterClient(c)
	c.Close()
}

// Close 关闭发送通道，WritePump 随后关闭连接
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *Client) GetID() string {
	return c.ID
}

// SetGame 设置客户端订阅的牌局
func (c *Client) SetGame(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.game = code
}

// GetGame 获取客户端订阅的牌局
func (c *Client) GetGame() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.game
}
