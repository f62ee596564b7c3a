package server

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/coder/quartz"
)

// GetClientIP 获取客户端真实 IP，优先使用代理头
func GetClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		// 取第一个 IP（最原始的客户端）
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// MessageRateLimiter 消息速率限制器（针对已连接的客户端，按秒计数）
type MessageRateLimiter struct {
	limits map[string]*messageRate
	mu     sync.Mutex
	clock  quartz.Clock

	maxMessagesPerSecond int
	warningThreshold     int // 警告阈值
}

type messageRate struct {
	count     int
	lastReset time.Time
	warnings  int
}

// NewMessageRateLimiter 创建消息速率限制器
func NewMessageRateLimiter(maxPerSecond int, clock quartz.Clock) *MessageRateLimiter {
	return &MessageRateLimiter{
		limits:               make(map[string]*messageRate),
		clock:                clock,
		maxMessagesPerSecond: maxPerSecond,
		warningThreshold:     maxPerSecond * 3 / 4,
	}
}

// AllowMessage 报告消息是否放行，以及是否接近限制
func (ml *MessageRateLimiter) AllowMessage(clientID string) (allowed bool, warning bool) {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	now := ml.clock.Now()
	rate, exists := ml.limits[clientID]
	if !exists {
		ml.limits[clientID] = &messageRate{count: 1, lastReset: now}
		return true, false
	}

	// 如果超过 1 秒，重置计数
	if now.Sub(rate.lastReset) >= time.Second {
		rate.count = 1
		rate.lastReset = now
		return true, false
	}

	rate.count++
	if rate.count > ml.maxMessagesPerSecond {
		rate.warnings++
		return false, true
	}
	return true, rate.count > ml.warningThreshold
}

// GetWarningCount 获取超速次数
func (ml *MessageRateLimiter) GetWarningCount(clientID string) int {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	if rate, ok := ml.limits[clientID]; ok {
		return rate.warnings
	}
	return 0
}

// RemoveClient 连接断开时清理
func (ml *MessageRateLimiter) RemoveClient(clientID string) {
	ml.mu.Lock()
	defer ml.mu.Unlock()
	delete(ml.limits, clientID)
}
