package server

import (
	"encoding/json"
	"net/http"

	"github.com/palemoky/pinochle/internal/protocol"
	"github.com/palemoky/pinochle/internal/protocol/codec"
)

// handleWebSocket 处理 WebSocket 连接，连接存续期间占用一个连接名额
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	clientIP := GetClientIP(r)

	select {
	case s.semaphore <- struct{}{}:
		defer func() { <-s.semaphore }()
	default:
		s.logger.Warn("🚫 达到最大连接数限制", "max", s.maxConnections, "ip", clientIP)
		http.Error(w, "Server Full", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("WebSocket 升级失败", "ip", clientIP, "err", err)
		return
	}

	client := NewClient(s, conn)
	client.IP = clientIP
	s.registerClient(client)

	client.SendMessage(codec.MustNewMessage(protocol.MsgConnected, protocol.ConnectedPayload{
		ClientID: client.ID,
	}))
	s.logger.Info("✅ 客户端已连接", "client", client.ID, "ip", clientIP)

	go client.WritePump()
	client.ReadPump(r.Context())
}

// healthResponse /health 返回内容
type healthResponse struct {
	Status      string `json:"status"`
	Online      int    `json:"online"`
	Games       int    `json:"games"`
	ActiveGames int    `json:"active_games"`
	Redis       bool   `json:"redis"`
}

// handleHealth 健康检查接口
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:      "ok",
		Online:      s.GetOnlineCount(),
		Games:       s.roomManager.RoomCount(),
		ActiveGames: s.roomManager.GetActiveGamesCount(),
	}
	status := http.StatusOK
	if s.redis != nil {
		if err := s.redis.Ping(r.Context()).Err(); err != nil {
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
		} else {
			resp.Redis = true
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// registerClient 注册客户端
func (s *Server) registerClient(client *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[client.ID] = client
}

// unregisterClient 注销客户端
func (s *Server) unregisterClient(client *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	if _, ok := s.clients[client.ID]; ok {
		delete(s.clients, client.ID)
		s.logger.Info("❌ 客户端已断开", "client", client.ID)
	}
}
