package server

import (
	"context"
	"runtime"
	"time"
)

const monitorInterval = 30 * time.Second

// monitorStats 定期记录服务器状态
func (s *Server) monitorStats(ctx context.Context) {
	ticker := s.clock.NewTicker(monitorInterval, "server", "monitor")
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			s.logger.Info("📊 [监控]",
				"online", s.GetOnlineCount(),
				"connections", len(s.semaphore),
				"max_connections", s.maxConnections,
				"games", s.roomManager.RoomCount(),
				"active_games", s.roomManager.GetActiveGamesCount(),
				"goroutines", runtime.NumGoroutine(),
				"mem_mb", float64(m.Alloc)/1024/1024,
			)
		}
	}
}

// shutdown 停止接受新连接并关闭已有连接；牌局由 RoomManager.Run 在退出时保存
func (s *Server) shutdown(srv interface{ Shutdown(context.Context) error }) error {
	s.logger.Info("🛑 正在关闭服务器", "online", s.GetOnlineCount())

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := srv.Shutdown(ctx)

	// Shutdown 不会关闭已升级的 WebSocket 连接
	s.clientsMu.RLock()
	for _, client := range s.clients {
		client.Close()
	}
	s.clientsMu.RUnlock()
	return err
}

// GetOnlineCount 获取在线连接数
func (s *Server) GetOnlineCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}
