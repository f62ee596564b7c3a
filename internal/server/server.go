// Package server 提供 Pinochle 牌局的 WebSocket 服务：连接管理、消息分发与生命周期。
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/palemoky/pinochle/internal/config"
	"github.com/palemoky/pinochle/internal/game/room"
	"github.com/palemoky/pinochle/internal/server/handler"
	"github.com/palemoky/pinochle/internal/server/storage"
)

const shutdownTimeout = 10 * time.Second

// Server WebSocket 服务器
type Server struct {
	config *config.Config
	logger *log.Logger
	clock  quartz.Clock

	redis       *redis.Client // 未启用 Redis 时为 nil
	roomManager *room.RoomManager
	handler     *handler.Handler

	upgrader       websocket.Upgrader
	messageLimiter *MessageRateLimiter

	clients   map[string]*Client
	clientsMu sync.RWMutex

	// 连接控制
	maxConnections int
	semaphore      chan struct{} // 信号量控制并发连接数
}

// NewServer 创建服务器实例；启用 Redis 时会先检查连接
func NewServer(cfg *config.Config, logger *log.Logger) (*Server, error) {
	rules, err := cfg.Rules.Rules()
	if err != nil {
		return nil, err
	}

	s := &Server{
		config: cfg,
		logger: logger,
		clock:  quartz.NewReal(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients:        make(map[string]*Client),
		maxConnections: cfg.Server.MaxConnections,
		semaphore:      make(chan struct{}, cfg.Server.MaxConnections),
	}
	s.messageLimiter = NewMessageRateLimiter(cfg.Server.MessageRate, s.clock)

	roomOpts := room.Options{
		Clock:           s.clock,
		Logger:          logger.WithPrefix("room"),
		Rules:           rules,
		RoomTimeout:     cfg.Game.RoomTimeoutDuration(),
		CleanupInterval: cfg.Game.CleanupIntervalDuration(),
		PersistTimeout:  cfg.Game.PersistTimeoutDuration(),
	}
	handlerDeps := handler.Deps{
		Clock:  s.clock,
		Logger: logger.WithPrefix("handler"),
	}

	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("redis 连接失败: %w", err)
		}
		s.redis = rdb

		store := storage.NewRedisStore(rdb)
		if codes, err := store.ListGameCodes(ctx); err != nil {
			logger.Warn("⚠️ 读取已保存牌局失败", "err", err)
		} else {
			logger.Info("📦 Redis 中已保存的牌局", "count", len(codes))
		}

		leaderboard := storage.NewLeaderboardManager(rdb, s.clock)
		roomOpts.Store = store
		roomOpts.Leaderboard = leaderboard
		handlerDeps.Leaderboard = leaderboard
		logger.Info("🗄️ 已连接 Redis", "addr", cfg.Redis.Addr)
	} else {
		logger.Warn("⚠️ 未启用 Redis，牌局只保存在内存中，排行榜不可用")
	}

	s.roomManager = room.NewRoomManager(roomOpts)
	handlerDeps.Rooms = s.roomManager
	s.handler = handler.NewHandler(handlerDeps)

	logger.Info("🔒 连接配置", "max_connections", cfg.Server.MaxConnections, "messages_per_second", cfg.Server.MessageRate)
	return s, nil
}

// Routes 返回 HTTP 路由
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Run 启动服务器并阻塞到 ctx 取消；关闭时断开所有连接并保存牌局
func (s *Server) Run(ctx context.Context) error {
	addr := s.config.Server.Addr()
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("🚀 服务器启动", "addr", "ws://"+addr+"/ws")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return s.roomManager.Run(gctx)
	})
	g.Go(func() error {
		s.monitorStats(gctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return s.shutdown(srv)
	})

	err := g.Wait()
	if s.redis != nil {
		_ = s.redis.Close()
	}
	s.logger.Info("👋 服务器已关闭")
	return err
}
