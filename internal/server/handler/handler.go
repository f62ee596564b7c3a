// Package handler 把客户端消息分发到牌局管理器，并把结果或错误回复给客户端。
package handler

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/palemoky/pinochle/internal/apperrors"
	"github.com/palemoky/pinochle/internal/game/room"
	"github.com/palemoky/pinochle/internal/protocol"
	"github.com/palemoky/pinochle/internal/protocol/codec"
	"github.com/palemoky/pinochle/internal/server/storage"
	"github.com/palemoky/pinochle/internal/types"
)

// Leaderboard 排行榜查询，*storage.LeaderboardManager 满足该接口
type Leaderboard interface {
	GetLeaderboard(ctx context.Context, board string, limit int) ([]storage.LeaderboardEntry, error)
	GetPlayerRank(ctx context.Context, name string) (int64, error)
}

// Deps 处理器依赖
type Deps struct {
	Rooms       *room.RoomManager
	Leaderboard Leaderboard // 未启用 Redis 时为 nil
	Clock       quartz.Clock
	Logger      *log.Logger
}

// Handler 消息处理器
type Handler struct {
	rooms       *room.RoomManager
	leaderboard Leaderboard
	clock       quartz.Clock
	logger      *log.Logger
	handlers    map[protocol.MessageType]handlerFunc
}

// handlerFunc 统一的处理器函数签名，返回的错误会以 error 消息回复给客户端
type handlerFunc func(ctx context.Context, client types.ClientInterface, msg *protocol.Message) error

// NewHandler 创建处理器
func NewHandler(deps Deps) *Handler {
	h := &Handler{
		rooms:       deps.Rooms,
		leaderboard: deps.Leaderboard,
		clock:       deps.Clock,
		logger:      deps.Logger,
	}
	if h.clock == nil {
		h.clock = quartz.NewReal()
	}
	if h.logger == nil {
		h.logger = log.Default()
	}
	h.initHandlers()
	return h
}

// initHandlers 初始化消息处理器映射
func (h *Handler) initHandlers() {
	h.handlers = map[protocol.MessageType]handlerFunc{
		protocol.MsgPing: h.handlePing,

		// 牌局操作
		protocol.MsgCreateGame: h.handleCreateGame,
		protocol.MsgJoinGame:   h.handleJoinGame,
		protocol.MsgLeaveGame:  h.handleLeaveGame,
		protocol.MsgGetState:   h.handleGetState,
		protocol.MsgGetHand:    h.handleGetHand,
		protocol.MsgAct:        h.handleAct,
		protocol.MsgSetName:    h.handleSetName,
		protocol.MsgDeleteGame: h.handleDeleteGame,

		// 牌局记录
		protocol.MsgGetFullState: h.handleGetFullState,
		protocol.MsgSetFullState: h.handleSetFullState,

		// 查询
		protocol.MsgListGames:      h.handleListGames,
		protocol.MsgGetLeaderboard: h.handleGetLeaderboard,
	}
}

// Handle 处理消息
func (h *Handler) Handle(ctx context.Context, client types.ClientInterface, msg *protocol.Message) {
	handler, ok := h.handlers[msg.Type]
	if !ok {
		h.logger.Warn("⚠️ 未知消息类型", "type", msg.Type, "client", client.GetID(), "payload_bytes", len(msg.Payload))
		client.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeInvalidMsg, "未知消息类型: "+string(msg.Type)))
		return
	}

	if err := handler(ctx, client, msg); err != nil {
		h.logError(client, msg, err)
		client.SendMessage(codec.ErrorMessageFrom(err))
	}
}

// logError 非法动作是正常交互，只在 debug 级别记录
func (h *Handler) logError(client types.ClientInterface, msg *protocol.Message, err error) {
	var gameErr *apperrors.GameError
	switch {
	case errors.As(err, &gameErr) && gameErr.Kind == apperrors.KindIllegalAction:
		h.logger.Debug("🚫 非法动作", "type", msg.Type, "client", client.GetID(), "err", err)
	case errors.As(err, &gameErr) && gameErr.Code != protocol.ErrCodeStorage:
		h.logger.Info("⚠️ 请求失败", "type", msg.Type, "client", client.GetID(), "err", err)
	default:
		h.logger.Error("❌ 请求失败", "type", msg.Type, "client", client.GetID(), "err", err)
	}
}

// parse 解析 Payload，格式错误统一转换为 ErrInvalidMsg
func parse[T any](msg *protocol.Message) (*T, error) {
	payload, err := codec.ParsePayload[T](msg)
	if err != nil {
		return nil, apperrors.ErrInvalidMsg.WithDetail("%v", err)
	}
	return payload, nil
}
