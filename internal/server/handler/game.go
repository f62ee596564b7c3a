package handler

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/palemoky/pinochle/internal/apperrors"
	"github.com/palemoky/pinochle/internal/game"
	"github.com/palemoky/pinochle/internal/game/room"
	"github.com/palemoky/pinochle/internal/protocol"
	"github.com/palemoky/pinochle/internal/protocol/codec"
	"github.com/palemoky/pinochle/internal/types"
)

// --- 牌局操作 ---

// handleCreateGame 创建牌局，创建者自动订阅
func (h *Handler) handleCreateGame(ctx context.Context, client types.ClientInterface, msg *protocol.Message) error {
	payload, err := parse[protocol.CreateGamePayload](msg)
	if err != nil {
		return err
	}
	r, err := h.rooms.CreateRoom(ctx, payload.Code, payload.Seed, payload.PlayerNames)
	if err != nil {
		return err
	}
	if _, err := h.rooms.Subscribe(ctx, r.Code, client); err != nil {
		return err
	}

	client.SendMessage(codec.MustNewMessage(protocol.MsgGameCreated, protocol.GameCreatedPayload{
		Code: r.Code,
		Seed: r.FullState().Seed,
	}))
	return sendState(client, r)
}

// handleJoinGame 订阅牌局，之后每次状态变化都会收到快照
func (h *Handler) handleJoinGame(ctx context.Context, client types.ClientInterface, msg *protocol.Message) error {
	payload, err := parse[protocol.GamePayload](msg)
	if err != nil {
		return err
	}
	r, err := h.rooms.Subscribe(ctx, payload.Code, client)
	if err != nil {
		return err
	}
	return sendState(client, r)
}

// handleLeaveGame 取消订阅
func (h *Handler) handleLeaveGame(_ context.Context, client types.ClientInterface, _ *protocol.Message) error {
	if client.GetGame() == "" {
		return apperrors.ErrNotInGame
	}
	h.rooms.Unsubscribe(client)
	return nil
}

// handleGetState 获取公开快照，不需要订阅
func (h *Handler) handleGetState(ctx context.Context, client types.ClientInterface, msg *protocol.Message) error {
	r, err := h.loadRoom(ctx, client, msg)
	if err != nil {
		return err
	}
	return sendState(client, r)
}

// handleGetHand 获取座位手牌
func (h *Handler) handleGetHand(ctx context.Context, client types.ClientInterface, msg *protocol.Message) error {
	payload, err := parse[protocol.GetHandPayload](msg)
	if err != nil {
		return err
	}
	if !payload.Seat.Valid() {
		return apperrors.ErrInvalidSeat
	}
	r, err := h.rooms.LoadRoom(ctx, h.gameCode(client, payload.Code))
	if err != nil {
		return err
	}
	client.SendMessage(codec.MustNewMessage(protocol.MsgHand, protocol.HandPayload{
		Code:  r.Code,
		Seat:  payload.Seat,
		Cards: r.Hand(payload.Seat),
	}))
	return nil
}

// handleAct 提交动作；动作类型为 "bot" 时由机器人替当前座位出手。
// 动作非法时先回复未改变的快照，再回复错误
func (h *Handler) handleAct(ctx context.Context, client types.ClientInterface, msg *protocol.Message) error {
	payload, err := parse[protocol.ActPayload](msg)
	if err != nil {
		return err
	}
	code := h.gameCode(client, payload.Code)

	var env game.ActionEnvelope
	if err := json.Unmarshal(payload.Action, &env); err != nil {
		return apperrors.ErrInvalidMsg.WithDetail("action: %v", err)
	}

	var snap game.Snapshot
	if string(env.Type) == protocol.ActionBot {
		snap, err = h.rooms.ApplyBot(ctx, code)
	} else {
		action, convErr := env.Action()
		if convErr != nil {
			return apperrors.ErrInvalidMsg.WithDetail("%v", convErr)
		}
		snap, err = h.rooms.Apply(ctx, code, payload.Seat, action)
	}
	if errors.Is(err, apperrors.ErrIllegalAction) && snap.Phase != nil {
		if reply, msgErr := room.NewStateMessage(code, snap); msgErr == nil {
			client.SendMessage(reply)
		}
		return err
	}
	if err != nil {
		return err
	}
	return h.replyIfUnsubscribed(client, code)
}

// handleSetName 修改座位名称
func (h *Handler) handleSetName(ctx context.Context, client types.ClientInterface, msg *protocol.Message) error {
	payload, err := parse[protocol.SetNamePayload](msg)
	if err != nil {
		return err
	}
	code := h.gameCode(client, payload.Code)
	if _, err := h.rooms.SetName(ctx, code, payload.Seat, payload.Name); err != nil {
		return err
	}
	return h.replyIfUnsubscribed(client, code)
}

// handleDeleteGame 删除牌局，订阅者（包括请求方）收到 game_closed
func (h *Handler) handleDeleteGame(ctx context.Context, client types.ClientInterface, msg *protocol.Message) error {
	payload, err := parse[protocol.GamePayload](msg)
	if err != nil {
		return err
	}
	code := h.gameCode(client, payload.Code)
	if code == "" {
		return apperrors.ErrNotInGame
	}
	subscribed := client.GetGame() == code
	if err := h.rooms.DeleteRoom(ctx, code); err != nil {
		return err
	}
	if !subscribed {
		client.SendMessage(codec.MustNewMessage(protocol.MsgGameClosed, protocol.GamePayload{Code: code}))
	}
	return nil
}

// replyIfUnsubscribed 订阅者已经通过广播收到快照，其他人单独回复
func (h *Handler) replyIfUnsubscribed(client types.ClientInterface, code string) error {
	if client.GetGame() == code {
		return nil
	}
	r := h.rooms.GetRoom(code)
	if r == nil {
		return apperrors.ErrGameNotFound
	}
	return sendState(client, r)
}

// gameCode 请求未指定牌局号时使用客户端当前订阅的牌局
func (h *Handler) gameCode(client types.ClientInterface, code string) string {
	if code != "" {
		return code
	}
	return client.GetGame()
}

func (h *Handler) loadRoom(ctx context.Context, client types.ClientInterface, msg *protocol.Message) (*room.Room, error) {
	payload, err := parse[protocol.GamePayload](msg)
	if err != nil {
		return nil, err
	}
	code := h.gameCode(client, payload.Code)
	if code == "" {
		return nil, apperrors.ErrNotInGame
	}
	return h.rooms.LoadRoom(ctx, code)
}

func sendState(client types.ClientInterface, r *room.Room) error {
	msg, err := r.StateMessage()
	if err != nil {
		return err
	}
	client.SendMessage(msg)
	return nil
}
