package handler

import (
	"context"
	"encoding/json"

	"github.com/palemoky/pinochle/internal/apperrors"
	"github.com/palemoky/pinochle/internal/game"
	"github.com/palemoky/pinochle/internal/protocol"
	"github.com/palemoky/pinochle/internal/protocol/codec"
	"github.com/palemoky/pinochle/internal/protocol/compact"
	"github.com/palemoky/pinochle/internal/types"
)

// --- 完整状态导入导出 ---

// handleGetFullState 导出完整状态，format 为 base64 时使用紧凑编码
func (h *Handler) handleGetFullState(ctx context.Context, client types.ClientInterface, msg *protocol.Message) error {
	payload, err := parse[protocol.GetFullStatePayload](msg)
	if err != nil {
		return err
	}
	r, err := h.rooms.LoadRoom(ctx, h.gameCode(client, payload.Code))
	if err != nil {
		return err
	}
	fs := r.FullState()

	out := protocol.FullStatePayload{Code: r.Code}
	switch payload.Format {
	case "", protocol.FormatJSON:
		out.Format = protocol.FormatJSON
		if out.FullState, err = json.Marshal(fs); err != nil {
			return err
		}
	case protocol.FormatBase64:
		out.Format = protocol.FormatBase64
		if out.Base64, err = compact.EncodeString(fs); err != nil {
			return err
		}
	default:
		return apperrors.ErrInvalidMsg.WithDetail("未知的导出格式 %q", payload.Format)
	}

	client.SendMessage(codec.MustNewMessage(protocol.MsgFullState, out))
	return nil
}

// handleSetFullState 导入完整状态，重放成功后替换（或新建）牌局
func (h *Handler) handleSetFullState(ctx context.Context, client types.ClientInterface, msg *protocol.Message) error {
	payload, err := parse[protocol.SetFullStatePayload](msg)
	if err != nil {
		return err
	}
	fs, err := decodeFullState(payload)
	if err != nil {
		return err
	}

	r, err := h.rooms.RestoreRoom(ctx, payload.Code, fs)
	if err != nil {
		return err
	}
	h.logger.Info("📥 客户端导入牌局", "code", r.Code, "client", client.GetID())
	return h.replyIfUnsubscribed(client, r.Code)
}

func decodeFullState(payload *protocol.SetFullStatePayload) (game.FullState, error) {
	var fs game.FullState
	switch {
	case payload.Base64 != "" && len(payload.FullState) > 0:
		return fs, apperrors.ErrInvalidMsg.WithDetail("full_state 与 base64 只能提供一个")
	case payload.Base64 != "":
		decoded, err := compact.DecodeString(payload.Base64)
		if err != nil {
			return fs, apperrors.ErrInvalidState.WithDetail("%v", err)
		}
		return decoded, nil
	case len(payload.FullState) > 0:
		if err := json.Unmarshal(payload.FullState, &fs); err != nil {
			return fs, apperrors.ErrInvalidState.WithDetail("%v", err)
		}
		return fs, nil
	}
	return fs, apperrors.ErrInvalidMsg.WithDetail("缺少 full_state")
}
