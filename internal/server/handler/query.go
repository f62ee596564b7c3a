package handler

import (
	"context"
	"fmt"

	"github.com/palemoky/pinochle/internal/apperrors"
	"github.com/palemoky/pinochle/internal/protocol"
	"github.com/palemoky/pinochle/internal/protocol/codec"
	"github.com/palemoky/pinochle/internal/server/storage"
	"github.com/palemoky/pinochle/internal/types"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 50
)

// handlePing 处理心跳消息
func (h *Handler) handlePing(_ context.Context, client types.ClientInterface, msg *protocol.Message) error {
	payload, err := parse[protocol.PingPayload](msg)
	if err != nil {
		return err
	}
	client.SendMessage(codec.MustNewMessage(protocol.MsgPong, protocol.PongPayload{
		ClientTimestamp: payload.Timestamp,
		ServerTimestamp: h.clock.Now().UnixMilli(),
	}))
	return nil
}

// handleListGames 获取内存中的牌局列表
func (h *Handler) handleListGames(_ context.Context, client types.ClientInterface, _ *protocol.Message) error {
	client.SendMessage(codec.MustNewMessage(protocol.MsgGameList, protocol.GameListPayload{
		Games: h.rooms.GetRoomList(),
	}))
	return nil
}

// handleGetLeaderboard 获取排行榜
func (h *Handler) handleGetLeaderboard(ctx context.Context, client types.ClientInterface, msg *protocol.Message) error {
	if h.leaderboard == nil {
		return apperrors.ErrStorage.WithDetail("排行榜未启用")
	}
	payload, err := parse[protocol.GetLeaderboardPayload](msg)
	if err != nil {
		return err
	}

	board := payload.Board
	switch board {
	case "":
		board = storage.BoardTotal
	case storage.BoardTotal, storage.BoardDaily, storage.BoardWeekly:
	default:
		return apperrors.ErrInvalidMsg.WithDetail("未知的排行榜 %q", board)
	}
	limit := payload.Limit
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	limit = min(limit, maxLeaderboardLimit)

	entries, err := h.leaderboard.GetLeaderboard(ctx, board, limit)
	if err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrStorage, err)
	}

	out := protocol.LeaderboardPayload{Board: board, Entries: make([]protocol.LeaderboardEntry, 0, len(entries))}
	for _, e := range entries {
		out.Entries = append(out.Entries, protocol.LeaderboardEntry{
			Rank:    e.Rank,
			Name:    e.Stats.Name,
			Score:   e.Score,
			Games:   e.Stats.TotalGames,
			Wins:    e.Stats.Wins,
			WinRate: e.Stats.WinRate(),
		})
	}
	if payload.Name != "" {
		rank, err := h.leaderboard.GetPlayerRank(ctx, payload.Name)
		if err != nil {
			return fmt.Errorf("%w: %w", apperrors.ErrStorage, err)
		}
		out.Name, out.Rank = payload.Name, rank
	}
	client.SendMessage(codec.MustNewMessage(protocol.MsgLeaderboard, out))
	return nil
}
