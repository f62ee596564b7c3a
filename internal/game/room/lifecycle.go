package room

import (
	"context"
	"encoding/json"
	"time"

	"github.com/palemoky/pinochle/internal/game"
	"github.com/palemoky/pinochle/internal/game/seat"
	"github.com/palemoky/pinochle/internal/protocol"
	"github.com/palemoky/pinochle/internal/protocol/codec"
	"github.com/palemoky/pinochle/internal/types"
)

// Apply 在牌局上应用动作，成功后持久化、记录排行榜并推送快照
func (rm *RoomManager) Apply(ctx context.Context, code string, s seat.Seat, a game.Action) (game.Snapshot, error) {
	room, err := rm.LoadRoom(ctx, code)
	if err != nil {
		return game.Snapshot{}, err
	}
	tr, err := room.apply(s, a, rm.clock.Now())
	if err != nil {
		return tr.after, err
	}
	rm.afterChange(ctx, room, tr)
	return tr.after, nil
}

// ApplyBot 由机器人替当前应行动的座位出手
func (rm *RoomManager) ApplyBot(ctx context.Context, code string) (game.Snapshot, error) {
	room, err := rm.LoadRoom(ctx, code)
	if err != nil {
		return game.Snapshot{}, err
	}
	tr, err := room.applyBot(rm.clock.Now())
	if err != nil {
		return tr.after, err
	}
	rm.afterChange(ctx, room, tr)
	return tr.after, nil
}

// SetName 修改座位名称
func (rm *RoomManager) SetName(ctx context.Context, code string, s seat.Seat, name string) (game.Snapshot, error) {
	room, err := rm.LoadRoom(ctx, code)
	if err != nil {
		return game.Snapshot{}, err
	}
	snap, err := room.SetName(s, name, rm.clock.Now())
	if err != nil {
		return snap, err
	}
	rm.commit(ctx, room, true)
	return snap, nil
}

func (rm *RoomManager) afterChange(ctx context.Context, room *Room, tr transition) {
	rm.commit(ctx, room, true)
	rm.recordResults(ctx, tr.before, tr.after)
}

// recordResults 把新结算的局与游戏结果写入排行榜，失败只记录日志
func (rm *RoomManager) recordResults(ctx context.Context, before *game.Snapshot, after game.Snapshot) {
	if rm.leaderboard == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), rm.persistTimeout)
	defer cancel()

	seen := 0
	if before != nil {
		seen = len(before.History)
	}
	for _, summary := range after.History[min(seen, len(after.History)):] {
		team := summary.BidWinner.Team()
		made := !summary.Result.Teams[team].SetBack
		name := after.PlayerNames[summary.BidWinner]
		if err := rm.leaderboard.RecordBid(ctx, name, made); err != nil {
			rm.logger.Warn("⚠️ 记录叫分结果失败", "player", name, "err", err)
		}
	}

	finished, ok := after.Phase.(*game.FinishedPhase)
	if !ok || (before != nil && before.Over()) {
		return
	}
	for _, s := range seat.All {
		name := after.PlayerNames[s]
		if err := rm.leaderboard.RecordGameResult(ctx, name, s.Team() == finished.Winner); err != nil {
			rm.logger.Warn("⚠️ 记录游戏结果失败", "player", name, "err", err)
		}
	}
	rm.logger.Info("🏆 游戏结束", "winner", finished.Winner, "scores", after.Scores)
}

// broadcast 向订阅者推送快照，快照只序列化一次
func (rm *RoomManager) broadcast(room *Room, snap game.Snapshot) {
	subscribers := room.Subscribers()
	if len(subscribers) == 0 {
		return
	}
	msg, err := NewStateMessage(room.Code, snap)
	if err != nil {
		rm.logger.Error("❌ 序列化快照失败", "code", room.Code, "err", err)
		return
	}
	for _, c := range subscribers {
		c.SendMessage(msg)
	}
}

// NewStateMessage 构造牌局快照消息
func NewStateMessage(code string, snap game.Snapshot) (*protocol.Message, error) {
	raw, err := json.Marshal(snap)
	if err != nil {
		return nil, err
	}
	return codec.NewMessage(protocol.MsgState, protocol.StatePayload{Code: code, Snapshot: raw})
}

// StateMessage 构造房间当前快照消息
func (r *Room) StateMessage() (*protocol.Message, error) {
	return NewStateMessage(r.Code, *r.Snapshot())
}

func closedMessage(code string) *protocol.Message {
	return codec.MustNewMessage(protocol.MsgGameClosed, protocol.GamePayload{Code: code})
}

// UnsubscribeAll 客户端断开连接时调用
func (rm *RoomManager) UnsubscribeAll(c types.ClientInterface) {
	rm.Unsubscribe(c)

	rm.mu.RLock()
	rooms := make([]*Room, 0, len(rm.rooms))
	for _, room := range rm.rooms {
		rooms = append(rooms, room)
	}
	rm.mu.RUnlock()
	for _, room := range rooms {
		room.removeSubscriber(c.GetID())
	}
}

// Run 定期把空闲牌局移出内存，直到 ctx 取消
func (rm *RoomManager) Run(ctx context.Context) error {
	ticker := rm.clock.NewTicker(rm.cleanupInterval, "room", "cleanup")
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			rm.Flush(context.WithoutCancel(ctx))
			return nil
		case <-ticker.C:
			rm.cleanup(ctx)
		}
	}
}

// cleanup 移出超过 roomTimeout 未变化且无人订阅的牌局，移出前先保存
func (rm *RoomManager) cleanup(ctx context.Context) int {
	now := rm.clock.Now()

	rm.mu.RLock()
	var idle []*Room
	for _, room := range rm.rooms {
		if room.SubscriberCount() == 0 && now.Sub(room.UpdatedAt()) >= rm.roomTimeout {
			idle = append(idle, room)
		}
	}
	rm.mu.RUnlock()

	evicted := 0
	for _, room := range idle {
		rm.persist(ctx, room)
		rm.mu.Lock()
		if rm.rooms[room.Code] == room && room.SubscriberCount() == 0 {
			delete(rm.rooms, room.Code)
			evicted++
		}
		rm.mu.Unlock()
	}
	if evicted > 0 {
		rm.logger.Info("🧹 清理空闲牌局", "count", evicted, "remaining", rm.RoomCount())
	}
	return evicted
}

// Flush 保存所有内存中的牌局，服务器关闭时调用
func (rm *RoomManager) Flush(ctx context.Context) {
	if rm.store == nil {
		return
	}
	rm.mu.RLock()
	rooms := make([]*Room, 0, len(rm.rooms))
	for _, room := range rm.rooms {
		rooms = append(rooms, room)
	}
	rm.mu.RUnlock()

	start := time.Now()
	for _, room := range rooms {
		rm.persist(ctx, room)
	}
	rm.logger.Info("💾 牌局已保存", "count", len(rooms), "elapsed", time.Since(start))
}

// RoomCount 内存中的牌局数量
func (rm *RoomManager) RoomCount() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return len(rm.rooms)
}
