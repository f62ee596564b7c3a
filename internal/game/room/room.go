package room

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/palemoky/pinochle/internal/apperrors"
	"github.com/palemoky/pinochle/internal/game"
	"github.com/palemoky/pinochle/internal/game/bot"
	"github.com/palemoky/pinochle/internal/game/card"
	"github.com/palemoky/pinochle/internal/game/seat"
	"github.com/palemoky/pinochle/internal/server/storage"
	"github.com/palemoky/pinochle/internal/types"
)

// Store 牌局持久化，*storage.RedisStore 满足该接口
type Store interface {
	SaveGame(ctx context.Context, rec *storage.GameRecord) error
	LoadGame(ctx context.Context, code string) (*storage.GameRecord, error)
	DeleteGame(ctx context.Context, code string) error
}

// Recorder 排行榜记录，*storage.LeaderboardManager 满足该接口
type Recorder interface {
	RecordBid(ctx context.Context, name string, made bool) error
	RecordGameResult(ctx context.Context, name string, isWinner bool) error
}

// Room 一局牌的服务端容器。写操作串行化在 mu 上，
// 最新快照通过原子指针发布，读取不需要加锁
type Room struct {
	Code      string
	CreatedAt time.Time

	mu          sync.Mutex
	game        *game.Game
	rules       game.Rules
	subscribers map[string]types.ClientInterface

	version uint64 // 每次状态变化加一，受 mu 保护

	snapshot  atomic.Pointer[game.Snapshot]
	updatedAt atomic.Int64 // unix 纳秒

	// syncMu 串行化保存与推送；savedVersion 与 sentVersion 受其保护
	syncMu       sync.Mutex
	savedVersion uint64
	sentVersion  uint64
}

// transition 一次状态变化前后的快照，在 mu 内取得
type transition struct {
	before *game.Snapshot
	after  game.Snapshot
}

func newRoom(code string, g *game.Game, rules game.Rules, now time.Time) *Room {
	r := &Room{
		Code:        code,
		CreatedAt:   now,
		game:        g,
		rules:       rules,
		subscribers: make(map[string]types.ClientInterface),
	}
	r.publish(g.Snapshot(), now)
	return r
}

// publish 调用方持有 mu（newRoom 除外）
func (r *Room) publish(snap game.Snapshot, now time.Time) {
	r.version++
	r.snapshot.Store(&snap)
	r.updatedAt.Store(now.UnixNano())
}

// Snapshot 返回最近发布的快照，调用方不得修改
func (r *Room) Snapshot() *game.Snapshot {
	return r.snapshot.Load()
}

// UpdatedAt 最后一次状态变化的时间
func (r *Room) UpdatedAt() time.Time {
	return time.Unix(0, r.updatedAt.Load())
}

// Rules 牌局规则
func (r *Room) Rules() game.Rules {
	return r.rules
}

// Hand 返回座位手牌的副本
func (r *Room) Hand(s seat.Seat) []card.Card {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.game.Hand(s)
}

// FullState 导出完整状态
func (r *Room) FullState() game.FullState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.game.FullState()
}

// Apply 应用动作；失败时状态不变
func (r *Room) Apply(s seat.Seat, a game.Action, now time.Time) (game.Snapshot, error) {
	tr, err := r.apply(s, a, now)
	return tr.after, err
}

func (r *Room) apply(s seat.Seat, a game.Action, now time.Time) (transition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	before := r.snapshot.Load()
	snap, err := r.game.Apply(s, a)
	if err != nil {
		return transition{before: before, after: snap}, err
	}
	r.publish(snap, now)
	return transition{before: before, after: snap}, nil
}

// ApplyBot 由机器人为应行动的座位选择并应用动作
func (r *Room) ApplyBot(now time.Time) (game.Snapshot, error) {
	tr, err := r.applyBot(now)
	return tr.after, err
}

func (r *Room) applyBot(now time.Time) (transition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	before := r.snapshot.Load()
	s, action, ok := bot.Choose(r.game)
	if !ok {
		return transition{before: before, after: *before}, apperrors.ErrGameOver
	}
	snap, err := r.game.Apply(s, action)
	if err != nil {
		return transition{before: before, after: snap}, err
	}
	r.publish(snap, now)
	return transition{before: before, after: snap}, nil
}

// SetName 修改座位名称
func (r *Room) SetName(s seat.Seat, name string, now time.Time) (game.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.game.SetName(s, name); err != nil {
		return game.Snapshot{}, err
	}
	snap := r.game.Snapshot()
	r.publish(snap, now)
	return snap, nil
}

// replace 用导入的牌局替换当前牌局，订阅者保持不变
func (r *Room) replace(g *game.Game, rules game.Rules, now time.Time) game.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.game = g
	r.rules = rules
	snap := g.Snapshot()
	r.publish(snap, now)
	return snap
}

// latest 在 mu 内同时取得持久化数据、快照与版本，三者一致
func (r *Room) latest(now time.Time) (*storage.GameRecord, game.Snapshot, uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := *r.snapshot.Load()
	rec := &storage.GameRecord{
		Code:      r.Code,
		Rules:     r.rules,
		FullState: r.game.FullState(),
		Finished:  snap.Over(),
		UpdatedAt: now.Unix(),
	}
	return rec, snap, r.version
}

func (r *Room) addSubscriber(c types.ClientInterface) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subscribers[c.GetID()] = c
}

// removeSubscriber 返回是否确实移除了订阅者
func (r *Room) removeSubscriber(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subscribers[id]; !ok {
		return false
	}
	delete(r.subscribers, id)
	return true
}

// Subscribers 返回订阅者快照
func (r *Room) Subscribers() []types.ClientInterface {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]types.ClientInterface, 0, len(r.subscribers))
	for _, c := range r.subscribers {
		out = append(out, c)
	}
	return out
}

// SubscriberCount 订阅者数量
func (r *Room) SubscriberCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subscribers)
}
