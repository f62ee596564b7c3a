package room

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/palemoky/pinochle/internal/apperrors"
	"github.com/palemoky/pinochle/internal/game"
	"github.com/palemoky/pinochle/internal/game/seat"
	"github.com/palemoky/pinochle/internal/protocol"
	"github.com/palemoky/pinochle/internal/randutil"
	"github.com/palemoky/pinochle/internal/types"
)

const (
	gameCodeLength = 8

	defaultRoomTimeout     = 30 * time.Minute
	defaultCleanupInterval = time.Minute
	defaultPersistTimeout  = 3 * time.Second
)

// Options 房间管理器依赖，Store 与 Leaderboard 可为 nil
type Options struct {
	Store       Store
	Leaderboard Recorder
	Clock       quartz.Clock
	Logger      *log.Logger
	Rules       game.Rules

	RoomTimeout     time.Duration // 无订阅者的牌局空闲多久后移出内存
	CleanupInterval time.Duration
	PersistTimeout  time.Duration
}

// RoomManager 房间管理器
type RoomManager struct {
	store       Store
	leaderboard Recorder
	clock       quartz.Clock
	logger      *log.Logger
	rules       game.Rules

	roomTimeout     time.Duration
	cleanupInterval time.Duration
	persistTimeout  time.Duration

	rooms map[string]*Room
	mu    sync.RWMutex
	loads singleflight.Group
}

// NewRoomManager 创建房间管理器，需要调用 Run 启动空闲清理
func NewRoomManager(opts Options) *RoomManager {
	rm := &RoomManager{
		store:           opts.Store,
		leaderboard:     opts.Leaderboard,
		clock:           opts.Clock,
		logger:          opts.Logger,
		rules:           opts.Rules,
		roomTimeout:     opts.RoomTimeout,
		cleanupInterval: opts.CleanupInterval,
		persistTimeout:  opts.PersistTimeout,
		rooms:           make(map[string]*Room),
	}
	if rm.clock == nil {
		rm.clock = quartz.NewReal()
	}
	if rm.logger == nil {
		rm.logger = log.Default()
	}
	if rm.roomTimeout <= 0 {
		rm.roomTimeout = defaultRoomTimeout
	}
	if rm.cleanupInterval <= 0 {
		rm.cleanupInterval = defaultCleanupInterval
	}
	if rm.persistTimeout <= 0 {
		rm.persistTimeout = defaultPersistTimeout
	}
	return rm
}

// Rules 新牌局使用的规则
func (rm *RoomManager) Rules() game.Rules {
	return rm.rules
}

// CreateRoom 创建牌局；code 为空时自动生成，seed 为 nil 时随机
func (rm *RoomManager) CreateRoom(ctx context.Context, code string, seed *int64, names [seat.Count]string) (*Room, error) {
	if code == "" {
		code = rm.generateGameCode()
	}
	if _, err := rm.LoadRoom(ctx, code); err == nil {
		return nil, apperrors.ErrGameExists.WithDetail("%s", code)
	}

	s := randutil.Seed()
	if seed != nil {
		s = *seed
	}
	now := rm.clock.Now()
	room := newRoom(code, game.New(s, names, rm.rules), rm.rules, now)

	rm.mu.Lock()
	if _, exists := rm.rooms[code]; exists {
		rm.mu.Unlock()
		return nil, apperrors.ErrGameExists.WithDetail("%s", code)
	}
	rm.rooms[code] = room
	rm.mu.Unlock()

	rm.persist(ctx, room)
	rm.logger.Info("🃏 牌局已创建", "code", code, "seed", s)
	return room, nil
}

// RestoreRoom 用完整状态创建或替换牌局，重放失败时原牌局保持不变
func (rm *RoomManager) RestoreRoom(ctx context.Context, code string, fs game.FullState) (*Room, error) {
	if code == "" {
		code = rm.generateGameCode()
	}
	g, err := game.FromFullState(fs, rm.rules)
	if err != nil {
		return nil, err
	}
	now := rm.clock.Now()

	room, err := rm.LoadRoom(ctx, code)
	if err == nil {
		room.replace(g, rm.rules, now)
	} else {
		room = newRoom(code, g, rm.rules, now)
		rm.mu.Lock()
		if existing, ok := rm.rooms[code]; ok {
			room = existing
			rm.mu.Unlock()
			room.replace(g, rm.rules, now)
		} else {
			rm.rooms[code] = room
			rm.mu.Unlock()
		}
	}

	rm.commit(ctx, room, true)
	rm.logger.Info("📥 牌局已导入", "code", code, "actions", len(fs.Actions))
	return room, nil
}

// GetRoom 获取内存中的牌局
func (rm *RoomManager) GetRoom(code string) *Room {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return rm.rooms[code]
}

// LoadRoom 获取牌局，内存中没有时从存储加载并重放；并发加载同一牌局只访问存储一次
func (rm *RoomManager) LoadRoom(ctx context.Context, code string) (*Room, error) {
	if room := rm.GetRoom(code); room != nil {
		return room, nil
	}
	if rm.store == nil {
		return nil, apperrors.ErrGameNotFound.WithDetail("%s", code)
	}

	v, err, _ := rm.loads.Do(code, func() (any, error) {
		if room := rm.GetRoom(code); room != nil {
			return room, nil
		}
		rec, err := rm.store.LoadGame(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrStorage, err)
		}
		if rec == nil {
			return nil, apperrors.ErrGameNotFound.WithDetail("%s", code)
		}
		g, err := game.FromFullState(rec.FullState, rec.Rules)
		if err != nil {
			return nil, err
		}

		room := newRoom(code, g, rec.Rules, rm.clock.Now())
		rm.mu.Lock()
		defer rm.mu.Unlock()
		if existing, ok := rm.rooms[code]; ok {
			return existing, nil
		}
		rm.rooms[code] = room
		rm.logger.Info("📦 牌局已从存储恢复", "code", code, "actions", len(rec.FullState.Actions))
		return room, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Room), nil
}

// DeleteRoom 删除牌局（内存与存储），通知订阅者
func (rm *RoomManager) DeleteRoom(ctx context.Context, code string) error {
	rm.mu.Lock()
	room, ok := rm.rooms[code]
	delete(rm.rooms, code)
	rm.mu.Unlock()

	if room != nil {
		for _, c := range room.Subscribers() {
			if c.GetGame() == code {
				c.SetGame("")
			}
			c.SendMessage(closedMessage(code))
		}
	}
	if rm.store != nil {
		if err := rm.store.DeleteGame(ctx, code); err != nil {
			return fmt.Errorf("%w: %w", apperrors.ErrStorage, err)
		}
	} else if !ok {
		return apperrors.ErrGameNotFound.WithDetail("%s", code)
	}
	rm.logger.Info("🗑️ 牌局已删除", "code", code)
	return nil
}

// GetRoomList 获取内存中的牌局列表，按牌局号排序
func (rm *RoomManager) GetRoomList() []protocol.GameListItem {
	rm.mu.RLock()
	rooms := make([]*Room, 0, len(rm.rooms))
	for _, room := range rm.rooms {
		rooms = append(rooms, room)
	}
	rm.mu.RUnlock()

	items := make([]protocol.GameListItem, 0, len(rooms))
	for _, room := range rooms {
		snap := room.Snapshot()
		items = append(items, protocol.GameListItem{
			Code:        room.Code,
			Phase:       string(snap.Phase.Kind()),
			Round:       snap.Round,
			Scores:      snap.Scores,
			ActionCount: snap.ActionCount,
			Subscribers: room.SubscriberCount(),
		})
	}
	slices.SortFunc(items, func(a, b protocol.GameListItem) int { return strings.Compare(a.Code, b.Code) })
	return items
}

// GetActiveGamesCount 获取未结束的牌局数量
func (rm *RoomManager) GetActiveGamesCount() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	count := 0
	for _, room := range rm.rooms {
		if !room.Snapshot().Over() {
			count++
		}
	}
	return count
}

// generateGameCode 生成牌局号
func (rm *RoomManager) generateGameCode() string {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	for {
		code := strings.ReplaceAll(uuid.NewString(), "-", "")[:gameCodeLength]
		if _, exists := rm.rooms[code]; !exists {
			return code
		}
	}
}

// persist 尽力保存牌局最新状态，失败只记录日志，不回滚已应用的动作
func (rm *RoomManager) persist(ctx context.Context, room *Room) {
	rm.commit(ctx, room, false)
}

// commit 按版本顺序保存并推送房间的最新状态。
// 所有保存与推送都串行在 syncMu 上，并在持锁后才读取状态，
// 因此存储与订阅者看到的版本单调递增，较旧的状态不会覆盖较新的
func (rm *RoomManager) commit(ctx context.Context, room *Room, push bool) {
	room.syncMu.Lock()
	defer room.syncMu.Unlock()

	rec, snap, version := room.latest(rm.clock.Now())
	if rm.store != nil && version > room.savedVersion {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), rm.persistTimeout)
		err := rm.store.SaveGame(ctx, rec)
		cancel()
		if err != nil {
			rm.logger.Warn("⚠️ 保存牌局失败", "code", room.Code, "version", version, "err", err)
		} else {
			room.savedVersion = version
		}
	}
	if push && version > room.sentVersion {
		rm.broadcast(room, snap)
		room.sentVersion = version
	}
}

// Subscribe 订阅牌局快照推送，客户端同一时间只订阅一个牌局
func (rm *RoomManager) Subscribe(ctx context.Context, code string, c types.ClientInterface) (*Room, error) {
	room, err := rm.LoadRoom(ctx, code)
	if err != nil {
		return nil, err
	}
	if prev := c.GetGame(); prev != "" && prev != code {
		rm.Unsubscribe(c)
	}
	room.addSubscriber(c)
	c.SetGame(code)
	rm.logger.Debug("👀 客户端订阅牌局", "code", code, "client", c.GetID())
	return room, nil
}

// Unsubscribe 取消客户端当前的订阅
func (rm *RoomManager) Unsubscribe(c types.ClientInterface) {
	code := c.GetGame()
	if code == "" {
		return
	}
	c.SetGame("")
	if room := rm.GetRoom(code); room != nil && room.removeSubscriber(c.GetID()) {
		rm.logger.Debug("👋 客户端取消订阅", "code", code, "client", c.GetID())
	}
}
