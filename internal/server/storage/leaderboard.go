package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/coder/quartz"
	"github.com/redis/go-redis/v9"
)

const (
	// Redis key
	playerStatsKey    = "player:stats:"
	leaderboardKey    = "leaderboard:score"
	dailyLeaderboard  = "leaderboard:daily:"
	weeklyLeaderboard = "leaderboard:weekly:"
)

// 排行榜类型
const (
	BoardTotal  = "total"
	BoardDaily  = "daily"
	BoardWeekly = "weekly"
)

// 积分规则
const (
	WinGame  = 30  // 整局获胜
	LoseGame = -10 // 整局失败

	// 连胜加成
	StreakBonus3  = 5
	StreakBonus5  = 10
	StreakBonus10 = 20
)

// PlayerStats 玩家统计数据，以座位名称区分玩家
type PlayerStats struct {
	Name string `json:"name"`

	TotalGames int `json:"total_games"`
	Wins       int `json:"wins"`
	Losses     int `json:"losses"`

	// 叫分统计
	BidsWon  int `json:"bids_won"`  // 赢得叫分次数
	BidsMade int `json:"bids_made"` // 达成叫分次数
	BidsSet  int `json:"bids_set"`  // 未达成被扣分次数

	Score int `json:"score"`

	// 正数为连胜，负数为连败
	CurrentStreak int `json:"current_streak"`
	MaxWinStreak  int `json:"max_win_streak"`

	LastPlayedAt int64 `json:"last_played_at"`
	CreatedAt    int64 `json:"created_at"`
}

// WinRate 胜率（百分比）
func (s *PlayerStats) WinRate() float64 {
	if s.TotalGames == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.TotalGames) * 100
}

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	Rank  int
	Stats *PlayerStats
	Score int
}

// LeaderboardManager 排行榜管理器
type LeaderboardManager struct {
	redis *redis.Client
	clock quartz.Clock
}

// NewLeaderboardManager 创建排行榜管理器
func NewLeaderboardManager(client *redis.Client, clock quartz.Clock) *LeaderboardManager {
	return &LeaderboardManager{redis: client, clock: clock}
}

// GetPlayerStats 获取玩家统计，没有记录时返回 nil, nil
func (lm *LeaderboardManager) GetPlayerStats(ctx context.Context, name string) (*PlayerStats, error) {
	data, err := lm.redis.Get(ctx, playerStatsKey+name).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var stats PlayerStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("反序列化玩家统计失败: %w", err)
	}
	return &stats, nil
}

func (lm *LeaderboardManager) savePlayerStats(ctx context.Context, stats *PlayerStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return lm.redis.Set(ctx, playerStatsKey+stats.Name, data, 0).Err()
}

func (lm *LeaderboardManager) getOrCreateStats(ctx context.Context, name string) (*PlayerStats, error) {
	stats, err := lm.GetPlayerStats(ctx, name)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		stats = &PlayerStats{Name: name, CreatedAt: lm.clock.Now().Unix()}
	}
	return stats, nil
}

// RecordBid 记录一局叫分结果，made 表示叫分方达成了叫分
func (lm *LeaderboardManager) RecordBid(ctx context.Context, name string, made bool) error {
	if name == "" {
		return nil
	}
	stats, err := lm.getOrCreateStats(ctx, name)
	if err != nil {
		return err
	}
	stats.BidsWon++
	if made {
		stats.BidsMade++
	} else {
		stats.BidsSet++
	}
	return lm.savePlayerStats(ctx, stats)
}

// RecordGameResult 记录整局结果，未命名的座位不计入
func (lm *LeaderboardManager) RecordGameResult(ctx context.Context, name string, isWinner bool) error {
	if name == "" {
		return nil
	}
	stats, err := lm.getOrCreateStats(ctx, name)
	if err != nil {
		return err
	}

	stats.TotalGames++
	stats.LastPlayedAt = lm.clock.Now().Unix()

	change := LoseGame
	if isWinner {
		stats.Wins++
		stats.CurrentStreak = max(1, stats.CurrentStreak+1)
		change = WinGame + streakBonus(stats.CurrentStreak)
	} else {
		stats.Losses++
		stats.CurrentStreak = min(-1, stats.CurrentStreak-1)
	}
	stats.MaxWinStreak = max(stats.MaxWinStreak, stats.CurrentStreak)
	stats.Score = max(0, stats.Score+change)

	if err := lm.savePlayerStats(ctx, stats); err != nil {
		return err
	}
	return lm.updateLeaderboard(ctx, stats)
}

func streakBonus(streak int) int {
	switch {
	case streak >= 10:
		return StreakBonus10
	case streak >= 5:
		return StreakBonus5
	case streak >= 3:
		return StreakBonus3
	default:
		return 0
	}
}

// boardKey 返回排行榜对应的 key，未知类型按总榜处理
func (lm *LeaderboardManager) boardKey(board string) string {
	now := lm.clock.Now()
	switch board {
	case BoardDaily:
		return dailyLeaderboard + now.Format(time.DateOnly)
	case BoardWeekly:
		year, week := now.ISOWeek()
		return fmt.Sprintf("%s%d-W%02d", weeklyLeaderboard, year, week)
	}
	return leaderboardKey
}

func (lm *LeaderboardManager) updateLeaderboard(ctx context.Context, stats *PlayerStats) error {
	member := redis.Z{Score: float64(stats.Score), Member: stats.Name}

	pipe := lm.redis.TxPipeline()
	pipe.ZAdd(ctx, leaderboardKey, member)

	dailyKey := lm.boardKey(BoardDaily)
	pipe.ZAdd(ctx, dailyKey, member)
	pipe.Expire(ctx, dailyKey, 48*time.Hour)

	weeklyKey := lm.boardKey(BoardWeekly)
	pipe.ZAdd(ctx, weeklyKey, member)
	pipe.Expire(ctx, weeklyKey, 8*24*time.Hour)

	_, err := pipe.Exec(ctx)
	return err
}

// GetLeaderboard 获取排行榜前 limit 名
func (lm *LeaderboardManager) GetLeaderboard(ctx context.Context, board string, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		return nil, nil
	}
	results, err := lm.redis.ZRevRangeWithScores(ctx, lm.boardKey(board), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(results))
	for i, result := range results {
		name, ok := result.Member.(string)
		if !ok {
			continue
		}
		stats, err := lm.GetPlayerStats(ctx, name)
		if err != nil || stats == nil {
			continue
		}
		entries = append(entries, LeaderboardEntry{
			Rank:  i + 1,
			Stats: stats,
			Score: int(result.Score),
		})
	}
	return entries, nil
}

// GetPlayerRank 获取玩家总榜排名，未上榜返回 -1
func (lm *LeaderboardManager) GetPlayerRank(ctx context.Context, name string) (int64, error) {
	rank, err := lm.redis.ZRevRank(ctx, leaderboardKey, name).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return -1, nil
		}
		return -1, err
	}
	return rank + 1, nil
}
