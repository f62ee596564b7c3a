package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/palemoky/pinochle/internal/game"
)

const (
	// Redis key 前缀
	gameKeyPrefix = "game:"

	// 牌局数据过期时间，每次保存都会刷新
	gameExpiration = 24 * time.Hour
	// 已结束的牌局只保留较短时间，重复保存也不会延长
	finishedExpiration = time.Hour

	scanBatch = 100
)

// GameRecord 牌局持久化数据：规则加完整状态即可重放出任意时刻的牌局
type GameRecord struct {
	Code      string         `json:"code"`
	Rules     game.Rules     `json:"rules"`
	FullState game.FullState `json:"full_state"`
	Finished  bool           `json:"finished,omitempty"`
	UpdatedAt int64          `json:"updated_at"`
}

// RedisStore Redis 存储
type RedisStore struct {
	client             *redis.Client
	expiration         time.Duration
	finishedExpiration time.Duration
}

// NewRedisStore 创建 Redis 存储
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, expiration: gameExpiration, finishedExpiration: finishedExpiration}
}

// SaveGame 保存牌局到 Redis
func (rs *RedisStore) SaveGame(ctx context.Context, rec *GameRecord) error {
	if rec == nil {
		return nil
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("序列化牌局数据失败: %w", err)
	}
	expiration := rs.expiration
	if rec.Finished {
		expiration = rs.finishedExpiration
	}
	return rs.client.Set(ctx, gameKeyPrefix+rec.Code, data, expiration).Err()
}

// LoadGame 从 Redis 加载牌局，不存在时返回 nil, nil
func (rs *RedisStore) LoadGame(ctx context.Context, code string) (*GameRecord, error) {
	data, err := rs.client.Get(ctx, gameKeyPrefix+code).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var rec GameRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("反序列化牌局数据失败: %w", err)
	}
	return &rec, nil
}

// DeleteGame 从 Redis 删除牌局
func (rs *RedisStore) DeleteGame(ctx context.Context, code string) error {
	return rs.client.Del(ctx, gameKeyPrefix+code).Err()
}

// ListGameCodes 获取所有已保存的牌局号
func (rs *RedisStore) ListGameCodes(ctx context.Context) ([]string, error) {
	var codes []string
	iter := rs.client.Scan(ctx, 0, gameKeyPrefix+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		codes = append(codes, iter.Val()[len(gameKeyPrefix):])
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return codes, nil
}
