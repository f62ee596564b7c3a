package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/palemoky/pinochle/internal/game"
	"github.com/palemoky/pinochle/internal/game/rule"
	"github.com/palemoky/pinochle/internal/game/score"
)

// 默认值
const (
	defaultHost            = "0.0.0.0"
	defaultPort            = 1790
	defaultMaxConnections  = 1000
	defaultMessageRate     = 20
	defaultRedisAddr       = "localhost:6379"
	defaultRoomTimeout     = 30 // 分钟
	defaultPersistTimeout  = 3  // 秒
	defaultCleanupInterval = 60 // 秒
	defaultLogLevel        = "info"
)

// Config 服务端配置
type Config struct {
	Server ServerConfig `yaml:"server"`
	Redis  RedisConfig  `yaml:"redis"`
	Game   GameConfig   `yaml:"game"`
	Rules  RulesConfig  `yaml:"rules"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig WebSocket 服务器配置
type ServerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	MaxConnections int    `yaml:"max_connections"`     // 最大并发连接数
	MessageRate    int    `yaml:"messages_per_second"` // 单个连接每秒最多消息数
}

// RedisConfig Redis 配置，未启用时牌局只保存在内存中
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// GameConfig 牌局管理配置
type GameConfig struct {
	RoomTimeout     int `yaml:"room_timeout"`     // 牌局空闲多久后从内存移出（分钟）
	PersistTimeout  int `yaml:"persist_timeout"`  // 单次持久化超时（秒）
	CleanupInterval int `yaml:"cleanup_interval"` // 空闲检查间隔（秒）
}

// RulesConfig 新牌局使用的规则
type RulesConfig struct {
	Bidding        string `yaml:"bidding"`       // single_round / until_three_passes
	Review         string `yaml:"review"`        // any / all
	MaxBid         int    `yaml:"max_bid"`       // 0 表示使用默认上限
	MeldOverlap    string `yaml:"meld_overlap"`  // exclusive / additive
	DoubleRounds   bool   `yaml:"double_rounds"` // 双圈按 10 倍计
	PointTable     string `yaml:"point_table"`   // conventional / counters
	LastTrickBonus int    `yaml:"last_trick_bonus"`
	TargetScore    int    `yaml:"target_score"` // 0 表示不设目标分
	MustTrump      *bool  `yaml:"must_trump"`   // 未设置时为 true
	MustHead       *bool  `yaml:"must_head"`    // 未设置时为 true
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `yaml:"level"` // debug / info / warn / error
	File  string `yaml:"file"`  // 为空时输出到 stderr
}

// RoomTimeoutDuration 返回牌局空闲超时时长
func (c *GameConfig) RoomTimeoutDuration() time.Duration {
	return time.Duration(c.RoomTimeout) * time.Minute
}

// PersistTimeoutDuration 返回持久化超时时长
func (c *GameConfig) PersistTimeoutDuration() time.Duration {
	return time.Duration(c.PersistTimeout) * time.Second
}

// CleanupIntervalDuration 返回空闲检查间隔
func (c *GameConfig) CleanupIntervalDuration() time.Duration {
	return time.Duration(c.CleanupInterval) * time.Second
}

// Addr 返回监听地址
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load 加载配置文件，之后应用默认值与环境变量
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if _, err := cfg.Rules.Rules(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default 返回默认配置
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = defaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = defaultPort
	}
	if c.Server.MaxConnections == 0 {
		c.Server.MaxConnections = defaultMaxConnections
	}
	if c.Server.MessageRate == 0 {
		c.Server.MessageRate = defaultMessageRate
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = defaultRedisAddr
	}
	if c.Game.RoomTimeout == 0 {
		c.Game.RoomTimeout = defaultRoomTimeout
	}
	if c.Game.PersistTimeout == 0 {
		c.Game.PersistTimeout = defaultPersistTimeout
	}
	if c.Game.CleanupInterval == 0 {
		c.Game.CleanupInterval = defaultCleanupInterval
	}
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
}

// applyEnv 环境变量优先于配置文件
func (c *Config) applyEnv() error {
	if v := os.Getenv("SERVER_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SERVER_PORT 无效: %w", err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("REDIS_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("REDIS_ENABLED 无效: %w", err)
		}
		c.Redis.Enabled = enabled
	}
	if v := os.Getenv("GAME_TARGET_SCORE"); v != "" {
		target, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("GAME_TARGET_SCORE 无效: %w", err)
		}
		c.Rules.TargetScore = target
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

// Rules 将配置转换为牌局规则，策略名称无效时返回错误
func (rc RulesConfig) Rules() (game.Rules, error) {
	rules := game.DefaultRules()

	var err error
	if rules.Bidding, err = game.ParseBiddingPolicy(rc.Bidding); err != nil {
		return rules, err
	}
	if rules.Review, err = game.ParseReviewPolicy(rc.Review); err != nil {
		return rules, err
	}
	if rules.Meld.Overlap, err = rule.ParseOverlapPolicy(rc.MeldOverlap); err != nil {
		return rules, err
	}
	if rules.Scoring.Table, err = score.ParsePointTable(rc.PointTable); err != nil {
		return rules, err
	}
	if rc.LastTrickBonus < 0 {
		return rules, fmt.Errorf("last_trick_bonus 不能为负数: %d", rc.LastTrickBonus)
	}
	if rc.MaxBid < 0 {
		return rules, fmt.Errorf("max_bid 不能为负数: %d", rc.MaxBid)
	}
	if rc.TargetScore < 0 {
		return rules, fmt.Errorf("target_score 不能为负数: %d", rc.TargetScore)
	}

	if rc.MaxBid > 0 {
		rules.MaxBid = rc.MaxBid
	}
	rules.Meld.DoubleRounds = rc.DoubleRounds
	rules.Scoring.LastTrickBonus = rc.LastTrickBonus
	rules.Scoring.TargetScore = rc.TargetScore
	if rc.MustTrump != nil {
		rules.Play.MustTrump = *rc.MustTrump
	}
	if rc.MustHead != nil {
		rules.Play.MustHead = *rc.MustHead
	}
	return rules, nil
}
