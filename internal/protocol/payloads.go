package protocol

import (
	"encoding/json"

	"github.com/palemoky/pinochle/internal/game/card"
	"github.com/palemoky/pinochle/internal/game/seat"
)

// 完整状态导出格式
const (
	FormatJSON   = "json"
	FormatBase64 = "base64"
)

// ActionBot 由服务端机器人代替当前座位行动
const ActionBot = "bot"

// --- 客户端请求 Payloads ---

// PingPayload 心跳请求
type PingPayload struct {
	Timestamp int64 `json:"timestamp"` // 客户端时间戳（毫秒）
}

// CreateGamePayload 创建牌局请求
type CreateGamePayload struct {
	Code        string             `json:"code,omitempty"` // 为空时由服务端生成
	Seed        *int64             `json:"seed,omitempty"` // 为空时随机
	PlayerNames [seat.Count]string `json:"player_names"`
}

// GamePayload 只携带牌局号的请求（join_game / get_state / leave_game）
type GamePayload struct {
	Code string `json:"code"`
}

// GetHandPayload 获取手牌请求
type GetHandPayload struct {
	Code string    `json:"code"`
	Seat seat.Seat `json:"seat"`
}

// ActPayload 提交动作请求，action 为 {"type": ..., ...}，type 为 "bot" 时由机器人代打
type ActPayload struct {
	Code   string          `json:"code"`
	Seat   seat.Seat       `json:"seat"`
	Action json.RawMessage `json:"action"`
}

// SetNamePayload 修改座位名称
type SetNamePayload struct {
	Code string    `json:"code"`
	Seat seat.Seat `json:"seat"`
	Name string    `json:"name"`
}

// GetFullStatePayload 导出完整状态请求
type GetFullStatePayload struct {
	Code   string `json:"code"`
	Format string `json:"format,omitempty"` // json（默认）或 base64
}

// SetFullStatePayload 导入完整状态，full_state 与 base64 二选一
type SetFullStatePayload struct {
	Code      string          `json:"code"`
	FullState json.RawMessage `json:"full_state,omitempty"`
	Base64    string          `json:"base64,omitempty"`
}

// GetLeaderboardPayload 获取排行榜请求
type GetLeaderboardPayload struct {
	Board string `json:"board,omitempty"` // total（默认）/ daily / weekly
	Limit int    `json:"limit"`
	Name  string `json:"name,omitempty"` // 同时查询该玩家的总榜排名
}

// --- 服务端响应 Payloads ---

// ConnectedPayload 连接成功响应
type ConnectedPayload struct {
	ClientID string `json:"client_id"`
}

// PongPayload 心跳响应
type PongPayload struct {
	ClientTimestamp int64 `json:"client_timestamp"` // 客户端发送的时间戳
	ServerTimestamp int64 `json:"server_timestamp"` // 服务器时间戳（毫秒）
}

// GameCreatedPayload 牌局创建成功
type GameCreatedPayload struct {
	Code string `json:"code"`
	Seed int64  `json:"seed"`
}

// StatePayload 牌局快照
type StatePayload struct {
	Code     string          `json:"code"`
	Snapshot json.RawMessage `json:"snapshot"`
}

// HandPayload 座位手牌
type HandPayload struct {
	Code  string      `json:"code"`
	Seat  seat.Seat   `json:"seat"`
	Cards []card.Card `json:"cards"`
}

// FullStatePayload 完整状态
type FullStatePayload struct {
	Code      string          `json:"code"`
	Format    string          `json:"format"`
	FullState json.RawMessage `json:"full_state,omitempty"`
	Base64    string          `json:"base64,omitempty"`
}

// GameListItem 牌局列表项
type GameListItem struct {
	Code        string `json:"code"`
	Phase       string `json:"phase"`
	Round       int    `json:"round"`
	Scores      [2]int `json:"scores"`
	ActionCount int    `json:"action_count"`
	Subscribers int    `json:"subscribers"`
}

// GameListPayload 牌局列表
type GameListPayload struct {
	Games []GameListItem `json:"games"`
}

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	Rank    int     `json:"rank"`
	Name    string  `json:"name"`
	Score   int     `json:"score"`
	Games   int     `json:"games"`
	Wins    int     `json:"wins"`
	WinRate float64 `json:"win_rate"`
}

// LeaderboardPayload 排行榜
type LeaderboardPayload struct {
	Board   string             `json:"board"`
	Entries []LeaderboardEntry `json:"entries"`
	Name    string             `json:"name,omitempty"`
	Rank    int64              `json:"rank,omitempty"` // name 的总榜排名，未上榜为 -1
}

// ErrorPayload 错误响应
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
