package protocol

import "encoding/json"

// Message 基础消息结构
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MessageType 消息类型
type MessageType string

// 客户端 → 服务端 消息类型
const (
	MsgPing MessageType = "ping" // 心跳 ping

	// 牌局操作
	MsgCreateGame MessageType = "create_game" // 创建牌局
	MsgJoinGame   MessageType = "join_game"   // 订阅牌局（观战或入座）
	MsgLeaveGame  MessageType = "leave_game"  // 取消订阅
	MsgGetState   MessageType = "get_state"   // 获取公开快照
	MsgGetHand    MessageType = "get_hand"    // 获取某座位手牌
	MsgAct        MessageType = "act"         // 提交动作
	MsgSetName    MessageType = "set_name"    // 修改座位名称
	MsgDeleteGame MessageType = "delete_game" // 删除牌局（内存与存储）

	// 牌局记录
	MsgGetFullState MessageType = "get_full_state" // 导出完整状态
	MsgSetFullState MessageType = "set_full_state" // 导入完整状态

	// 查询
	MsgListGames      MessageType = "list_games"      // 获取牌局列表
	MsgGetLeaderboard MessageType = "get_leaderboard" // 获取排行榜
)

// 服务端 → 客户端 消息类型
const (
	MsgConnected MessageType = "connected" // 连接成功
	MsgPong      MessageType = "pong"      // 心跳 pong

	MsgGameCreated MessageType = "game_created" // 牌局创建成功
	MsgState       MessageType = "state"        // 牌局快照（动作后主动推送）
	MsgHand        MessageType = "hand"         // 手牌
	MsgFullState   MessageType = "full_state"   // 完整状态
	MsgGameList    MessageType = "game_list"    // 牌局列表
	MsgLeaderboard MessageType = "leaderboard"  // 排行榜
	MsgGameClosed  MessageType = "game_closed"  // 牌局被删除或移出内存

	// 错误
	MsgError MessageType = "error" // 错误消息
)
