package protocol

// 错误码
const (
	ErrCodeUnknown      = 1000
	ErrCodeInvalidMsg   = 1001
	ErrCodeRateLimit    = 1002 // 速率限制
	ErrCodeGameNotFound = 2001
	ErrCodeGameExists   = 2002
	ErrCodeNotInGame    = 2003
	ErrCodeWrongPhase   = 3001
	ErrCodeNotYourTurn  = 3002
	ErrCodeCardCount    = 3003 // 传牌数量错误
	ErrCodeCardIndex    = 3004 // 手牌下标无效或重复
	ErrCodeInvalidSuit  = 3005
	ErrCodeInvalidBid   = 3006
	ErrCodeIllegalCard  = 3007 // 出牌不符合跟牌规则
	ErrCodeReviewed     = 3008 // 已确认过亮牌
	ErrCodeGameOver     = 3009
	ErrCodeInvalidSeat  = 3010
	ErrCodeInvalidState = 4001 // 完整状态无法解析
	ErrCodeReplay       = 4002 // 重放结果与记录不一致
	ErrCodeStorage      = 5001
)

// ErrorMessages 错误码对应的消息
var ErrorMessages = map[int]string{
	ErrCodeUnknown:      "未知错误",
	ErrCodeInvalidMsg:   "无效的消息格式",
	ErrCodeRateLimit:    "请求过于频繁",
	ErrCodeGameNotFound: "牌局不存在",
	ErrCodeGameExists:   "牌局已存在",
	ErrCodeNotInGame:    "您不在牌局中",
	ErrCodeWrongPhase:   "当前阶段不允许该操作",
	ErrCodeNotYourTurn:  "还没轮到您",
	ErrCodeCardCount:    "必须正好传 4 张牌",
	ErrCodeCardIndex:    "无效的手牌下标",
	ErrCodeInvalidSuit:  "无效的花色",
	ErrCodeInvalidBid:   "无效的叫分",
	ErrCodeIllegalCard:  "这张牌现在不能出",
	ErrCodeReviewed:     "您已确认过亮牌",
	ErrCodeGameOver:     "游戏已结束",
	ErrCodeInvalidSeat:  "无效的座位",
	ErrCodeInvalidState: "无效的牌局状态",
	ErrCodeReplay:       "牌局记录重放不一致",
	ErrCodeStorage:      "存储服务异常",
}
