package apperrors

import (
	"fmt"

	"github.com/palemoky/pinochle/internal/protocol"
)

// Kind 错误类别
type Kind int

const (
	KindUnknown Kind = iota
	// KindIllegalAction 动作不合法，状态保持不变，可恢复
	KindIllegalAction
	// KindReplayMismatch 重放与记录不一致，属于数据完整性错误
	KindReplayMismatch
	// KindService 服务层错误（牌局不存在、消息无效等）
	KindService
)

func (k Kind) String() string {
	switch k {
	case KindIllegalAction:
		return "illegal_action"
	case KindReplayMismatch:
		return "replay_mismatch"
	case KindService:
		return "service"
	}
	return "unknown"
}

// GameError 游戏错误（规则引擎与服务层共享）
type GameError struct {
	Kind    Kind
	Code    int
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

// Is 按错误码匹配；目标没有错误码时按类别匹配
func (e *GameError) Is(target error) bool {
	t, ok := target.(*GameError)
	if !ok {
		return false
	}
	if t.Code == 0 {
		return t.Kind == e.Kind
	}
	return t.Code == e.Code
}

// WithDetail 返回附带细节的同码错误
func (e *GameError) WithDetail(format string, args ...any) *GameError {
	return &GameError{
		Kind:    e.Kind,
		Code:    e.Code,
		Message: e.Message + ": " + fmt.Sprintf(format, args...),
	}
}

func illegal(code int) *GameError {
	return &GameError{Kind: KindIllegalAction, Code: code, Message: protocol.ErrorMessages[code]}
}

func service(code int) *GameError {
	return &GameError{Kind: KindService, Code: code, Message: protocol.ErrorMessages[code]}
}

// ErrIllegalAction 类别哨兵，errors.Is 可匹配任意非法动作错误
var ErrIllegalAction = &GameError{Kind: KindIllegalAction, Message: "非法动作"}

// 预定义错误
var (
	ErrWrongPhase      = illegal(protocol.ErrCodeWrongPhase)
	ErrNotYourTurn     = illegal(protocol.ErrCodeNotYourTurn)
	ErrCardCount       = illegal(protocol.ErrCodeCardCount)
	ErrCardIndex       = illegal(protocol.ErrCodeCardIndex)
	ErrInvalidSuit     = illegal(protocol.ErrCodeInvalidSuit)
	ErrInvalidBid      = illegal(protocol.ErrCodeInvalidBid)
	ErrIllegalCard     = illegal(protocol.ErrCodeIllegalCard)
	ErrAlreadyReviewed = illegal(protocol.ErrCodeReviewed)
	ErrGameOver        = illegal(protocol.ErrCodeGameOver)
	ErrInvalidSeat     = illegal(protocol.ErrCodeInvalidSeat)

	ErrReplayMismatch = &GameError{Kind: KindReplayMismatch, Code: protocol.ErrCodeReplay, Message: protocol.ErrorMessages[protocol.ErrCodeReplay]}

	ErrGameNotFound = service(protocol.ErrCodeGameNotFound)
	ErrGameExists   = service(protocol.ErrCodeGameExists)
	ErrNotInGame    = service(protocol.ErrCodeNotInGame)
	ErrInvalidMsg   = service(protocol.ErrCodeInvalidMsg)
	ErrInvalidState = service(protocol.ErrCodeInvalidState)
	ErrStorage      = service(protocol.ErrCodeStorage)
)
