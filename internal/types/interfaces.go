package types

import (
	"github.com/palemoky/pinochle/internal/protocol"
)

// ClientInterface 连接到服务器的客户端（用于打破 server 与 room 之间的循环依赖）
type ClientInterface interface {
	GetID() string
	GetGame() string // 当前订阅的牌局号，未订阅时为空
	SetGame(code string)
	SendMessage(msg *protocol.Message)
	Close()
}
