package game

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/palemoky/pinochle/internal/game/card"
	"github.com/palemoky/pinochle/internal/game/seat"
)

// ActionType 动作类型
type ActionType string

const (
	ActionBid         ActionType = "bid"
	ActionDeclareSuit ActionType = "declare_suit"
	ActionPass        ActionType = "pass"
	ActionShowPoints  ActionType = "show_points"
	ActionContinue    ActionType = "continue"
	ActionPlay        ActionType = "play"
)

// Action 玩家动作，具体类型为 Bid、DeclareSuit、Pass、ShowPoints、Continue、Play
type Action interface {
	Type() ActionType
}

// Bid 叫分，0 表示 pass
type Bid struct {
	Amount int
}

// DeclareSuit 叫分赢家宣布将牌花色
type DeclareSuit struct {
	Suit card.Suit
}

// Pass 传出 4 张牌，下标指向当前手牌
type Pass struct {
	Indices []int
}

// ShowPoints 亮出用于计算牌组分的牌
type ShowPoints struct {
	Indices []int
}

// Continue 确认亮牌结果
type Continue struct{}

// Play 打出一张牌
type Play struct {
	Index int
}

func (Bid) Type() ActionType         { return ActionBid }
func (DeclareSuit) Type() ActionType { return ActionDeclareSuit }
func (Pass) Type() ActionType        { return ActionPass }
func (ShowPoints) Type() ActionType  { return ActionShowPoints }
func (Continue) Type() ActionType    { return ActionContinue }
func (Play) Type() ActionType        { return ActionPlay }

// ActionEnvelope 动作的线上格式
type ActionEnvelope struct {
	Type    ActionType `json:"type"`
	Amount  *int       `json:"amount,omitempty"`
	Suit    *card.Suit `json:"suit,omitempty"`
	Indices []int      `json:"indices,omitempty"`
	Index   *int       `json:"index,omitempty"`
}

// Envelope 将动作转换为线上格式
func Envelope(a Action) ActionEnvelope {
	env := ActionEnvelope{Type: a.Type()}
	switch act := a.(type) {
	case Bid:
		env.Amount = &act.Amount
	case DeclareSuit:
		env.Suit = &act.Suit
	case Pass:
		env.Indices = slices.Clone(act.Indices)
	case ShowPoints:
		env.Indices = slices.Clone(act.Indices)
	case Play:
		env.Index = &act.Index
	}
	return env
}

// Action 将线上格式还原为动作，缺字段或类型未知时返回错误
func (e ActionEnvelope) Action() (Action, error) {
	switch e.Type {
	case ActionBid:
		if e.Amount == nil {
			return nil, fmt.Errorf("bid 缺少 amount")
		}
		return Bid{Amount: *e.Amount}, nil
	case ActionDeclareSuit:
		if e.Suit == nil {
			return nil, fmt.Errorf("declare_suit 缺少 suit")
		}
		return DeclareSuit{Suit: *e.Suit}, nil
	case ActionPass:
		return Pass{Indices: slices.Clone(e.Indices)}, nil
	case ActionShowPoints:
		return ShowPoints{Indices: slices.Clone(e.Indices)}, nil
	case ActionContinue:
		return Continue{}, nil
	case ActionPlay:
		if e.Index == nil {
			return nil, fmt.Errorf("play 缺少 index")
		}
		return Play{Index: *e.Index}, nil
	}
	return nil, fmt.Errorf("未知的动作类型: %q", e.Type)
}

// cloneAction 深拷贝动作，记录日志时使用
func cloneAction(a Action) Action {
	switch act := a.(type) {
	case Pass:
		return Pass{Indices: slices.Clone(act.Indices)}
	case ShowPoints:
		return ShowPoints{Indices: slices.Clone(act.Indices)}
	}
	return a
}

// LoggedAction 动作日志中的一条记录
type LoggedAction struct {
	Seat   seat.Seat
	Action Action
}

type loggedActionJSON struct {
	Seat   seat.Seat      `json:"seat"`
	Action ActionEnvelope `json:"action"`
}

func (l LoggedAction) MarshalJSON() ([]byte, error) {
	if l.Action == nil {
		return nil, fmt.Errorf("动作为空")
	}
	return json.Marshal(loggedActionJSON{Seat: l.Seat, Action: Envelope(l.Action)})
}

func (l *LoggedAction) UnmarshalJSON(data []byte) error {
	var raw loggedActionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	action, err := raw.Action.Action()
	if err != nil {
		return err
	}
	l.Seat = raw.Seat
	l.Action = action
	return nil
}
