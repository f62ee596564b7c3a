// Package compact 把牌局完整状态编码为紧凑的 protobuf 线格式，并提供 base64 文本形式用于导出与分享。
//
//	FullState:  1 version (varint)  2 seed (fixed64)  3 player_names (repeated string)  4 actions (repeated Action)
//	Action:     1 seat (varint)     2 type (varint)   3 amount (zigzag varint)
//	            4 suit (varint)     5 indices (packed zigzag varint)   6 index (zigzag varint)
package compact

import (
	"encoding/base64"
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/palemoky/pinochle/internal/game"
	"github.com/palemoky/pinochle/internal/game/card"
	"github.com/palemoky/pinochle/internal/game/seat"
)

// Version 当前编码版本
const Version = 1

const (
	fieldVersion protowire.Number = 1
	fieldSeed    protowire.Number = 2
	fieldName    protowire.Number = 3
	fieldAction  protowire.Number = 4

	fieldSeat    protowire.Number = 1
	fieldType    protowire.Number = 2
	fieldAmount  protowire.Number = 3
	fieldSuit    protowire.Number = 4
	fieldIndices protowire.Number = 5
	fieldIndex   protowire.Number = 6
)

// actionCodes 动作类型与线上编号
var actionCodes = map[game.ActionType]uint64{
	game.ActionBid:         1,
	game.ActionDeclareSuit: 2,
	game.ActionPass:        3,
	game.ActionShowPoints:  4,
	game.ActionContinue:    5,
	game.ActionPlay:        6,
}

var codeActions = func() map[uint64]game.ActionType {
	m := make(map[uint64]game.ActionType, len(actionCodes))
	for t, c := range actionCodes {
		m[c] = t
	}
	return m
}()

var errTruncated = errors.New("编码数据被截断")

// Encode 将完整状态编码为二进制
func Encode(fs game.FullState) ([]byte, error) {
	var b []byte
	b = protowire.AppendTag(b, fieldVersion, protowire.VarintType)
	b = protowire.AppendVarint(b, Version)
	b = protowire.AppendTag(b, fieldSeed, protowire.Fixed64Type)
	b = protowire.AppendFixed64(b, uint64(fs.Seed))
	for _, name := range fs.PlayerNames {
		b = protowire.AppendTag(b, fieldName, protowire.BytesType)
		b = protowire.AppendString(b, name)
	}
	for i, a := range fs.Actions {
		msg, err := encodeAction(a)
		if err != nil {
			return nil, fmt.Errorf("第 %d 个动作: %w", i, err)
		}
		b = protowire.AppendTag(b, fieldAction, protowire.BytesType)
		b = protowire.AppendBytes(b, msg)
	}
	return b, nil
}

func encodeAction(a game.LoggedAction) ([]byte, error) {
	if a.Action == nil {
		return nil, errors.New("动作为空")
	}
	env := game.Envelope(a.Action)
	code, ok := actionCodes[env.Type]
	if !ok {
		return nil, fmt.Errorf("未知的动作类型: %q", env.Type)
	}

	var b []byte
	b = protowire.AppendTag(b, fieldSeat, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(a.Seat))
	b = protowire.AppendTag(b, fieldType, protowire.VarintType)
	b = protowire.AppendVarint(b, code)
	if env.Amount != nil {
		b = protowire.AppendTag(b, fieldAmount, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(*env.Amount)))
	}
	if env.Suit != nil {
		b = protowire.AppendTag(b, fieldSuit, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(*env.Suit))
	}
	if env.Indices != nil {
		var packed []byte
		for _, idx := range env.Indices {
			packed = protowire.AppendVarint(packed, protowire.EncodeZigZag(int64(idx)))
		}
		b = protowire.AppendTag(b, fieldIndices, protowire.BytesType)
		b = protowire.AppendBytes(b, packed)
	}
	if env.Index != nil {
		b = protowire.AppendTag(b, fieldIndex, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(*env.Index)))
	}
	return b, nil
}

// Decode 从二进制还原完整状态，未知字段被忽略
func Decode(b []byte) (game.FullState, error) {
	var (
		fs      game.FullState
		names   int
		version uint64
	)
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fs, protowire.ParseError(n)
		}
		b = b[n:]

		switch {
		case num == fieldVersion && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return fs, protowire.ParseError(n)
			}
			version = v
			b = b[n:]
		case num == fieldSeed && typ == protowire.Fixed64Type:
			v, n := protowire.ConsumeFixed64(b)
			if n < 0 {
				return fs, protowire.ParseError(n)
			}
			fs.Seed = int64(v)
			b = b[n:]
		case num == fieldName && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return fs, protowire.ParseError(n)
			}
			if names >= seat.Count {
				return fs, fmt.Errorf("玩家名称超过 %d 个", seat.Count)
			}
			fs.PlayerNames[names] = v
			names++
			b = b[n:]
		case num == fieldAction && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return fs, protowire.ParseError(n)
			}
			a, err := decodeAction(v)
			if err != nil {
				return fs, fmt.Errorf("第 %d 个动作: %w", len(fs.Actions), err)
			}
			fs.Actions = append(fs.Actions, a)
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return fs, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	if version != Version {
		return fs, fmt.Errorf("不支持的编码版本: %d", version)
	}
	return fs, nil
}

func decodeAction(b []byte) (game.LoggedAction, error) {
	var (
		la      game.LoggedAction
		env     game.ActionEnvelope
		hasType bool
	)
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return la, protowire.ParseError(n)
		}
		b = b[n:]

		if num == fieldIndices && typ == protowire.BytesType {
			packed, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return la, protowire.ParseError(n)
			}
			env.Indices = []int{}
			for len(packed) > 0 {
				v, m := protowire.ConsumeVarint(packed)
				if m < 0 {
					return la, protowire.ParseError(m)
				}
				env.Indices = append(env.Indices, int(protowire.DecodeZigZag(v)))
				packed = packed[m:]
			}
			b = b[n:]
			continue
		}
		if typ != protowire.VarintType {
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return la, protowire.ParseError(n)
			}
			b = b[n:]
			continue
		}

		v, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return la, errTruncated
		}
		b = b[n:]
		switch num {
		case fieldSeat:
			la.Seat = seat.Seat(v)
		case fieldType:
			t, ok := codeActions[v]
			if !ok {
				return la, fmt.Errorf("未知的动作编号: %d", v)
			}
			env.Type = t
			hasType = true
		case fieldAmount:
			amount := int(protowire.DecodeZigZag(v))
			env.Amount = &amount
		case fieldSuit:
			suit := card.Suit(v)
			env.Suit = &suit
		case fieldIndex:
			idx := int(protowire.DecodeZigZag(v))
			env.Index = &idx
		}
	}
	if !hasType {
		return la, errors.New("缺少动作类型")
	}
	action, err := env.Action()
	if err != nil {
		return la, err
	}
	la.Action = action
	return la, nil
}

// EncodeString 编码为 URL 安全的 base64 文本
func EncodeString(fs game.FullState) (string, error) {
	b, err := Encode(fs)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// DecodeString 解析 EncodeString 的输出
func DecodeString(s string) (game.FullState, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return game.FullState{}, fmt.Errorf("base64 解码失败: %w", err)
	}
	return Decode(b)
}
