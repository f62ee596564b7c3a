// Package codec 负责 protocol.Message 的 JSON 编解码，并用对象池复用编码缓冲区与入站消息。
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"sync"

	"github.com/palemoky/pinochle/internal/apperrors"
	"github.com/palemoky/pinochle/internal/protocol"
)

var (
	bufferPool = sync.Pool{
		New: func() any { return new(bytes.Buffer) },
	}
	messagePool = sync.Pool{
		New: func() any { return &protocol.Message{} },
	}
)

// NewMessage 创建一个新消息，payload 为 json.RawMessage 时原样使用
func NewMessage(msgType protocol.MessageType, payload any) (*protocol.Message, error) {
	msg := &protocol.Message{Type: msgType}
	switch p := payload.(type) {
	case nil:
	case json.RawMessage:
		msg.Payload = p
	default:
		data, err := json.Marshal(p)
		if err != nil {
			return nil, err
		}
		msg.Payload = data
	}
	return msg, nil
}

// MustNewMessage 创建消息，失败时 panic
func MustNewMessage(msgType protocol.MessageType, payload any) *protocol.Message {
	msg, err := NewMessage(msgType, payload)
	if err != nil {
		panic(err)
	}
	return msg
}

// Encode 将消息编码为 JSON 字节，返回的切片归调用方所有
func Encode(msg *protocol.Message) ([]byte, error) {
	buf := bufferPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		bufferPool.Put(buf)
	}()

	if err := json.NewEncoder(buf).Encode(msg); err != nil {
		return nil, err
	}
	// Encoder 会追加换行
	return bytes.Clone(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// Decode 从 JSON 字节解码消息，用完后调用 Release 归还
func Decode(data []byte) (*protocol.Message, error) {
	msg := messagePool.Get().(*protocol.Message)
	if err := json.Unmarshal(data, msg); err != nil {
		Release(msg)
		return nil, err
	}
	if msg.Type == "" {
		Release(msg)
		return nil, errors.New("消息缺少 type 字段")
	}
	return msg, nil
}

// Release 归还 Decode 得到的消息，字段被清空以免持有引用
func Release(msg *protocol.Message) {
	if msg == nil {
		return
	}
	msg.Type = ""
	msg.Payload = nil
	messagePool.Put(msg)
}

// ParsePayload 解析消息的 Payload 到指定类型
func ParsePayload[T any](msg *protocol.Message) (*T, error) {
	var payload T
	if len(msg.Payload) == 0 {
		return &payload, nil
	}
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// NewErrorMessage 创建错误消息
func NewErrorMessage(code int) *protocol.Message {
	return NewErrorMessageWithText(code, protocol.ErrorMessages[code])
}

// NewErrorMessageWithText 创建带自定义文本的错误消息
func NewErrorMessageWithText(code int, text string) *protocol.Message {
	return MustNewMessage(protocol.MsgError, protocol.ErrorPayload{
		Code:    code,
		Message: text,
	})
}

// ErrorMessageFrom 将任意错误转换为错误消息，GameError 保留错误码，文本使用完整的错误链
func ErrorMessageFrom(err error) *protocol.Message {
	var gameErr *apperrors.GameError
	if errors.As(err, &gameErr) && gameErr.Code != 0 {
		return NewErrorMessageWithText(gameErr.Code, err.Error())
	}
	return NewErrorMessageWithText(protocol.ErrCodeUnknown, err.Error())
}
