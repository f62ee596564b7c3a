package codec

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/pinochle/internal/apperrors"
	"github.com/palemoky/pinochle/internal/protocol"
)

func TestNewMessage(t *testing.T) {
	t.Parallel()

	msg, err := NewMessage(protocol.MsgPong, protocol.PongPayload{ClientTimestamp: 1, ServerTimestamp: 2})
	require.NoError(t, err)
	assert.Equal(t, protocol.MsgPong, msg.Type)
	assert.JSONEq(t, `{"client_timestamp":1,"server_timestamp":2}`, string(msg.Payload))

	msg, err = NewMessage(protocol.MsgListGames, nil)
	require.NoError(t, err)
	assert.Nil(t, msg.Payload)

	raw := json.RawMessage(`{"already":"encoded"}`)
	msg, err = NewMessage(protocol.MsgState, raw)
	require.NoError(t, err)
	assert.Equal(t, raw, msg.Payload)

	_, err = NewMessage(protocol.MsgState, make(chan int))
	assert.Error(t, err)
	assert.Panics(t, func() { MustNewMessage(protocol.MsgState, make(chan int)) })
}

func TestEncodeDecode(t *testing.T) {
	t.Parallel()

	msg := MustNewMessage(protocol.MsgGetHand, protocol.GetHandPayload{Code: "abc", Seat: 2})
	data, err := Encode(msg)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "\n")

	decoded, err := Decode(data)
	require.NoError(t, err)
	defer Release(decoded)
	assert.Equal(t, protocol.MsgGetHand, decoded.Type)

	payload, err := ParsePayload[protocol.GetHandPayload](decoded)
	require.NoError(t, err)
	assert.Equal(t, "abc", payload.Code)
	assert.EqualValues(t, 2, payload.Seat)
}

func TestDecode_Invalid(t *testing.T) {
	t.Parallel()

	for _, data := range []string{``, `not json`, `{"payload":{}}`, `[1,2]`} {
		_, err := Decode([]byte(data))
		assert.Error(t, err, "input %q", data)
	}
}

func TestParsePayload(t *testing.T) {
	t.Parallel()

	empty := &protocol.Message{Type: protocol.MsgGetLeaderboard}
	payload, err := ParsePayload[protocol.GetLeaderboardPayload](empty)
	require.NoError(t, err)
	assert.Zero(t, payload.Limit)

	bad := &protocol.Message{Type: protocol.MsgGetLeaderboard, Payload: json.RawMessage(`{"limit":"ten"}`)}
	_, err = ParsePayload[protocol.GetLeaderboardPayload](bad)
	assert.Error(t, err)
}

func TestErrorMessages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		msg      *protocol.Message
		wantCode int
		wantText string
	}{
		{"按错误码", NewErrorMessage(protocol.ErrCodeNotYourTurn), protocol.ErrCodeNotYourTurn, "还没轮到您"},
		{"自定义文本", NewErrorMessageWithText(protocol.ErrCodeUnknown, "boom"), protocol.ErrCodeUnknown, "boom"},
		{"GameError", ErrorMessageFrom(apperrors.ErrGameNotFound), protocol.ErrCodeGameNotFound, "牌局不存在"},
		{"包装的 GameError", ErrorMessageFrom(fmt.Errorf("act: %w", apperrors.ErrWrongPhase)), protocol.ErrCodeWrongPhase, "act: 当前阶段不允许该操作"},
		{"普通错误", ErrorMessageFrom(fmt.Errorf("disk full")), protocol.ErrCodeUnknown, "disk full"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, protocol.MsgError, tt.msg.Type)
			payload, err := ParsePayload[protocol.ErrorPayload](tt.msg)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, payload.Code)
			assert.Equal(t, tt.wantText, payload.Message)
		})
	}
}

// 不并行：归还后的消息可能立即被其他测试取走
func TestRelease_ResetsMessage(t *testing.T) {
	assert.NotPanics(t, func() { Release(nil) })

	msg, err := Decode([]byte(`{"type":"ping","payload":{"timestamp":1}}`))
	require.NoError(t, err)
	Release(msg)
	assert.Empty(t, msg.Type)
	assert.Nil(t, msg.Payload)
}

func TestEncode_Concurrent(t *testing.T) {
	t.Parallel()

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Go(func() {
			msg := MustNewMessage(protocol.MsgPing, protocol.PingPayload{Timestamp: int64(i)})
			data, err := Encode(msg)
			assert.NoError(t, err)
			decoded, err := Decode(data)
			if assert.NoError(t, err) {
				payload, err := ParsePayload[protocol.PingPayload](decoded)
				assert.NoError(t, err)
				assert.Equal(t, int64(i), payload.Timestamp)
				Release(decoded)
			}
		})
	}
	wg.Wait()
}
