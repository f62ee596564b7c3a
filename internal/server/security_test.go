package server

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
)

func TestMessageRateLimiter(t *testing.T) {
	t.Parallel()

	clock := quartz.NewMock(t)
	ml := NewMessageRateLimiter(4, clock)

	var warnings []bool
	for range 4 {
		allowed, warning := ml.AllowMessage("c1")
		assert.True(t, allowed)
		warnings = append(warnings, warning)
	}
	assert.Equal(t, []bool{false, false, false, true}, warnings)

	allowed, warning := ml.AllowMessage("c1")
	assert.False(t, allowed)
	assert.True(t, warning)
	assert.Equal(t, 1, ml.GetWarningCount("c1"))

	allowed, _ = ml.AllowMessage("c2")
	assert.True(t, allowed, "limits are per client")

	clock.Advance(time.Second)
	allowed, warning = ml.AllowMessage("c1")
	assert.True(t, allowed)
	assert.False(t, warning)

	ml.RemoveClient("c1")
	assert.Equal(t, 0, ml.GetWarningCount("c1"))
}

func TestGetClientIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"X-Forwarded-For 取第一个", map[string]string{"X-Forwarded-For": "1.2.3.4, 10.0.0.1"}, "9.9.9.9:1", "1.2.3.4"},
		{"X-Real-IP", map[string]string{"X-Real-IP": "5.6.7.8"}, "9.9.9.9:1", "5.6.7.8"},
		{"RemoteAddr", nil, "9.9.9.9:1234", "9.9.9.9"},
		{"RemoteAddr 无端口", nil, "9.9.9.9", "9.9.9.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest("GET", "/ws", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, GetClientIP(r))
		})
	}
}
