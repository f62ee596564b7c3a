package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/pinochle/internal/apperrors"
	"github.com/palemoky/pinochle/internal/game"
	"github.com/palemoky/pinochle/internal/game/bot"
	"github.com/palemoky/pinochle/internal/game/seat"
	"github.com/palemoky/pinochle/internal/protocol/compact"
)

var testNames = [seat.Count]string{"Ann", "Bo", "Cy", "Di"}

// playedState 机器人代打若干步后的完整状态
func playedState(t *testing.T, steps int) game.FullState {
	t.Helper()
	g := game.New(11, testNames, game.DefaultRules())
	for range steps {
		s, action, ok := bot.Choose(g)
		require.True(t, ok)
		_, err := g.Apply(s, action)
		require.NoError(t, err)
	}
	return g.FullState()
}

func writeState(t *testing.T, fs game.FullState) string {
	t.Helper()
	data, err := json.Marshal(fs)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "full.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestReplayCmd_File(t *testing.T) {
	t.Parallel()

	fs := playedState(t, 30)
	cmd := &ReplayCmd{File: writeState(t, fs), Verify: true, Hands: true}

	var out bytes.Buffer
	require.NoError(t, cmd.Run(&out))
	assert.Contains(t, out.String(), "Ann")
	assert.Contains(t, out.String(), "重放校验通过")
}

func TestReplayCmd_Base64Export(t *testing.T) {
	t.Parallel()

	fs := playedState(t, 20)
	text, err := compact.EncodeString(fs)
	require.NoError(t, err)

	cmd := &ReplayCmd{Base64: text + "\n", Export: true}
	var out bytes.Buffer
	require.NoError(t, cmd.Run(&out))
	assert.Contains(t, out.String(), text)
}

func TestReplayCmd_Mismatch(t *testing.T) {
	t.Parallel()

	fs := playedState(t, 5)
	// 第一个动作由错误座位提交
	fs.Actions[0].Seat = fs.Actions[0].Seat.Next()

	cmd := &ReplayCmd{File: writeState(t, fs)}
	err := cmd.Run(&bytes.Buffer{})
	assert.ErrorIs(t, err, apperrors.ErrReplayMismatch)
}

func TestReplayCmd_BadInput(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))

	assert.Error(t, (&ReplayCmd{File: path}).Run(&bytes.Buffer{}))
	assert.Error(t, (&ReplayCmd{Base64: "!!!"}).Run(&bytes.Buffer{}))
}

func TestDealCmd(t *testing.T) {
	t.Parallel()

	seed := int64(42)
	var first, second bytes.Buffer
	require.NoError(t, (&DealCmd{Seed: &seed}).Run(&first))
	require.NoError(t, (&DealCmd{Seed: &seed}).Run(&second))

	assert.Contains(t, first.String(), "42")
	assert.Equal(t, first.String(), second.String())
}

func TestLoadRules(t *testing.T) {
	t.Parallel()

	rules, err := loadRules("")
	require.NoError(t, err)
	assert.Equal(t, game.DefaultRules(), rules)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rules:\n  target_score: 500\n"), 0o600))
	rules, err = loadRules(path)
	require.NoError(t, err)
	assert.Equal(t, 500, rules.Scoring.TargetScore)

	require.NoError(t, os.WriteFile(path, []byte("rules:\n  bidding: nope\n"), 0o600))
	_, err = loadRules(path)
	assert.Error(t, err)
}
