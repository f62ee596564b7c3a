package game

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/palemoky/pinochle/internal/apperrors"
	"github.com/palemoky/pinochle/internal/game/seat"
)

// FullState 可重放的完整状态：种子、动作日志与玩家名称
type FullState struct {
	Seed        int64              `json:"seed"`
	Actions     []LoggedAction     `json:"actions"`
	PlayerNames [seat.Count]string `json:"player_names"`
}

// FullState 导出当前游戏的完整状态
func (g *Game) FullState() FullState {
	actions := make([]LoggedAction, len(g.actions))
	for i, a := range g.actions {
		actions[i] = LoggedAction{Seat: a.Seat, Action: cloneAction(a.Action)}
	}
	return FullState{Seed: g.seed, Actions: actions, PlayerNames: g.names}
}

// FromFullState 按种子重放动作日志重建游戏，任一动作被拒绝即返回 ReplayMismatch
func FromFullState(fs FullState, rules Rules) (*Game, error) {
	g := New(fs.Seed, fs.PlayerNames, rules)
	for i, a := range fs.Actions {
		if a.Action == nil {
			return nil, apperrors.ErrReplayMismatch.WithDetail("第 %d 个动作为空", i)
		}
		if _, err := g.Apply(a.Seat, a.Action); err != nil {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrReplayMismatch.WithDetail("第 %d 个动作 (%s %s)", i, a.Seat, a.Action.Type()), err)
		}
	}
	return g, nil
}

// Verify 从种子重放自身日志，确认得到完全相同的状态
func (g *Game) Verify() error {
	replayed, err := FromFullState(g.FullState(), g.rules)
	if err != nil {
		return err
	}
	return Equal(g, replayed)
}

// Equal 比较两局游戏的快照与全部手牌，不一致时返回 ReplayMismatch
func Equal(want, got *Game) error {
	a, err := fingerprint(want)
	if err != nil {
		return err
	}
	b, err := fingerprint(got)
	if err != nil {
		return err
	}
	if !bytes.Equal(a, b) {
		return apperrors.ErrReplayMismatch.WithDetail("状态不一致")
	}
	return nil
}

func fingerprint(g *Game) ([]byte, error) {
	return json.Marshal(struct {
		Snapshot Snapshot    `json:"snapshot"`
		Hands    [4][]string `json:"hands"`
	}{
		Snapshot: g.Snapshot(),
		Hands:    handCodes(g),
	})
}

func handCodes(g *Game) [4][]string {
	var out [4][]string
	for i, h := range g.hands {
		out[i] = make([]string, len(h))
		for j, c := range h {
			out[i][j] = c.Code()
		}
	}
	return out
}
