package game

import (
	"encoding/json"
	"slices"

	"github.com/palemoky/pinochle/internal/game/seat"
)

// Snapshot 对外公开的只读状态副本，不包含手牌内容
type Snapshot struct {
	Round         int
	FirstBidder   seat.Seat
	CurrentPlayer seat.Seat
	Phase         Phase
	Scores        [2]int
	PlayerNames   [seat.Count]string
	HandSizes     [seat.Count]int
	History       []RoundSummary
	ActionCount   int
}

// Snapshot 返回当前状态的深拷贝
func (g *Game) Snapshot() Snapshot {
	snap := Snapshot{
		Round:         g.round,
		FirstBidder:   g.firstBidder,
		CurrentPlayer: g.current,
		Phase:         g.phase.clone(),
		Scores:        g.scores,
		PlayerNames:   g.names,
		History:       slices.Clone(g.history),
		ActionCount:   len(g.actions),
	}
	for i, h := range g.hands {
		snap.HandSizes[i] = len(h)
	}
	return snap
}

// Over 报告游戏是否已结束
func (s Snapshot) Over() bool {
	_, ok := s.Phase.(*FinishedPhase)
	return ok
}

type snapshotJSON struct {
	Round         int                `json:"round"`
	FirstBidder   seat.Seat          `json:"first_bidder"`
	CurrentPlayer seat.Seat          `json:"current_player"`
	Phase         PhaseKind          `json:"phase"`
	PhaseState    Phase              `json:"phase_state"`
	Scores        [2]int             `json:"scores"`
	PlayerNames   [seat.Count]string `json:"player_names"`
	HandSizes     [seat.Count]int    `json:"hand_sizes"`
	History       []RoundSummary     `json:"history"`
	ActionCount   int                `json:"action_count"`
}

func (s Snapshot) MarshalJSON() ([]byte, error) {
	history := s.History
	if history == nil {
		history = []RoundSummary{}
	}
	out := snapshotJSON{
		Round:         s.Round,
		FirstBidder:   s.FirstBidder,
		CurrentPlayer: s.CurrentPlayer,
		PhaseState:    s.Phase,
		Scores:        s.Scores,
		PlayerNames:   s.PlayerNames,
		HandSizes:     s.HandSizes,
		History:       history,
		ActionCount:   s.ActionCount,
	}
	if s.Phase != nil {
		out.Phase = s.Phase.Kind()
	}
	return json.Marshal(out)
}
