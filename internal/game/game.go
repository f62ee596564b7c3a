// Package game 实现四人两队的 Pinochle 规则引擎：叫分、定将、传牌、亮牌、出牌与跨局计分。
//
// Game 不是并发安全的，由上层（room 包）负责串行化所有变更。
package game

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/palemoky/pinochle/internal/apperrors"
	"github.com/palemoky/pinochle/internal/game/card"
	"github.com/palemoky/pinochle/internal/game/score"
	"github.com/palemoky/pinochle/internal/game/seat"
	"github.com/palemoky/pinochle/internal/randutil"
)

// RoundSummary 一局结束后的记录
type RoundSummary struct {
	Round       int               `json:"round"`
	FirstBidder seat.Seat         `json:"first_bidder"`
	BidWinner   seat.Seat         `json:"bid_winner"`
	HighestBid  int               `json:"highest_bid"`
	Trump       card.Suit         `json:"trump"`
	Result      score.RoundResult `json:"result"`
	Totals      [2]int            `json:"totals"`
}

// Game 定义游戏状态
type Game struct {
	seed  int64
	rules Rules
	rng   *rand.Rand

	names   [seat.Count]string
	actions []LoggedAction

	round       int
	firstBidder seat.Seat
	current     seat.Seat
	hands       [seat.Count][]card.Card
	phase       Phase
	scores      [2]int
	history     []RoundSummary
}

// New 用种子创建一局新游戏，A 为第一局的首位叫分者
func New(seed int64, names [seat.Count]string, rules Rules) *Game {
	g := &Game{
		seed:  seed,
		rules: rules,
		rng:   randutil.New(seed),
		names: names,
	}
	g.startRound(seat.A)
	return g
}

// Seed 返回创建时的种子
func (g *Game) Seed() int64 {
	return g.seed
}

// Rules 返回本局使用的规则
func (g *Game) Rules() Rules {
	return g.rules
}

// Phase 返回当前阶段的副本
func (g *Game) Phase() Phase {
	return g.phase.clone()
}

// CurrentPlayer 当前应行动的座位
func (g *Game) CurrentPlayer() seat.Seat {
	return g.current
}

// Hand 返回某座位手牌的副本，座位无效时返回 nil
func (g *Game) Hand(s seat.Seat) []card.Card {
	if !s.Valid() {
		return nil
	}
	return slices.Clone(g.hands[s])
}

// SetName 修改座位显示名称
func (g *Game) SetName(s seat.Seat, name string) error {
	if !s.Valid() {
		return apperrors.ErrInvalidSeat
	}
	g.names[s] = name
	return nil
}

// Apply 执行一个动作。动作非法时状态不变，仍返回当前快照与错误
func (g *Game) Apply(s seat.Seat, a Action) (Snapshot, error) {
	if err := g.apply(s, a); err != nil {
		return g.Snapshot(), err
	}
	g.actions = append(g.actions, LoggedAction{Seat: s, Action: cloneAction(a)})
	return g.Snapshot(), nil
}

func (g *Game) apply(s seat.Seat, a Action) error {
	if !s.Valid() {
		return apperrors.ErrInvalidSeat.WithDetail("%d", int(s))
	}
	if a == nil {
		return apperrors.ErrWrongPhase.WithDetail("动作为空")
	}

	switch p := g.phase.(type) {
	case *BiddingPhase:
		return g.handleBidding(p, s, a)
	case *DeclareTrumpPhase:
		return g.handleDeclareTrump(p, s, a)
	case *PassingToPhase:
		return g.handlePassingTo(p, s, a)
	case *PassingBackPhase:
		return g.handlePassingBack(p, s, a)
	case *RevealingPhase:
		return g.handleRevealing(p, s, a)
	case *ReviewingPhase:
		return g.handleReviewing(p, s, a)
	case *PlayPhase:
		return g.handlePlay(p, s, a)
	case *FinishedPhase:
		return apperrors.ErrGameOver
	}
	return apperrors.ErrWrongPhase
}

// expect 校验动作类型与行动座位
func expect[T Action](g *Game, s seat.Seat, a Action) (T, error) {
	act, ok := a.(T)
	if !ok {
		return act, apperrors.ErrWrongPhase.WithDetail("%s 阶段不接受 %s", g.phase.Kind(), a.Type())
	}
	if s != g.current {
		return act, apperrors.ErrNotYourTurn.WithDetail("当前轮到 %s", g.current)
	}
	return act, nil
}

// startRound 洗牌、发牌并进入叫分
func (g *Game) startRound(first seat.Seat) {
	deck := card.NewDeck()
	deck.Shuffle(g.rng)
	g.hands = deck.Deal()
	g.round++
	g.firstBidder = first
	g.current = first
	g.phase = &BiddingPhase{FirstBidder: first, Bids: []BidEntry{}}
}

// finishRound 结算一局，达到目标分则结束游戏，否则开始下一局
func (g *Game) finishRound(p *PlayPhase, lastWinner seat.Seat) {
	result := g.rules.Scoring.Round(score.RoundInput{
		Piles:         p.Piles,
		Meld:          p.ExtraPoints,
		LastTrick:     lastWinner.Team(),
		BidWinnerTeam: p.BidWinner.Team(),
		HighestBid:    p.HighestBid,
	})
	for team, s := range result.Scores() {
		g.scores[team] += s
	}
	g.history = append(g.history, RoundSummary{
		Round:       g.round,
		FirstBidder: g.firstBidder,
		BidWinner:   p.BidWinner,
		HighestBid:  p.HighestBid,
		Trump:       p.Trump,
		Result:      result,
		Totals:      g.scores,
	})

	if winner, over := g.rules.Scoring.Winner(g.scores, p.BidWinner.Team()); over {
		g.phase = &FinishedPhase{Winner: winner}
		return
	}
	g.startRound(g.firstBidder.Next())
}

func (g *Game) String() string {
	return fmt.Sprintf("round %d %s current=%s scores=%v", g.round, g.phase.Kind(), g.current, g.scores)
}
