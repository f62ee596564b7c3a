package game

import (
	"slices"

	"github.com/palemoky/pinochle/internal/game/card"
	"github.com/palemoky/pinochle/internal/game/rule"
	"github.com/palemoky/pinochle/internal/game/seat"
)

// PhaseKind 阶段标签
type PhaseKind string

const (
	KindBidding      PhaseKind = "bidding"
	KindDeclareTrump PhaseKind = "declare_trump"
	KindPassingTo    PhaseKind = "passing_to"
	KindPassingBack  PhaseKind = "passing_back"
	KindRevealing    PhaseKind = "revealing_cards"
	KindReviewing    PhaseKind = "reviewing_revealed_cards"
	KindPlay         PhaseKind = "play"
	KindFinished     PhaseKind = "finished"
)

// Phase 当前阶段，具体类型决定可接受的动作
type Phase interface {
	Kind() PhaseKind
	clone() Phase
}

// BidEntry 一次叫分
type BidEntry struct {
	Seat   seat.Seat `json:"seat"`
	Amount int       `json:"amount"`
}

// BiddingPhase 叫分阶段
type BiddingPhase struct {
	FirstBidder seat.Seat  `json:"first_bidder"`
	Bids        []BidEntry `json:"bids"`
}

// Contract 叫分结果，叫分之后的阶段都携带
type Contract struct {
	BidWinner  seat.Seat `json:"bid_winner"`
	HighestBid int       `json:"highest_bid"`
}

// DeclareTrumpPhase 叫分赢家选择将牌
type DeclareTrumpPhase struct {
	Contract
}

// PassingToPhase 搭档向叫分赢家传 4 张牌
type PassingToPhase struct {
	Contract
	Trump card.Suit `json:"trump"`
}

// PassingBackPhase 叫分赢家回传 4 张牌
type PassingBackPhase struct {
	Contract
	Trump card.Suit `json:"trump"`
}

// Reveal 一个座位亮出的牌及其牌组分
type Reveal struct {
	Cards []card.Card     `json:"cards"`
	Meld  rule.MeldResult `json:"meld"`
}

func (r *Reveal) clone() *Reveal {
	if r == nil {
		return nil
	}
	out := &Reveal{
		Cards: slices.Clone(r.Cards),
		Meld: rule.MeldResult{
			Total:    r.Meld.Total,
			Melds:    slices.Clone(r.Meld.Melds),
			Overlaps: slices.Clone(r.Meld.Overlaps),
		},
	}
	return out
}

// RevealingPhase 各座位依次亮牌，nil 表示尚未亮牌
type RevealingPhase struct {
	Contract
	Trump       card.Suit  `json:"trump"`
	Reveals     [4]*Reveal `json:"reveals"`
	ExtraPoints [2]int     `json:"extra_points"`
}

// ReviewingPhase 展示亮牌结果，等待确认
type ReviewingPhase struct {
	Contract
	Trump       card.Suit  `json:"trump"`
	Reveals     [4]*Reveal `json:"reveals"`
	ExtraPoints [2]int     `json:"extra_points"`
	Confirmed   [4]bool    `json:"confirmed"`
}

// Trick 进行中的一墩
type Trick struct {
	Leader seat.Seat   `json:"leader"`
	Cards  []card.Card `json:"cards"`
}

// CompletedTrick 已结算的一墩
type CompletedTrick struct {
	Leader seat.Seat   `json:"leader"`
	Cards  []card.Card `json:"cards"`
	Winner seat.Seat   `json:"winner"`
}

// PlayPhase 出牌阶段
type PlayPhase struct {
	Contract
	Trump        card.Suit       `json:"trump"`
	ExtraPoints  [2]int          `json:"extra_points"`
	Trick        Trick           `json:"trick"`
	Piles        [2][]card.Card  `json:"piles"`
	LastTrick    *CompletedTrick `json:"last_trick,omitempty"`
	TricksPlayed int             `json:"tricks_played"`
}

// FinishedPhase 有队伍达到目标分后的终止阶段
type FinishedPhase struct {
	Winner seat.Team `json:"winner"`
}

func (*BiddingPhase) Kind() PhaseKind      { return KindBidding }
func (*DeclareTrumpPhase) Kind() PhaseKind { return KindDeclareTrump }
func (*PassingToPhase) Kind() PhaseKind    { return KindPassingTo }
func (*PassingBackPhase) Kind() PhaseKind  { return KindPassingBack }
func (*RevealingPhase) Kind() PhaseKind    { return KindRevealing }
func (*ReviewingPhase) Kind() PhaseKind    { return KindReviewing }
func (*PlayPhase) Kind() PhaseKind         { return KindPlay }
func (*FinishedPhase) Kind() PhaseKind     { return KindFinished }

func (p *BiddingPhase) clone() Phase {
	return &BiddingPhase{FirstBidder: p.FirstBidder, Bids: slices.Clone(p.Bids)}
}

func (p *DeclareTrumpPhase) clone() Phase {
	c := *p
	return &c
}

func (p *PassingToPhase) clone() Phase {
	c := *p
	return &c
}

func (p *PassingBackPhase) clone() Phase {
	c := *p
	return &c
}

func (p *RevealingPhase) clone() Phase {
	c := *p
	for i, r := range p.Reveals {
		c.Reveals[i] = r.clone()
	}
	return &c
}

func (p *ReviewingPhase) clone() Phase {
	c := *p
	for i, r := range p.Reveals {
		c.Reveals[i] = r.clone()
	}
	return &c
}

func (p *PlayPhase) clone() Phase {
	c := *p
	c.Trick.Cards = slices.Clone(p.Trick.Cards)
	c.Piles = [2][]card.Card{slices.Clone(p.Piles[0]), slices.Clone(p.Piles[1])}
	if p.LastTrick != nil {
		last := *p.LastTrick
		last.Cards = slices.Clone(p.LastTrick.Cards)
		c.LastTrick = &last
	}
	return &c
}

func (p *FinishedPhase) clone() Phase {
	c := *p
	return &c
}

// Trump 返回阶段中已确定的将牌
func Trump(p Phase) (card.Suit, bool) {
	switch ph := p.(type) {
	case *PassingToPhase:
		return ph.Trump, true
	case *PassingBackPhase:
		return ph.Trump, true
	case *RevealingPhase:
		return ph.Trump, true
	case *ReviewingPhase:
		return ph.Trump, true
	case *PlayPhase:
		return ph.Trump, true
	}
	return 0, false
}
