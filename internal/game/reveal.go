package game

import (
	"github.com/palemoky/pinochle/internal/apperrors"
	"github.com/palemoky/pinochle/internal/game/card"
	"github.com/palemoky/pinochle/internal/game/rule"
	"github.com/palemoky/pinochle/internal/game/seat"
)

func (g *Game) handleRevealing(p *RevealingPhase, s seat.Seat, a Action) error {
	show, err := expect[ShowPoints](g, s, a)
	if err != nil {
		return err
	}
	cards, err := card.ResolveIndices(g.hands[s], show.Indices)
	if err != nil {
		return apperrors.ErrCardIndex.WithDetail("%v", err)
	}

	// 亮出的牌仍留在手中
	meld := rule.EvaluateMeld(cards, p.Trump, g.rules.Meld)
	p.Reveals[s] = &Reveal{Cards: cards, Meld: meld}
	p.ExtraPoints[s.Team()] += meld.Total

	for _, r := range p.Reveals {
		if r == nil {
			g.current = s.Next()
			return nil
		}
	}
	g.phase = &ReviewingPhase{
		Contract:    p.Contract,
		Trump:       p.Trump,
		Reveals:     p.Reveals,
		ExtraPoints: p.ExtraPoints,
	}
	g.current = p.BidWinner
	return nil
}

// handleReviewing 该阶段任何座位都可以确认
func (g *Game) handleReviewing(p *ReviewingPhase, s seat.Seat, a Action) error {
	if _, ok := a.(Continue); !ok {
		return apperrors.ErrWrongPhase.WithDetail("%s 阶段不接受 %s", p.Kind(), a.Type())
	}
	if g.rules.Review == ReviewAll {
		if p.Confirmed[s] {
			return apperrors.ErrAlreadyReviewed
		}
		p.Confirmed[s] = true
		for _, ok := range p.Confirmed {
			if !ok {
				return nil
			}
		}
	}

	g.phase = &PlayPhase{
		Contract:    p.Contract,
		Trump:       p.Trump,
		ExtraPoints: p.ExtraPoints,
		Trick:       Trick{Leader: p.BidWinner, Cards: []card.Card{}},
		Piles:       [2][]card.Card{{}, {}},
	}
	g.current = p.BidWinner
	return nil
}
