package game

import (
	"github.com/palemoky/pinochle/internal/apperrors"
	"github.com/palemoky/pinochle/internal/game/card"
	"github.com/palemoky/pinochle/internal/game/seat"
)

// PassSize 每次传牌的张数
const PassSize = 4

func (g *Game) handleDeclareTrump(p *DeclareTrumpPhase, s seat.Seat, a Action) error {
	declare, err := expect[DeclareSuit](g, s, a)
	if err != nil {
		return err
	}
	if !declare.Suit.Valid() {
		return apperrors.ErrInvalidSuit.WithDetail("%d", int(declare.Suit))
	}

	g.phase = &PassingToPhase{Contract: p.Contract, Trump: declare.Suit}
	g.current = p.BidWinner.Partner()
	return nil
}

func (g *Game) handlePassingTo(p *PassingToPhase, s seat.Seat, a Action) error {
	pass, err := expect[Pass](g, s, a)
	if err != nil {
		return err
	}
	if err := g.transfer(s, p.BidWinner, pass.Indices); err != nil {
		return err
	}

	g.phase = &PassingBackPhase{Contract: p.Contract, Trump: p.Trump}
	g.current = p.BidWinner
	return nil
}

func (g *Game) handlePassingBack(p *PassingBackPhase, s seat.Seat, a Action) error {
	pass, err := expect[Pass](g, s, a)
	if err != nil {
		return err
	}
	if err := g.transfer(s, p.BidWinner.Partner(), pass.Indices); err != nil {
		return err
	}

	g.phase = &RevealingPhase{Contract: p.Contract, Trump: p.Trump}
	g.current = g.firstBidder
	return nil
}

// transfer 校验下标后把 4 张牌从 from 移到 to 的手牌末尾
func (g *Game) transfer(from, to seat.Seat, indices []int) error {
	if len(indices) != PassSize {
		return apperrors.ErrCardCount.WithDetail("收到 %d 张", len(indices))
	}
	cards, err := card.ResolveIndices(g.hands[from], indices)
	if err != nil {
		return apperrors.ErrCardIndex.WithDetail("%v", err)
	}

	g.hands[from] = card.RemoveIndices(g.hands[from], indices)
	g.hands[to] = append(g.hands[to], cards...)
	return nil
}
