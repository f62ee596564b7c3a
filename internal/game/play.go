package game

import (
	"slices"

	"github.com/palemoky/pinochle/internal/apperrors"
	"github.com/palemoky/pinochle/internal/game/card"
	"github.com/palemoky/pinochle/internal/game/rule"
	"github.com/palemoky/pinochle/internal/game/seat"
)

// TricksPerRound 每局的墩数
const TricksPerRound = card.HandSize

func (g *Game) handlePlay(p *PlayPhase, s seat.Seat, a Action) error {
	play, err := expect[Play](g, s, a)
	if err != nil {
		return err
	}
	hand := g.hands[s]
	if play.Index < 0 || play.Index >= len(hand) {
		return apperrors.ErrCardIndex.WithDetail("下标 %d 超出手牌范围 [0,%d)", play.Index, len(hand))
	}
	c := hand[play.Index]
	if err := rule.CheckPlay(hand, c, p.Trick.Cards, p.Trump, g.rules.Play); err != nil {
		return apperrors.ErrIllegalCard.WithDetail("%s: %v", c, err)
	}

	g.hands[s] = slices.Delete(slices.Clone(hand), play.Index, play.Index+1)
	p.Trick.Cards = append(p.Trick.Cards, c)
	if len(p.Trick.Cards) < seat.Count {
		g.current = s.Next()
		return nil
	}

	winner, captured, err := rule.ResolveTrick(p.Trump, p.Trick.Leader, p.Trick.Cards)
	if err != nil {
		return err
	}
	p.Piles[winner.Team()] = append(p.Piles[winner.Team()], captured...)
	p.LastTrick = &CompletedTrick{Leader: p.Trick.Leader, Cards: captured, Winner: winner}
	p.TricksPlayed++
	p.Trick = Trick{Leader: winner, Cards: []card.Card{}}
	g.current = winner

	if p.TricksPlayed == TricksPerRound {
		g.finishRound(p, winner)
	}
	return nil
}

// LegalPlays 返回某座位当前可以打出的手牌下标，不在出牌阶段或未轮到时为空
func (g *Game) LegalPlays(s seat.Seat) []int {
	p, ok := g.phase.(*PlayPhase)
	if !ok || s != g.current {
		return nil
	}
	return rule.LegalPlays(g.hands[s], p.Trick.Cards, p.Trump, g.rules.Play)
}
